package sql

import (
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/require"

	"github.com/syssam/scaffold/compiler/gen"
	"github.com/syssam/scaffold/schema"
	"github.com/syssam/scaffold/schema/field"
)

// newHelper returns a generator with the default config.
func newHelper(t testing.TB, opts ...gen.Option) *gen.Generator {
	t.Helper()
	g, err := gen.NewGenerator(opts...)
	require.NoError(t, err)
	return g
}

// newType creates a Type for the given table and fields.
func newType(t testing.TB, table string, fields ...field.Spec) *gen.Type {
	t.Helper()
	typ, err := gen.NewType(gen.DefaultConfig(), schema.MustNew(table, fields...))
	require.NoError(t, err)
	return typ
}

// usersType is "users" with name:string and email:string.
func usersType(t testing.TB) *gen.Type {
	return newType(t, "users",
		field.MustNew("name", field.TypeString),
		field.MustNew("email", field.TypeString),
	)
}

// render renders the declarations the way Generator.Block does.
func render(codes []jen.Code) string {
	f := jen.NewFile("main")
	for _, c := range codes {
		f.Add(c)
		f.Line()
	}
	return f.GoString()
}
