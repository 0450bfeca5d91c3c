package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/scaffold/compiler/gen"
)

// Dialect generates gin handlers over database/sql for PostgreSQL.
type Dialect struct {
	helper gen.GeneratorHelper
}

// NewDialect creates a new SQL dialect generator.
func NewDialect(helper gen.GeneratorHelper) *Dialect {
	return &Dialect{helper: helper}
}

// Verify Dialect implements gen.Dialect at compile time.
var _ gen.Dialect = (*Dialect)(nil)

// New is a convenience function returning a generator that uses the SQL
// dialect.
//
// Example:
//
//	import "github.com/syssam/scaffold/compiler/gen/sql"
//	g, err := sql.New(gen.WithRouter("router"))
//	code, err := g.Block(table)
func New(opts ...gen.Option) (*gen.Generator, error) {
	g, err := gen.NewGenerator(opts...)
	if err != nil {
		return nil, err
	}
	return g.WithDialect(NewDialect(g)), nil
}

// GenRecord generates the record struct and the create request.
func (d *Dialect) GenRecord(t *gen.Type) []jen.Code {
	return genRecord(d.helper, t)
}

// GenScanner generates the positional row scanner.
func (d *Dialect) GenScanner(t *gen.Type) []jen.Code {
	return genScanner(d.helper, t)
}

// GenCreate generates the create handler.
func (d *Dialect) GenCreate(t *gen.Type) []jen.Code {
	return genCreate(d.helper, t)
}

// GenQuery generates the get and list handlers.
func (d *Dialect) GenQuery(t *gen.Type) []jen.Code {
	return genQuery(d.helper, t)
}

// GenUpdate generates the update handler.
func (d *Dialect) GenUpdate(t *gen.Type) []jen.Code {
	return genUpdate(d.helper, t)
}

// GenDelete generates the delete handler.
func (d *Dialect) GenDelete(t *gen.Type) []jen.Code {
	return genDelete(d.helper, t)
}

// GenRoutes generates the five route registrations.
func (d *Dialect) GenRoutes(t *gen.Type) []jen.Code {
	return genRoutes(d.helper, t)
}

func genRoutes(h gen.GeneratorHelper, t *gen.Type) []jen.Code {
	route := func(method, path, handler string) jen.Code {
		return h.Router().Dot(method).Call(jen.Lit(path), jen.Id(handler))
	}
	return []jen.Code{
		route("POST", t.Path(), t.CreateHandler()),
		route("GET", t.Path(), t.ListHandler()),
		route("GET", t.ItemPath(), t.GetHandler()),
		route("PUT", t.ItemPath(), t.UpdateHandler()),
		route("DELETE", t.ItemPath(), t.DeleteHandler()),
	}
}
