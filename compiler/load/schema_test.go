package load

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/scaffold"
	"github.com/syssam/scaffold/schema"
	"github.com/syssam/scaffold/schema/field"
)

func TestDecode(t *testing.T) {
	s, err := Decode(strings.NewReader(`
tables:
  - table: users
    fields:
      - name: email
        type: string
      - age:int
      - active: 7
  - table: Widgets
`))
	require.NoError(t, err)
	require.Len(t, s.Tables, 2)

	users := s.Tables[0]
	assert.Equal(t, "users", users.Name)
	assert.Equal(t, 3, users.Pos.Line)
	require.Len(t, users.Fields, 3)
	assert.Equal(t, Field{Name: "email", Type: "string", Pos: Position{Line: 5, Column: 9}}, *users.Fields[0])
	assert.Equal(t, "age", users.Fields[1].Name)
	assert.Equal(t, "int", users.Fields[1].Type)
	assert.Equal(t, "active", users.Fields[2].Name)
	assert.Equal(t, "7", users.Fields[2].Type)

	tables, err := s.Schema()
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, schema.MustNew("users",
		field.MustNew("email", field.TypeString),
		field.MustNew("age", field.TypeInt),
		field.MustNew("active", field.TypeBool),
	), tables[0])
	assert.Equal(t, "widgets", tables[1].Name)
	assert.Empty(t, tables[1].Fields)

	tbl, ok := s.Lookup("widgets")
	assert.True(t, ok)
	assert.Equal(t, "Widgets", tbl.Name)
	_, ok = s.Lookup("orders")
	assert.False(t, ok)
}

func TestDecode_Single(t *testing.T) {
	s, err := Decode(strings.NewReader("table: orders\nfields: [total:double]\n"))
	require.NoError(t, err)
	tables, err := s.Schema()
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, []string{"total"}, tables[0].FieldColumns())
}

func TestDecode_Empty(t *testing.T) {
	s, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, s.Tables)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(strings.NewReader("tables: [\n"))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("table: t\nfields: [age]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `expected "name:type"`)
}

func TestSpec_SchemaErrors(t *testing.T) {
	s, err := Decode(strings.NewReader(`
tables:
  - table: users
    fields: [name:uuid, 1bad:int]
  - table: orders
  - table: Orders
`))
	require.NoError(t, err)
	s.Path = "spec.yml"

	_, err = s.Schema()
	require.Error(t, err)
	assert.True(t, scaffold.IsValidationError(err))
	assert.ErrorIs(t, err, field.ErrInvalidType)
	assert.ErrorIs(t, err, ErrDuplicateTable)
	assert.Contains(t, err.Error(), "spec.yml:3:5:")
	assert.Contains(t, err.Error(), "spec.yml:6:5:")
	assert.Contains(t, err.Error(), "first declared at 5:5")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.yml")
	require.NoError(t, os.WriteFile(path, []byte("table: users\nfields: [name:string]\n"), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path)
	require.Len(t, s.Tables, 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromFlags(t *testing.T) {
	tbl, err := FromFlags("My-Cool_API", []string{"name:string", "age:3"})
	require.NoError(t, err)
	assert.Equal(t, "my_cool_api", tbl.Name)
	assert.Equal(t, []field.Spec{
		field.MustNew("name", field.TypeString),
		field.MustNew("age", field.TypeInt),
	}, tbl.Fields)

	_, err = FromFlags("users", []string{"name"})
	assert.True(t, scaffold.IsValidationError(err))
	_, err = FromFlags("users", []string{"id:bigint"})
	assert.ErrorIs(t, err, schema.ErrReservedColumn)
}

func TestMarshal(t *testing.T) {
	users := schema.MustNew("users", field.MustNew("name", field.TypeString), field.MustNew("age", field.TypeInt))
	out, err := Marshal(users, schema.MustNew("widgets"))
	require.NoError(t, err)
	assert.Equal(t, `tables:
  - table: users
    fields:
      - name:string
      - age:int
  - table: widgets
`, string(out))

	s, err := Decode(strings.NewReader(string(out)))
	require.NoError(t, err)
	tables, err := s.Schema()
	require.NoError(t, err)
	assert.Equal(t, []*schema.Table{users, schema.MustNew("widgets")}, tables)
}
