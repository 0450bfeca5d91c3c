package gen

import (
	"fmt"
	"strings"

	"github.com/syssam/scaffold/dialect/sql"
	"github.com/syssam/scaffold/schema"
)

// Type is a table prepared for code generation: the Go names of everything
// the block declares and the columns in storage order.
type Type struct {
	*Config
	// Table is the validated table definition.
	Table *schema.Table
	// Name is the record type name, e.g. "User" for table "users".
	Name string
	// ID holds the surrogate key column.
	ID *Field
	// System holds every system column, ID included.
	System []*Field
	// Fields holds the user-declared fields in order.
	Fields []*Field
}

// NewType validates t and derives its Go names. Validation rejects two
// columns mapping to one Go field name, see schema.Conflict.
func NewType(c *Config, t *schema.Table) (*Type, error) {
	if c == nil {
		c = DefaultConfig()
	}
	if err := t.Validate(); err != nil {
		return nil, NewGenerationError("type", t.Name, "invalid table", err)
	}
	typ := &Type{
		Config: c,
		Table:  t,
		Name:   goIdent(pascal(singular(t.Name))),
	}
	for _, col := range t.System() {
		f := newSystemField(col)
		if col.Name == "id" {
			typ.ID = f
		}
		typ.System = append(typ.System, f)
	}
	if typ.ID == nil {
		return nil, NewGenerationError("type", t.Name, "table has no id column", nil)
	}
	for _, s := range t.Fields {
		typ.Fields = append(typ.Fields, newField(s))
	}
	return typ, nil
}

// Columns returns every column in storage order.
func (t *Type) Columns() []*Field {
	return append(append([]*Field{}, t.System...), t.Fields...)
}

// TableName returns the table name.
func (t *Type) TableName() string { return t.Table.Name }

// TableIdent returns the table name as it appears in SQL text.
func (t *Type) TableIdent() string { return sql.Ident(t.Table.Name) }

// Path returns the collection route path, e.g. "/users".
func (t *Type) Path() string { return "/" + t.Table.Name }

// ItemPath returns the item route path, e.g. "/users/:id".
func (t *Type) ItemPath() string { return t.Path() + "/:id" }

// Request returns the create request type name.
func (t *Type) Request() string { return "Create" + t.Name + "Request" }

// Scanner returns the row scanner function name.
func (t *Type) Scanner() string { return "scan" + t.Name }

// CreateHandler returns the create handler name.
func (t *Type) CreateHandler() string { return "create" + t.Name }

// GetHandler returns the get handler name.
func (t *Type) GetHandler() string { return "get" + t.Name }

// ListHandler returns the list handler name.
func (t *Type) ListHandler() string { return "list" + goIdent(pascal(plural(singular(t.Table.Name)))) }

// UpdateHandler returns the update handler name.
func (t *Type) UpdateHandler() string { return "update" + t.Name }

// DeleteHandler returns the delete handler name.
func (t *Type) DeleteHandler() string { return "delete" + t.Name }

// Identifiers returns every package-level identifier the block declares.
func (t *Type) Identifiers() []string {
	return []string{
		t.Name,
		t.Request(),
		t.Scanner(),
		t.CreateHandler(),
		t.GetHandler(),
		t.ListHandler(),
		t.UpdateHandler(),
		t.DeleteHandler(),
	}
}

// Selection returns the comma-separated column list of all columns.
func (t *Type) Selection() string {
	cols := t.Columns()
	idents := make([]string, len(cols))
	for i, c := range cols {
		idents[i] = c.Ident()
	}
	return strings.Join(idents, ", ")
}

// Placeholders returns "$from, ..., $from+n-1".
func Placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ps, ", ")
}
