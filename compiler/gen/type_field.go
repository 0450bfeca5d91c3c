package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/scaffold/dialect/sql"
	"github.com/syssam/scaffold/schema/field"
	"github.com/syssam/scaffold/schema/mixin"
)

// Field is a column of a generated record, either a system column or a
// user-declared field.
type Field struct {
	// Column is the storage column name, also used verbatim as JSON key.
	Column string
	// StructField is the exported Go field name.
	StructField string
	// System marks id, created_at and modified_at.
	System bool

	goPkg  string
	goType string
}

func newField(s field.Spec) *Field {
	m := s.Mapping()
	f := &Field{
		Column:      s.Column(),
		StructField: s.GoName(),
		goPkg:       m.GoPkg,
		goType:      m.GoType,
	}
	if m.GoPkg != "" {
		f.goType = m.GoIdent
	}
	return f
}

func newSystemField(c mixin.Column) *Field {
	return &Field{
		Column:      c.Name,
		StructField: c.GoName,
		System:      true,
		goPkg:       c.GoPkg,
		goType:      c.GoType,
	}
}

// GoType returns the jennifer code of the Go host type.
func (f *Field) GoType() jen.Code {
	if f.goPkg != "" {
		return jen.Qual(f.goPkg, f.goType)
	}
	return jen.Id(f.goType)
}

// Ident returns the column as it appears in SQL text.
func (f *Field) Ident() string {
	return sql.Ident(f.Column)
}

// Tags returns the struct tags of the field.
func (f *Field) Tags() map[string]string {
	return map[string]string{"json": f.Column}
}
