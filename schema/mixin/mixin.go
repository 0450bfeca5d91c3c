package mixin

// Column is a system column that every generated table carries ahead of
// the user-declared fields.
type Column struct {
	Name    string // column name, e.g. "created_at"
	Storage string // column definition after the name, e.g. "BIGSERIAL PRIMARY KEY"
	GoName  string // struct field name, e.g. "CreatedAt"
	GoPkg   string // import path of the Go host type, empty for builtins
	GoType  string // Go host type identifier, e.g. "int64" or "Time"
	Comment string
}

// Mixin is a reusable set of system columns.
type Mixin interface {
	Columns() []Column
}

// ID adds the surrogate primary key.
type ID struct{}

// Columns returns the id column.
func (ID) Columns() []Column {
	return []Column{
		{
			Name:    "id",
			Storage: "BIGSERIAL PRIMARY KEY",
			GoName:  "ID",
			GoType:  "int64",
			Comment: "Surrogate primary key",
		},
	}
}

// Time adds created_at and modified_at. Both default to now() on insert;
// the table trigger refreshes modified_at and pins created_at on update.
type Time struct{}

// Columns returns the timestamp columns.
func (Time) Columns() []Column {
	return []Column{
		{
			Name:    "created_at",
			Storage: "TIMESTAMPTZ NOT NULL DEFAULT now()",
			GoName:  "CreatedAt",
			GoPkg:   "time",
			GoType:  "Time",
			Comment: "Set on insert, never changed",
		},
		{
			Name:    "modified_at",
			Storage: "TIMESTAMPTZ NOT NULL DEFAULT now()",
			GoName:  "ModifiedAt",
			GoPkg:   "time",
			GoType:  "Time",
			Comment: "Refreshed on every update",
		},
	}
}

// Default is the mixin list applied to every generated table.
var Default = []Mixin{ID{}, Time{}}

// Columns flattens the columns of the given mixins in order.
func Columns(mixins ...Mixin) []Column {
	var cols []Column
	for _, m := range mixins {
		cols = append(cols, m.Columns()...)
	}
	return cols
}

// Names returns the column names of the given mixins.
func Names(mixins ...Mixin) []string {
	cols := Columns(mixins...)
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
