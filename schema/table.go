package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/scaffold"
	"github.com/syssam/scaffold/schema/field"
	"github.com/syssam/scaffold/schema/mixin"
)

// Validation causes reported by Table.Validate.
var (
	ErrEmptyName      = errors.New("table name must be non-empty and normalised")
	ErrDuplicateField = errors.New("duplicate field name")
	ErrReservedColumn = errors.New("field name collides with a system column")
)

// Conflict checks a field name against the default system columns and the
// fields named earlier in the same table. Two names conflict when they
// are equal ignoring case or when they produce the same Go field name, as
// "createdAt" and "created_at" do.
func Conflict(name string, earlier ...string) error {
	return conflict(mixin.Default, name, earlier)
}

func conflict(mixins []mixin.Mixin, name string, earlier []string) error {
	key, goName := strings.ToLower(name), field.GoName(name)
	for _, c := range mixin.Columns(mixins...) {
		if key == strings.ToLower(c.Name) || goName == c.GoName {
			return scaffold.NewValidationError(name, fmt.Errorf("%w %s", ErrReservedColumn, c.Name))
		}
	}
	for _, other := range earlier {
		if key == strings.ToLower(other) || goName == field.GoName(other) {
			return scaffold.NewValidationError(name, fmt.Errorf("%w: %s", ErrDuplicateField, other))
		}
	}
	return nil
}

// Table is the unit of generation: a normalised table name and the
// user-declared fields in order. System columns come from Mixins.
type Table struct {
	Name   string        `yaml:"table" json:"table"`
	Fields []field.Spec  `yaml:"fields" json:"fields"`
	Mixins []mixin.Mixin `yaml:"-" json:"-"`
}

// New normalises name and returns a validated table.
func New(name string, fields ...field.Spec) (*Table, error) {
	t := &Table{Name: TableName(name), Fields: fields}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(name string, fields ...field.Spec) *Table {
	t, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return t
}

// TableName derives a table name from a project name: lower-cased, every
// run of characters outside [a-z0-9] collapsed to one underscore, and
// surrounding underscores trimmed. A name starting with a digit gets a
// "t_" prefix. Both "My-Cool_API" and "my_cool_api" yield "my_cool_api".
func TableName(project string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(project) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	name := b.String()
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "t_" + name
	}
	return name
}

// Validate checks the table name and the field list. Every violation is
// reported, joined in an AggregateError when there is more than one.
func (t *Table) Validate() error {
	var errs []error
	if t.Name == "" || TableName(t.Name) != t.Name {
		errs = append(errs, scaffold.NewValidationError(t.Name, ErrEmptyName))
	}
	var earlier []string
	for _, f := range t.Fields {
		if err := f.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := conflict(t.mixins(), f.Name, earlier); err != nil {
			errs = append(errs, err)
			continue
		}
		earlier = append(earlier, f.Name)
	}
	if err := scaffold.NewAggregateError(errs...); err != nil {
		return fmt.Errorf("table %q: %w", t.Name, err)
	}
	return nil
}

// System returns the system columns of the table.
func (t *Table) System() []mixin.Column {
	return mixin.Columns(t.mixins()...)
}

// Columns returns every column name in storage order: system columns
// first, then the user fields as declared.
func (t *Table) Columns() []string {
	cols := mixin.Names(t.mixins()...)
	for _, f := range t.Fields {
		cols = append(cols, f.Column())
	}
	return cols
}

// FieldColumns returns the user field column names in order.
func (t *Table) FieldColumns() []string {
	cols := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		cols[i] = f.Column()
	}
	return cols
}

// HasField reports whether the table declares a field with the given name.
func (t *Table) HasField(name string) bool {
	for _, f := range t.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func (t *Table) mixins() []mixin.Mixin {
	if t.Mixins == nil {
		return mixin.Default
	}
	return t.Mixins
}
