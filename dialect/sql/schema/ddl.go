package schema

import (
	"fmt"
	"strings"

	"github.com/syssam/scaffold/dialect/sql"
	"github.com/syssam/scaffold/schema"
	"github.com/syssam/scaffold/schema/field"
)

// TriggerSuffix is appended to the table name to name the timestamp
// trigger and its function.
const TriggerSuffix = "_touch_modified_at"

// DDL is the ordered list of statements that create a table and its
// timestamp trigger. Every statement is safe to run more than once.
type DDL struct {
	Table      string
	Statements []string
}

// String joins the statements, separated by blank lines.
func (d *DDL) String() string {
	return strings.Join(d.Statements, "\n\n") + "\n"
}

// Emitter renders PostgreSQL DDL for generated tables.
type Emitter struct {
	ifNotExists bool
	addColumns  []field.Spec
}

// EmitOption configures an Emitter.
type EmitOption func(*Emitter)

// WithoutIfNotExists emits a plain CREATE TABLE that fails if the table exists.
func WithoutIfNotExists() EmitOption {
	return func(e *Emitter) { e.ifNotExists = false }
}

// WithAddColumns appends ALTER TABLE ... ADD COLUMN IF NOT EXISTS for the
// given fields, so columns added to an existing table are created too.
// Existing rows get the zero value of the field's Go type, which the
// generated scanner can read.
func WithAddColumns(fields ...field.Spec) EmitOption {
	return func(e *Emitter) { e.addColumns = append(e.addColumns, fields...) }
}

// NewEmitter returns an Emitter with the given options.
func NewEmitter(opts ...EmitOption) *Emitter {
	e := &Emitter{ifNotExists: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit returns the DDL for t: the table with the system columns followed by
// one column per field in order, a function that refreshes modified_at and
// pins created_at on every update, and the BEFORE UPDATE trigger calling it.
func (e *Emitter) Emit(t *schema.Table) *DDL {
	table := sql.Ident(t.Name)
	fn := sql.Ident(t.Name + TriggerSuffix)

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if e.ifNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(table)
	b.WriteString(" (\n")
	var cols []string
	for _, c := range t.System() {
		cols = append(cols, fmt.Sprintf("\t%s %s", sql.Ident(c.Name), c.Storage))
	}
	for _, f := range t.Fields {
		cols = append(cols, fmt.Sprintf("\t%s %s", sql.Ident(f.Column()), f.Mapping().Storage))
	}
	b.WriteString(strings.Join(cols, ",\n"))
	b.WriteString("\n);")

	d := &DDL{Table: t.Name, Statements: []string{b.String()}}
	for _, f := range e.addColumns {
		d.Statements = append(d.Statements, fmt.Sprintf(
			"ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s DEFAULT %s;",
			table, sql.Ident(f.Column()), f.Mapping().Storage, f.Mapping().Zero,
		))
	}
	d.Statements = append(d.Statements,
		fmt.Sprintf(`CREATE OR REPLACE FUNCTION %s() RETURNS TRIGGER AS $$
BEGIN
	NEW.modified_at = now();
	NEW.created_at = OLD.created_at;
	RETURN NEW;
END;
$$ LANGUAGE plpgsql;`, fn),
		fmt.Sprintf("DROP TRIGGER IF EXISTS %s ON %s;", fn, table),
		fmt.Sprintf("CREATE TRIGGER %s\n\tBEFORE UPDATE ON %s\n\tFOR EACH ROW EXECUTE FUNCTION %s();", fn, table, fn),
	)
	return d
}

// Generate returns the default DDL for t.
func Generate(t *schema.Table) *DDL {
	return NewEmitter().Emit(t)
}

// DropStatements returns the statements that remove a generated table and
// its trigger function.
func DropStatements(table string) []string {
	return []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %s;", sql.Ident(table)),
		fmt.Sprintf("DROP FUNCTION IF EXISTS %s();", sql.Ident(table+TriggerSuffix)),
	}
}
