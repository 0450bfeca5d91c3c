package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/scaffold"
	"github.com/syssam/scaffold/schema"
	"github.com/syssam/scaffold/schema/field"
)

// ErrDuplicateTable is returned when a spec file declares a table twice.
var ErrDuplicateTable = errors.New("duplicate table")

// Spec is the content of a table spec file:
//
//	tables:
//	  - table: users
//	    fields:
//	      - name: email
//	        type: string
//	      - age:int
//
// A field is either a name/type mapping or the "name:type" shorthand
// accepted on the command line. A file holding a single table may omit
// the tables list.
type Spec struct {
	Path   string   `yaml:"-"`
	Tables []*Table `yaml:"tables"`
}

// Table is a table as declared in a spec file.
type Table struct {
	Name   string   `yaml:"table"`
	Fields []*Field `yaml:"fields,omitempty"`
	Pos    Position `yaml:"-"`
}

// Field is a field as declared in a spec file.
type Field struct {
	Name string   `yaml:"name"`
	Type string   `yaml:"type"`
	Pos  Position `yaml:"-"`
}

// Position describes a position in the spec file.
type Position struct {
	Line   int
	Column int
}

// String implements fmt.Stringer.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Table) UnmarshalYAML(n *yaml.Node) error {
	type plain Table
	if err := n.Decode((*plain)(t)); err != nil {
		return err
	}
	t.Pos = Position{Line: n.Line, Column: n.Column}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Field) UnmarshalYAML(n *yaml.Node) error {
	f.Pos = Position{Line: n.Line, Column: n.Column}
	if n.Kind == yaml.ScalarNode {
		name, typ, ok := strings.Cut(n.Value, ":")
		if !ok {
			return fmt.Errorf("line %d: field %q: expected \"name:type\"", n.Line, n.Value)
		}
		f.Name, f.Type = strings.TrimSpace(name), strings.TrimSpace(typ)
		return nil
	}
	// "- age: int" is a one-key mapping.
	if n.Kind == yaml.MappingNode && len(n.Content) == 2 {
		if k := n.Content[0].Value; k != "name" && k != "type" {
			f.Name, f.Type = k, n.Content[1].Value
			return nil
		}
	}
	type plain Field
	return n.Decode((*plain)(f))
}

// LoadFile reads and decodes the spec file at path.
func LoadFile(path string) (*Spec, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec: %w", err)
	}
	s, err := Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// Decode decodes a spec from r.
func Decode(r io.Reader) (*Spec, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Spec{}, nil
		}
		return nil, fmt.Errorf("decode spec: %w", err)
	}
	s := &Spec{}
	if single(&doc) {
		t := &Table{}
		if err := doc.Decode(t); err != nil {
			return nil, fmt.Errorf("decode spec: %w", err)
		}
		s.Tables = []*Table{t}
		return s, nil
	}
	if err := doc.Decode(s); err != nil {
		return nil, fmt.Errorf("decode spec: %w", err)
	}
	return s, nil
}

// single reports whether the document is one table rather than a list.
func single(doc *yaml.Node) bool {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return false
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i < len(m.Content); i += 2 {
		if m.Content[i].Value == "table" {
			return true
		}
	}
	return false
}

// Schema validates the declared tables and converts them. Every failure
// is reported with its position.
func (s *Spec) Schema() ([]*schema.Table, error) {
	var (
		errs   []error
		tables []*schema.Table
		seen   = make(map[string]Position)
	)
	for _, t := range s.Tables {
		tbl, err := t.Schema()
		if err != nil {
			errs = append(errs, s.errorf(t.Pos, "%w", err))
			continue
		}
		if pos, ok := seen[tbl.Name]; ok {
			errs = append(errs, s.errorf(t.Pos, "table %q: %w (first declared at %s)", tbl.Name, ErrDuplicateTable, pos))
			continue
		}
		seen[tbl.Name] = t.Pos
		tables = append(tables, tbl)
	}
	if err := scaffold.NewAggregateError(errs...); err != nil {
		return nil, err
	}
	return tables, nil
}

// Lookup returns the declared table whose normalised name is name.
func (s *Spec) Lookup(name string) (*Table, bool) {
	for _, t := range s.Tables {
		if schema.TableName(t.Name) == name {
			return t, true
		}
	}
	return nil, false
}

func (s *Spec) errorf(pos Position, format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	if s.Path == "" {
		return fmt.Errorf("%s: %w", pos, err)
	}
	return fmt.Errorf("%s:%s: %w", s.Path, pos, err)
}

// Schema converts the table, resolving field type tokens.
func (t *Table) Schema() (*schema.Table, error) {
	var (
		errs   []error
		fields []field.Spec
	)
	for _, f := range t.Fields {
		typ, err := field.ParseType(f.Type)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %q at %s: %w", f.Name, f.Pos, err))
			continue
		}
		fields = append(fields, field.Spec{Name: f.Name, Type: typ})
	}
	if err := scaffold.NewAggregateError(errs...); err != nil {
		return nil, fmt.Errorf("table %q: %w", t.Name, err)
	}
	return schema.New(t.Name, fields...)
}

// FromFlags builds a table from a name and "name:type" field flags.
func FromFlags(table string, fields []string) (*schema.Table, error) {
	var specs []field.Spec
	for _, f := range fields {
		spec, err := field.Parse(f)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return schema.New(table, specs...)
}

// Marshal encodes tables in the spec file format, using the shorthand
// field form.
func Marshal(tables ...*schema.Table) ([]byte, error) {
	type table struct {
		Name   string   `yaml:"table"`
		Fields []string `yaml:"fields,omitempty"`
	}
	doc := struct {
		Tables []table `yaml:"tables"`
	}{}
	for _, t := range tables {
		out := table{Name: t.Name}
		for _, f := range t.Fields {
			out.Fields = append(out.Fields, f.String())
		}
		doc.Tables = append(doc.Tables, out)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode spec: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode spec: %w", err)
	}
	return buf.Bytes(), nil
}
