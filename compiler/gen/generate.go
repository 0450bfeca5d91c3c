package gen

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/scaffold/schema"
)

// Code is a rendered block: top-level declarations without a package
// clause, and the import paths they reference.
type Code struct {
	Table   string
	Source  string
	Imports []string
}

// Generator renders the per-table block and route lines with jennifer.
// A Generator is safe for concurrent use once its dialect is set.
type Generator struct {
	config  *Config
	dialect Dialect
}

// NewGenerator creates a generator from the default config and opts.
// You must call WithDialect() to set a dialect before calling Block().
//
// Example:
//
//	import "github.com/syssam/scaffold/compiler/gen/sql"
//
//	g, err := gen.NewGenerator(gen.WithRouter("router"))
//	g.WithDialect(sql.NewDialect(g))
//	code, err := g.Block(table)
func NewGenerator(opts ...Option) (*Generator, error) {
	c, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Generator{config: c}, nil
}

// WithDialect sets the dialect generator.
func (g *Generator) WithDialect(d Dialect) *Generator {
	if d != nil {
		g.dialect = d
	}
	return g
}

// =============================================================================
// GeneratorHelper interface implementation
// =============================================================================

// Config returns the generator configuration.
func (g *Generator) Config() *Config { return g.config }

// Router returns the router variable.
func (g *Generator) Router() *jen.Statement { return jen.Id(g.config.Router) }

// DB returns the database handle variable.
func (g *Generator) DB() *jen.Statement { return jen.Id(g.config.DB) }

// Verify Generator implements GeneratorHelper at compile time.
var _ GeneratorHelper = (*Generator)(nil)

// Type prepares t for generation with the generator's config.
func (g *Generator) Type(t *schema.Table) (*Type, error) {
	return NewType(g.config, t)
}

// Block renders the declarations generated for t: the record, the create
// request, the row scanner and the five handlers. The source is gofmt-clean.
func (g *Generator) Block(t *schema.Table) (*Code, error) {
	if g.dialect == nil {
		return nil, NewConfigError("Dialect", nil, "no dialect set: call WithDialect() before Block()")
	}
	typ, err := g.Type(t)
	if err != nil {
		return nil, err
	}
	f := g.newFile()
	for _, genFn := range []func(*Type) []jen.Code{
		g.dialect.GenRecord,
		g.dialect.GenScanner,
		g.dialect.GenCreate,
		g.dialect.GenQuery,
		g.dialect.GenUpdate,
		g.dialect.GenDelete,
	} {
		for _, decl := range genFn(typ) {
			f.Add(decl)
			f.Line()
		}
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, NewGenerationError("block", t.Name, "render declarations", err)
	}
	code, err := splitFile(buf.Bytes())
	if err != nil {
		return nil, NewGenerationError("block", t.Name, "parse rendered declarations", err)
	}
	code.Table = t.Name
	g.config.logger().Debug("block generated",
		"table", t.Name,
		"record", typ.Name,
		"imports", len(code.Imports),
	)
	return code, nil
}

// Routes renders the five route registrations of t, in order: create,
// list, get, update, delete.
func (g *Generator) Routes(t *schema.Table) ([]string, error) {
	if g.dialect == nil {
		return nil, NewConfigError("Dialect", nil, "no dialect set: call WithDialect() before Routes()")
	}
	typ, err := g.Type(t)
	if err != nil {
		return nil, err
	}
	f := g.newFile()
	var lines []string
	for _, r := range g.dialect.GenRoutes(typ) {
		var buf bytes.Buffer
		if err := jen.Add(r).RenderWithFile(&buf, f); err != nil {
			return nil, NewGenerationError("routes", t.Name, "render route", err)
		}
		lines = append(lines, strings.TrimSpace(buf.String()))
	}
	return lines, nil
}

// Check reports a *CollisionError when a package-level identifier
// generated for t is also generated for one of the existing tables, or
// when the routes of t would shadow the project's health route.
// An existing table with t's own name is skipped, since its block is
// about to be replaced.
func (g *Generator) Check(existing []string, t *schema.Table) error {
	if "/"+t.Name == HealthPath {
		return &CollisionError{Ident: HealthPath, Table: t.Name, Other: "the health route"}
	}
	mine := make(map[string]bool)
	for _, id := range identifiers(t.Name) {
		mine[id] = true
	}
	for _, name := range existing {
		if name == t.Name {
			continue
		}
		for _, id := range identifiers(name) {
			if mine[id] {
				return &CollisionError{Ident: id, Table: t.Name, Other: name}
			}
		}
	}
	return nil
}

func identifiers(table string) []string {
	return (&Type{Table: &schema.Table{Name: table}, Name: goIdent(pascal(singular(table)))}).Identifiers()
}

// ParseColumns returns the JSON tags of the record struct generated for
// table inside a previously spliced block, i.e. its column list at that
// time. It returns nil when the record is not found.
func ParseColumns(table, source string) ([]string, error) {
	fset := token.NewFileSet()
	af, err := parser.ParseFile(fset, "", "package p\n\n"+source, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}
	record := goIdent(pascal(singular(table)))
	var cols []string
	ast.Inspect(af, func(n ast.Node) bool {
		spec, ok := n.(*ast.TypeSpec)
		if !ok || spec.Name.Name != record {
			return true
		}
		st, ok := spec.Type.(*ast.StructType)
		if !ok {
			return false
		}
		for _, fld := range st.Fields.List {
			if fld.Tag == nil {
				continue
			}
			tag, err := strconv.Unquote(fld.Tag.Value)
			if err != nil {
				continue
			}
			if name, _, _ := strings.Cut(reflect.StructTag(tag).Get("json"), ","); name != "" && name != "-" {
				cols = append(cols, name)
			}
		}
		return false
	})
	return cols, nil
}

// newFile creates the jennifer file declarations are rendered into, with
// the conventional names of the packages handlers use.
func (g *Generator) newFile() *jen.File {
	f := jen.NewFile(g.config.Package)
	f.ImportNames(map[string]string{
		"github.com/gin-gonic/gin": "gin",
		"database/sql":             "sql",
		"encoding/json":            "json",
		"errors":                   "errors",
		"log/slog":                 "slog",
		"net/http":                 "http",
		"strconv":                  "strconv",
		"time":                     "time",
	})
	return f
}

// splitFile separates a rendered file into its import paths and the
// source following the import declaration.
func splitFile(src []byte) (*Code, error) {
	fset := token.NewFileSet()
	af, err := parser.ParseFile(fset, "", src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}
	start := af.Name.End()
	for _, d := range af.Decls {
		if gd, ok := d.(*ast.GenDecl); ok && gd.Tok == token.IMPORT {
			start = gd.End()
		}
	}
	code := &Code{Source: strings.TrimSpace(string(src[fset.Position(start).Offset:]))}
	for _, imp := range af.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return nil, err
		}
		code.Imports = append(code.Imports, path)
	}
	return code, nil
}
