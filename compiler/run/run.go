// Package run drives one scaffolding run: it splices the generated block
// and routes of a table into the target file, formats and writes it, then
// emits, stores and applies the table's DDL.
package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/imports"

	"github.com/syssam/scaffold"
	"github.com/syssam/scaffold/compiler/gen"
	sqlgen "github.com/syssam/scaffold/compiler/gen/sql"
	"github.com/syssam/scaffold/compiler/splice"
	"github.com/syssam/scaffold/dialect"
	"github.com/syssam/scaffold/dialect/sql"
	sqlschema "github.com/syssam/scaffold/dialect/sql/schema"
	"github.com/syssam/scaffold/schema"
	"github.com/syssam/scaffold/schema/field"
)

// Runner splices tables into a Go source file.
//
// A Runner may be shared, but runs targeting the same file must not
// overlap: each run reads the file, rewrites it and renames the result
// into place, so concurrent runs lose each other's blocks.
type Runner struct {
	gen        *gen.Generator
	splicer    *splice.Splicer
	routes     *splice.RouteSplicer
	driver     dialect.Driver
	searchPath string
	timeout    time.Duration
	migrations string
	format     bool
	strict     bool
	now        func() time.Time
	log        *slog.Logger
}

// New returns a Runner. Without options it generates handlers with the
// default generator settings, formats the result with goimports and
// neither stores nor applies DDL.
func New(opts ...Option) (*Runner, error) {
	r := &Runner{format: true, now: time.Now, log: slog.Default()}
	var errs []error
	for _, opt := range opts {
		if err := opt(r); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	var err error
	if r.gen == nil {
		if r.gen, err = sqlgen.New(gen.WithLogger(r.log)); err != nil {
			return nil, err
		}
	}
	router := r.gen.Config().Router
	if r.splicer == nil {
		if r.splicer, err = splice.New(splice.WithRouter(router), splice.WithLogger(r.log)); err != nil {
			return nil, err
		}
	}
	if r.routes == nil {
		if r.routes, err = splice.NewRouteSplicer(splice.WithRouter(router), splice.WithLogger(r.log)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Result describes a completed run.
type Result struct {
	Table string
	Path  string
	// Replaced reports whether the file already held a block for the table.
	Replaced bool
	// Added lists the fields whose columns the previous block lacked.
	Added []field.Spec
	DDL   *sqlschema.DDL
	// Migration is set when a migration directory is configured.
	Migration *sqlschema.Migration
	Applied   bool
	// Backup is the copy of the original file, kept when the run has
	// warnings. It is empty otherwise.
	Backup   string
	Warnings []error
}

// BackupError reports a failure after the original file was copied. The
// copy is left in place.
type BackupError struct {
	Backup string
	Err    error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("%v (original kept at %s)", e.Err, e.Backup)
}

func (e *BackupError) Unwrap() error { return e.Err }

// Table generates t into the file at path, replacing a previous block of
// the same table, and emits its DDL.
func (r *Runner) Table(ctx context.Context, path string, t *schema.Table) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lint := sqlschema.ValidateTable(t)
	if lint.HasErrors() {
		return nil, fmt.Errorf("table %q: %s", t.Name, strings.TrimSpace(lint.String()))
	}
	for _, w := range lint.Warnings {
		r.log.WarnContext(ctx, "table definition", "table", t.Name, "warning", w.Error())
	}
	src, mode, err := read(path)
	if err != nil {
		return nil, err
	}
	doc := r.splicer.Parse(src)
	if err := r.gen.Check(doc.Tables(), t); err != nil {
		return nil, err
	}
	res := &Result{Table: t.Name, Path: path}
	current := r.columns(ctx, doc, t.Name)
	res.Replaced = len(doc.Lookup(t.Name)) > 0
	var diffOpts []sqlschema.ValidateOption
	if !r.strict {
		diffOpts = append(diffOpts, sqlschema.AllowDropColumn())
	}
	diff := sqlschema.ValidateDiff(current, t, diffOpts...)
	if diff.HasErrors() {
		return nil, fmt.Errorf("table %q: %s", t.Name, strings.TrimSpace(diff.String()))
	}
	for _, w := range diff.Warnings {
		if w.Breaking {
			res.Warnings = append(res.Warnings, w)
			r.log.WarnContext(ctx, "column dropped", "table", t.Name, "column", w.Column)
		}
	}
	res.Added = sqlschema.Added(current, t)

	code, err := r.gen.Block(t)
	if err != nil {
		return nil, err
	}
	routes, err := r.gen.Routes(t)
	if err != nil {
		return nil, err
	}

	backup, err := r.backup(path, src, mode)
	if err != nil {
		return nil, err
	}
	keep := func(err error) (*Result, error) {
		return nil, &BackupError{Backup: backup, Err: err}
	}
	out, err := r.splicer.Splice(src, code.Source, t.Name)
	if err != nil {
		return keep(withPath(err, path))
	}
	spliced, err := r.routes.Splice(out, t.Name, routes)
	switch {
	case scaffold.IsSoftAnchorNotFound(err):
		res.Warnings = append(res.Warnings, withPath(err, path))
		r.log.WarnContext(ctx, "routes not registered", "table", t.Name, "path", path, "backup", backup)
	case err != nil:
		return keep(err)
	default:
		out = spliced
	}
	buf, err := r.formatSource(path, []byte(out), code.Imports)
	if err != nil {
		return keep(err)
	}
	if err := writeFile(path, buf, mode); err != nil {
		return keep(err)
	}

	res.DDL = sqlschema.NewEmitter(sqlschema.WithAddColumns(res.Added...)).Emit(t)
	if r.migrations != "" {
		if res.Migration, err = sqlschema.WriteMigration(r.migrations, res.DDL, r.now()); err != nil {
			return keep(err)
		}
	}
	if r.driver != nil {
		if err := sqlschema.Apply(r.session(ctx), r.driver, res.DDL); err != nil {
			return keep(err)
		}
		res.Applied = true
	}
	if len(res.Warnings) > 0 {
		res.Backup = backup
	} else if err := os.Remove(backup); err != nil {
		return nil, fmt.Errorf("remove backup: %w", err)
	}
	r.log.InfoContext(ctx, "table generated",
		"table", t.Name,
		"path", path,
		"replaced", res.Replaced,
		"added", len(res.Added),
		"applied", res.Applied,
	)
	return res, nil
}

// Remove deletes the block and routes of table from the file at path. It
// returns a *scaffold.NotFoundError when the file holds neither.
func (r *Runner) Remove(ctx context.Context, path, table string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := schema.TableName(table)
	if name == "" {
		return nil, scaffold.NewInputError("table", table, schema.ErrEmptyName)
	}
	src, mode, err := read(path)
	if err != nil {
		return nil, err
	}
	out, block := r.splicer.Remove(src, name)
	out, routes := r.routes.RemoveRoutes(out, name)
	if !block && !routes {
		return nil, scaffold.NewNotFoundError("table", name)
	}
	backup, err := r.backup(path, src, mode)
	if err != nil {
		return nil, err
	}
	buf, err := r.formatSource(path, []byte(out), nil)
	if err != nil {
		return nil, &BackupError{Backup: backup, Err: err}
	}
	if err := writeFile(path, buf, mode); err != nil {
		return nil, &BackupError{Backup: backup, Err: err}
	}
	if err := os.Remove(backup); err != nil {
		return nil, fmt.Errorf("remove backup: %w", err)
	}
	r.log.InfoContext(ctx, "table removed", "table", name, "path", path, "block", block, "routes", routes)
	return &Result{Table: name, Path: path, Replaced: block}, nil
}

// Drop drops table and its trigger function through the configured driver.
func (r *Runner) Drop(ctx context.Context, table string) error {
	if r.driver == nil {
		return &ConfigError{Option: "Driver", Message: "no driver configured"}
	}
	return sqlschema.Drop(r.session(ctx), r.driver, table)
}

// Init writes the project files for project into dir.
func (r *Runner) Init(ctx context.Context, dir, project string, force bool) (*gen.WriterMetrics, error) {
	p, err := gen.NewProject(r.gen.Config(), project)
	if err != nil {
		return nil, err
	}
	w := gen.NewProjectWriter(p, dir).WithForce(force)
	if err := w.Write(ctx); err != nil {
		return nil, err
	}
	r.log.InfoContext(ctx, "project written", "project", p.Slug, "dir", dir)
	return w.Metrics(), nil
}

// session adds the configured session variables to ctx.
func (r *Runner) session(ctx context.Context) context.Context {
	if r.searchPath != "" {
		ctx = sql.WithVar(ctx, "search_path", r.searchPath)
	}
	if r.timeout > 0 {
		ctx = sql.WithIntVar(ctx, "statement_timeout", int(r.timeout.Milliseconds()))
	}
	return ctx
}

// columns returns the columns of the block previously generated for
// table, or nil when there is none or it cannot be parsed.
func (r *Runner) columns(ctx context.Context, doc *splice.Document, table string) []string {
	blocks := doc.Lookup(table)
	if len(blocks) == 0 {
		return nil
	}
	cols, err := gen.ParseColumns(table, strings.Join(doc.Body(blocks[0]), "\n"))
	if err != nil {
		r.log.WarnContext(ctx, "previous block not parsed", "table", table, "error", err)
		return nil
	}
	return cols
}

func (r *Runner) backup(path, src string, mode fs.FileMode) (string, error) {
	name := fmt.Sprintf("%s.%s.bak", path, uuid.NewString())
	if err := os.WriteFile(name, []byte(src), mode); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return name, nil
}

// formatSource adds the import paths to src and formats it, with
// goimports when formatting is enabled and gofmt otherwise.
func (r *Runner) formatSource(path string, src []byte, paths []string) ([]byte, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return nil, &gen.GenerationError{Phase: "format", File: path, Message: "parse spliced source", Cause: err}
	}
	for _, p := range paths {
		astutil.AddImport(fset, f, p)
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, f); err != nil {
		return nil, &gen.GenerationError{Phase: "format", File: path, Message: "print spliced source", Cause: err}
	}
	if !r.format {
		return buf.Bytes(), nil
	}
	out, err := imports.Process(path, buf.Bytes(), &imports.Options{Comments: true, TabIndent: true, TabWidth: 8})
	if err != nil {
		return nil, &gen.GenerationError{Phase: "format", File: path, Message: "goimports", Cause: err}
	}
	return out, nil
}

func read(path string) (string, fs.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, fmt.Errorf("read source: %w", err)
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", 0, fmt.Errorf("read source: %w", err)
	}
	return string(buf), info.Mode().Perm(), nil
}

// writeFile replaces path through a temporary file in the same directory,
// so readers never observe a partial write.
func writeFile(path string, data []byte, mode fs.FileMode) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = f.Chmod(mode); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// withPath records the spliced file on an anchor error.
func withPath(err error, path string) error {
	var anchor *scaffold.AnchorNotFoundError
	if errors.As(err, &anchor) && anchor.Path == "" {
		anchor.Path = path
	}
	return err
}
