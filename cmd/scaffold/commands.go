package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/syssam/scaffold/compiler/config"
	"github.com/syssam/scaffold/compiler/gen"
	"github.com/syssam/scaffold/compiler/load"
	"github.com/syssam/scaffold/compiler/prompt"
	"github.com/syssam/scaffold/compiler/run"
	"github.com/syssam/scaffold/compiler/watch"
	sqlschema "github.com/syssam/scaffold/dialect/sql/schema"
	"github.com/syssam/scaffold/schema"
)

// InitCmd writes the project files.
type InitCmd struct {
	Project string `arg:"" optional:"" help:"Project name. Defaults to the settings file, then the directory name."`
	Force   bool   `help:"Overwrite existing files."`
}

func (c *InitCmd) Run(app *App) error {
	if c.Project != "" {
		app.Config.Project = c.Project
	}
	r, closer, err := app.Runner(DDLFlags{})
	if err != nil {
		return err
	}
	defer closer()
	if _, err := r.Init(app.Context(), app.Dir, app.Config.Project, c.Force); err != nil {
		if gen.IsExist(err) {
			return fmt.Errorf("%w; use --force to overwrite", err)
		}
		return err
	}
	for _, name := range gen.ProjectFiles() {
		fmt.Fprintln(app.Out, "wrote", name)
	}
	// The settings file is written once and never overwritten.
	if _, err := os.Stat(app.ConfigPath); errors.Is(err, os.ErrNotExist) {
		buf, err := app.Config.Marshal()
		if err != nil {
			return err
		}
		if err := os.WriteFile(app.ConfigPath, buf, 0o644); err != nil {
			return fmt.Errorf("write settings: %w", err)
		}
		fmt.Fprintln(app.Out, "wrote", config.FileName)
	}
	return nil
}

// TableCmd generates tables.
type TableCmd struct {
	DDLFlags `embed:""`
	Table       string   `help:"Table name." short:"t"`
	Field       []string `help:"Field as name:type, repeatable." short:"f" sep:"none"`
	Spec        string   `help:"YAML file declaring tables." type:"existingfile"`
	Interactive bool     `help:"Prompt for the table name and fields." short:"i"`
	Strict      bool     `help:"Fail instead of warning when fields were removed."`
}

func (c *TableCmd) Run(app *App) error {
	tables, err := c.tables(app)
	if err != nil {
		return err
	}
	var opts []run.Option
	if c.Strict {
		opts = append(opts, run.WithStrict())
	}
	r, closer, err := app.Runner(c.DDLFlags, opts...)
	if err != nil {
		return err
	}
	defer closer()
	return generate(app.Context(), app, r, tables)
}

func (c *TableCmd) tables(app *App) ([]*schema.Table, error) {
	switch {
	case c.Spec != "":
		if c.Interactive || len(c.Field) > 0 {
			return nil, errors.New("--spec cannot be combined with --field or --interactive")
		}
		return specTables(c.Spec, c.Table)
	case c.Interactive:
		return c.prompt(app)
	case c.Table == "":
		return nil, errors.New("one of --table, --spec or --interactive is required")
	}
	t, err := load.FromFlags(c.Table, c.Field)
	if err != nil {
		return nil, err
	}
	return []*schema.Table{t}, nil
}

func (c *TableCmd) prompt(app *App) ([]*schema.Table, error) {
	ctx := app.Context()
	collector := prompt.New(app.In, app.Out)
	name := schema.TableName(c.Table)
	if name == "" {
		var err error
		if name, err = collector.Table(ctx); err != nil {
			return nil, err
		}
	}
	base, err := load.FromFlags(name, c.Field)
	if err != nil {
		return nil, err
	}
	more, err := collector.Fields(ctx, base.Fields...)
	if err != nil {
		return nil, err
	}
	t, err := schema.New(name, append(base.Fields, more...)...)
	if err != nil {
		return nil, err
	}
	return []*schema.Table{t}, nil
}

// specTables loads the tables of a spec file, or only the named one.
func specTables(path, only string) ([]*schema.Table, error) {
	s, err := load.LoadFile(path)
	if err != nil {
		return nil, err
	}
	tables, err := s.Schema()
	if err != nil {
		return nil, err
	}
	if only == "" {
		if len(tables) == 0 {
			return nil, fmt.Errorf("%s: no tables declared", path)
		}
		return tables, nil
	}
	name := schema.TableName(only)
	for _, t := range tables {
		if t.Name == name {
			return []*schema.Table{t}, nil
		}
	}
	return nil, fmt.Errorf("%s: table %q is not declared", path, name)
}

func generate(ctx context.Context, app *App, r *run.Runner, tables []*schema.Table) error {
	if lint := sqlschema.ValidateSchema(tables); lint.HasErrors() {
		return errors.New(strings.TrimSpace(lint.String()))
	}
	for _, t := range tables {
		res, err := r.Table(ctx, app.Source(), t)
		if err != nil {
			return fmt.Errorf("table %s: %w%s", t.Name, err, hint(err))
		}
		report(app, res)
	}
	return nil
}

// hint suggests a fix for database failures the user can act on.
func hint(err error) string {
	switch {
	case sqlschema.IsPermissionDenied(err):
		return "; the database.url role needs CREATE on the schema"
	case sqlschema.IsInvalidSchema(err):
		return "; create the schema named by database.schema first"
	case sqlschema.IsTimeout(err):
		return "; raise database.statement_timeout or retry when the table is not locked"
	}
	return ""
}

func report(app *App, res *run.Result) {
	verb := "added"
	if res.Replaced {
		verb = "replaced"
	}
	fmt.Fprintf(app.Out, "%s: %s in %s\n", res.Table, verb, res.Path)
	if len(res.Added) > 0 {
		cols := make([]string, len(res.Added))
		for i, f := range res.Added {
			cols[i] = f.Column()
		}
		fmt.Fprintf(app.Out, "%s: new columns %s\n", res.Table, strings.Join(cols, ", "))
	}
	if res.Migration != nil && res.Migration.Written {
		fmt.Fprintf(app.Out, "%s: wrote migration %s\n", res.Table, res.Migration.Name)
	}
	if res.Applied {
		fmt.Fprintf(app.Out, "%s: applied %d statements\n", res.Table, len(res.DDL.Statements))
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(app.Out, "%s: warning: %v\n", res.Table, w)
	}
	if res.Backup != "" {
		fmt.Fprintf(app.Out, "%s: original kept at %s\n", res.Table, res.Backup)
	}
}

// RemoveCmd removes a table.
type RemoveCmd struct {
	Table string `arg:"" help:"Table name."`
	Yes   bool   `help:"Do not ask for confirmation." short:"y"`
	Drop  bool   `help:"Also drop the table from database.url."`
}

func (c *RemoveCmd) Run(app *App) error {
	ctx := app.Context()
	name := schema.TableName(c.Table)
	if !c.Yes {
		q := fmt.Sprintf("Remove %s from %s?", name, app.Config.Source)
		if c.Drop {
			q = fmt.Sprintf("Remove %s from %s and drop the table?", name, app.Config.Source)
		}
		ok, err := prompt.New(app.In, app.Out).Confirm(ctx, q, false)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	r, closer, err := app.Runner(DDLFlags{Apply: c.Drop})
	if err != nil {
		return err
	}
	defer closer()
	res, err := r.Remove(ctx, app.Source(), c.Table)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "%s: removed from %s\n", res.Table, res.Path)
	if c.Drop {
		if err := r.Drop(ctx, res.Table); err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "%s: dropped\n", res.Table)
	}
	return nil
}

// DDLCmd prints DDL.
type DDLCmd struct {
	Table string   `arg:"" optional:"" help:"Table name."`
	Field []string `help:"Field as name:type, repeatable." short:"f" sep:"none"`
	Spec  string   `help:"YAML file declaring tables." type:"existingfile"`
	Lint  bool     `help:"Print lint findings before the DDL."`
}

func (c *DDLCmd) Run(app *App) error {
	var tables []*schema.Table
	switch {
	case c.Spec != "":
		var err error
		if tables, err = specTables(c.Spec, c.Table); err != nil {
			return err
		}
	case c.Table != "":
		t, err := load.FromFlags(c.Table, c.Field)
		if err != nil {
			return err
		}
		tables = append(tables, t)
	default:
		return errors.New("a table name or --spec is required")
	}
	if c.Lint {
		fmt.Fprintf(app.Out, "-- %s\n\n", strings.ReplaceAll(strings.TrimSpace(sqlschema.ValidateSchema(tables).String()), "\n", "\n-- "))
	}
	for i, t := range tables {
		if i > 0 {
			fmt.Fprintln(app.Out)
		}
		fmt.Fprint(app.Out, sqlschema.Generate(t).String())
	}
	return nil
}

// WatchCmd regenerates the tables of a spec file on change.
type WatchCmd struct {
	DDLFlags `embed:""`
	Spec   string `help:"YAML file declaring tables." required:""`
	Strict bool   `help:"Fail instead of warning when fields were removed."`
}

func (c *WatchCmd) Run(app *App) error {
	var opts []run.Option
	if c.Strict {
		opts = append(opts, run.WithStrict())
	}
	r, closer, err := app.Runner(c.DDLFlags, opts...)
	if err != nil {
		return err
	}
	defer closer()
	w, err := watch.New(c.Spec, func(ctx context.Context) error {
		tables, err := specTables(c.Spec, "")
		if err != nil {
			return err
		}
		return generate(ctx, app, r, tables)
	}, watch.WithLogger(app.Log))
	if err != nil {
		return err
	}
	return w.Run(app.Context())
}

// TypesCmd prints the field types.
type TypesCmd struct{}

func (c *TypesCmd) Run(app *App) error {
	fmt.Fprintln(app.Out, prompt.Menu())
	return nil
}
