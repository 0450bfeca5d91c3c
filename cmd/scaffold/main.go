// Command scaffold generates gin CRUD services backed by PostgreSQL.
//
//	scaffold init shop
//	scaffold table --table users --field name:string --field age:int --migrate
//	scaffold watch --spec tables.yml
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/syssam/scaffold/compiler/config"
)

// CLI is the command line of scaffold.
type CLI struct {
	Dir         string `help:"Project directory." short:"C" default:"." type:"existingdir"`
	Config      string `help:"Settings file, relative to the project directory." default:"scaffold.yml"`
	Source      string `help:"Go file tables are spliced into. Overrides the settings file."`
	DatabaseURL string `help:"PostgreSQL URL used by --apply. Overrides the settings file." env:"DATABASE_URL" name:"database-url"`
	LogFormat   string `help:"Log format." enum:"text,json" default:"text"`
	Verbose     bool   `help:"Enable debug logging." short:"v"`

	Init   InitCmd   `cmd:"" help:"Write docker-compose.yml, go.mod, Dockerfile and main.go."`
	Table  TableCmd  `cmd:"" help:"Generate or replace the handlers and routes of tables."`
	Remove RemoveCmd `cmd:"" help:"Remove the handlers and routes of a table."`
	DDL    DDLCmd    `cmd:"" name:"ddl" help:"Print the DDL of a table."`
	Watch  WatchCmd  `cmd:"" help:"Regenerate the tables of a spec file whenever it changes."`
	Types  TypesCmd  `cmd:"" help:"List the field types."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := Main(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "scaffold:", err)
		os.Exit(1)
	}
}

// Main parses args and runs the selected command.
func Main(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("scaffold"),
		kong.Description("Scaffold gin CRUD services backed by PostgreSQL."),
		kong.Writers(out, errOut),
		kong.UsageOnError(),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	app, err := cli.app(ctx, in, out, errOut)
	if err != nil {
		return err
	}
	return kctx.Run(app)
}

// app loads the settings and applies the global flags on top of them.
func (c *CLI) app(ctx context.Context, in io.Reader, out, errOut io.Writer) (*App, error) {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(errOut, hopts)
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(errOut, hopts)
	}
	logger := slog.New(handler)

	path := c.Config
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.Dir, path)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cfg.Project == "" {
		abs, err := filepath.Abs(c.Dir)
		if err != nil {
			return nil, err
		}
		cfg.Project = filepath.Base(abs)
	}
	if c.Source != "" {
		cfg.Source = c.Source
	}
	if c.DatabaseURL != "" {
		cfg.Database.URL = c.DatabaseURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.DebugContext(ctx, "settings loaded", "path", path, "project", cfg.Project, "source", cfg.Source)
	return &App{
		ctx:        ctx,
		Dir:        c.Dir,
		ConfigPath: path,
		Config:     cfg,
		Log:        logger,
		Verbose:    c.Verbose,
		In:         in,
		Out:        out,
	}, nil
}
