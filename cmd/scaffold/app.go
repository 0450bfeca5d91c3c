package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"

	"github.com/syssam/scaffold/compiler/config"
	"github.com/syssam/scaffold/compiler/gen"
	sqlgen "github.com/syssam/scaffold/compiler/gen/sql"
	"github.com/syssam/scaffold/compiler/run"
	"github.com/syssam/scaffold/compiler/splice"
	"github.com/syssam/scaffold/dialect"
	"github.com/syssam/scaffold/dialect/sql"
)

// App is shared by the commands.
type App struct {
	ctx        context.Context
	Dir        string
	ConfigPath string
	Config     *config.Config
	Log        *slog.Logger
	Verbose    bool
	In         io.Reader
	Out        io.Writer
}

// Context returns the context the command runs under.
func (a *App) Context() context.Context { return a.ctx }

// Source returns the path of the file tables are spliced into.
func (a *App) Source() string { return a.path(a.Config.Source) }

func (a *App) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.Dir, p)
}

// DDLFlags are shared by the commands that emit DDL.
type DDLFlags struct {
	Apply   bool `help:"Apply the DDL to database.url."`
	Migrate bool `help:"Write the DDL to the migrations directory."`
}

// Runner builds the pipeline from the settings. The returned close func
// releases the database connection, if any.
func (a *App) Runner(flags DDLFlags, opts ...run.Option) (*run.Runner, func() error, error) {
	cfg := a.Config
	g, err := sqlgen.New(append(cfg.GenOptions(), gen.WithLogger(a.Log))...)
	if err != nil {
		return nil, nil, err
	}
	sopts := append(cfg.SpliceOptions(), splice.WithLogger(a.Log))
	s, err := splice.New(sopts...)
	if err != nil {
		return nil, nil, err
	}
	rs, err := splice.NewRouteSplicer(sopts...)
	if err != nil {
		return nil, nil, err
	}
	opts = append([]run.Option{
		run.WithGenerator(g),
		run.WithSplicer(s),
		run.WithRouteSplicer(rs),
		run.WithFormat(cfg.Format),
		run.WithLogger(a.Log),
	}, opts...)
	if flags.Migrate {
		if cfg.Migrations == "" {
			return nil, nil, errors.New("--migrate needs the migrations directory in " + config.FileName)
		}
		opts = append(opts, run.WithMigrations(a.path(cfg.Migrations)))
	}
	closer := func() error { return nil }
	if flags.Apply {
		drv, err := a.open()
		if err != nil {
			return nil, nil, err
		}
		closer = drv.Close
		opts = append(opts,
			run.WithDriver(drv),
			run.WithSearchPath(cfg.Database.Schema),
			run.WithStatementTimeout(cfg.Database.StatementTimeout),
		)
	}
	r, err := run.New(opts...)
	if err != nil {
		return nil, nil, errors.Join(err, closer())
	}
	return r, closer, nil
}

// open connects to database.url and checks the connection.
func (a *App) open() (dialect.Driver, error) {
	url := a.Config.Database.URL
	if url == "" {
		return nil, errors.New("--apply needs database.url in " + config.FileName + " or DATABASE_URL")
	}
	drv, err := sql.Open(dialect.Postgres, url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := drv.Ping(a.ctx, 5*time.Second); err != nil {
		return nil, errors.Join(fmt.Errorf("connect database: %w", err), drv.Close())
	}
	if a.Verbose {
		return dialect.Debug(drv, a.Log), nil
	}
	return drv, nil
}
