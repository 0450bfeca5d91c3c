package run

import (
	"log/slog"
	"time"

	"github.com/syssam/scaffold/compiler/gen"
	"github.com/syssam/scaffold/compiler/splice"
	"github.com/syssam/scaffold/dialect"
)

// ConfigError is returned for an invalid Runner option.
type ConfigError struct {
	Option  string
	Message string
}

func (e *ConfigError) Error() string {
	return "run: invalid option " + e.Option + ": " + e.Message
}

// Option configures a Runner.
type Option func(*Runner) error

// WithGenerator sets the code generator. It must have a dialect.
func WithGenerator(g *gen.Generator) Option {
	return func(r *Runner) error {
		if g == nil {
			return &ConfigError{Option: "Generator", Message: "generator cannot be nil"}
		}
		r.gen = g
		return nil
	}
}

// WithSplicer sets the source splicer.
func WithSplicer(s *splice.Splicer) Option {
	return func(r *Runner) error {
		if s == nil {
			return &ConfigError{Option: "Splicer", Message: "splicer cannot be nil"}
		}
		r.splicer = s
		return nil
	}
}

// WithRouteSplicer sets the route splicer.
func WithRouteSplicer(s *splice.RouteSplicer) Option {
	return func(r *Runner) error {
		if s == nil {
			return &ConfigError{Option: "RouteSplicer", Message: "route splicer cannot be nil"}
		}
		r.routes = s
		return nil
	}
}

// WithDriver enables applying the DDL of every run through drv.
func WithDriver(drv dialect.Driver) Option {
	return func(r *Runner) error {
		r.driver = drv
		return nil
	}
}

// WithSearchPath applies the DDL with search_path set to schema.
func WithSearchPath(schema string) Option {
	return func(r *Runner) error {
		r.searchPath = schema
		return nil
	}
}

// WithStatementTimeout bounds every DDL statement. Zero means no limit.
func WithStatementTimeout(d time.Duration) Option {
	return func(r *Runner) error {
		if d < 0 {
			return &ConfigError{Option: "StatementTimeout", Message: "timeout cannot be negative"}
		}
		r.timeout = d
		return nil
	}
}

// WithMigrations writes the DDL of every run as a migration file in dir.
func WithMigrations(dir string) Option {
	return func(r *Runner) error {
		r.migrations = dir
		return nil
	}
}

// WithFormat toggles goimports formatting of the spliced file.
func WithFormat(format bool) Option {
	return func(r *Runner) error {
		r.format = format
		return nil
	}
}

// WithStrict makes columns dropped from a table's field list an error
// instead of a warning.
func WithStrict() Option {
	return func(r *Runner) error {
		r.strict = true
		return nil
	}
}

// WithClock sets the clock used to version migration files.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) error {
		if now == nil {
			return &ConfigError{Option: "Clock", Message: "clock cannot be nil"}
		}
		r.now = now
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) error {
		if l == nil {
			return &ConfigError{Option: "Logger", Message: "logger cannot be nil"}
		}
		r.log = l
		return nil
	}
}
