package gen

import (
	"errors"
	"go/token"
	"log/slog"
)

// Config holds the settings shared by the generator and the project writer.
type Config struct {
	// Package is the package clause of the target file.
	Package string
	// Router is the variable the route lines register on.
	Router string
	// DB is the package-level *sql.DB variable the handlers query.
	DB string
	// Module is the module path written to the scaffolded go.mod.
	Module string
	// GoVersion is the go directive of the scaffolded go.mod.
	GoVersion string
	// Port is the HTTP port the scaffolded service listens on.
	Port int
	// Header is an optional comment placed at the top of scaffolded files.
	Header string
	// Workers limits the parallel file writes of the project writer.
	Workers int
	// Logger receives debug output, defaults to slog.Default().
	Logger *slog.Logger
}

// Default configuration values.
const (
	DefaultPackage   = "main"
	DefaultRouter    = "r"
	DefaultDB        = "db"
	DefaultGoVersion = "1.24"
	DefaultPort      = 8080
)

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() *Config {
	return &Config{
		Package:   DefaultPackage,
		Router:    DefaultRouter,
		DB:        DefaultDB,
		GoVersion: DefaultGoVersion,
		Port:      DefaultPort,
		Workers:   4,
	}
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Option configures code generation.
type Option func(*Config) error

// WithPackage sets the package clause of the target file.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(pkg) {
			return NewConfigError("Package", pkg, "package must be a Go identifier")
		}
		c.Package = pkg
		return nil
	}
}

// WithRouter sets the router variable used by the route lines.
func WithRouter(name string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(name) {
			return NewConfigError("Router", name, "router must be a Go identifier")
		}
		c.Router = name
		return nil
	}
}

// handlerNames are the local variables and package names the generated
// handlers use. The database variable must not be shadowed by any of them.
var handlerNames = map[string]bool{
	"c": true, "v": true, "id": true, "err": true, "req": true,
	"rows": true, "list": true, "res": true, "n": true,
	"gin": true, "sql": true, "http": true, "slog": true, "errors": true,
	"strconv": true, "time": true, "json": true,
}

// WithDB sets the *sql.DB variable the handlers use.
func WithDB(name string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(name) {
			return NewConfigError("DB", name, "db must be a Go identifier")
		}
		if handlerNames[name] {
			return NewConfigError("DB", name, "db is shadowed inside the generated handlers")
		}
		c.DB = name
		return nil
	}
}

// WithModule sets the module path of the scaffolded project.
func WithModule(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("Module", nil, "module cannot be empty")
		}
		c.Module = path
		return nil
	}
}

// WithGoVersion sets the go directive of the scaffolded go.mod.
func WithGoVersion(v string) Option {
	return func(c *Config) error {
		if v == "" {
			return NewConfigError("GoVersion", nil, "go version cannot be empty")
		}
		c.GoVersion = v
		return nil
	}
}

// WithPort sets the HTTP port of the scaffolded service.
func WithPort(port int) Option {
	return func(c *Config) error {
		if port <= 0 || port > 65535 {
			return NewConfigError("Port", port, "port must be in 1..65535")
		}
		c.Port = port
		return nil
	}
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithWorkers sets the number of parallel file writers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config from the defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
