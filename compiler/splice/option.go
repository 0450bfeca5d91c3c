package splice

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultEntryPoint is the line generated blocks are inserted before.
const DefaultEntryPoint = "func main()"

// DefaultRouter is the router variable of the default route anchors.
const DefaultRouter = "r"

// Config holds the settings of the splicers.
type Config struct {
	// EntryPoint is the prefix of the line blocks are inserted before.
	EntryPoint string
	// Router is the variable routes are registered on.
	Router string
	// Anchors overrides the route anchors derived from Router.
	Anchors []Anchor
	// Logger receives debug output, defaults to slog.Default().
	Logger *slog.Logger
}

// ConfigError reports an invalid splicer option.
type ConfigError struct {
	Option  string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("splice: config error for %s: %s", e.Option, e.Message)
}

// Option configures a splicer.
type Option func(*Config) error

// WithEntryPoint sets the entry-point prefix, e.g. "func run(".
func WithEntryPoint(prefix string) Option {
	return func(c *Config) error {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			return &ConfigError{Option: "EntryPoint", Message: "entry point cannot be empty"}
		}
		if strings.HasPrefix(prefix, BeginPrefix) || strings.HasPrefix(prefix, EndPrefix) {
			return &ConfigError{Option: "EntryPoint", Message: "entry point cannot be a marker"}
		}
		c.EntryPoint = prefix
		return nil
	}
}

// WithRouter sets the router variable used by the default route anchors.
func WithRouter(name string) Option {
	return func(c *Config) error {
		if name == "" || strings.ContainsAny(name, " \t.(") {
			return &ConfigError{Option: "Router", Message: fmt.Sprintf("invalid router variable %q", name)}
		}
		c.Router = name
		return nil
	}
}

// WithAnchors replaces the route anchors. They are tried in order.
func WithAnchors(anchors ...Anchor) Option {
	return func(c *Config) error {
		if len(anchors) == 0 {
			return &ConfigError{Option: "Anchors", Message: "at least one anchor is required"}
		}
		for _, a := range anchors {
			if a.Prefix == "" {
				return &ConfigError{Option: "Anchors", Message: fmt.Sprintf("anchor %q has an empty prefix", a.Name)}
			}
		}
		c.Anchors = anchors
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return &ConfigError{Option: "Logger", Message: "logger cannot be nil"}
		}
		c.Logger = l
		return nil
	}
}

func newConfig(opts ...Option) (*Config, error) {
	c := &Config{
		EntryPoint: DefaultEntryPoint,
		Router:     DefaultRouter,
		Logger:     slog.Default(),
	}
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if len(c.Anchors) == 0 {
		c.Anchors = DefaultAnchors(c.Router)
	}
	return c, nil
}
