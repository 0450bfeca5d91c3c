// Package config loads scaffold.yml, the per-project settings file.
//
// Values may reference the environment with {{ env.NAME }} or
// {{ env.NAME || default }}; references are resolved before the YAML is
// decoded. Command-line flags are applied on top by the caller, after
// which Validate checks the merged result.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/syssam/scaffold"
	"github.com/syssam/scaffold/compiler/gen"
	"github.com/syssam/scaffold/compiler/splice"
)

// FileName is the settings file looked up in the project directory.
const FileName = "scaffold.yml"

// Config is the content of scaffold.yml.
type Config struct {
	Project    string   `yaml:"project" validate:"required"`
	Source     string   `yaml:"source" validate:"required"`
	Module     string   `yaml:"module"`
	GoVersion  string   `yaml:"go_version" validate:"required,goversion"`
	Port       int      `yaml:"port" validate:"min=1,max=65535"`
	Router     string   `yaml:"router" validate:"required,goident"`
	DB         string   `yaml:"db" validate:"required,goident"`
	EntryPoint string   `yaml:"entry_point" validate:"required"`
	Migrations string   `yaml:"migrations"`
	Format     bool     `yaml:"format"`
	Database   Database `yaml:"database"`
}

// Database configures the DDL executor.
type Database struct {
	URL              string        `yaml:"url" validate:"omitempty,url"`
	Schema           string        `yaml:"schema" validate:"omitempty,goident"`
	StatementTimeout time.Duration `yaml:"statement_timeout" validate:"min=0"`
}

// Default returns the settings used when scaffold.yml is absent.
func Default() *Config {
	return &Config{
		Source:     "main.go",
		GoVersion:  gen.DefaultGoVersion,
		Port:       gen.DefaultPort,
		Router:     gen.DefaultRouter,
		DB:         gen.DefaultDB,
		EntryPoint: splice.DefaultEntryPoint,
		Format:     true,
	}
}

// LookupFunc resolves an environment variable.
type LookupFunc func(string) (string, bool)

// Load reads path on top of the defaults, resolving environment references
// with os.LookupEnv. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := Parse(buf, os.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes buf on top of the defaults.
func Parse(buf []byte, lookup LookupFunc) (*Config, error) {
	expanded, err := Expand(string(buf), lookup)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

var envRef = regexp.MustCompile(`\{\{\s*env\.([A-Za-z_][A-Za-z0-9_]*)\s*(?:\|\|\s*(.*?))?\s*\}\}`)

// Expand replaces {{ env.NAME || default }} references. The default may
// be quoted. A reference to an unset variable without a default is an
// error.
func Expand(s string, lookup LookupFunc) (string, error) {
	var missing []string
	out := envRef.ReplaceAllStringFunc(s, func(ref string) string {
		m := envRef.FindStringSubmatch(ref)
		if v, ok := lookup(m[1]); ok {
			return v
		}
		if strings.Contains(ref, "||") {
			return unquote(m[2])
		}
		missing = append(missing, m[1])
		return ref
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("config: environment variables not set: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

var (
	validate   = newValidator()
	goVersionR = regexp.MustCompile(`^1\.\d+(\.\d+)?$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		return name
	})
	_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return token.IsIdentifier(fl.Field().String())
	})
	_ = v.RegisterValidation("goversion", func(fl validator.FieldLevel) bool {
		return goVersionR.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks the settings. Each violation is reported as a
// *scaffold.ValidationError naming the YAML key.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		errs = append(errs, scaffold.NewInputError(key, fmt.Sprint(fe.Value()), fmt.Errorf("failed %q validation", fe.Tag())))
	}
	return scaffold.NewAggregateError(errs...)
}

// GenOptions returns the generator options the settings imply.
func (c *Config) GenOptions() []gen.Option {
	opts := []gen.Option{
		gen.WithRouter(c.Router),
		gen.WithDB(c.DB),
		gen.WithGoVersion(c.GoVersion),
		gen.WithPort(c.Port),
	}
	if c.Module != "" {
		opts = append(opts, gen.WithModule(c.Module))
	}
	return opts
}

// SpliceOptions returns the splicer options the settings imply.
func (c *Config) SpliceOptions() []splice.Option {
	return []splice.Option{
		splice.WithEntryPoint(c.EntryPoint),
		splice.WithRouter(c.Router),
	}
}

// Marshal encodes the settings as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
