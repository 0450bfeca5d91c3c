package field

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/syssam/scaffold"
)

// ErrInvalidName is wrapped by the ValidationError returned for a field
// name that is not a plain identifier.
var ErrInvalidName = errors.New("name must start with a letter or underscore and contain only letters, digits and underscores")

var nameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Spec is a single user-declared column. It is immutable once built by New.
type Spec struct {
	Name string `yaml:"name" json:"name"`
	Type Type   `yaml:"type" json:"type"`
}

// New returns a validated Spec.
func New(name string, t Type) (Spec, error) {
	if err := ValidateName(name); err != nil {
		return Spec{}, err
	}
	if !t.Valid() {
		return Spec{}, scaffold.NewInputError(name, t.String(), ErrInvalidType)
	}
	return Spec{Name: name, Type: t}, nil
}

// MustNew is like New but panics on error.
func MustNew(name string, t Type) Spec {
	s, err := New(name, t)
	if err != nil {
		panic(err)
	}
	return s
}

// Parse parses a "name:type" pair as given on the command line.
func Parse(s string) (Spec, error) {
	name, token, ok := strings.Cut(s, ":")
	if !ok {
		return Spec{}, scaffold.NewInputError("field", s, errors.New(`expected "name:type"`))
	}
	t, err := ParseType(token)
	if err != nil {
		return Spec{}, fmt.Errorf("field %s: %w", name, err)
	}
	return New(strings.TrimSpace(name), t)
}

// ValidateName checks the field-name grammar.
func ValidateName(name string) error {
	if !nameRe.MatchString(name) {
		return scaffold.NewValidationError(name, ErrInvalidName)
	}
	return nil
}

// Validate re-checks a Spec that was built without New, e.g. decoded from YAML.
func (s Spec) Validate() error {
	_, err := New(s.Name, s.Type)
	return err
}

// Column returns the column name, which is the field name verbatim.
func (s Spec) Column() string { return s.Name }

// Mapping returns the type mapping of the field.
func (s Spec) Mapping() Mapping { return s.Type.Mapping() }

// String returns the "name:type" form accepted by Parse.
func (s Spec) String() string {
	return s.Name + ":" + s.Type.String()
}
