// Package scaffold holds the error taxonomy shared by the scaffold
// packages. The generator, splicers and DDL executor all report failures
// through the types declared here so that callers can branch with
// errors.Is and errors.As regardless of which stage failed.
package scaffold

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the error kinds below.
var (
	// ErrValidation is returned for malformed field names, unknown type
	// tokens and empty table names.
	ErrValidation = errors.New("scaffold: validation failed")

	// ErrAnchorNotFound is returned when a splice target has no insertion point.
	ErrAnchorNotFound = errors.New("scaffold: anchor not found")

	// ErrDataLayer is returned when the DDL executor fails.
	ErrDataLayer = errors.New("scaffold: data layer failure")

	// ErrNotFound is returned when a table or generated block does not exist.
	ErrNotFound = errors.New("scaffold: not found")
)

// ValidationError reports an input that violates the field or table grammar.
type ValidationError struct {
	Name  string // offending field/table name, or the raw input
	Input string // raw token that failed, if any
	Err   error
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("scaffold: invalid")
	if e.Name != "" {
		fmt.Fprintf(&b, " %q", e.Name)
	}
	if e.Input != "" {
		fmt.Fprintf(&b, " (input %q)", e.Input)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports whether the target matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError returns a new ValidationError for the given name.
func NewValidationError(name string, err error) *ValidationError {
	return &ValidationError{Name: name, Err: err}
}

// NewInputError returns a ValidationError that also records the raw input.
func NewInputError(name, input string, err error) *ValidationError {
	return &ValidationError{Name: name, Input: input, Err: err}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e) || errors.Is(err, ErrValidation)
}

// AnchorNotFoundError reports that a splice could not locate its anchor.
// A soft error leaves the target text untouched and is reported as a
// warning; a hard error aborts the run.
type AnchorNotFoundError struct {
	Anchor string // description of the anchor that was searched for
	Path   string // file being spliced, when known
	Soft   bool
}

// Error returns the error string.
func (e *AnchorNotFoundError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("scaffold: anchor %s not found in %s", e.Anchor, e.Path)
	}
	return fmt.Sprintf("scaffold: anchor %s not found", e.Anchor)
}

// Is reports whether the target matches ErrAnchorNotFound.
func (e *AnchorNotFoundError) Is(target error) bool {
	return target == ErrAnchorNotFound
}

// NewAnchorNotFoundError returns a hard AnchorNotFoundError.
func NewAnchorNotFoundError(anchor string) *AnchorNotFoundError {
	return &AnchorNotFoundError{Anchor: anchor}
}

// IsAnchorNotFound returns true if the error is an AnchorNotFoundError.
func IsAnchorNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *AnchorNotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrAnchorNotFound)
}

// IsSoftAnchorNotFound returns true if the error is a soft AnchorNotFoundError.
func IsSoftAnchorNotFound(err error) bool {
	var e *AnchorNotFoundError
	return errors.As(err, &e) && e.Soft
}

// DataLayerError wraps a failure reported by the database while applying DDL.
type DataLayerError struct {
	Table string
	Op    string // e.g. "apply", "connect"
	Code  string // SQLSTATE, when the driver reports one
	Err   error
}

// Error returns the error string.
func (e *DataLayerError) Error() string {
	var b strings.Builder
	b.WriteString("scaffold: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteByte(' ')
	}
	if e.Table != "" {
		fmt.Fprintf(&b, "table %s ", e.Table)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, "(sqlstate %s) ", e.Code)
	}
	b.WriteString("failed")
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *DataLayerError) Unwrap() error {
	return e.Err
}

// Is reports whether the target matches ErrDataLayer.
func (e *DataLayerError) Is(target error) bool {
	return target == ErrDataLayer
}

// NewDataLayerError returns a new DataLayerError.
func NewDataLayerError(table, op string, err error) *DataLayerError {
	return &DataLayerError{Table: table, Op: op, Err: err}
}

// IsDataLayerError returns true if the error is a DataLayerError.
func IsDataLayerError(err error) bool {
	if err == nil {
		return false
	}
	var e *DataLayerError
	return errors.As(err, &e) || errors.Is(err, ErrDataLayer)
}

// NotFoundError represents a missing table or generated block.
type NotFoundError struct {
	label string
	name  string
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.name != "" {
		return fmt.Sprintf("scaffold: %s %q not found", e.label, e.name)
	}
	return fmt.Sprintf("scaffold: %s not found", e.label)
}

// Is reports whether the target matches ErrNotFound.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the kind of thing that was missing.
func (e *NotFoundError) Label() string {
	return e.label
}

// Name returns the name that was searched for.
func (e *NotFoundError) Name() string {
	return e.name
}

// NewNotFoundError returns a new NotFoundError.
func NewNotFoundError(label, name string) *NotFoundError {
	return &NotFoundError{label: label, name: name}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// AggregateError collects independent failures, such as several invalid
// fields reported at once by a spec file.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("scaffold: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns nil if errs holds no non-nil error, the error
// itself if it holds exactly one, and an AggregateError otherwise.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
