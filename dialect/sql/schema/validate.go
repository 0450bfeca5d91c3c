package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/scaffold/dialect/sql"
	"github.com/syssam/scaffold/schema"
	"github.com/syssam/scaffold/schema/field"
)

// ValidationError is a single finding about a table definition.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking indicates the generated code no longer matches existing data.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the findings of a lint or diff.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges returns true if any finding is breaking.
func (r *ValidationResult) HasBreakingChanges() bool {
	return slices.ContainsFunc(r.Errors, isBreaking) || slices.ContainsFunc(r.Warnings, isBreaking)
}

func isBreaking(e *ValidationError) bool { return e.Breaking }

// Merge appends the findings of other to r.
func (r *ValidationResult) Merge(other *ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	if !r.HasErrors() && !r.HasWarnings() {
		return "No issues found"
	}
	var sb strings.Builder
	write := func(title string, list []*ValidationError) {
		if len(list) == 0 {
			return
		}
		sb.WriteString(title)
		sb.WriteString(":\n")
		for _, e := range list {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	write("Errors", r.Errors)
	write("Warnings", r.Warnings)
	return sb.String()
}

// ValidateOption configures ValidateDiff.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	allowDropColumn bool
}

// AllowDropColumn reports removed columns as warnings instead of errors.
func AllowDropColumn() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropColumn = true
	}
}

// ValidateTable lints a table definition against PostgreSQL rules that
// the field grammar does not cover.
func ValidateTable(t *schema.Table) *ValidationResult {
	result := &ValidationResult{}
	warn := func(col, msg string) {
		result.Warnings = append(result.Warnings, &ValidationError{Table: t.Name, Column: col, Message: msg})
	}
	if sql.IsReserved(t.Name) {
		warn("", "table name is a reserved word and will always be quoted")
	}
	if len(t.Name) > sql.MaxIdentLen {
		warn("", fmt.Sprintf("table name exceeds %d bytes and will be truncated by PostgreSQL", sql.MaxIdentLen))
	} else if len(t.Name+TriggerSuffix) > sql.MaxIdentLen {
		warn("", fmt.Sprintf("trigger name %s exceeds %d bytes and will be truncated by PostgreSQL", t.Name+TriggerSuffix, sql.MaxIdentLen))
	}

	seen := make(map[string]bool)
	for _, c := range t.System() {
		seen[c.Name] = true
	}
	for _, f := range t.Fields {
		col := f.Column()
		key := strings.ToLower(col)
		if seen[key] {
			result.Errors = append(result.Errors, &ValidationError{Table: t.Name, Column: col, Message: "duplicate column name"})
			continue
		}
		seen[key] = true
		switch {
		case sql.IsReserved(col):
			warn(col, "column name is a reserved word and will always be quoted")
		case sql.NeedsQuote(col):
			warn(col, "column name is not lower-case and will always be quoted")
		}
		if len(col) > sql.MaxIdentLen {
			warn(col, fmt.Sprintf("column name exceeds %d bytes and will be truncated by PostgreSQL", sql.MaxIdentLen))
		}
	}
	return result
}

// ValidateSchema lints several tables, e.g. all tables of a spec file.
func ValidateSchema(tables []*schema.Table) *ValidationResult {
	result := &ValidationResult{}
	names := make(map[string]bool)
	for _, t := range tables {
		if names[t.Name] {
			result.Errors = append(result.Errors, &ValidationError{Table: t.Name, Message: "duplicate table name"})
		}
		names[t.Name] = true
		result.Merge(ValidateTable(t))
	}
	return result
}

// ValidateDiff compares the columns of a previously generated version of
// a table with its new definition. CREATE TABLE IF NOT EXISTS leaves an
// existing table untouched, so added columns need an ALTER TABLE and
// removed columns stay in the database.
func ValidateDiff(current []string, desired *schema.Table, opts ...ValidateOption) *ValidationResult {
	cfg := &validateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	result := &ValidationResult{}
	if len(current) == 0 {
		return result
	}
	wanted := make(map[string]bool)
	for _, c := range desired.Columns() {
		wanted[c] = true
	}
	for _, c := range current {
		if wanted[c] {
			continue
		}
		err := &ValidationError{
			Table:    desired.Name,
			Column:   c,
			Message:  "column is no longer generated; it stays in the database until dropped by hand",
			Breaking: true,
		}
		if cfg.allowDropColumn {
			result.Warnings = append(result.Warnings, err)
		} else {
			result.Errors = append(result.Errors, err)
		}
	}
	for _, f := range Added(current, desired) {
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   desired.Name,
			Column:  f.Column(),
			Message: "new column; an existing table needs ALTER TABLE ... ADD COLUMN",
		})
	}
	return result
}

// Added returns the fields of desired whose columns are missing from
// current. It returns nil when current is empty, since there is nothing
// to compare against.
func Added(current []string, desired *schema.Table) []field.Spec {
	if len(current) == 0 {
		return nil
	}
	var added []field.Spec
	for _, f := range desired.Fields {
		if !slices.Contains(current, f.Column()) {
			added = append(added, f)
		}
	}
	return added
}
