package schema

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/syssam/scaffold"
)

// stateError stands in for drivers exposing SQLState as a method.
type stateError string

func (e stateError) Error() string    { return "driver error " + string(e) }
func (e stateError) SQLState() string { return string(e) }

func TestSQLState(t *testing.T) {
	assert.Equal(t, "42P07", SQLState(fmt.Errorf("wrap: %w", &pq.Error{Code: "42P07"})))
	assert.Equal(t, "57014", SQLState(fmt.Errorf("wrap: %w", stateError("57014"))))
	assert.Empty(t, SQLState(errors.New("plain")))
	assert.Empty(t, SQLState(nil))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"permission code", &pq.Error{Code: "42501"}, IsPermissionDenied, true},
		{"permission message", errors.New("pq: permission denied for schema public"), IsPermissionDenied, true},
		{"permission other code", &pq.Error{Code: "42P07", Message: "permission denied"}, IsPermissionDenied, false},
		{"duplicate table", &pq.Error{Code: "42P07"}, IsDuplicateObject, true},
		{"duplicate trigger", &pq.Error{Code: "42710"}, IsDuplicateObject, true},
		{"duplicate function", stateError("42723"), IsDuplicateObject, true},
		{"duplicate message", errors.New(`relation "users" already exists`), IsDuplicateObject, true},
		{"invalid schema", &pq.Error{Code: "3F000"}, IsInvalidSchema, true},
		{"statement timeout", &pq.Error{Code: "57014"}, IsTimeout, true},
		{"lock timeout", &pq.Error{Code: "55P03"}, IsTimeout, true},
		{"wrapped", scaffold.NewDataLayerError("users", "apply", &pq.Error{Code: "57014"}), IsTimeout, true},
		{"nil", nil, IsTimeout, false},
		{"unrelated", errors.New("connection refused"), IsDuplicateObject, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}
