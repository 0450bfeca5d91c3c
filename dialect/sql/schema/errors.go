package schema

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// sqlStateError is implemented by drivers that expose the SQLSTATE code,
// such as pgx.
type sqlStateError interface {
	SQLState() string
}

// PostgreSQL SQLSTATE codes reported by DDL statements.
const (
	pgInsufficientPrivilege = "42501"
	pgDuplicateTable        = "42P07"
	pgDuplicateObject       = "42710"
	pgDuplicateFunction     = "42723"
	pgInvalidSchemaName     = "3F000"
	pgLockNotAvailable      = "55P03"
	pgQueryCanceled         = "57014"
)

// SQLState extracts the SQLSTATE code from a driver error chain. It returns
// the empty string when no error in the chain carries one.
func SQLState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	if e, ok := asError[sqlStateError](err); ok {
		return e.SQLState()
	}
	return ""
}

// IsPermissionDenied reports whether err is an insufficient_privilege failure.
func IsPermissionDenied(err error) bool {
	return hasState(err, "permission denied", pgInsufficientPrivilege)
}

// IsDuplicateObject reports whether a CREATE statement collided with an
// existing table, trigger or function. Generated DDL never reports it since
// every statement is guarded, but hand-edited migrations can.
func IsDuplicateObject(err error) bool {
	return hasState(err, "already exists", pgDuplicateTable, pgDuplicateObject, pgDuplicateFunction)
}

// IsInvalidSchema reports whether the session search_path names a schema
// that does not exist.
func IsInvalidSchema(err error) bool {
	return hasState(err, "no schema has been selected", pgInvalidSchemaName)
}

// IsTimeout reports whether a statement was canceled by statement_timeout
// or could not take its lock in time.
func IsTimeout(err error) bool {
	return hasState(err, "canceling statement due to statement timeout", pgQueryCanceled, pgLockNotAvailable)
}

// hasState matches the SQLSTATE of err against codes and falls back to the
// server message for drivers that do not expose codes.
func hasState(err error, message string, codes ...string) bool {
	if err == nil {
		return false
	}
	if state := SQLState(err); state != "" {
		for _, code := range codes {
			if state == code {
				return true
			}
		}
		return false
	}
	return strings.Contains(err.Error(), message)
}

// asError extracts the first error implementing T from the chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}
