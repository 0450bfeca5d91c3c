package sql

import (
	"strings"
)

// reserved holds PostgreSQL key words that cannot be used as bare column
// or table names.
var reserved = map[string]struct{}{
	"all": {}, "analyse": {}, "analyze": {}, "and": {}, "any": {}, "array": {},
	"as": {}, "asc": {}, "asymmetric": {}, "authorization": {}, "both": {},
	"case": {}, "cast": {}, "check": {}, "collate": {}, "column": {},
	"constraint": {}, "create": {}, "current_catalog": {}, "current_date": {},
	"current_role": {}, "current_time": {}, "current_timestamp": {},
	"current_user": {}, "default": {}, "deferrable": {}, "desc": {},
	"distinct": {}, "do": {}, "else": {}, "end": {}, "except": {}, "false": {},
	"fetch": {}, "for": {}, "foreign": {}, "from": {}, "grant": {}, "group": {},
	"having": {}, "in": {}, "initially": {}, "intersect": {}, "into": {},
	"join": {}, "lateral": {}, "leading": {}, "limit": {}, "localtime": {},
	"localtimestamp": {}, "not": {}, "null": {}, "offset": {}, "on": {},
	"only": {}, "or": {}, "order": {}, "placing": {}, "primary": {},
	"references": {}, "returning": {}, "select": {}, "session_user": {},
	"some": {}, "symmetric": {}, "table": {}, "then": {}, "to": {},
	"trailing": {}, "true": {}, "union": {}, "unique": {}, "user": {},
	"using": {}, "variadic": {}, "when": {}, "where": {}, "window": {},
	"with": {},
}

// MaxIdentLen is the PostgreSQL identifier length limit (NAMEDATALEN-1).
const MaxIdentLen = 63

// IsReserved reports whether s is a reserved key word.
func IsReserved(s string) bool {
	_, ok := reserved[strings.ToLower(s)]
	return ok
}

// NeedsQuote reports whether s must be double-quoted to be used as an
// identifier with its exact spelling: anything other than a lower-case
// [a-z_][a-z0-9_]* name, and reserved words.
func NeedsQuote(s string) bool {
	if s == "" || IsReserved(s) {
		return true
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return true
		}
	}
	return false
}

// Ident returns s ready to be embedded in a statement, quoted only when
// required.
func Ident(s string) string {
	if NeedsQuote(s) {
		return Quote(s)
	}
	return s
}

// Quote double-quotes s unconditionally, doubling embedded quotes.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Idents applies Ident to every name.
func Idents(names ...string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = Ident(n)
	}
	return out
}
