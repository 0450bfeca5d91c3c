package field

import (
	"errors"
	"strconv"
	"strings"

	"github.com/syssam/scaffold"
)

// ErrInvalidType is wrapped by the ValidationError returned for a type
// token outside the closed set.
var ErrInvalidType = errors.New("unknown type token")

// A Type is one of the closed set of column types a field may declare.
type Type uint8

// Field types, in menu order. The menu alias of a type is its value.
const (
	TypeInvalid Type = iota
	TypeString
	TypeText
	TypeInt
	TypeBigInt
	TypeFloat
	TypeDouble
	TypeBool
	TypeDate
	TypeJSON
	endTypes
)

// Mapping is the static description of a Type: its canonical token, the
// PostgreSQL column type and the Go host type the generated code uses.
type Mapping struct {
	Type    Type
	Name    string // canonical token, e.g. "bigint"
	Storage string // e.g. "BIGINT"
	GoType  string // e.g. "int64"
	GoPkg   string // import path GoType lives in, empty for builtins
	GoIdent string // identifier inside GoPkg, e.g. "Time"
	Zero    string // SQL literal backfilled into existing rows when the column is added
}

var mappings = [...]Mapping{
	TypeInvalid: {Type: TypeInvalid, Name: "invalid"},
	TypeString:  {Type: TypeString, Name: "string", Storage: "VARCHAR(255)", GoType: "string", Zero: "''"},
	TypeText:    {Type: TypeText, Name: "text", Storage: "TEXT", GoType: "string", Zero: "''"},
	TypeInt:     {Type: TypeInt, Name: "int", Storage: "INTEGER", GoType: "int32", Zero: "0"},
	TypeBigInt:  {Type: TypeBigInt, Name: "bigint", Storage: "BIGINT", GoType: "int64", Zero: "0"},
	TypeFloat:   {Type: TypeFloat, Name: "float", Storage: "REAL", GoType: "float32", Zero: "0"},
	TypeDouble:  {Type: TypeDouble, Name: "double", Storage: "DOUBLE PRECISION", GoType: "float64", Zero: "0"},
	TypeBool:    {Type: TypeBool, Name: "bool", Storage: "BOOLEAN", GoType: "bool", Zero: "false"},
	TypeDate:    {Type: TypeDate, Name: "date", Storage: "DATE", GoType: "time.Time", GoPkg: "time", GoIdent: "Time", Zero: "'0001-01-01'"},
	TypeJSON:    {Type: TypeJSON, Name: "json", Storage: "JSONB", GoType: "json.RawMessage", GoPkg: "encoding/json", GoIdent: "RawMessage", Zero: "'null'"},
}

// Valid reports if the given type is one of the closed set.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// String returns the canonical token of the type.
func (t Type) String() string {
	if t < endTypes {
		return mappings[t].Name
	}
	return mappings[TypeInvalid].Name
}

// Alias returns the numeric menu alias of the type ("1".."9").
func (t Type) Alias() string {
	if !t.Valid() {
		return ""
	}
	return strconv.Itoa(int(t))
}

// Mapping returns the static mapping of the type.
func (t Type) Mapping() Mapping {
	if t < endTypes {
		return mappings[t]
	}
	return mappings[TypeInvalid]
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, scaffold.NewInputError("type", t.String(), ErrInvalidType)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Both the alias and
// the canonical token are accepted.
func (t *Type) UnmarshalText(b []byte) error {
	m, err := Lookup(string(b))
	if err != nil {
		return err
	}
	*t = m.Type
	return nil
}

// Lookup resolves a user-entered token to its Mapping. The token may be
// the numeric alias or the canonical name, case-insensitively and with
// surrounding whitespace ignored. Both forms resolve to the same Mapping.
func Lookup(token string) (Mapping, error) {
	t, err := ParseType(token)
	if err != nil {
		return Mapping{}, err
	}
	return mappings[t], nil
}

// ParseType resolves a token to its Type.
func ParseType(token string) (Type, error) {
	s := strings.ToLower(strings.TrimSpace(token))
	if n, err := strconv.Atoi(s); err == nil {
		if n > 0 && n < int(endTypes) {
			return Type(n), nil
		}
		return TypeInvalid, scaffold.NewInputError("type", token, ErrInvalidType)
	}
	for t := TypeString; t < endTypes; t++ {
		if mappings[t].Name == s {
			return t, nil
		}
	}
	return TypeInvalid, scaffold.NewInputError("type", token, ErrInvalidType)
}

// Types returns the closed set of types in alias order.
func Types() []Type {
	ts := make([]Type, 0, endTypes-1)
	for t := TypeString; t < endTypes; t++ {
		ts = append(ts, t)
	}
	return ts
}
