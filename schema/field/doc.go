// Package field defines the columns a user may add to a generated table.
//
// A field is a name and one of a closed set of types. Each type has a
// numeric menu alias and a canonical token; both resolve to the same
// storage type and Go host type:
//
//	alias  token   storage            Go type
//	1      string  VARCHAR(255)       string
//	2      text    TEXT               string
//	3      int     INTEGER            int32
//	4      bigint  BIGINT             int64
//	5      float   REAL               float32
//	6      double  DOUBLE PRECISION   float64
//	7      bool    BOOLEAN            bool
//	8      date    DATE               time.Time
//	9      json    JSONB              json.RawMessage
//
// Fields are usually parsed from the "name:type" command-line form:
//
//	f, err := field.Parse("email:string")
//	f, err = field.Parse("age:3")
//
// Names follow the identifier grammar [A-Za-z_][A-Za-z0-9_]* and are used
// verbatim as column names and JSON keys.
package field
