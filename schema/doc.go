// Package schema describes the table a scaffold run generates.
//
// A Table is built from a project name and a list of fields:
//
//	t, err := schema.New("My-Cool_API",
//	    field.MustNew("email", field.TypeString),
//	    field.MustNew("age", field.TypeInt),
//	)
//	// t.Name == "my_cool_api"
//
// The sub-packages hold the pieces a table is made of:
//
//   - [field]: user-declared columns and the closed type set
//   - [mixin]: system columns (id, created_at, modified_at)
//
// A table may have zero fields; it then carries the system columns only.
package schema
