// Package sql implements dialect.Driver over database/sql and holds the
// identifier helpers shared by the DDL emitter and the code emitter.
//
// # Driver
//
// Open a driver with the lib/pq PostgreSQL driver registered:
//
//	import _ "github.com/lib/pq"
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://localhost/app?sslmode=disable")
//
// Session variables are carried on the context and SET on a pinned
// connection before the statement runs, then RESET when the connection
// is released:
//
//	ctx = sql.WithVar(ctx, "search_path", "tenant_a")
//	err = drv.Exec(ctx, ddl, []any{}, nil)
//
// # Identifiers
//
// Ident quotes a name only when PostgreSQL would otherwise fold or reject
// it, so generated SQL stays readable for the common lower-case case:
//
//	sql.Ident("email")      // email
//	sql.Ident("firstName")  // "firstName"
//	sql.Ident("order")      // "order"
package sql
