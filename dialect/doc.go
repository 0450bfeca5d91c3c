// Package dialect defines the database driver abstraction used to apply
// generated DDL.
//
// Generated services target PostgreSQL only, so Postgres is the single
// dialect name. The Driver interface is implemented by dialect/sql:
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//
// Wrap a driver with Debug to log every statement through log/slog:
//
//	drv = dialect.Debug(drv, logger)
package dialect
