package schema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/syssam/scaffold"
	"github.com/syssam/scaffold/dialect"
)

// Apply runs the DDL statements in one transaction. PostgreSQL DDL is
// transactional, so a failure leaves the database as it was. Failures are
// returned as *scaffold.DataLayerError carrying the SQLSTATE when the
// driver reports one. Apply never retries.
func Apply(ctx context.Context, drv dialect.Driver, ddl *DDL) (rerr error) {
	wrap := func(op string, err error) error {
		e := scaffold.NewDataLayerError(ddl.Table, op, err)
		e.Code = SQLState(err)
		return e
	}
	tx, err := drv.Tx(ctx)
	if err != nil {
		return wrap("begin", err)
	}
	defer func() {
		if rerr != nil {
			if err := tx.Rollback(); err != nil {
				rerr = errors.Join(rerr, fmt.Errorf("rollback: %w", err))
			}
		}
	}()
	for i, stmt := range ddl.Statements {
		if err := tx.Exec(ctx, stmt, []any{}, nil); err != nil {
			return wrap(fmt.Sprintf("apply statement %d of", i+1), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return wrap("commit", err)
	}
	slog.DebugContext(ctx, "ddl applied", slog.String("table", ddl.Table), slog.Int("statements", len(ddl.Statements)))
	return nil
}

// Drop removes a generated table and its trigger function.
func Drop(ctx context.Context, drv dialect.Driver, table string) error {
	return Apply(ctx, drv, &DDL{Table: table, Statements: DropStatements(table)})
}
