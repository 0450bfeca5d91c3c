package dialect

import (
	"context"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"time"
)

// Postgres is the only dialect generated tables and DDL target.
const Postgres = "postgres"

// ExecQuerier wraps the two database operations the DDL executor needs.
type ExecQuerier interface {
	// Exec executes a statement that returns no rows. v may be nil or a
	// *sql.Result to receive the result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query that returns rows into v, a *sql.Rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all necessary operations for DDL execution.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps the Exec and Query operations in transaction.
type Tx interface {
	ExecQuerier
	driver.Tx
}

// DebugDriver is a driver that logs every statement before executing it.
type DebugDriver struct {
	Driver
	log *slog.Logger
}

// Debug wraps the driver with a statement logger. A nil logger uses slog.Default.
func Debug(d Driver, logger *slog.Logger) Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &DebugDriver{Driver: d, log: logger}
}

// Exec logs its params and calls the underlying driver Exec method.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	d.trace(ctx, "exec", query, args, start, err)
	return err
}

// Query logs its params and calls the underlying driver Query method.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Query(ctx, query, args, v)
	d.trace(ctx, "query", query, args, start, err)
	return err
}

// Tx adds a log-id for the transaction and calls the underlying driver Tx command.
func (d *DebugDriver) Tx(ctx context.Context) (Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	id := fmt.Sprintf("%p", tx)
	d.log.DebugContext(ctx, "tx started", slog.String("tx", id))
	return &DebugTx{Tx: tx, id: id, log: d.log, ctx: ctx}, nil
}

func (d *DebugDriver) trace(ctx context.Context, op, query string, args any, start time.Time, err error) {
	attrs := []any{
		slog.String("op", op),
		slog.String("query", query),
		slog.Any("args", args),
		slog.Duration("took", time.Since(start)),
	}
	if err != nil {
		d.log.ErrorContext(ctx, "statement failed", append(attrs, slog.Any("error", err))...)
		return
	}
	d.log.DebugContext(ctx, "statement", attrs...)
}

// DebugTx is a transaction implementation that logs all transaction operations.
type DebugTx struct {
	Tx
	id  string
	log *slog.Logger
	ctx context.Context
}

// Exec logs its params and calls the underlying transaction Exec method.
func (d *DebugTx) Exec(ctx context.Context, query string, args, v any) error {
	d.log.DebugContext(ctx, "tx exec", slog.String("tx", d.id), slog.String("query", query), slog.Any("args", args))
	return d.Tx.Exec(ctx, query, args, v)
}

// Query logs its params and calls the underlying transaction Query method.
func (d *DebugTx) Query(ctx context.Context, query string, args, v any) error {
	d.log.DebugContext(ctx, "tx query", slog.String("tx", d.id), slog.String("query", query), slog.Any("args", args))
	return d.Tx.Query(ctx, query, args, v)
}

// Commit logs this step and calls the underlying transaction Commit method.
func (d *DebugTx) Commit() error {
	d.log.DebugContext(d.ctx, "tx committed", slog.String("tx", d.id))
	return d.Tx.Commit()
}

// Rollback logs this step and calls the underlying transaction Rollback method.
func (d *DebugTx) Rollback() error {
	d.log.DebugContext(d.ctx, "tx rolled back", slog.String("tx", d.id))
	return d.Tx.Rollback()
}
