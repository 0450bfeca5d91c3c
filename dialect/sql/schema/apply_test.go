package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/syssam/scaffold"
	"github.com/syssam/scaffold/dialect"
	"github.com/syssam/scaffold/dialect/sql"
	"github.com/syssam/scaffold/schema"
	"github.com/syssam/scaffold/schema/field"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (dialect.Driver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sql.OpenDB(dialect.Postgres, db), mock
}

func TestApply(t *testing.T) {
	drv, mock := newMock(t)
	ddl := Generate(schema.MustNew("users", field.MustNew("name", field.TypeString)))

	mock.ExpectBegin()
	for _, stmt := range ddl.Statements {
		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectCommit()

	require.NoError(t, Apply(context.Background(), drv, ddl))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_Failure(t *testing.T) {
	drv, mock := newMock(t)
	ddl := Generate(schema.MustNew("users"))

	mock.ExpectBegin()
	mock.ExpectExec(ddl.Statements[0]).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(ddl.Statements[1]).WillReturnError(&pq.Error{Code: "42501", Message: "permission denied for schema public"})
	mock.ExpectRollback()

	err := Apply(context.Background(), drv, ddl)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.True(t, scaffold.IsDataLayerError(err))
	var dle *scaffold.DataLayerError
	require.True(t, errors.As(err, &dle))
	assert.Equal(t, "users", dle.Table)
	assert.Equal(t, "42501", dle.Code)
	assert.Contains(t, err.Error(), "statement 2")
	assert.True(t, IsPermissionDenied(err))
}

func TestApply_BeginFailure(t *testing.T) {
	drv, mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := Apply(context.Background(), drv, Generate(schema.MustNew("widgets")))
	require.Error(t, err)
	assert.True(t, scaffold.IsDataLayerError(err))
	assert.Contains(t, err.Error(), "connection refused")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDrop(t *testing.T) {
	drv, mock := newMock(t)
	mock.ExpectBegin()
	for _, stmt := range DropStatements("orders") {
		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectCommit()
	require.NoError(t, Drop(context.Background(), drv, "orders"))
	require.NoError(t, mock.ExpectationsWereMet())
}
