package run_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/scaffold"
	"github.com/syssam/scaffold/compiler/gen"
	"github.com/syssam/scaffold/compiler/run"
	"github.com/syssam/scaffold/compiler/splice"
	"github.com/syssam/scaffold/dialect"
	"github.com/syssam/scaffold/dialect/sql"
	sqlschema "github.com/syssam/scaffold/dialect/sql/schema"
	"github.com/syssam/scaffold/schema"
	"github.com/syssam/scaffold/schema/field"
)

var (
	users = schema.MustNew("users",
		field.MustNew("name", field.TypeString),
	)
	grown = schema.MustNew("users",
		field.MustNew("name", field.TypeString),
		field.MustNew("age", field.TypeInt),
	)
	orders = schema.MustNew("orders",
		field.MustNew("total", field.TypeDouble),
	)
)

// newProject scaffolds a project into a temporary directory and returns
// the runner together with the path of its main.go.
func newProject(t *testing.T, opts ...run.Option) (*run.Runner, string) {
	t.Helper()
	dir := t.TempDir()
	r, err := run.New(append([]run.Option{run.WithLogger(slog.New(slog.DiscardHandler))}, opts...)...)
	require.NoError(t, err)
	_, err = r.Init(context.Background(), dir, "shop", false)
	require.NoError(t, err)
	return r, filepath.Join(dir, "main.go")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(buf)
}

func backups(t *testing.T, path string) []string {
	t.Helper()
	matches, err := filepath.Glob(path + ".*.bak")
	require.NoError(t, err)
	return matches
}

func newMock(t *testing.T) (dialect.Driver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sql.OpenDB(dialect.Postgres, db), mock
}

// =============================================================================
// Table
// =============================================================================

func TestRunner_Table(t *testing.T) {
	r, path := newProject(t)

	res, err := r.Table(context.Background(), path, users)
	require.NoError(t, err)
	assert.Equal(t, "users", res.Table)
	assert.False(t, res.Replaced)
	assert.Empty(t, res.Added)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.Backup)
	assert.False(t, res.Applied)
	assert.Nil(t, res.Migration)
	assert.Equal(t, sqlschema.Generate(users), res.DDL)

	src := readFile(t, path)
	assert.Contains(t, src, splice.BeginMarker("users"))
	assert.Contains(t, src, splice.EndMarker("users"))
	assert.Contains(t, src, `r.POST("/users"`)
	assert.Contains(t, src, `r.DELETE("/users/:id"`)
	assert.Less(t, strings.Index(src, splice.EndMarker("users")), strings.Index(src, gen.EntryPoint))
	assert.Empty(t, backups(t, path))
}

func TestRunner_Table_Idempotent(t *testing.T) {
	r, path := newProject(t)
	ctx := context.Background()

	_, err := r.Table(ctx, path, users)
	require.NoError(t, err)
	first := readFile(t, path)

	res, err := r.Table(ctx, path, users)
	require.NoError(t, err)
	assert.True(t, res.Replaced)
	assert.Empty(t, res.Added)
	assert.Equal(t, first, readFile(t, path))
	assert.Equal(t, 1, strings.Count(first, splice.BeginMarker("users")))
	assert.Equal(t, 1, strings.Count(first, `r.POST("/users"`))
}

func TestRunner_Table_Grown(t *testing.T) {
	r, path := newProject(t)
	ctx := context.Background()

	_, err := r.Table(ctx, path, users)
	require.NoError(t, err)
	res, err := r.Table(ctx, path, grown)
	require.NoError(t, err)

	assert.True(t, res.Replaced)
	assert.Equal(t, []field.Spec{field.MustNew("age", field.TypeInt)}, res.Added)
	assert.Contains(t, res.DDL.String(), "ADD COLUMN IF NOT EXISTS age")
	assert.Contains(t, readFile(t, path), `json:"age"`)
	assert.Equal(t, 1, strings.Count(readFile(t, path), splice.BeginMarker("users")))
}

func TestRunner_Table_DroppedColumn(t *testing.T) {
	ctx := context.Background()

	t.Run("warns", func(t *testing.T) {
		r, path := newProject(t)
		_, err := r.Table(ctx, path, grown)
		require.NoError(t, err)

		res, err := r.Table(ctx, path, users)
		require.NoError(t, err)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0].Error(), "users.age")
		require.NotEmpty(t, res.Backup)
		assert.FileExists(t, res.Backup)
		assert.NotContains(t, readFile(t, path), `json:"age"`)
	})

	t.Run("strict", func(t *testing.T) {
		r, path := newProject(t, run.WithStrict())
		_, err := r.Table(ctx, path, grown)
		require.NoError(t, err)
		before := readFile(t, path)

		_, err = r.Table(ctx, path, users)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BREAKING")
		assert.Equal(t, before, readFile(t, path))
		assert.Empty(t, backups(t, path))
	})
}

func TestRunner_Table_KeepsOtherTables(t *testing.T) {
	r, path := newProject(t)
	ctx := context.Background()

	for _, tbl := range []*schema.Table{users, orders, grown} {
		_, err := r.Table(ctx, path, tbl)
		require.NoError(t, err)
	}
	src := readFile(t, path)
	assert.Equal(t, 1, strings.Count(src, splice.BeginMarker("users")))
	assert.Equal(t, 1, strings.Count(src, splice.BeginMarker("orders")))
	assert.Equal(t, 1, strings.Count(src, `r.GET("/orders/:id"`))
	assert.Equal(t, 1, strings.Count(src, `r.GET("/users/:id"`))
}

func TestRunner_Table_Collision(t *testing.T) {
	r, path := newProject(t)
	ctx := context.Background()

	_, err := r.Table(ctx, path, users)
	require.NoError(t, err)
	before := readFile(t, path)

	_, err = r.Table(ctx, path, schema.MustNew("user"))
	require.Error(t, err)
	assert.True(t, gen.IsCollision(err))
	assert.Equal(t, before, readFile(t, path))
	assert.Empty(t, backups(t, path))
}

func TestRunner_Table_HealthTable(t *testing.T) {
	r, path := newProject(t)
	ctx := context.Background()
	pristine := readFile(t, path)

	_, err := r.Table(ctx, path, schema.MustNew("health"))
	require.Error(t, err)
	assert.True(t, gen.IsCollision(err))
	assert.Equal(t, pristine, readFile(t, path))
	assert.Empty(t, backups(t, path))

	_, err = r.Remove(ctx, path, "health")
	assert.True(t, scaffold.IsNotFound(err))
	assert.Contains(t, readFile(t, path), `r.GET("/health", health)`)
}

func TestRunner_Table_NoRouteAnchor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(path, []byte(`package main

import (
	"database/sql"

	"github.com/gin-gonic/gin"
)

var db *sql.DB

func main() {
	r := gin.New()
	_ = r
}
`), 0o644))
	r, err := run.New(run.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)

	res, err := r.Table(context.Background(), path, users)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.True(t, scaffold.IsSoftAnchorNotFound(res.Warnings[0]))
	assert.Contains(t, res.Warnings[0].Error(), path)
	assert.FileExists(t, res.Backup)

	src := readFile(t, path)
	assert.Contains(t, src, splice.BeginMarker("users"))
	assert.NotContains(t, src, `r.POST("/users"`)
}

func TestRunner_Table_NoEntryPoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	const src = "package main\n\nvar x = 1\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	r, err := run.New(run.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)

	_, err = r.Table(context.Background(), path, users)
	require.Error(t, err)
	assert.True(t, scaffold.IsAnchorNotFound(err))
	assert.False(t, scaffold.IsSoftAnchorNotFound(err))
	assert.Contains(t, err.Error(), path)

	var be *run.BackupError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, src, readFile(t, be.Backup))
	assert.Equal(t, src, readFile(t, path))
}

func TestRunner_Table_Errors(t *testing.T) {
	r, err := run.New(run.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)

	_, err = r.Table(context.Background(), filepath.Join(t.TempDir(), "missing.go"), users)
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Table(ctx, "main.go", users)
	assert.ErrorIs(t, err, context.Canceled)
}

// =============================================================================
// DDL
// =============================================================================

func TestRunner_Migrations(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r, path := newProject(t, run.WithMigrations(dir), run.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	res, err := r.Table(ctx, path, users)
	require.NoError(t, err)
	require.NotNil(t, res.Migration)
	assert.Equal(t, "20260102030405_create_users.sql", res.Migration.Name)
	assert.True(t, res.Migration.Written)
	assert.Equal(t, sqlschema.Generate(users).String(), readFile(t, filepath.Join(dir, res.Migration.Name)))
	assert.FileExists(t, filepath.Join(dir, "atlas.sum"))

	res, err = r.Table(ctx, path, users)
	require.NoError(t, err)
	assert.False(t, res.Migration.Written)
}

func TestRunner_Apply(t *testing.T) {
	drv, mock := newMock(t)
	r, path := newProject(t, run.WithDriver(drv))

	mock.ExpectBegin()
	for _, stmt := range sqlschema.Generate(users).Statements {
		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectCommit()

	res, err := r.Table(context.Background(), path, users)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunner_Apply_SessionVars(t *testing.T) {
	drv, mock := newMock(t)
	r, path := newProject(t,
		run.WithDriver(drv),
		run.WithSearchPath("app"),
		run.WithStatementTimeout(5*time.Second),
	)

	mock.ExpectBegin()
	for _, stmt := range sqlschema.Generate(users).Statements {
		mock.ExpectExec("SET search_path = 'app'").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("SET statement_timeout = '5000'").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectCommit()

	_, err := r.Table(context.Background(), path, users)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunner_Apply_Failure(t *testing.T) {
	drv, mock := newMock(t)
	r, path := newProject(t, run.WithDriver(drv))

	ddl := sqlschema.Generate(users)
	mock.ExpectBegin()
	mock.ExpectExec(ddl.Statements[0]).WillReturnError(&pq.Error{Code: "42501", Message: "permission denied for schema public"})
	mock.ExpectRollback()

	_, err := r.Table(context.Background(), path, users)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.True(t, scaffold.IsDataLayerError(err))
	assert.True(t, sqlschema.IsPermissionDenied(err))
	var be *run.BackupError
	require.True(t, errors.As(err, &be))
	assert.FileExists(t, be.Backup)
}

func TestRunner_Drop(t *testing.T) {
	r, err := run.New(run.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	var ce *run.ConfigError
	assert.True(t, errors.As(r.Drop(context.Background(), "users"), &ce))

	drv, mock := newMock(t)
	r, err = run.New(run.WithDriver(drv), run.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	mock.ExpectBegin()
	for _, stmt := range sqlschema.DropStatements("users") {
		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectCommit()
	require.NoError(t, r.Drop(context.Background(), "users"))
	require.NoError(t, mock.ExpectationsWereMet())
}

// =============================================================================
// Remove
// =============================================================================

func TestRunner_Remove(t *testing.T) {
	r, path := newProject(t)
	ctx := context.Background()
	pristine := readFile(t, path)

	for _, tbl := range []*schema.Table{users, orders} {
		_, err := r.Table(ctx, path, tbl)
		require.NoError(t, err)
	}

	res, err := r.Remove(ctx, path, "Users")
	require.NoError(t, err)
	assert.Equal(t, "users", res.Table)
	assert.True(t, res.Replaced)

	src := readFile(t, path)
	assert.NotContains(t, src, splice.BeginMarker("users"))
	assert.NotContains(t, src, `"/users`)
	assert.Contains(t, src, splice.BeginMarker("orders"))
	assert.Contains(t, src, `r.POST("/orders"`)
	assert.Empty(t, backups(t, path))

	_, err = r.Remove(ctx, path, "users")
	assert.True(t, scaffold.IsNotFound(err))

	_, err = r.Remove(ctx, path, "orders")
	require.NoError(t, err)
	assert.Equal(t, pristine, readFile(t, path))

	_, err = r.Remove(ctx, path, "--")
	assert.True(t, scaffold.IsValidationError(err))
}

// =============================================================================
// Init and options
// =============================================================================

func TestRunner_Init(t *testing.T) {
	dir := t.TempDir()
	r, err := run.New(run.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	ctx := context.Background()

	m, err := r.Init(ctx, dir, "My Shop", false)
	require.NoError(t, err)
	assert.EqualValues(t, len(gen.ProjectFiles()), m.FilesGenerated)
	for _, name := range gen.ProjectFiles() {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	_, err = r.Init(ctx, dir, "My Shop", false)
	assert.True(t, gen.IsExist(err))
	_, err = r.Init(ctx, dir, "My Shop", true)
	assert.NoError(t, err)

	_, err = r.Init(ctx, dir, "--", true)
	assert.True(t, gen.IsConfigError(err))
}

func TestNew_Options(t *testing.T) {
	_, err := run.New(
		run.WithClock(nil),
		run.WithLogger(nil),
		run.WithStatementTimeout(-time.Second),
		run.WithGenerator(nil),
	)
	require.Error(t, err)
	for _, opt := range []string{"Clock", "Logger", "StatementTimeout", "Generator"} {
		assert.Contains(t, err.Error(), opt)
	}

	g, err := gen.NewGenerator(gen.WithRouter("api"))
	require.NoError(t, err)
	_, err = run.New(run.WithGenerator(g))
	assert.NoError(t, err)
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkRunner_Table(b *testing.B) {
	dir := b.TempDir()
	r, err := run.New(run.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(b, err)
	_, err = r.Init(context.Background(), dir, "shop", false)
	require.NoError(b, err)
	path := filepath.Join(dir, "main.go")

	for b.Loop() {
		if _, err := r.Table(context.Background(), path, grown); err != nil {
			b.Fatal(err)
		}
	}
}
