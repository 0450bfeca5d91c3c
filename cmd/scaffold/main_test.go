package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/scaffold"
	"github.com/syssam/scaffold/compiler/config"
	"github.com/syssam/scaffold/compiler/gen"
	"github.com/syssam/scaffold/compiler/splice"
)

// runCLI runs the command line in dir and returns its standard output.
func runCLI(t *testing.T, dir, input string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Main(context.Background(), append([]string{"-C", dir}, args...), strings.NewReader(input), &out, &errOut)
	return out.String(), err
}

func initProject(t *testing.T) string {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	dir := t.TempDir()
	out, err := runCLI(t, dir, "", "init", "shop")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote main.go")
	return dir
}

func readMain(t *testing.T, dir string) string {
	t.Helper()
	buf, err := os.ReadFile(filepath.Join(dir, "main.go"))
	require.NoError(t, err)
	return string(buf)
}

func TestInit(t *testing.T) {
	dir := initProject(t)
	for _, name := range append(gen.ProjectFiles(), config.FileName) {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	c, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "shop", c.Project)

	_, err = runCLI(t, dir, "", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = runCLI(t, dir, "", "init", "--force")
	assert.NoError(t, err)
}

func TestTable(t *testing.T) {
	dir := initProject(t)

	out, err := runCLI(t, dir, "", "table", "-t", "Users", "-f", "name:string", "-f", "age:int")
	require.NoError(t, err)
	assert.Contains(t, out, "users: added in")
	src := readMain(t, dir)
	assert.Contains(t, src, splice.BeginMarker("users"))
	assert.Contains(t, src, `r.POST("/users"`)

	out, err = runCLI(t, dir, "", "table", "-t", "users", "-f", "name:string", "-f", "age:int", "-f", "email:1")
	require.NoError(t, err)
	assert.Contains(t, out, "users: replaced in")
	assert.Contains(t, out, "users: new columns email")
}

func TestTable_Spec(t *testing.T) {
	dir := initProject(t)
	spec := filepath.Join(dir, "tables.yml")
	require.NoError(t, os.WriteFile(spec, []byte(`
tables:
  - table: users
    fields: [name:string]
  - table: orders
    fields: [total:double]
`), 0o644))

	out, err := runCLI(t, dir, "", "table", "--spec", spec, "--table", "orders")
	require.NoError(t, err)
	assert.Contains(t, out, "orders: added")
	assert.NotContains(t, readMain(t, dir), splice.BeginMarker("users"))

	_, err = runCLI(t, dir, "", "table", "--spec", spec)
	require.NoError(t, err)
	assert.Contains(t, readMain(t, dir), splice.BeginMarker("users"))

	_, err = runCLI(t, dir, "", "table", "--spec", spec, "--table", "widgets")
	assert.Error(t, err)
}

func TestTable_Interactive(t *testing.T) {
	dir := initProject(t)

	out, err := runCLI(t, dir, "widgets\ny\nname\n1\nn\n", "table", "-i")
	require.NoError(t, err)
	assert.Contains(t, out, "Table name:")
	assert.Contains(t, out, "widgets: added")
	assert.Contains(t, readMain(t, dir), `json:"name"`)
}

func TestTable_Errors(t *testing.T) {
	dir := initProject(t)

	_, err := runCLI(t, dir, "", "table")
	assert.Error(t, err)

	_, err = runCLI(t, dir, "", "table", "-t", "users", "-f", "id:int")
	assert.True(t, scaffold.IsValidationError(err))

	_, err = runCLI(t, dir, "", "table", "-t", "users", "--apply")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.url")

	_, err = runCLI(t, dir, "", "table", "-t", "users", "--migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations")
}

func TestRemove(t *testing.T) {
	dir := initProject(t)
	pristine := readMain(t, dir)
	_, err := runCLI(t, dir, "", "table", "-t", "users", "-f", "name:string")
	require.NoError(t, err)
	spliced := readMain(t, dir)

	out, err := runCLI(t, dir, "n\n", "remove", "users")
	require.NoError(t, err)
	assert.Contains(t, out, "Remove users from main.go? [y/N]")
	assert.Equal(t, spliced, readMain(t, dir))

	out, err = runCLI(t, dir, "", "remove", "-y", "users")
	require.NoError(t, err)
	assert.Contains(t, out, "users: removed")
	assert.Equal(t, pristine, readMain(t, dir))

	_, err = runCLI(t, dir, "", "remove", "-y", "users")
	assert.True(t, scaffold.IsNotFound(err))
}

func TestDDL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	dir := t.TempDir()

	out, err := runCLI(t, dir, "", "ddl", "users", "-f", "name:string")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "CREATE TABLE IF NOT EXISTS users ("))
	assert.Contains(t, out, "CREATE TRIGGER users_touch_modified_at")

	out, err = runCLI(t, dir, "", "ddl", "user", "--lint")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "-- Warnings:"))

	_, err = runCLI(t, dir, "", "ddl")
	assert.Error(t, err)
}

func TestTypes(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	out, err := runCLI(t, t.TempDir(), "", "types")
	require.NoError(t, err)
	assert.Contains(t, out, "string  VARCHAR(255)")
}

func TestSettings(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("port: 0\n"), 0o644))

	_, err := runCLI(t, dir, "", "types")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"port"`)

	_, err = runCLI(t, dir, "", "--log-format", "xml", "types")
	assert.Error(t, err)
}

func TestHint(t *testing.T) {
	assert.Contains(t, hint(&pq.Error{Code: "42501"}), "CREATE")
	assert.Contains(t, hint(&pq.Error{Code: "3F000"}), "database.schema")
	assert.Contains(t, hint(&pq.Error{Code: "57014"}), "statement_timeout")
	assert.Empty(t, hint(errors.New("connection refused")))
}
