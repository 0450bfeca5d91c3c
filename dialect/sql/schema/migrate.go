package schema

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ariga.io/atlas/sql/migrate"
)

// VersionFormat is the layout of the version prefix of migration files.
const VersionFormat = "20060102150405"

// Migration describes a file written by WriteMigration.
type Migration struct {
	Name    string // file name inside the directory
	Written bool   // false when an identical migration already existed
}

// WriteMigration stores the DDL as a versioned migration file in dir and
// refreshes the atlas.sum integrity file. The first migration for a table
// is named <version>_create_<table>.sql and later ones
// <version>_update_<table>.sql. Re-running with unchanged DDL writes
// nothing. A directory whose sum file does not match its contents is
// rejected, since it was edited by hand.
func WriteMigration(path string, ddl *DDL, now time.Time) (*Migration, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create migration directory: %w", err)
	}
	dir, err := migrate.NewLocalDir(path)
	if err != nil {
		return nil, fmt.Errorf("open migration directory: %w", err)
	}
	files, err := dir.Files()
	if err != nil {
		return nil, fmt.Errorf("read migration directory: %w", err)
	}
	if _, err := os.Stat(filepath.Join(path, migrate.HashFileName)); err == nil {
		if err := migrate.Validate(dir); err != nil {
			return nil, fmt.Errorf("validate migration directory %s: %w", path, err)
		}
	}
	content := []byte(ddl.String())
	var latest migrate.File
	for _, f := range files {
		if migrationTable(f.Name()) == ddl.Table {
			latest = f
		}
	}
	if latest != nil && bytes.Equal(latest.Bytes(), content) {
		return &Migration{Name: latest.Name()}, nil
	}
	action := "create"
	if latest != nil {
		action = "update"
	}
	name := fmt.Sprintf("%s_%s_%s.sql", now.UTC().Format(VersionFormat), action, ddl.Table)
	if err := dir.WriteFile(name, content); err != nil {
		return nil, fmt.Errorf("write migration %s: %w", name, err)
	}
	sum, err := dir.Checksum()
	if err != nil {
		return nil, fmt.Errorf("compute migration checksum: %w", err)
	}
	if err := migrate.WriteSumFile(dir, sum); err != nil {
		return nil, fmt.Errorf("write %s: %w", migrate.HashFileName, err)
	}
	return &Migration{Name: name, Written: true}, nil
}

// migrationTable returns the table a migration file name refers to, or
// the empty string for files not written by WriteMigration.
func migrationTable(name string) string {
	base, ok := strings.CutSuffix(name, ".sql")
	if !ok || len(base) <= len(VersionFormat)+1 {
		return ""
	}
	rest := base[len(VersionFormat)+1:]
	for _, action := range []string{"create_", "update_"} {
		if t, ok := strings.CutPrefix(rest, action); ok {
			return t
		}
	}
	return ""
}
