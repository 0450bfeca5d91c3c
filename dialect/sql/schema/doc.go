// Package schema emits, checks and applies the PostgreSQL DDL of a
// generated table.
//
// Generate renders CREATE TABLE IF NOT EXISTS plus a BEFORE UPDATE trigger
// that keeps modified_at current and created_at immutable. Apply runs the
// statements in one transaction through a dialect.Driver, and
// WriteMigration stores them in an atlas-compatible migration directory.
package schema
