// Package mixin provides the system columns shared by all generated tables.
//
// A generated table always starts with the columns of Default:
//
//	id           BIGSERIAL PRIMARY KEY
//	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
//	modified_at  TIMESTAMPTZ NOT NULL DEFAULT now()
//
// followed by the user-declared fields in declaration order. The DDL
// emitter and the code emitter both read the columns from here so the
// table definition and the generated record type cannot drift apart.
package mixin
