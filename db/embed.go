// Package db provides embedded database schema and seed data.
package db

import _ "embed"

// Schema contains the DDL statements for all application tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// SeedSweets contains the default catalog in JSON form. The memory backend
// decodes it directly; seed-db loads it into PostgreSQL.
//
//go:embed seed/sweets.json
var SeedSweets []byte
