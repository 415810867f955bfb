package records

import _ "embed"

// Schema is the idempotent DDL for the record tables, applied at
// startup through platform/db.Migrate.
//
//go:embed schema.sql
var Schema string
