// Package migrations holds the goose SQL migrations (schema and seed data)
// for the City Info database.
package migrations

import "embed"

// FS is handed to goose.NewProvider by database.Migrate at startup and by the
// integration tests, so no migration directory is needed at runtime.
//
//go:embed *.sql
var FS embed.FS
