package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/cityinfo/migrations"
	"github.com/pkordes/cityinfo/testutil"
)

// seedRows is the number of rows the seed migration puts in each table.
var seedRows = map[string]int{
	"cities":             3,
	"points_of_interest": 6,
}

// TestMigrations walks the migration set down and up against a real Postgres
// database: from version 0, up applies the schema and seed data; down-to 0
// removes every table; a final up leaves the schema in place for the other
// packages' integration tests.
//
// The test is skipped automatically when TEST_DATABASE_URL is not set.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)
	ctx := context.Background()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	require.NoError(t, err, "create goose provider")

	// Another package's TestMain may already have migrated this shared
	// database; start from version 0 regardless.
	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "initial reset")

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	require.Len(t, results, 2, "expected schema and seed migrations")

	for table, want := range seedRows {
		require.True(t, tableExists(t, db, table), "table %q missing after up", table)
		assert.Equal(t, want, rowCount(t, db, table), "rows in %q", table)
	}

	// Identity sequences must continue after the seeded ids.
	var nextID int
	err = db.QueryRowContext(ctx,
		`INSERT INTO points_of_interest (city_id, name) VALUES (2, 'Sequence probe') RETURNING id`).Scan(&nextID)
	require.NoError(t, err)
	assert.Equal(t, 7, nextID)
	_, err = db.ExecContext(ctx, `DELETE FROM points_of_interest WHERE id = $1`, nextID)
	require.NoError(t, err)

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")

	for table := range seedRows {
		assert.False(t, tableExists(t, db, table), "table %q left after down", table)
	}

	_, err = provider.Up(ctx)
	require.NoError(t, err, "goose up after reset")
}

// tableExists reports whether table exists in the public schema.
func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()

	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`
	var exists bool
	require.NoError(t, db.QueryRowContext(context.Background(), q, table).Scan(&exists))
	return exists
}

// rowCount returns the number of rows in table.
func rowCount(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
