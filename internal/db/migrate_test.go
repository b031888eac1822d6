package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMigratedDB(t *testing.T) *DB {
	t.Helper()
	database, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, NewMigrator(database.DB).Up())
	return database
}

func TestMigrateUp(t *testing.T) {
	database := setupMigratedDB(t)

	version, err := NewMigrator(database.DB).CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	for _, table := range []string{"sync_log", "sync_version", "vessels", "vessel_types", "routes", "landing_sites"} {
		var name string
		err := database.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		assert.NoError(t, err, "table %s missing", table)
	}
}

func TestMigrateUpIdempotent(t *testing.T) {
	database := setupMigratedDB(t)

	// Reapplying is a no-op.
	require.NoError(t, NewMigrator(database.DB).Up())

	migrations, err := NewMigrator(database.DB).GetAppliedMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 1)
	assert.Equal(t, "initial_schema", migrations[0].Description)
	assert.Len(t, migrations[0].Checksum, 64)
}

func TestMigrateDown(t *testing.T) {
	database := setupMigratedDB(t)

	require.NoError(t, NewMigrator(database.DB).Down())

	version, err := NewMigrator(database.DB).CurrentVersion()
	require.NoError(t, err)
	assert.Zero(t, version)

	var count int
	err = database.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'sync_log'`).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSyncLogActionConstraint(t *testing.T) {
	database := setupMigratedDB(t)

	_, err := database.Exec(
		`INSERT INTO sync_log (entity_type, entity_id, action, payload, created_at, is_latest, major_version)
		 VALUES ('route', '1', 'upsert', NULL, 0, 1, 1)`,
	)
	assert.Error(t, err)
}
