package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(t.TempDir(), DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func tableExists(t *testing.T, conn *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func TestOpen_AppliesEveryMigration(t *testing.T) {
	database := openTestDB(t)
	conn := database.Conn()

	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.Equal(t, []string{"kv_store", "reading_history"}, migrationNames(migrations))

	_, applied, err := migrationState(context.Background(), conn)
	require.NoError(t, err)
	assert.Len(t, applied, len(migrations))

	assert.True(t, tableExists(t, conn, "kv_store"))
	assert.True(t, tableExists(t, conn, "reading_history"))

	// Reopening the same file must not re-run anything.
	require.NoError(t, migrateUp(context.Background(), conn))
}

func migrationNames(ms []Migration) []string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name
	}
	return names
}

func TestMigrateDown_KeepsCachedResponses(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	conn := database.Conn()

	_, err := conn.ExecContext(ctx, `INSERT INTO kv_store (key, value, created_at) VALUES ('summary-1', '{}', 1)`)
	require.NoError(t, err)

	require.NoError(t, MigrateDown(ctx, conn, 1))
	assert.False(t, tableExists(t, conn, "reading_history"))

	var count int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM kv_store").Scan(&count))
	assert.Equal(t, 1, count)

	require.NoError(t, migrateUp(ctx, conn))
	assert.True(t, tableExists(t, conn, "reading_history"))
}

func TestReset_EmptiesTablesOnCurrentSchema(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	conn := database.Conn()

	_, err := conn.ExecContext(ctx, `INSERT INTO kv_store (key, value, created_at) VALUES ('summary-1', '{}', 1)`)
	require.NoError(t, err)

	require.NoError(t, database.Reset(ctx))

	var count int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM kv_store").Scan(&count))
	assert.Zero(t, count)
	assert.True(t, tableExists(t, conn, "reading_history"))

	version, err := database.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestMigrateDown_Bounds(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	for _, n := range []int{0, -1, 3} {
		assert.Error(t, MigrateDown(ctx, database.Conn(), n), "n=%d", n)
	}
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     migrationFile
		wantErr  bool
	}{
		{filename: "0001_kv_store.up.sql", want: migrationFile{version: 1, name: "kv_store", up: true}},
		{filename: "0002_reading_history.down.sql", want: migrationFile{version: 2, name: "reading_history"}},
		{filename: "0100_big_version.down.sql", want: migrationFile{version: 100, name: "big_version"}},
		{filename: "bad.sql", wantErr: true},
		{filename: "0001_initial.sql", wantErr: true},
		{filename: "0000_zero.up.sql", wantErr: true},
		{filename: "-1_negative.up.sql", wantErr: true},
		{filename: "abc_notnumber.up.sql", wantErr: true},
		{filename: "0001_.up.sql", wantErr: true},
		{filename: "0001.up.sql", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := parseFilename(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchemaVersion(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	migrations, err := loadMigrations()
	require.NoError(t, err)

	version, err := database.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, migrations[len(migrations)-1].Version, version)

	require.NoError(t, MigrateDown(ctx, database.Conn(), len(migrations)))
	version, err = database.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Zero(t, version)
}
