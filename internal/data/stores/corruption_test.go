package stores

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/colonyops/clarity/internal/data/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCorruptionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "malformed", err: errors.New("database disk image is malformed"), want: true},
		{name: "wrapped not a database", err: fmt.Errorf("open: %w", errors.New("file is not a database")), want: true},
		{name: "unrelated", err: errors.New("connection refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCorruptionError(tt.err))
		})
	}
}

func TestRecoverFromCorruption(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, db.FileName)

	require.NoError(t, os.WriteFile(dbPath, []byte("garbage"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("wal"), 0o644))

	backup, err := RecoverFromCorruption(dir)
	require.NoError(t, err)

	_, err = os.Stat(dbPath)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(dbPath + "-wal")
	assert.ErrorIs(t, err, os.ErrNotExist)

	content, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "garbage", string(content))
	assert.FileExists(t, backup+"-wal")

	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	_ = database.Close()
}

func TestRecoverFromCorruption_MissingFile(t *testing.T) {
	_, err := RecoverFromCorruption(t.TempDir())
	require.NoError(t, err)
}
