package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(file, []byte("# Notes"), 0o644))

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https url", "https://example.com/post", false},
		{"http url", "http://localhost:8080/a", false},
		{"stdin", "-", false},
		{"existing file", file, false},
		{"padded file", "  " + file + "\n", false},
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"missing file", filepath.Join(dir, "missing.txt"), true},
		{"directory", dir, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Source(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "Source(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

func TestSourceField(t *testing.T) {
	assert.NoError(t, SourceField("source", "-"))

	err := SourceField("source", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source")
}
