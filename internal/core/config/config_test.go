package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), dataDir)
	require.NoError(t, err)

	want := DefaultConfig()
	want.DataDir = dataDir
	assert.Equal(t, &want, cfg)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultServerOrigin, cfg.ServerOrigin)
	assert.Equal(t, 350, cfg.TokenCount)
	assert.Equal(t, 120*time.Millisecond, cfg.HoverSettle)
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server_origin: https://summaries.example.com/api/
token_count: 500
hover_settle: 200ms
scroll:
  frames: 4
cards:
  width: 72
cache:
  persist: false
theme: gruvbox
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://summaries.example.com/api/", cfg.ServerOrigin)
	assert.Equal(t, 500, cfg.TokenCount)
	assert.Equal(t, 200*time.Millisecond, cfg.HoverSettle)
	assert.Equal(t, 4, cfg.Scroll.Frames)
	assert.Equal(t, 16*time.Millisecond, cfg.Scroll.FrameInterval, "unset nested value keeps default")
	assert.Equal(t, 72, cfg.Cards.Width)
	assert.Equal(t, 3, cfg.Cards.Overlap)
	assert.False(t, cfg.Cache.Persist)
	assert.Equal(t, "gruvbox", cfg.Theme)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, "token_count: [nope")

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, "theme: neon-dreams\n")

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown theme "neon-dreams"`)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "no data dir", mutate: func(c *Config) { c.DataDir = "" }, wantErr: "data directory"},
		{name: "no origin", mutate: func(c *Config) { c.ServerOrigin = "" }, wantErr: "server_origin"},
		{name: "token count", mutate: func(c *Config) { c.TokenCount = -1 }, wantErr: "token_count"},
		{name: "negative settle", mutate: func(c *Config) { c.HoverSettle = -time.Second }, wantErr: "hover_settle"},
		{name: "frames", mutate: func(c *Config) { c.Scroll.Frames = 0 }, wantErr: "scroll.frames"},
		{name: "narrow cards", mutate: func(c *Config) { c.Cards.Width = 10 }, wantErr: "cards.width"},
		{name: "overlap too wide", mutate: func(c *Config) { c.Cards.Overlap = 60 }, wantErr: "cards.overlap"},
		{name: "zero overlap allowed", mutate: func(c *Config) { c.Cards.Overlap = 0 }},
		{name: "open conns", mutate: func(c *Config) { c.Database.MaxOpenConns = 0 }, wantErr: "max_open_conns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = t.TempDir()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServerURL_AddsTrailingSlash(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ServerOrigin = "https://example.com/v1"

	u, err := cfg.ServerURL()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v1/", u.String())

	ref, err := u.Parse("similarity")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v1/similarity", ref.String())
}

func TestLogFile(t *testing.T) {
	cfg := Config{DataDir: "/tmp/clarity"}
	assert.Equal(t, filepath.Join("/tmp/clarity", "clarity.log"), cfg.LogFile())
}
