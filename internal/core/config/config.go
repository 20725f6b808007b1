// Package config handles configuration loading and validation for clarity.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/colonyops/clarity/internal/core/styles"
	"gopkg.in/yaml.v3"
)

// DefaultServerOrigin is the summarizer service used when none is configured.
const DefaultServerOrigin = "http://localhost:8000/"

// Config holds the application configuration.
type Config struct {
	ServerOrigin   string         `yaml:"server_origin"`
	TokenCount     int            `yaml:"token_count"`
	RequestTimeout time.Duration  `yaml:"request_timeout"`
	HoverSettle    time.Duration  `yaml:"hover_settle"`
	Scroll         ScrollConfig   `yaml:"scroll"`
	Cards          CardsConfig    `yaml:"cards"`
	Theme          string         `yaml:"theme"`
	Cache          CacheConfig    `yaml:"cache"`
	Database       DatabaseConfig `yaml:"database"`
	DataDir        string         `yaml:"-"` // set by caller, not from config file
}

// ScrollConfig tunes the smooth scroll animation of card viewports.
type ScrollConfig struct {
	Frames        int           `yaml:"frames"`
	FrameInterval time.Duration `yaml:"frame_interval"`
}

// CardsConfig controls the card layout of the reader.
type CardsConfig struct {
	Width   int `yaml:"width"`   // columns per card
	Overlap int `yaml:"overlap"` // columns a collapsed card keeps visible
}

// CacheConfig controls the response cache substrate.
type CacheConfig struct {
	Persist bool `yaml:"persist"` // false keeps responses in memory only
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ServerOrigin:   DefaultServerOrigin,
		TokenCount:     350,
		RequestTimeout: 60 * time.Second,
		HoverSettle:    120 * time.Millisecond,
		Scroll: ScrollConfig{
			Frames:        8,
			FrameInterval: 16 * time.Millisecond,
		},
		Cards: CardsConfig{
			Width:   60,
			Overlap: 3,
		},
		Theme: styles.DefaultTheme,
		Cache: CacheConfig{
			Persist: true,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.ServerOrigin == "" {
		c.ServerOrigin = defaults.ServerOrigin
	}
	if c.TokenCount == 0 {
		c.TokenCount = defaults.TokenCount
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaults.RequestTimeout
	}
	if c.HoverSettle == 0 {
		c.HoverSettle = defaults.HoverSettle
	}
	if c.Scroll.Frames == 0 {
		c.Scroll.Frames = defaults.Scroll.Frames
	}
	if c.Scroll.FrameInterval == 0 {
		c.Scroll.FrameInterval = defaults.Scroll.FrameInterval
	}
	if c.Cards.Width == 0 {
		c.Cards.Width = defaults.Cards.Width
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.ServerOrigin == "" {
		return fmt.Errorf("server_origin cannot be empty")
	}

	if c.TokenCount < 1 {
		return fmt.Errorf("token_count must be at least 1")
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout cannot be negative")
	}

	if c.HoverSettle < 0 {
		return fmt.Errorf("hover_settle cannot be negative")
	}

	if c.Scroll.Frames < 1 {
		return fmt.Errorf("scroll.frames must be at least 1")
	}

	if c.Cards.Width < 20 {
		return fmt.Errorf("cards.width must be at least 20")
	}

	if c.Cards.Overlap < 0 || c.Cards.Overlap >= c.Cards.Width {
		return fmt.Errorf("cards.overlap must be between 0 and cards.width")
	}

	if _, ok := styles.GetPalette(c.Theme); !ok {
		return fmt.Errorf("unknown theme %q", c.Theme)
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}

	return nil
}

// ServerURL returns the parsed server origin with a trailing slash so that
// endpoint names resolve relative to it.
func (c *Config) ServerURL() (*url.URL, error) {
	origin := c.ServerOrigin
	if origin != "" && origin[len(origin)-1] != '/' {
		origin += "/"
	}
	return url.Parse(origin)
}

// LogFile returns the default log file location inside the data directory.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "clarity.log")
}
