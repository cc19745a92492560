// Package config resolves client settings: defaults, then
// ~/.config/nyaya/config.toml, then environment variables. A .env file in
// the working directory is honored so dev setups match the backend compose
// files.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Service defaults match the backend's local dev ports.
const (
	DefaultAuthURL   = "http://localhost:8000"
	DefaultUploadURL = "http://localhost:8001"
	DefaultQueryURL  = "http://localhost:8003"
)

// DefaultHistoryTemplate renders an exported conversation history. Users
// override it by dropping history_template.md in the config dir.
const DefaultHistoryTemplate = `# {{filename}}

{{#entries}}
## {{question}}

{{answer}}

_{{sources}} relevant sections used · {{asked_at}}_

{{/entries}}
`

// Config is the resolved client configuration.
type Config struct {
	AuthURL         string
	UploadURL       string
	QueryURL        string
	PollInterval    time.Duration
	TokenPath       string
	HistoryTemplate string
	LogPath         string
}

type tomlConfig struct {
	AuthURL        string `toml:"auth_url"`
	UploadURL      string `toml:"upload_url"`
	QueryURL       string `toml:"query_url"`
	PollIntervalMS int    `toml:"poll_interval_ms"`
}

// Dir returns the config directory, ~/.config/nyaya.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "nyaya")
}

// Load resolves the configuration. It never fails hard: a missing config
// file or .env just leaves defaults in place.
func Load() *Config {
	// Dev convenience; ignored when absent.
	_ = godotenv.Load()

	cfg := &Config{
		AuthURL:         DefaultAuthURL,
		UploadURL:       DefaultUploadURL,
		QueryURL:        DefaultQueryURL,
		PollInterval:    5 * time.Second,
		TokenPath:       filepath.Join(Dir(), "token"),
		HistoryTemplate: DefaultHistoryTemplate,
		LogPath:         filepath.Join(Dir(), "nyaya.log"),
	}

	tomlPath := filepath.Join(Dir(), "config.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		var tc tomlConfig
		if _, err := toml.DecodeFile(tomlPath, &tc); err == nil {
			if tc.AuthURL != "" {
				cfg.AuthURL = tc.AuthURL
			}
			if tc.UploadURL != "" {
				cfg.UploadURL = tc.UploadURL
			}
			if tc.QueryURL != "" {
				cfg.QueryURL = tc.QueryURL
			}
			if tc.PollIntervalMS > 0 {
				cfg.PollInterval = time.Duration(tc.PollIntervalMS) * time.Millisecond
			}
		}
	}

	// Environment wins over the file.
	if v := os.Getenv("NYAYA_AUTH_URL"); v != "" {
		cfg.AuthURL = v
	}
	if v := os.Getenv("NYAYA_UPLOAD_URL"); v != "" {
		cfg.UploadURL = v
	}
	if v := os.Getenv("NYAYA_QUERY_URL"); v != "" {
		cfg.QueryURL = v
	}
	if v := os.Getenv("NYAYA_POLL_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.PollInterval = time.Duration(ms) * time.Millisecond
		}
	}

	// Custom history export template, if present.
	if data, err := os.ReadFile(filepath.Join(Dir(), "history_template.md")); err == nil {
		cfg.HistoryTemplate = string(data)
	}

	return cfg
}
