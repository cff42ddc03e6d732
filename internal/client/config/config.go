package config

import "time"

// Config holds runtime settings for the arestate CLI.
//
// Fields:
//   - ServerURL: base URL of the REST backend.
//   - DatabasePath: SQLite file holding remembered credentials.
//   - LogLevel: debug, info, warn or error.
//   - OnlineCheckInterval: how often the client checks server reachability.
type Config struct {
	ServerURL           string
	DatabasePath        string
	LogLevel            string
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabasePath = "arestate.db"
	c.LogLevel = "warn"
	c.OnlineCheckInterval = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
