package config

import "time"

// Config holds runtime settings for the EduPocket client.
//
// Units: all intervals are time.Duration values.
type Config struct {
	// APIBaseURL is the root of the school REST API.
	APIBaseURL string
	// DatabasePath is the SQLite file backing the local cache.
	DatabasePath string
	// OnlineCheckInterval is how often the client probes server reachability.
	OnlineCheckInterval time.Duration
	// FreshnessCooldown is the minimum interval between two version checks
	// for the same list.
	FreshnessCooldown time.Duration
	// RequestTimeout bounds a single API request.
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "edupocket.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.FreshnessCooldown = 30 * time.Second
	c.RequestTimeout = 10 * time.Second
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
