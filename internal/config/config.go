// Package config manages application configuration stored as TOML under
// the user's home directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the root application configuration.
type Config struct {
	// Catalog configures the card catalog client and its cache.
	Catalog CatalogConfig `toml:"catalog"`

	// Advisor configures recommendation behavior.
	Advisor AdvisorConfig `toml:"advisor"`

	// Collection configures the collection CSV import.
	Collection CollectionConfig `toml:"collection"`

	// Storage configures the local database.
	Storage StorageConfig `toml:"storage"`

	// App holds application-level settings.
	App AppConfig `toml:"app"`
}

// CatalogConfig configures access to the card catalog.
type CatalogConfig struct {
	BaseURL  string `toml:"base_url"`  // Catalog API base URL (empty = default)
	CacheTTL string `toml:"cache_ttl"` // Cache freshness window (e.g., "168h")
}

// AdvisorConfig configures the recommendation engine.
type AdvisorConfig struct {
	Format         string `toml:"format"`          // Default format for legality checks
	BatchIncrement int    `toml:"batch_increment"` // Recommendations per "show more" step
}

// CollectionConfig configures collection tracking.
type CollectionConfig struct {
	CSVPath string `toml:"csv_path"` // Path to the collection CSV export
	Watch   bool   `toml:"watch"`    // Reload automatically on file changes
}

// StorageConfig configures the SQLite database.
type StorageConfig struct {
	Path string `toml:"path"` // Database file path (empty = default location)
}

// AppConfig holds application-level settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:  "",
			CacheTTL: "168h",
		},
		Advisor: AdvisorConfig{
			Format:         "standard",
			BatchIncrement: 5,
		},
		Collection: CollectionConfig{
			CSVPath: "",
			Watch:   false,
		},
		Storage: StorageConfig{
			Path: "",
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// Dir returns the application data directory, creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".deck-advisor")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}

func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DatabasePath returns the configured database location, falling back
// to the default file in the application directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "advisor.db"), nil
}

// Load reads the configuration from disk. A missing file yields the
// defaults.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &config, nil
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks configuration values.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Catalog.CacheTTL); err != nil {
		return fmt.Errorf("invalid cache TTL %q: %w", c.Catalog.CacheTTL, err)
	}
	if c.Advisor.BatchIncrement <= 0 {
		return fmt.Errorf("batch increment must be positive: %d", c.Advisor.BatchIncrement)
	}
	return nil
}

// GetCacheTTL returns the catalog cache TTL as a duration.
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return time.ParseDuration(c.Catalog.CacheTTL)
}
