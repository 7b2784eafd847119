// Package config loads store-wide tuning from YAML, as an alternative to
// constructing a Builder fully programmatically.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the store settings that make sense to externalize into a
// deployment file: dev-mode logging, queue-depth warnings, and which
// persistence.Backend to wire up. store.Builder.Config applies the queue
// and persistence settings; it does not read DevLogger.
type Config struct {
	DevLogger     bool `yaml:"dev_logger"`
	QueueWarnSize int  `yaml:"queue_warn_size"`

	PersistenceBackend string `yaml:"persistence_backend"` // "", "file", or "sqlite"
	PersistencePath    string `yaml:"persistence_path"`
	SQLiteDSN          string `yaml:"sqlite_dsn"`
}

// GetDefaults returns a copy of c with every unset field filled in.
func (c *Config) GetDefaults() Config {
	result := *c

	if result.QueueWarnSize == 0 {
		result.QueueWarnSize = 1000
	}
	if result.PersistenceBackend == "file" && result.PersistencePath == "" {
		result.PersistencePath = "./reaktiv_state.json"
	}
	if result.PersistenceBackend == "sqlite" && result.SQLiteDSN == "" {
		result.SQLiteDSN = "./reaktiv_state.db"
	}

	return result
}

// Load reads the YAML file at path, expands ${VAR}/$VAR references against
// the process environment, and returns a defaulted Config.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(raw))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	defaulted := cfg.GetDefaults()
	return &defaulted, nil
}

func (c *Config) validate() error {
	switch c.PersistenceBackend {
	case "", "file", "sqlite":
		return nil
	default:
		return fmt.Errorf("persistence_backend %q: must be \"file\" or \"sqlite\"", c.PersistenceBackend)
	}
}
