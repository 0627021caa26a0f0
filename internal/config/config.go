// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"fence-bom/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Store contains configuration store settings
	Store StoreConfig `json:"store"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Engine contains calculation engine settings
	Engine EngineConfig `json:"engine"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// StoreConfig contains configuration store settings
type StoreConfig struct {
	// DatabasePath is the path to the SQLite configuration database
	DatabasePath string `json:"database_path"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`
}

// EngineConfig contains calculation engine settings
type EngineConfig struct {
	// DefaultPostSpacing is the last-resort post spacing in feet,
	// used when neither parameters nor the product type define one
	DefaultPostSpacing float64 `json:"default_post_spacing"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".fence-bom", "config.db")

	return &Config{
		Version: "1.0",
		Store: StoreConfig{
			DatabasePath: dbPath,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Engine: EngineConfig{
			DefaultPostSpacing: 8,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
