// Package config loads and saves the edupulse TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// EnvDBPath overrides the configured database path.
const EnvDBPath = "EDUPULSE_DB"

// Config holds all edupulse configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Server     ServerConfig     `toml:"server"`
	Client     ClientConfig     `toml:"client"`
	Finance    FinanceConfig    `toml:"finance"`
	Charts     ChartsConfig     `toml:"charts"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultPeriod string `toml:"default_period"`
	DBPath        string `toml:"db_path,omitempty"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// ClientConfig points the terminal dashboard at a remote server.
// An empty URL computes metrics from the local database.
type ClientConfig struct {
	ServerURL string `toml:"server_url,omitempty"`
}

// FinanceConfig holds inputs of the financial metrics.
type FinanceConfig struct {
	MonthlyMarketingCosts float64 `toml:"monthly_marketing_costs"`
}

// ChartsConfig sizes the server-rendered charts in pixels.
type ChartsConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultPeriod: "last30days",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Finance: FinanceConfig{
			MonthlyMarketingCosts: 50000,
		},
		Charts: ChartsConfig{
			Width:  1200,
			Height: 400,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "edupulse")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "edupulse")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "edupulse")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "edupulse")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's config file
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is the user's config file
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// DBPath returns the database path from env var, config, or the default
// data directory, in that order.
func DBPath(cfg Config) string {
	if p := os.Getenv(EnvDBPath); p != "" {
		return p
	}
	if cfg.General.DBPath != "" {
		return cfg.General.DBPath
	}
	return filepath.Join(DataDir(), "edupulse.db")
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
