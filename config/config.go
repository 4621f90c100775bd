// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPort        = "8080"
	DefaultMaxUploadMB = 32
	DefaultOrigin      = "http://localhost:3000"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
}

// ServerConfig maps HTTP server settings.
type ServerConfig struct {
	Port           *string  `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
	MaxUploadMB    *int     `toml:"max_upload_mb"`
}

// StoreConfig maps attack history settings.
type StoreConfig struct {
	Enabled *bool   `toml:"enabled"`
	Path    *string `toml:"path"`
}

// Settings is the resolved configuration with defaults and env overrides applied.
type Settings struct {
	Port           string
	AllowedOrigins []string
	MaxUploadBytes int64
	StoreEnabled   bool
	StorePath      string
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Resolve applies defaults, then file values, then the PORT and VIGENERE_DB
// environment variables.
func Resolve(cfg FileConfig) (Settings, error) {
	settings := Settings{
		Port:           DefaultPort,
		AllowedOrigins: []string{DefaultOrigin},
		MaxUploadBytes: DefaultMaxUploadMB << 20,
		StoreEnabled:   true,
		StorePath:      DefaultDBPath(),
	}

	if cfg.Server.Port != nil {
		settings.Port = *cfg.Server.Port
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		settings.AllowedOrigins = cfg.Server.AllowedOrigins
	}
	if cfg.Server.MaxUploadMB != nil {
		if *cfg.Server.MaxUploadMB <= 0 {
			return Settings{}, fmt.Errorf("server.max_upload_mb must be > 0")
		}
		settings.MaxUploadBytes = int64(*cfg.Server.MaxUploadMB) << 20
	}
	if cfg.Store.Enabled != nil {
		settings.StoreEnabled = *cfg.Store.Enabled
	}
	if cfg.Store.Path != nil {
		settings.StorePath = *cfg.Store.Path
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		settings.Port = port
	}
	if path := strings.TrimSpace(os.Getenv("VIGENERE_DB")); path != "" {
		settings.StorePath = path
	}

	if settings.StoreEnabled && settings.StorePath == "" {
		return Settings{}, fmt.Errorf("store.path must not be empty when the store is enabled")
	}
	return settings, nil
}

// Load reads the config file at path and resolves it.
func Load(path string) (Settings, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return Settings{}, err
	}
	return Resolve(cfg)
}

// XDGConfigHome returns $XDG_CONFIG_HOME, or ~/.config when it is unset or
// relative.
func XDGConfigHome() string {
	return xdgHome("XDG_CONFIG_HOME", ".config")
}

// XDGDataHome returns $XDG_DATA_HOME, or ~/.local/share when it is unset or
// relative.
func XDGDataHome() string {
	return xdgHome("XDG_DATA_HOME", ".local", "share")
}

// xdgHome ignores relative values, which the base directory layout treats as
// invalid. Without a home directory the paths resolve under the working
// directory.
func xdgHome(env string, fallback ...string) string {
	if v := os.Getenv(env); filepath.IsAbs(v) {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// DefaultConfigPath returns $VIGENERE_CONFIG or the XDG config file path.
func DefaultConfigPath() string {
	if v := os.Getenv("VIGENERE_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(XDGConfigHome(), "vigenere", "config.toml")
}

// DefaultDBPath returns the default path for the SQLite history database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "vigenere", "history.db")
}
