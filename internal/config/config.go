// Package config manages tabrotate application configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultProfileName is the profile used when none is selected.
const DefaultProfileName = "default"

// DefaultSessionTTL is how long a cached sign-in session is reused.
const DefaultSessionTTL = 2 * time.Hour

// Profile describes one Tableau site and the PAT used to sign in to it.
// The PAT secret is never stored here.
type Profile struct {
	Server     string `yaml:"server"`
	Site       string `yaml:"site"` // site content URL; empty for the default site
	TokenName  string `yaml:"token_name"`
	APIVersion string `yaml:"api_version,omitempty"`
}

// Config holds the tabrotate application configuration.
type Config struct {
	DefaultProfile string             `yaml:"default_profile"`
	SessionTTL     string             `yaml:"session_ttl,omitempty"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		DefaultProfile: DefaultProfileName,
		Profiles:       make(map[string]Profile),
	}
}

// Load reads a config file from the given path. If the file does not exist,
// it returns the default config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]Profile)
	}
	if cfg.DefaultProfile == "" {
		cfg.DefaultProfile = DefaultProfileName
	}

	return cfg, nil
}

// Save writes a config to the given path, creating parent directories as needed.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// LoadDefaultWithPath resolves the config path via ConfigPath() and loads the config.
// Returns the config, the resolved path, and any error.
func LoadDefaultWithPath() (*Config, string, error) {
	cfgPath, err := ConfigPath()
	if err != nil {
		return nil, "", fmt.Errorf("failed to determine config path: %w", err)
	}
	cfg, err := Load(cfgPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, cfgPath, nil
}

// ConfigDir returns the default config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".tabrotate"), nil
}

// ConfigPath returns the config file path, respecting the TABROTATE_CONFIG env var.
func ConfigPath() (string, error) {
	if p := os.Getenv("TABROTATE_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ParseSessionTTL returns the configured session cache TTL.
// Falls back to DefaultSessionTTL if the config value is empty or unparseable.
func ParseSessionTTL(cfg *Config) time.Duration {
	if cfg.SessionTTL == "" {
		return DefaultSessionTTL
	}
	d, err := time.ParseDuration(cfg.SessionTTL)
	if err != nil || d <= 0 {
		return DefaultSessionTTL
	}
	return d
}

// Validate checks that the profile can be used to sign in.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Server) == "" {
		return errors.New("server URL is required")
	}
	if err := ValidateServerURL(p.Server); err != nil {
		return err
	}
	if strings.TrimSpace(p.TokenName) == "" {
		return errors.New("personal access token name is required")
	}
	return nil
}

// ValidateServerURL checks that the server URL is an absolute http(s) URL.
func ValidateServerURL(server string) error {
	u, err := url.Parse(strings.TrimSpace(server))
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	if u.Scheme != "https" && u.Scheme != "http" {
		return errors.New("invalid server URL: must use http or https scheme")
	}

	if u.Host == "" {
		return errors.New("invalid server URL: must have a host")
	}

	return nil
}
