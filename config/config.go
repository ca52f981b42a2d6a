// ABOUTME: Process-wide configuration for the outreach workspace
// ABOUTME: Merges defaults, XDG config file, .env and AUTOREACH_* environment overrides
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	// AppName names the XDG subdirectories.
	AppName = "autoreach"

	// DefaultAPIURL is the backend a local development server listens on.
	DefaultAPIURL = "http://localhost:8000"

	// DefaultCRMTarget is used by crm-sync when routing names no target.
	DefaultCRMTarget = "Salesforce"

	ConfigFileName = "config.json"
)

// Config holds settings injected once at process start.
type Config struct {
	// APIURL is the backend base URL
	APIURL string `json:"api_url"`

	// APIToken is sent as a bearer token when set
	APIToken string `json:"api_token,omitempty"`

	DBPath   string `json:"db_path,omitempty"`
	LogFile  string `json:"log_file,omitempty"`
	LogLevel string `json:"log_level,omitempty"`

	// RequestTimeout bounds backend calls; zero means no timeout
	RequestTimeout Duration `json:"request_timeout,omitempty"`

	CRMTarget string `json:"crm_target,omitempty"`
}

// Duration marshals as a Go duration string ("30s").
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIURL:    DefaultAPIURL,
		DBPath:    filepath.Join(xdg.DataHome, AppName, "autoreach.db"),
		LogFile:   filepath.Join(xdg.StateHome, AppName, "autoreach.log"),
		LogLevel:  "info",
		CRMTarget: DefaultCRMTarget,
	}
}

// ConfigPath returns the XDG path of the JSON config file.
func ConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, ConfigFileName)
}

// Load reads the config file (if any), then .env, then environment overrides:
// - AUTOREACH_API_URL
// - AUTOREACH_API_TOKEN
// - AUTOREACH_DB_PATH
// - AUTOREACH_LOG_FILE
// - AUTOREACH_LOG_LEVEL
// - AUTOREACH_REQUEST_TIMEOUT
// - AUTOREACH_CRM_TARGET.
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}

	// .env is optional; a missing file is not an error
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.normalize()

	return cfg, nil
}

// LoadFile reads defaults plus the config file only. Use it when the result
// will be saved back, so environment overrides never leak into the file.
func LoadFile() (*Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(ConfigPath())
	switch {
	case err == nil:
		defer func() { _ = f.Close() }()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", ConfigPath(), err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("AUTOREACH_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("AUTOREACH_API_TOKEN"); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv("AUTOREACH_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("AUTOREACH_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("AUTOREACH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("AUTOREACH_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid AUTOREACH_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = Duration(d)
	}
	if v := os.Getenv("AUTOREACH_CRM_TARGET"); v != "" {
		cfg.CRMTarget = v
	}
	return nil
}

func (c *Config) normalize() {
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.CRMTarget == "" {
		c.CRMTarget = DefaultCRMTarget
	}
}

// Save persists the config to the XDG config path.
func (c *Config) Save() error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Set updates a single key by its JSON name.
func (c *Config) Set(key, value string) error {
	switch key {
	case "api_url":
		c.APIURL = value
	case "api_token":
		c.APIToken = value
	case "db_path":
		c.DBPath = value
	case "log_file":
		c.LogFile = value
	case "log_level":
		c.LogLevel = value
	case "request_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		c.RequestTimeout = Duration(d)
	case "crm_target":
		c.CRMTarget = value
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	c.normalize()
	return nil
}

// Keys lists the settable keys.
func Keys() []string {
	keys := []string{"api_url", "api_token", "db_path", "log_file", "log_level", "request_timeout", "crm_target"}
	sort.Strings(keys)
	return keys
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.APIToken != "" {
		c.APIToken = "********"
	}
	return c
}
