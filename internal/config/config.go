// Package config provides configuration management for wikimacro.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backends a config can select.
const (
	BackendAPI      = "api"
	BackendPostgres = "postgres"
)

// DefaultListenAddr is used by serve when no address is configured.
const DefaultListenAddr = ":8080"

// Config holds the wikimacro configuration.
type Config struct {
	Backend      string  `yaml:"backend,omitempty"`
	URL          string  `yaml:"url,omitempty"`
	Email        string  `yaml:"email,omitempty"`
	APIToken     string  `yaml:"api_token,omitempty"`
	DatabaseURL  string  `yaml:"database_url,omitempty"`
	SiteURL      string  `yaml:"site_url,omitempty"`
	ListenAddr   string  `yaml:"listen_addr,omitempty"`
	OutputFormat string  `yaml:"output_format,omitempty"`
	Storage      Storage `yaml:"storage,omitempty"`
}

// Storage locates attachment files on disk.
type Storage struct {
	RootPath string `yaml:"root_path,omitempty"`
	AppPath  string `yaml:"app_path,omitempty"`
	FilePath string `yaml:"file_path,omitempty"`
}

// BackendName returns the configured backend, defaulting to the REST API.
func (c *Config) BackendName() string {
	if c.Backend == "" {
		return BackendAPI
	}
	return strings.ToLower(c.Backend)
}

// Validate checks that all required fields are present and valid.
func (c *Config) Validate() error {
	switch c.BackendName() {
	case BackendAPI:
		if c.URL == "" {
			return errors.New("url is required")
		}
		if c.Email == "" {
			return errors.New("email is required")
		}
		if c.APIToken == "" {
			return errors.New("api_token is required")
		}

		// Validate URL scheme
		if !strings.HasPrefix(c.URL, "https://") {
			return errors.New("url must use https")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("database_url is required")
		}
		if !strings.HasPrefix(c.DatabaseURL, "postgres://") && !strings.HasPrefix(c.DatabaseURL, "postgresql://") {
			return errors.New("database_url must be a postgres:// URL")
		}
	default:
		return fmt.Errorf("unknown backend %q (use %s or %s)", c.Backend, BackendAPI, BackendPostgres)
	}

	if c.Storage.AppPath == "" {
		return errors.New("storage.app_path is required")
	}

	return nil
}

// NormalizeURL trims trailing slashes from the site URLs.
func (c *Config) NormalizeURL() {
	c.URL = strings.TrimSuffix(c.URL, "/")
	c.SiteURL = strings.TrimSuffix(c.SiteURL, "/")
}

// PublicURL returns the URL used to build links, falling back to the API URL.
func (c *Config) PublicURL() string {
	if c.SiteURL != "" {
		return c.SiteURL
	}
	return c.URL
}

// Addr returns the serve listen address.
func (c *Config) Addr() string {
	if c.ListenAddr == "" {
		return DefaultListenAddr
	}
	return c.ListenAddr
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// Precedence: WIKIMACRO_* → DATABASE_URL → existing config value
func (c *Config) LoadFromEnv() {
	if backend := os.Getenv("WIKIMACRO_BACKEND"); backend != "" {
		c.Backend = backend
	}
	if url := os.Getenv("WIKIMACRO_URL"); url != "" {
		c.URL = url
	}
	if email := os.Getenv("WIKIMACRO_EMAIL"); email != "" {
		c.Email = email
	}
	if token := os.Getenv("WIKIMACRO_API_TOKEN"); token != "" {
		c.APIToken = token
	}
	if dsn := getEnvWithFallback("WIKIMACRO_DATABASE_URL", "DATABASE_URL"); dsn != "" {
		c.DatabaseURL = dsn
	}
	if site := os.Getenv("WIKIMACRO_SITE_URL"); site != "" {
		c.SiteURL = site
	}
	if addr := os.Getenv("WIKIMACRO_LISTEN_ADDR"); addr != "" {
		c.ListenAddr = addr
	}
	if p := os.Getenv("WIKIMACRO_ROOT_PATH"); p != "" {
		c.Storage.RootPath = p
	}
	if p := os.Getenv("WIKIMACRO_APP_PATH"); p != "" {
		c.Storage.AppPath = p
	}
	if p := os.Getenv("WIKIMACRO_FILE_PATH"); p != "" {
		c.Storage.FilePath = p
	}
}

// getEnvWithFallback returns the value of the primary env var, or the fallback if primary is empty.
func getEnvWithFallback(primary, fallback string) string {
	if v := os.Getenv(primary); v != "" {
		return v
	}
	return os.Getenv(fallback)
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "wikimacro", "config.yml")
	}

	// Fall back to ~/.config/wikimacro/config.yml
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".wikimacro", "config.yml")
	}

	return filepath.Join(home, ".config", "wikimacro", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with restricted permissions (user read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		// If file doesn't exist, start with empty config
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}
