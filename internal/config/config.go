// Package config loads the mmwsctl configuration.
//
// Values come, lowest precedence first, from built-in defaults, a YAML
// file, a .env file in the working directory and MMWS_* environment
// variables. The file is the one named by the --config flag, else
// $MMWS_CONFIG, else $XDG_CONFIG_HOME/mmws/config.yaml when it exists.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment override, e.g. MMWS_SERVER.
	EnvPrefix = "MMWS"
	// EnvConfig names the config file when no flag is given.
	EnvConfig = "MMWS_CONFIG"

	defaultScheme  = "http"
	defaultTimeout = 30 * time.Second
)

// Config is the root configuration structure.
type Config struct {
	Server   string        `mapstructure:"server"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Scheme   string        `mapstructure:"scheme"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Logging  LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultPath returns the XDG location of the config file.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "mmws", "config.yaml")
}

// ResolveConfigPath picks the config file named by flag or $MMWS_CONFIG.
// It returns "" when neither is set.
func ResolveConfigPath(flag string) string {
	if p := strings.TrimSpace(flag); p != "" {
		return p
	}
	return strings.TrimSpace(os.Getenv(EnvConfig))
}

// LoadDotEnv exports the variables in path into the environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration. flagPath is the value of --config, if any.
// An explicitly named file must exist; the XDG default is optional.
func Load(flagPath string) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("server", "")
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("scheme", defaultScheme)
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("logging.level", "INFO")
	v.SetDefault("logging.format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := ResolveConfigPath(flagPath)
	if path == "" {
		if _, err := os.Stat(DefaultPath()); err == nil {
			path = DefaultPath()
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate validates and normalizes the configuration.
func (cfg *Config) Validate() error {
	cfg.Server = strings.TrimRight(strings.TrimSpace(cfg.Server), "/")
	if cfg.Server == "" {
		return errors.New("server is required (set server in the config file or MMWS_SERVER)")
	}

	cfg.Scheme = strings.ToLower(strings.TrimSpace(cfg.Scheme))
	if cfg.Scheme == "" {
		cfg.Scheme = defaultScheme
	}
	if cfg.Scheme != "http" && cfg.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", cfg.Scheme)
	}

	if cfg.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be text or json, got %q", cfg.Logging.Format)
	}
	return nil
}
