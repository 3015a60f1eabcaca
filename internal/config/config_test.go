package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	EnvConfig,
	"MMWS_SERVER", "MMWS_USERNAME", "MMWS_PASSWORD", "MMWS_SCHEME", "MMWS_TIMEOUT",
	"MMWS_LOGGING_LEVEL", "MMWS_LOGGING_FORMAT",
}

// isolate clears MMWS_* variables, points XDG_CONFIG_HOME at an empty
// directory and runs the test from a fresh working directory.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	t.Chdir(t.TempDir())
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestResolveConfigPath(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		envValue string
		want     string
	}{
		{"flag takes precedence", "/path/from/flag", "/path/from/env", "/path/from/flag"},
		{"env when no flag", "", "/path/from/env", "/path/from/env"},
		{"empty when neither", "", "", ""},
		{"whitespace flag", "  ", "/path/from/env", "/path/from/env"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfig, tt.envValue)
			assert.Equal(t, tt.want, ResolveConfigPath(tt.flag))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Server)
	assert.Equal(t, "http", cfg.Scheme)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadFromXDGDefault(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "mmws", "config.yaml"), "server: mm.example.com\nusername: admin\n")

	assert.Equal(t, filepath.Join(home, "mmws", "config.yaml"), DefaultPath())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mm.example.com", cfg.Server)
	assert.Equal(t, "admin", cfg.Username)
}

func TestLoadFromFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "mmws.yaml")
	writeFile(t, path, `server: ipam.corp:8080
username: svc
password: hunter2
scheme: https
timeout: 10s
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ipam.corp:8080", cfg.Server)
	assert.Equal(t, "svc", cfg.Username)
	assert.Equal(t, "hunter2", cfg.Password)
	assert.Equal(t, "https", cfg.Scheme)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromEnvConfig(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "env.yaml")
	writeFile(t, path, "server: from-env-file\n")
	t.Setenv(EnvConfig, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env-file", cfg.Server)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "server: [unterminated\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "mmws.yaml")
	writeFile(t, path, "server: file.example\nlogging:\n  level: warn\n")

	t.Setenv("MMWS_SERVER", "env.example")
	t.Setenv("MMWS_TIMEOUT", "5s")
	t.Setenv("MMWS_LOGGING_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env.example", cfg.Server)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestDotEnv(t *testing.T) {
	isolate(t)
	writeFile(t, ".env", "MMWS_SERVER=dotenv.example\nMMWS_PASSWORD=from-dotenv\n")
	t.Setenv("MMWS_PASSWORD", "from-shell")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv.example", cfg.Server)
	assert.Equal(t, "from-shell", cfg.Password, "the shell wins over .env")
}

func TestLoadDotEnvMissing(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		check   func(t *testing.T, cfg Config)
	}{
		{
			name:    "missing server",
			cfg:     Config{Server: "  "},
			wantErr: true,
		},
		{
			name: "normalizes",
			cfg:  Config{Server: " mm.example.com/ ", Scheme: "HTTPS", Logging: LoggingConfig{Level: "debug", Format: " JSON "}},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "mm.example.com", cfg.Server)
				assert.Equal(t, "https", cfg.Scheme)
				assert.Equal(t, 30*time.Second, cfg.Timeout)
				assert.Equal(t, "DEBUG", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
		{
			name: "fills defaults",
			cfg:  Config{Server: "mm"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "http", cfg.Scheme)
				assert.Equal(t, "INFO", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name:    "bad scheme",
			cfg:     Config{Server: "mm", Scheme: "ftp"},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			cfg:     Config{Server: "mm", Timeout: -time.Second},
			wantErr: true,
		},
		{
			name:    "bad log format",
			cfg:     Config{Server: "mm", Logging: LoggingConfig{Format: "xml"}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
