package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var environmentKeys = []string{
	"PUSHOVER_CONFIG",
	"PUSHOVER_TOKEN",
	"PUSHOVER_USER",
	"PUSHOVER_LOG_LEVEL",
	"PUSHOVER_TIMEOUT_SECONDS",
	"PUSHOVER_HISTORY_PATH",
}

func isolateEnvironment(t *testing.T) {
	t.Helper()
	for _, key := range environmentKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeConfigFile(t *testing.T, path string, document map[string]any) string {
	t.Helper()

	data, marshalErr := yaml.Marshal(document)
	if marshalErr != nil {
		t.Fatalf("marshal config: %v", marshalErr)
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(path), 0o755); mkdirErr != nil {
		t.Fatalf("create config dir: %v", mkdirErr)
	}
	if writeErr := os.WriteFile(path, data, 0o600); writeErr != nil {
		t.Fatalf("write config: %v", writeErr)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	isolateEnvironment(t)

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Token() != "" || cfg.User() != "" {
		t.Fatalf("expected empty credentials, got %q %q", cfg.Token(), cfg.User())
	}
	if cfg.LogLevel() != "WARN" {
		t.Fatalf("expected WARN log level, got %q", cfg.LogLevel())
	}
	if cfg.OperationTimeout() != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %v", cfg.OperationTimeout())
	}
	if cfg.HistoryEnabled() {
		t.Fatalf("expected history to be disabled by default")
	}
	if cfg.ConfigFile() != "" {
		t.Fatalf("expected no config file, got %q", cfg.ConfigFile())
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	isolateEnvironment(t)
	t.Setenv("PUSHOVER_TOKEN", " app-token ")
	t.Setenv("PUSHOVER_USER", "user-key")
	t.Setenv("PUSHOVER_LOG_LEVEL", "DEBUG")
	t.Setenv("PUSHOVER_TIMEOUT_SECONDS", "5")
	t.Setenv("PUSHOVER_HISTORY_PATH", "/tmp/history.db")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Token() != "app-token" {
		t.Fatalf("unexpected token %q", cfg.Token())
	}
	if cfg.User() != "user-key" {
		t.Fatalf("unexpected user %q", cfg.User())
	}
	if cfg.LogLevel() != "DEBUG" {
		t.Fatalf("unexpected log level %q", cfg.LogLevel())
	}
	if cfg.OperationTimeout() != 5*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.OperationTimeout())
	}
	if !cfg.HistoryEnabled() || cfg.HistoryPath() != "/tmp/history.db" {
		t.Fatalf("unexpected history path %q", cfg.HistoryPath())
	}
}

func TestLoadReadsExplicitFileWithEnvironmentPrecedence(t *testing.T) {
	isolateEnvironment(t)
	configPath := writeConfigFile(t, filepath.Join(t.TempDir(), "pushover.yaml"), map[string]any{
		"token":           "file-token",
		"user":            "file-user",
		"log_level":       "ERROR",
		"timeout_seconds": 12,
		"history_path":    "history.db",
	})
	t.Setenv("PUSHOVER_CONFIG", configPath)
	t.Setenv("PUSHOVER_USER", "env-user")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ConfigFile() != configPath {
		t.Fatalf("expected config file %q, got %q", configPath, cfg.ConfigFile())
	}
	if cfg.Token() != "file-token" {
		t.Fatalf("unexpected token %q", cfg.Token())
	}
	if cfg.User() != "env-user" {
		t.Fatalf("expected environment to override file, got %q", cfg.User())
	}
	if cfg.LogLevel() != "ERROR" {
		t.Fatalf("unexpected log level %q", cfg.LogLevel())
	}
	if cfg.OperationTimeout() != 12*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.OperationTimeout())
	}
	if cfg.HistoryPath() != "history.db" {
		t.Fatalf("unexpected history path %q", cfg.HistoryPath())
	}
}

func TestLoadReadsDefaultFile(t *testing.T) {
	isolateEnvironment(t)
	configPath := writeConfigFile(t, DefaultFilePath(), map[string]any{
		"token": "default-file-token",
	})

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ConfigFile() != configPath {
		t.Fatalf("expected default config file %q, got %q", configPath, cfg.ConfigFile())
	}
	if cfg.Token() != "default-file-token" {
		t.Fatalf("unexpected token %q", cfg.Token())
	}
}

func TestLoadRejectsInvalidInput(t *testing.T) {
	testCases := []struct {
		name           string
		mutateEnv      func(t *testing.T)
		errorSubstring string
	}{
		{
			name: "NonPositiveTimeout",
			mutateEnv: func(t *testing.T) {
				t.Setenv("PUSHOVER_TIMEOUT_SECONDS", "0")
			},
			errorSubstring: "invalid timeout_seconds",
		},
		{
			name: "MissingConfigFile",
			mutateEnv: func(t *testing.T) {
				t.Setenv("PUSHOVER_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
			},
			errorSubstring: "read config file",
		},
		{
			name: "MalformedConfigFile",
			mutateEnv: func(t *testing.T) {
				configPath := filepath.Join(t.TempDir(), "broken.yaml")
				if err := os.WriteFile(configPath, []byte("token: [unclosed"), 0o600); err != nil {
					t.Fatalf("write config: %v", err)
				}
				t.Setenv("PUSHOVER_CONFIG", configPath)
			},
			errorSubstring: "read config file",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			isolateEnvironment(t)
			testCase.mutateEnv(t)

			_, err := Load(viper.New())
			if err == nil {
				t.Fatalf("expected error containing %q", testCase.errorSubstring)
			}
			if !strings.Contains(err.Error(), testCase.errorSubstring) {
				t.Fatalf("expected error containing %q, got %v", testCase.errorSubstring, err)
			}
		})
	}
}
