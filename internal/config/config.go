package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	environmentPrefix = "PUSHOVER"

	keyConfigFile     = "config"
	keyToken          = "token"
	keyUser           = "user"
	keyLogLevel       = "log_level"
	keyTimeoutSeconds = "timeout_seconds"
	keyHistoryPath    = "history_path"

	defaultLogLevel       = "WARN"
	defaultTimeoutSeconds = 30
)

// Config holds CLI settings resolved from the environment and an optional
// YAML file. Environment variables take precedence over the file.
type Config struct {
	token          string
	user           string
	logLevel       string
	timeoutSeconds int
	historyPath    string
	configFile     string
}

// Load resolves configuration into v. PUSHOVER_CONFIG names the YAML file;
// otherwise <user config dir>/pushover/config.yaml is read when it exists.
func Load(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix(environmentPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	v.SetDefault(keyLogLevel, defaultLogLevel)
	v.SetDefault(keyTimeoutSeconds, defaultTimeoutSeconds)

	configFile := strings.TrimSpace(v.GetString(keyConfigFile))
	if configFile == "" {
		configFile = DefaultFilePath()
		if _, statErr := os.Stat(configFile); statErr != nil {
			configFile = ""
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if readErr := v.ReadInConfig(); readErr != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", configFile, readErr)
		}
	}

	timeoutSeconds := v.GetInt(keyTimeoutSeconds)
	if timeoutSeconds <= 0 {
		return Config{}, fmt.Errorf("invalid %s: %q must be a positive number of seconds", keyTimeoutSeconds, v.GetString(keyTimeoutSeconds))
	}

	return Config{
		token:          strings.TrimSpace(v.GetString(keyToken)),
		user:           strings.TrimSpace(v.GetString(keyUser)),
		logLevel:       strings.TrimSpace(v.GetString(keyLogLevel)),
		timeoutSeconds: timeoutSeconds,
		historyPath:    strings.TrimSpace(v.GetString(keyHistoryPath)),
		configFile:     configFile,
	}, nil
}

// DefaultFilePath returns the config file location used when PUSHOVER_CONFIG is unset.
func DefaultFilePath() string {
	configDirectory, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDirectory, "pushover", "config.yaml")
}

func (configuration Config) Token() string {
	return configuration.token
}

func (configuration Config) User() string {
	return configuration.user
}

func (configuration Config) LogLevel() string {
	return configuration.logLevel
}

func (configuration Config) OperationTimeout() time.Duration {
	return time.Duration(configuration.timeoutSeconds) * time.Second
}

// HistoryPath is the SQLite file for delivery history; empty disables history.
func (configuration Config) HistoryPath() string {
	return configuration.historyPath
}

func (configuration Config) HistoryEnabled() bool {
	return configuration.historyPath != ""
}

// ConfigFile is the YAML file that was read, if any.
func (configuration Config) ConfigFile() string {
	return configuration.configFile
}

