package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultLibraryPath is used when neither the config file nor the
// environment names a library root.
const DefaultLibraryPath = "~/Documents/atelier"

// Config is the process-wide configuration, loaded once at start and
// passed explicitly to the components that need it.
type Config struct {
	LibraryPath string    `mapstructure:"library_path"`
	Log         LogConfig `mapstructure:"log"`
}

// LogConfig controls the logger built by internal/logging.
type LogConfig struct {
	Level    string         `mapstructure:"level"`
	File     string         `mapstructure:"file"`
	JSON     bool           `mapstructure:"json"`
	Quiet    bool           `mapstructure:"quiet"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures rotation of the log file.
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"` // megabytes
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"` // days
	Compress   bool `mapstructure:"compress"`
}

// Load reads the configuration from an optional YAML file plus
// ATELIER_* environment overrides. A missing config file is not an
// error; defaults apply.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("library_path", DefaultLibraryPath)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)
	v.SetDefault("log.quiet", false)
	v.SetDefault("log.rotation.max_size", 10)
	v.SetDefault("log.rotation.max_backups", 3)
	v.SetDefault("log.rotation.max_age", 30)
	v.SetDefault("log.rotation.compress", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigDir())
	}

	v.SetEnvPrefix("ATELIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "atelier")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "atelier")
}
