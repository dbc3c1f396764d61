package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/strikers-notifier/internal/notify"
)

// AppName names the config file, config directory and default lock file.
const AppName = "strikers-notifier"

type Config struct {
	LogPath         string        `mapstructure:"log_path"`
	UpdateFrequency int           `mapstructure:"update_frequency"` // seconds between polls
	Debug           bool          `mapstructure:"debug"`
	LockFile        string        `mapstructure:"lock_file"`
	Match           MatchConfig   `mapstructure:"match"`
	Notify          notify.Config `mapstructure:"notify"`
	Logging         LoggingConfig `mapstructure:"logging"`
}

type MatchConfig struct {
	// StructuredFallback also accepts status lines whose JSON says
	// StartingGame when the fixed window does not line up.
	StructuredFallback bool `mapstructure:"structured_fallback"`
}

type LoggingConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
	Level     string `mapstructure:"level"`
}

// Flag names and the config keys they override.
var flagKeys = map[string]string{
	"log-path":         "log_path",
	"update-frequency": "update_frequency",
	"debug":            "debug",
}

// RegisterFlags adds the flags Load knows how to bind.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("log-path", "l", "", "path to OmegaStrikers.log (discovered when unset)")
	fs.IntP("update-frequency", "u", 5, "seconds between polls of the log file")
	fs.BoolP("debug", "d", false, "verbose diagnostics")
}

// Load reads configuration from defaults, an optional config file, STRIKERS_*
// environment variables and flags, in increasing order of precedence.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	defaults := notify.DefaultConfig()

	// Set defaults
	v.SetDefault("log_path", "")
	v.SetDefault("update_frequency", 5)
	v.SetDefault("debug", false)
	v.SetDefault("lock_file", filepath.Join(os.TempDir(), AppName+".lock"))
	v.SetDefault("match.structured_fallback", false)
	v.SetDefault("notify.desktop.enabled", defaults.Desktop.Enabled)
	v.SetDefault("notify.desktop.summary", defaults.Desktop.Summary)
	v.SetDefault("notify.desktop.body", defaults.Desktop.Body)
	v.SetDefault("notify.desktop.icon", defaults.Desktop.Icon)
	v.SetDefault("notify.desktop.app_name", defaults.Desktop.AppName)
	v.SetDefault("notify.desktop.timeout_ms", defaults.Desktop.TimeoutMs)
	v.SetDefault("notify.ntfy.enabled", defaults.Ntfy.Enabled)
	v.SetDefault("notify.ntfy.server", defaults.Ntfy.Server)
	v.SetDefault("notify.ntfy.topic", "")
	v.SetDefault("notify.ntfy.priority", defaults.Ntfy.Priority)
	v.SetDefault("notify.ntfy.tags", defaults.Ntfy.Tags)
	v.SetDefault("notify.ntfy.token", "")
	v.SetDefault("logging.enabled", false)
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.level", "info")

	// Environment variable support
	v.SetEnvPrefix("STRIKERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Changed flags win over everything else
	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	// Load config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, AppName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// PollInterval is the fallback poll period.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.UpdateFrequency) * time.Second
}
