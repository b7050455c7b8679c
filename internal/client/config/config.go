// Package config loads the dashctl runtime settings.
//
// Sources, later ones taking precedence: built-in defaults, the config file
// (dashctl.yaml in the working directory or ~/.config/dashctl), DASHCTL_*
// environment variables, and command-line flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Theme values. ThemeSystem defers to the terminal's background.
const (
	ThemeDark   = "dark"
	ThemeLight  = "light"
	ThemeSystem = "system"
)

// Config holds runtime settings for the dashctl CLI.
//
// Units: Timeout, PollInterval and SessionStaleFor are durations parsed in
// Go syntax (e.g. "30s", "10m").
type Config struct {
	// BaseURL is the StremThru instance root, e.g. "https://st.example.com".
	BaseURL string `mapstructure:"base_url"`
	// BasePath is the dashboard API prefix on that instance.
	BasePath string `mapstructure:"base_path"`

	Timeout time.Duration `mapstructure:"timeout"`
	// PollInterval drives background refresh of the download queue screen.
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// SessionStaleFor bounds how long a session read is trusted before it
	// is revalidated opportunistically.
	SessionStaleFor time.Duration `mapstructure:"session_stale_for"`

	LogLevel string `mapstructure:"log_level"`
	Theme    string `mapstructure:"theme"`

	// CacheSize bounds how many query results are retained.
	CacheSize int `mapstructure:"cache_size"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("base_url", "http://127.0.0.1:8080")
	v.SetDefault("base_path", "/dash/api")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("poll_interval", 10*time.Minute)
	v.SetDefault("session_stale_for", time.Minute)
	v.SetDefault("log_level", "info")
	v.SetDefault("theme", ThemeSystem)
	v.SetDefault("cache_size", 512)

	v.SetConfigName("dashctl")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/dashctl")

	v.SetEnvPrefix("DASHCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config from all sources. flags may be nil; when given,
// matching flag names (base-url, timeout, ...) override everything else.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := newViper()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindFlags maps kebab-case flag names onto the snake_case config keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if !v.IsSet(key) && v.Get(key) == nil {
			return
		}
		if f.Changed {
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		}
	})
	return bindErr
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url must not be empty")
	}
	switch c.Theme {
	case ThemeDark, ThemeLight, ThemeSystem:
	default:
		return fmt.Errorf("theme must be %q, %q or %q, got %q", ThemeDark, ThemeLight, ThemeSystem, c.Theme)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.CacheSize <= 0 {
		return errors.New("cache_size must be positive")
	}
	return nil
}

// EffectiveTheme resolves ThemeSystem against the terminal environment.
// NO_COLOR and dumb terminals resolve light, everything else dark.
func EffectiveTheme(theme string) string {
	if theme != ThemeSystem {
		return theme
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return ThemeLight
	}
	return ThemeDark
}

// SaveTheme persists the theme choice back to the config file so it
// survives restarts. Other keys keep their current effective values.
func SaveTheme(theme string) error {
	switch theme {
	case ThemeDark, ThemeLight, ThemeSystem:
	default:
		return fmt.Errorf("unknown theme %q", theme)
	}
	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	v.Set("theme", theme)
	if err := v.WriteConfigAs("dashctl.yaml"); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
