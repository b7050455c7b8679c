package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.BaseURL)
	assert.Equal(t, "/dash/api", cfg.BasePath)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.PollInterval)
	assert.Equal(t, time.Minute, cfg.SessionStaleFor)
	assert.Equal(t, ThemeSystem, cfg.Theme)
	assert.Equal(t, 512, cfg.CacheSize)
}

func TestLoadFromFile(t *testing.T) {
	t.Chdir(t.TempDir())
	writeConfigFile(t, "base_url: https://st.example.com\ntheme: dark\npoll_interval: 5m\n")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "https://st.example.com", cfg.BaseURL)
	assert.Equal(t, ThemeDark, cfg.Theme)
	assert.Equal(t, 5*time.Minute, cfg.PollInterval)
	// untouched keys keep their defaults
	assert.Equal(t, "/dash/api", cfg.BasePath)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	writeConfigFile(t, "theme: dark\n")
	t.Setenv("DASHCTL_THEME", "light")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, cfg.Theme)
}

func TestFlagOverridesEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DASHCTL_BASE_URL", "https://from-env.example.com")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("base-url", "", "")
	require.NoError(t, flags.Set("base-url", "https://from-flag.example.com"))

	cfg, err := Load(flags)
	require.NoError(t, err)
	assert.Equal(t, "https://from-flag.example.com", cfg.BaseURL)
}

func TestUnchangedFlagDoesNotOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DASHCTL_BASE_URL", "https://from-env.example.com")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("base-url", "http://flag-default", "")

	cfg, err := Load(flags)
	require.NoError(t, err)
	assert.Equal(t, "https://from-env.example.com", cfg.BaseURL)
}

func TestLoadRejectsUnknownTheme(t *testing.T) {
	t.Chdir(t.TempDir())
	writeConfigFile(t, "theme: solarized\n")

	_, err := Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theme")
}

func TestLoadRejectsEmptyBaseURL(t *testing.T) {
	t.Chdir(t.TempDir())
	writeConfigFile(t, `base_url: ""`+"\n")

	_, err := Load(nil)
	assert.Error(t, err)
}

func TestSaveThemePersists(t *testing.T) {
	t.Chdir(t.TempDir())
	writeConfigFile(t, "base_url: https://st.example.com\n")

	require.NoError(t, SaveTheme(ThemeLight))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, cfg.Theme)
	assert.Equal(t, "https://st.example.com", cfg.BaseURL, "saving the theme keeps other keys")
}

func TestEffectiveTheme(t *testing.T) {
	assert.Equal(t, ThemeDark, EffectiveTheme(ThemeDark))
	assert.Equal(t, ThemeLight, EffectiveTheme(ThemeLight))

	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm-256color")
	assert.Equal(t, ThemeDark, EffectiveTheme(ThemeSystem))

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, ThemeLight, EffectiveTheme(ThemeSystem))

	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "dumb")
	assert.Equal(t, ThemeLight, EffectiveTheme(ThemeSystem))
}

func TestSaveThemeRejectsUnknown(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.Error(t, SaveTheme("neon"))
}

func writeConfigFile(t *testing.T, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile("dashctl.yaml", []byte(contents), 0o600))
}
