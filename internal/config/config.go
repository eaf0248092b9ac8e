package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Tape TapeConfig
	Log  LogConfig
	UI   UIConfig
}

// TapeConfig holds event history settings.
type TapeConfig struct {
	Enabled bool
	Path    string
}

// LogConfig holds logrus settings. Path is where log lines go while the TUI
// owns the terminal.
type LogConfig struct {
	Level string
	Path  string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Keybindings string
	MaxDigits   int `mapstructure:"max_digits"`
}

// Dir returns the configuration directory, honouring NNCALC_CONFIG when it
// points at a file.
func Dir() string {
	if p := os.Getenv("NNCALC_CONFIG"); p != "" {
		return filepath.Dir(p)
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "nncalc")
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "nncalc")
}

// Defaults returns the configuration used when no file or env var sets a key.
func Defaults() Config {
	return Config{
		Tape: TapeConfig{Enabled: true, Path: filepath.Join(dataDir(), "tape.db")},
		Log:  LogConfig{Level: "info", Path: filepath.Join(dataDir(), "nncalc.log")},
		UI:   UIConfig{Keybindings: filepath.Join(Dir(), "keybindings.toml")},
	}
}

// Load reads configuration from file and env. Env var overrides use prefix NNCALC_.
func Load() (Config, error) {
	return LoadFile(os.Getenv("NNCALC_CONFIG"))
}

// LoadFile is Load with an explicit config file; an empty path searches the
// default config directory.
func LoadFile(path string) (Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault("tape.enabled", d.Tape.Enabled)
	v.SetDefault("tape.path", d.Tape.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("ui.keybindings", d.UI.Keybindings)
	v.SetDefault("ui.max_digits", d.UI.MaxDigits)

	v.SetConfigType("toml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(Dir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("NNCALC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit file must exist; the default search path may be empty
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.MaxDigits < 0 {
		return Config{}, fmt.Errorf("ui.max_digits must not be negative, got %d", c.UI.MaxDigits)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Save writes the provided config to path, creating the directory if needed.
// An empty path writes config.toml in Dir.
func Save(cfg Config, path string) error {
	if path == "" {
		path = filepath.Join(Dir(), "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("tape.enabled", cfg.Tape.Enabled)
	v.Set("tape.path", cfg.Tape.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.path", cfg.Log.Path)
	v.Set("ui.keybindings", cfg.UI.Keybindings)
	v.Set("ui.max_digits", cfg.UI.MaxDigits)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
