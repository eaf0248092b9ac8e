package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("NNCALC_CONFIG", "")
	return home
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	home := isolateHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Tape.Enabled {
		t.Fatalf("tape should be enabled by default")
	}
	wantTape := filepath.Join(home, ".local", "share", "nncalc", "tape.db")
	if cfg.Tape.Path != wantTape {
		t.Fatalf("tape.path = %q, want %q", cfg.Tape.Path, wantTape)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("log.level = %q, want info", cfg.Log.Level)
	}
	wantKeys := filepath.Join(home, ".config", "nncalc", "keybindings.toml")
	if cfg.UI.Keybindings != wantKeys {
		t.Fatalf("ui.keybindings = %q, want %q", cfg.UI.Keybindings, wantKeys)
	}
	if cfg.UI.MaxDigits != 0 {
		t.Fatalf("ui.max_digits = %d, want 0", cfg.UI.MaxDigits)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	body := strings.Join([]string{
		"[tape]",
		"enabled = false",
		`path = "/tmp/custom.db"`,
		"[log]",
		`level = "debug"`,
		"[ui]",
		"max_digits = 30",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NNCALC_UI_MAX_DIGITS", "12")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Tape.Enabled || cfg.Tape.Path != "/tmp/custom.db" {
		t.Fatalf("tape = %+v", cfg.Tape)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log.level = %q", cfg.Log.Level)
	}
	if cfg.UI.MaxDigits != 12 {
		t.Fatalf("env override ignored: max_digits = %d", cfg.UI.MaxDigits)
	}
}

func TestLoadFileMissingExplicitPath(t *testing.T) {
	isolateHome(t)
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	cases := map[string]string{
		"negative digits": "[ui]\nmax_digits = -1\n",
		"bad level":       "[log]\nlevel = \"loud\"\n",
	}
	for name, body := range cases {
		path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".toml")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Config{
		Tape: TapeConfig{Enabled: true, Path: "/var/tmp/t.db"},
		Log:  LogConfig{Level: "warn", Path: "/var/tmp/n.log"},
		UI:   UIConfig{Keybindings: "/var/tmp/k.toml", MaxDigits: 64},
	}
	if err := Save(want, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	dir := t.TempDir()
	log, closer, err := NewLogger(LogConfig{Level: "warn", Path: filepath.Join(dir, "logs", "n.log")}, false)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	defer closer.Close()
	if log.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level = %v, want warn", log.GetLevel())
	}
	log.Warn("hello")
	raw, err := os.ReadFile(filepath.Join(dir, "logs", "n.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "hello") {
		t.Fatalf("log file missing message: %q", raw)
	}

	verbose, c2, err := NewLogger(LogConfig{Level: "error"}, true)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	defer c2.Close()
	if verbose.GetLevel() != logrus.DebugLevel {
		t.Fatalf("verbose should force debug, got %v", verbose.GetLevel())
	}
}
