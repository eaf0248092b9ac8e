package config

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
)

// KeybindingsFile is the on-disk shape of keybindings.toml.
type KeybindingsFile struct {
	Version  int                 `toml:"version"`
	Bindings map[string][]string `toml:"bindings"`
}

// LoadKeybindings reads the action→keys table at path. A missing file is
// seeded from defaults. Actions missing from the file are merged in from
// defaults and the file is rewritten; actions not present in defaults are
// rejected.
func LoadKeybindings(path string, defaults map[string][]string) (map[string][]string, error) {
	defaults = normalizeActionKeyMap(defaults)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create keybindings dir: %w", err)
	}
	if err := ensureFile(path, RenderKeybindings(defaults)); err != nil {
		return nil, err
	}

	var file KeybindingsFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	changed, err := validateAndMergeKeybindings(&file, defaults)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	if changed {
		if err := os.WriteFile(path, []byte(RenderKeybindings(file.Bindings)), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
	}
	return file.Bindings, nil
}

// RenderKeybindings formats bindings as keybindings.toml, actions sorted.
func RenderKeybindings(bindings map[string][]string) string {
	var b bytes.Buffer
	b.WriteString("version = 1\n\n[bindings]\n")
	for _, action := range sortedActions(bindings) {
		b.WriteString(action)
		b.WriteString(" = ")
		b.WriteString(formatTOMLArray(bindings[action]))
		b.WriteByte('\n')
	}
	return b.String()
}

func formatTOMLArray(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func ensureFile(path, defaults string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(defaults), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func validateAndMergeKeybindings(cfg *KeybindingsFile, defaults map[string][]string) (bool, error) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Version != 1 {
		return false, fmt.Errorf("unsupported version %d", cfg.Version)
	}
	if cfg.Bindings == nil {
		cfg.Bindings = map[string][]string{}
	}

	merged := cloneActionMap(defaults)
	owner := map[string]string{}
	for action, keys := range cfg.Bindings {
		a := strings.TrimSpace(action)
		if !isValidActionID(a) {
			return false, fmt.Errorf("invalid action %q", action)
		}
		if _, exists := defaults[a]; !exists {
			return false, fmt.Errorf("unknown action %q", a)
		}
		if len(keys) == 0 {
			return false, fmt.Errorf("action %q: keys are required", a)
		}
		out := normalizeKeys(keys)
		if slices.Contains(out, "") {
			return false, fmt.Errorf("action %q: key cannot be empty", a)
		}
		merged[a] = out
	}
	for _, a := range sortedActions(merged) {
		for _, k := range merged[a] {
			if prev, taken := owner[k]; taken {
				return false, fmt.Errorf("key %q bound to both %q and %q", k, prev, a)
			}
			owner[k] = a
		}
	}

	changed := !equalActionMaps(cfg.Bindings, merged)
	cfg.Bindings = merged
	return changed, nil
}

func sortedActions(in map[string][]string) []string {
	return slices.Sorted(maps.Keys(in))
}

// normalizeActionKeyMap drops invalid actions and empty keys, lowercasing
// the rest.
func normalizeActionKeyMap(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for action, keys := range in {
		a := strings.TrimSpace(action)
		if !isValidActionID(a) {
			continue
		}
		keys = slices.DeleteFunc(normalizeKeys(keys), func(k string) bool { return k == "" })
		if len(keys) > 0 {
			out[a] = keys
		}
	}
	return out
}

func normalizeKeys(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = strings.ToLower(strings.TrimSpace(k))
	}
	return out
}

func cloneActionMap(in map[string][]string) map[string][]string {
	out := maps.Clone(in)
	for action, keys := range out {
		out[action] = slices.Clone(keys)
	}
	return out
}

func equalActionMaps(a, b map[string][]string) bool {
	return maps.EqualFunc(a, b, slices.Equal[[]string])
}

// isValidActionID accepts letters and digits with single inner hyphens
// allowed, e.g. "digit-7".
func isValidActionID(action string) bool {
	if action == "" || strings.HasPrefix(action, "-") || strings.HasSuffix(action, "-") {
		return false
	}
	return !strings.ContainsFunc(action, func(ch rune) bool {
		return ch != '-' && !unicode.IsLetter(ch) && !unicode.IsDigit(ch)
	})
}
