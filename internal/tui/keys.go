package tui

import (
	"slices"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding maps keys to an action name.
type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
}

type registered struct {
	KeyBinding
	key key.Binding
}

// KeyRegistry resolves key presses to actions. Keys are matched
// case-insensitively.
type KeyRegistry struct {
	bindings []registered
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	r := &KeyRegistry{bindings: make([]registered, 0, len(bindings))}
	for _, b := range bindings {
		keys := make([]string, 0, len(b.Keys))
		for _, k := range b.Keys {
			if k = normalizeKey(k); k != "" {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			continue
		}
		r.bindings = append(r.bindings, registered{
			KeyBinding: KeyBinding{Keys: keys, Action: b.Action, Description: b.Description},
			key:        key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], b.Description)),
		})
	}
	return r
}

func (r *KeyRegistry) Bindings() []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		out = append(out, KeyBinding{Keys: slices.Clone(b.Keys), Action: b.Action, Description: b.Description})
	}
	return out
}

// ActionFor returns the action bound to the pressed key, or "" if none.
// Earlier bindings win.
func (r *KeyRegistry) ActionFor(msg tea.KeyMsg) string {
	lower := lowerKey(msg)
	for _, b := range r.bindings {
		if key.Matches(msg, b.key) || key.Matches(lower, b.key) {
			return b.Action
		}
	}
	return ""
}

func (r *KeyRegistry) IsAction(msg tea.KeyMsg, action string) bool {
	return action != "" && r.ActionFor(msg) == action
}

func lowerKey(msg tea.KeyMsg) tea.KeyMsg {
	if msg.Type != tea.KeyRunes {
		return msg
	}
	out := msg
	out.Runes = make([]rune, len(msg.Runes))
	for i, r := range msg.Runes {
		out.Runes[i] = unicode.ToLower(r)
	}
	return out
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}
