package tui

import (
	"fmt"
	"strings"

	"github.com/jask/nncalc/internal/calc"
)

const actionQuit = "quit"

func digitAction(d int) string { return fmt.Sprintf("digit-%d", d) }

func DefaultKeyBindings() []KeyBinding {
	out := make([]KeyBinding, 0, 21)
	for d := 0; d <= 9; d++ {
		out = append(out, KeyBinding{Keys: []string{fmt.Sprint(d)}, Action: digitAction(d), Description: fmt.Sprint(d)})
	}
	return append(out,
		KeyBinding{Keys: []string{"enter"}, Action: "enter", Description: "enter"},
		KeyBinding{Keys: []string{"s"}, Action: "swap", Description: "swap"},
		KeyBinding{Keys: []string{"c"}, Action: "clear", Description: "clear"},
		KeyBinding{Keys: []string{"+"}, Action: "add", Description: "add"},
		KeyBinding{Keys: []string{"-"}, Action: "subtract", Description: "sub"},
		KeyBinding{Keys: []string{"*", "x"}, Action: "multiply", Description: "mul"},
		KeyBinding{Keys: []string{"/"}, Action: "divide", Description: "div"},
		KeyBinding{Keys: []string{"^", "p"}, Action: "power", Description: "pow"},
		KeyBinding{Keys: []string{"r"}, Action: "root", Description: "root"},
		KeyBinding{Keys: []string{"q", "ctrl+c"}, Action: actionQuit, Description: "quit"},
	)
}

func DefaultKeybindingsByAction(bindings []KeyBinding) map[string][]string {
	out := make(map[string][]string, len(bindings))
	for _, b := range bindings {
		if strings.TrimSpace(b.Action) == "" || len(b.Keys) == 0 {
			continue
		}
		if _, exists := out[b.Action]; exists {
			continue
		}
		out[b.Action] = append([]string(nil), b.Keys...)
	}
	return out
}

func ApplyActionKeybindings(bindings []KeyBinding, actionKeys map[string][]string) []KeyBinding {
	out := make([]KeyBinding, 0, len(bindings))
	for _, b := range bindings {
		next := KeyBinding{
			Keys:        append([]string(nil), b.Keys...),
			Action:      b.Action,
			Description: b.Description,
		}
		if keys, ok := actionKeys[b.Action]; ok && len(keys) > 0 {
			next.Keys = append([]string(nil), keys...)
		}
		out = append(out, next)
	}
	return out
}

// eventForAction maps a binding action to the calculator event it raises.
func eventForAction(action string) (calc.Event, bool) {
	if d, ok := strings.CutPrefix(action, "digit-"); ok {
		if len(d) == 1 && d[0] >= '0' && d[0] <= '9' {
			return calc.Digit(int(d[0] - '0')), true
		}
		return calc.Event{}, false
	}
	kind, err := calc.ParseEventKind(action)
	if err != nil || kind == calc.EventAppendDigit {
		return calc.Event{}, false
	}
	return calc.Op(kind), true
}
