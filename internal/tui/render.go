package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const ellipsis = "…"

func (m Model) View() string {
	if m.quitting {
		return "Goodbye\n"
	}
	width := max(1, m.width)
	header := renderBar(headerBarStyle, width, headerAppStyle.Render("NNCalc"), colorMantle)
	top, bottom := m.Registers()
	body := strings.Join([]string{
		m.renderRegister("top", top),
		m.renderRegister("bottom", bottom),
	}, "\n")
	status := m.renderStatus()
	footer := m.renderFooter()

	available := m.height - lipgloss.Height(header) - lipgloss.Height(status) - lipgloss.Height(footer)
	body = fitHeight(body, max(0, available))
	parts := []string{header}
	if body != "" {
		parts = append(parts, body)
	}
	parts = append(parts, status, footer)
	return appStyle.Width(width).MaxWidth(width).Render(strings.Join(parts, "\n"))
}

func (m Model) renderRegister(title, value string) string {
	boxWidth := max(8, m.width-2)
	inner := boxWidth - registerBoxStyle.GetHorizontalFrameSize()
	limit := inner
	if m.maxDigits > 0 && m.maxDigits < limit {
		limit = m.maxDigits
	}
	line := truncateLeft(value, limit)
	box := registerBoxStyle.Width(boxWidth - registerBoxStyle.GetHorizontalBorderSize()).
		Align(lipgloss.Right).
		Render(line)
	return registerTitleStyle.Render(title) + "\n" + box
}

func (m Model) renderStatus() string {
	msg := strings.TrimSpace(m.status)
	if msg == "" {
		msg = "Ready"
	}
	if m.statusErr {
		return renderBar(statusErrBarStyle, max(1, m.width), msg, colorSurface0)
	}
	return renderBar(statusBarStyle, max(1, m.width), msg, colorSurface0)
}

// renderFooter lists the bindings; gated operations the controller has
// disabled are dimmed.
func (m Model) renderFooter() string {
	bg := colorMantle
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Background(bg)
	descStyle := lipgloss.NewStyle().Foreground(colorMuted).Background(bg)
	offStyle := lipgloss.NewStyle().Foreground(colorDim).Strikethrough(true).Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	var parts []string
	digitsShown := false
	for _, b := range m.keys.bindings {
		if strings.HasPrefix(b.Action, "digit-") {
			if digitsShown {
				continue
			}
			digitsShown = true
			parts = append(parts, keyStyle.Render("0-9")+space+descStyle.Render("digit"))
			continue
		}
		kb := b.key
		if ev, ok := eventForAction(b.Action); ok && !m.display.allowed(ev.Kind) {
			kb.SetEnabled(false)
		}
		h := kb.Help()
		if !kb.Enabled() {
			parts = append(parts, offStyle.Render(h.Key+" "+h.Desc))
			continue
		}
		parts = append(parts, keyStyle.Render(h.Key)+space+descStyle.Render(h.Desc))
	}
	line := strings.Join(parts, sep)
	if line == "" {
		line = lipgloss.NewStyle().Foreground(colorMuted).Background(bg).Render("No shortcuts")
	}
	return renderBar(footerStyle, max(1, m.width), line, bg)
}

func renderBar(style lipgloss.Style, width int, text string, bg lipgloss.TerminalColor) string {
	line := strings.ReplaceAll(text, "\n", " ")
	line = ansi.Truncate(line, width, "")
	lineW := ansi.StringWidth(line)
	if lineW < width {
		line += strings.Repeat(" ", width-lineW)
	}
	return style.
		Background(bg).
		Width(width).
		MaxWidth(width).
		Render(line)
}

// truncateLeft keeps the last width cells of s, marking the cut with an
// ellipsis. Register values are plain digits.
func truncateLeft(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return ellipsis
	}
	return ellipsis + s[len(s)-(width-1):]
}

func fitHeight(s string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
