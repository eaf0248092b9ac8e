// Package tui is a bubbletea front end for the calculator controller.
//
// The program model implements calc.View through an internal display and
// plays the view's half of the trust boundary: a gated operation whose
// control is disabled is never dispatched.
package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/jask/nncalc/internal/calc"
	"github.com/jask/nncalc/internal/tape"
)

// Tape records handled events. Next runs on the Update goroutine; Save runs
// inside a tea.Cmd.
type Tape interface {
	Next(ev calc.Event, top, bottom string) tape.Entry
	Save(ctx context.Context, e tape.Entry) error
}

// Options configures New.
type Options struct {
	// Model defaults to a fresh calc.Registers.
	Model calc.Model
	// Bindings defaults to DefaultKeyBindings.
	Bindings []KeyBinding
	// Tape is optional.
	Tape Tape
	Log  *logrus.Entry
	// MaxDigits truncates register displays; 0 fits the window.
	MaxDigits int
}

type tapeSavedMsg struct {
	seq int
	err error
}

// Model is the bubbletea program model driving one calculator.
type Model struct {
	ctx       context.Context
	ctrl      *calc.Controller
	display   *display
	keys      *KeyRegistry
	tape      Tape
	log       *logrus.Entry
	maxDigits int
	width     int
	height    int
	status    string
	statusErr bool
	quitting  bool
}

// New builds the program model and its controller.
func New(ctx context.Context, opts Options) Model {
	if opts.Model == nil {
		opts.Model = calc.NewModel()
	}
	if len(opts.Bindings) == 0 {
		opts.Bindings = DefaultKeyBindings()
	}
	if opts.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Log = logrus.NewEntry(l)
	}
	d := &display{}
	return Model{
		ctx:       ctx,
		ctrl:      calc.NewController(opts.Model, d, calc.WithLogger(opts.Log)),
		display:   d,
		keys:      NewKeyRegistry(opts.Bindings),
		tape:      opts.Tape,
		log:       opts.Log,
		maxDigits: opts.MaxDigits,
		status:    "Ready",
		width:     80,
		height:    16,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m *Model) SetStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) SetError(err error) {
	if err == nil {
		m.status = ""
		m.statusErr = false
		return
	}
	m.status = err.Error()
	m.statusErr = true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tapeSavedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).WithField("seq", msg.seq).Warn("tape write failed")
			m.status = "tape: " + msg.err.Error()
			m.statusErr = true
		}
		return m, nil
	case tea.KeyMsg:
		if m.keys.IsAction(msg, actionQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		ev, ok := eventForAction(m.keys.ActionFor(msg))
		if !ok {
			return m, nil
		}
		return m.handle(ev)
	}
	return m, nil
}

func (m Model) handle(ev calc.Event) (tea.Model, tea.Cmd) {
	if !m.display.allowed(ev.Kind) {
		m.log.WithField("event", ev.String()).Debug("disabled control ignored")
		m.status = disabledReason(ev.Kind)
		m.statusErr = true
		return m, nil
	}
	if err := m.ctrl.Dispatch(ev); err != nil {
		m.SetError(err)
		return m, nil
	}
	m.SetStatus(ev.String())
	return m, m.recordCmd(ev)
}

func (m Model) recordCmd(ev calc.Event) tea.Cmd {
	if m.tape == nil {
		return nil
	}
	entry := m.tape.Next(ev, m.display.top, m.display.bottom)
	tp, ctx := m.tape, m.ctx
	return func() tea.Msg {
		return tapeSavedMsg{seq: entry.Seq, err: tp.Save(ctx, entry)}
	}
}

// Registers returns the displayed top and bottom values.
func (m Model) Registers() (top, bottom string) { return m.display.top, m.display.bottom }

// Legality returns the enablement last pushed by the controller.
func (m Model) Legality() calc.Legality { return m.display.legal }

func (m Model) Status() (text string, isErr bool) { return m.status, m.statusErr }
