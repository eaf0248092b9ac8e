package calc

import (
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/nncalc/internal/natural"
)

type recordingView struct {
	top, bottom string
	subtract    bool
	divide      bool
	power       bool
	root        bool
	syncs       int
}

func (v *recordingView) UpdateTopDisplay(n *natural.Natural) {
	v.top = n.String()
	v.syncs++
}
func (v *recordingView) UpdateBottomDisplay(n *natural.Natural) { v.bottom = n.String() }
func (v *recordingView) UpdateSubtractAllowed(b bool)           { v.subtract = b }
func (v *recordingView) UpdateDivideAllowed(b bool)             { v.divide = b }
func (v *recordingView) UpdatePowerAllowed(b bool)              { v.power = b }
func (v *recordingView) UpdateRootAllowed(b bool)               { v.root = b }

func parse(t *testing.T, s string) *natural.Natural {
	t.Helper()
	n, err := natural.Parse(s)
	require.NoError(t, err)
	return n
}

// newCalc builds a controller over registers preloaded with top and bottom.
func newCalc(t *testing.T, top, bottom string) (*Controller, *Registers, *recordingView) {
	t.Helper()
	m := NewModel()
	m.Top().CopyFrom(parse(t, top))
	m.Bottom().CopyFrom(parse(t, bottom))
	v := &recordingView{}
	return NewController(m, v), m, v
}

func requireRegisters(t *testing.T, m Model, top, bottom string) {
	t.Helper()
	require.Equal(t, top, m.Top().String(), "top")
	require.Equal(t, bottom, m.Bottom().String(), "bottom")
}

// requireViewMatches checks the view against the legality rules evaluated
// directly on the registers.
func requireViewMatches(t *testing.T, m Model, v *recordingView) {
	t.Helper()
	top, bottom := m.Top(), m.Bottom()
	limit := natural.FromInt(natural.MaxInt)
	require.Equal(t, top.String(), v.top)
	require.Equal(t, bottom.String(), v.bottom)
	require.Equal(t, top.Compare(bottom) >= 0, v.subtract, "subtract")
	require.Equal(t, !bottom.IsZero(), v.divide, "divide")
	require.Equal(t, bottom.Compare(limit) <= 0, v.power, "power")
	require.Equal(t, bottom.Compare(natural.FromInt(2)) >= 0 && bottom.Compare(limit) <= 0, v.root, "root")
}

func TestConstructionSyncsView(t *testing.T) {
	m := NewModel()
	v := &recordingView{}
	NewController(m, v)

	assert.Equal(t, 1, v.syncs)
	assert.Equal(t, "0", v.top)
	assert.Equal(t, "0", v.bottom)
	assert.True(t, v.subtract)
	assert.False(t, v.divide)
	assert.True(t, v.power)
	assert.False(t, v.root)
}

func TestModelHandlesAreLive(t *testing.T) {
	m := NewModel()
	m.Top().Add(natural.FromInt(5))
	assert.Same(t, m.Top(), m.Top())
	assert.Equal(t, "5", m.Top().String())
	assert.True(t, m.Bottom().IsZero())
}

func TestScenarioEnterThenAdd(t *testing.T) {
	c, m, v := newCalc(t, "0", "0")

	require.NoError(t, c.Dispatch(Digit(7)))
	requireRegisters(t, m, "0", "7")
	require.NoError(t, c.Dispatch(Digit(3)))
	requireRegisters(t, m, "0", "73")
	require.NoError(t, c.Dispatch(Op(EventEnter)))
	requireRegisters(t, m, "73", "0")
	require.NoError(t, c.Dispatch(Digit(2)))
	requireRegisters(t, m, "73", "2")
	require.NoError(t, c.Dispatch(Op(EventAdd)))
	requireRegisters(t, m, "0", "75")
	requireViewMatches(t, m, v)
}

func TestScenarioDivide(t *testing.T) {
	c, m, v := newCalc(t, "17", "5")
	require.NoError(t, c.Dispatch(Op(EventDivide)))
	requireRegisters(t, m, "2", "3")
	requireViewMatches(t, m, v)
}

func TestScenarioPower(t *testing.T) {
	c, m, v := newCalc(t, "2", "10")
	require.NoError(t, c.Dispatch(Op(EventPower)))
	requireRegisters(t, m, "0", "1024")
	requireViewMatches(t, m, v)
}

func TestScenarioRoot(t *testing.T) {
	c, m, v := newCalc(t, "1024", "10")
	require.NoError(t, c.Dispatch(Op(EventRoot)))
	requireRegisters(t, m, "0", "2")
	requireViewMatches(t, m, v)
}

func TestScenarioSubtractEqual(t *testing.T) {
	c, m, v := newCalc(t, "5", "5")
	require.NoError(t, c.Dispatch(Op(EventSubtract)))
	requireRegisters(t, m, "0", "0")
	assert.True(t, v.subtract)
	requireViewMatches(t, m, v)
}

func TestMultiply(t *testing.T) {
	c, m, _ := newCalc(t, "123456789123456789", "1000000000000")
	c.Multiply()
	requireRegisters(t, m, "0", "123456789123456789000000000000")
}

func TestClearKeepsTop(t *testing.T) {
	c, m, _ := newCalc(t, "9", "4")
	c.Clear()
	requireRegisters(t, m, "9", "0")
}

func TestClearIsIdempotent(t *testing.T) {
	c, m, v := newCalc(t, "12", "34")
	c.Clear()
	once := [2]string{m.Top().String(), m.Bottom().String()}
	c.Clear()
	assert.Equal(t, once, [2]string{m.Top().String(), m.Bottom().String()})
	requireViewMatches(t, m, v)
}

func TestSwapIsInvolutive(t *testing.T) {
	c, m, v := newCalc(t, "31415926535897932384626", "2718281828")
	c.Swap()
	requireRegisters(t, m, "2718281828", "31415926535897932384626")
	requireViewMatches(t, m, v)
	c.Swap()
	requireRegisters(t, m, "31415926535897932384626", "2718281828")
	requireViewMatches(t, m, v)
}

func TestEnterResetsBottom(t *testing.T) {
	c, m, _ := newCalc(t, "1", "88")
	c.Enter()
	requireRegisters(t, m, "88", "0")
}

func TestGateBoundaries(t *testing.T) {
	limit := natural.FromInt(natural.MaxInt)
	over := natural.FromInt(natural.MaxInt)
	over.Add(natural.FromInt(1))

	cases := []struct {
		name   string
		top    string
		bottom string
		want   Legality
	}{
		{"zero", "0", "0", Legality{Subtract: true, Divide: false, Power: true, Root: false}},
		{"one", "0", "1", Legality{Subtract: false, Divide: true, Power: true, Root: false}},
		{"two", "2", "2", Legality{Subtract: true, Divide: true, Power: true, Root: true}},
		{"limit", "0", limit.String(), Legality{Subtract: false, Divide: true, Power: true, Root: true}},
		{"over limit", over.String(), over.String(), Legality{Subtract: true, Divide: true, Power: false, Root: false}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, m, v := newCalc(t, tc.top, tc.bottom)
			assert.Equal(t, tc.want, c.Legality())
			requireViewMatches(t, m, v)
		})
	}
}

func TestLegalityAllowed(t *testing.T) {
	l := Legality{Subtract: true, Divide: false, Power: true, Root: false}
	assert.True(t, l.Allowed(EventSubtract))
	assert.False(t, l.Allowed(EventDivide))
	assert.True(t, l.Allowed(EventPower))
	assert.False(t, l.Allowed(EventRoot))
	for _, k := range []EventKind{EventClear, EventSwap, EventEnter, EventAppendDigit, EventAdd, EventMultiply} {
		assert.True(t, l.Allowed(k), k.String())
	}
}

// Drive the controller the way a view does: only raise gated events the
// view currently shows as enabled, and check the view after each one.
func TestViewStaysConsistentAcrossSession(t *testing.T) {
	c, m, v := newCalc(t, "0", "0")
	script := []Event{
		Digit(4), Digit(2), Op(EventEnter), Digit(6), Op(EventSwap), Op(EventDivide),
		Op(EventMultiply), Digit(3), Op(EventEnter), Digit(5), Op(EventPower),
		Op(EventEnter), Digit(3), Op(EventRoot), Digit(9), Op(EventEnter),
		Digit(6), Digit(9), Op(EventSubtract), Op(EventClear), Op(EventDivide),
		Digit(1), Op(EventRoot), Op(EventAdd), Op(EventClear),
	}
	for i, ev := range script {
		syncsBefore := v.syncs
		if !c.Legality().Allowed(ev.Kind) {
			continue
		}
		require.NoError(t, c.Dispatch(ev), "step %d %s", i, ev)
		require.Equal(t, syncsBefore+1, v.syncs, "step %d should refresh the view once", i)
		requireViewMatches(t, m, v)
	}
}

// Handlers trust the view's enablement. Invoked directly with illegal
// operands they panic; through Dispatch the event is aborted instead.
func TestHandlersDoNotRevalidate(t *testing.T) {
	cases := []struct {
		name   string
		top    string
		bottom string
		kind   EventKind
		call   func(c *Controller)
	}{
		{"divide by zero", "9", "0", EventDivide, (*Controller).Divide},
		{"power exponent too large", "2", "2147483648", EventPower, (*Controller).Power},
		{"root of degree zero", "81", "0", EventRoot, (*Controller).Root},
		{"root degree too large", "81", "99999999999", EventRoot, (*Controller).Root},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, m, v := newCalc(t, tc.top, tc.bottom)
			require.False(t, c.Legality().Allowed(tc.kind), "gate should disable %s", tc.kind)

			require.Panics(t, func() { tc.call(c) })
			requireRegisters(t, m, tc.top, tc.bottom)

			syncs := v.syncs
			err := c.Dispatch(Op(tc.kind))
			require.Error(t, err)
			assert.ErrorIs(t, err, natural.ErrContract)
			var ce *natural.ContractError
			assert.True(t, errors.As(err, &ce))
			assert.True(t, strings.HasPrefix(err.Error(), tc.kind.String()+":"), err.Error())
			requireRegisters(t, m, tc.top, tc.bottom)
			assert.Equal(t, syncs, v.syncs, "aborted event must not refresh the view")
		})
	}
}

// With the gate bypassed, subtract on (3, 7) applies bottom - top, which is
// a legal result even though the control is disabled.
func TestSubtractBypassingGateAppliesRule(t *testing.T) {
	c, m, v := newCalc(t, "3", "7")
	require.False(t, c.Legality().Subtract)

	require.NotPanics(t, c.Subtract)
	requireRegisters(t, m, "0", "4")
	requireViewMatches(t, m, v)

	c, m, _ = newCalc(t, "3", "7")
	require.NoError(t, c.Dispatch(Op(EventSubtract)))
	requireRegisters(t, m, "0", "4")
}

// The subtract gate (top >= bottom) and the subtract rule (bottom - top)
// only agree when the registers are equal. With top > bottom the control is
// enabled and the handler still violates the arithmetic contract.
func TestSubtractGateAndRuleDisagreeWhenTopGreater(t *testing.T) {
	c, m, _ := newCalc(t, "7", "3")
	require.True(t, c.Legality().Subtract)

	err := c.Dispatch(Op(EventSubtract))
	require.ErrorIs(t, err, natural.ErrContract)
	requireRegisters(t, m, "7", "3")
}

func TestDispatchUnknownEvent(t *testing.T) {
	c, m, v := newCalc(t, "1", "2")
	err := c.Dispatch(Event{Kind: EventKind(99)})
	require.ErrorIs(t, err, ErrUnknownEvent)
	requireRegisters(t, m, "1", "2")
	assert.Equal(t, 1, v.syncs)
}

func TestDispatchPropagatesForeignPanics(t *testing.T) {
	m := NewModel()
	v := &recordingView{}
	c := NewController(m, v)
	c.view = &panicView{}
	assert.PanicsWithValue(t, "boom", func() { _ = c.Dispatch(Op(EventClear)) })
}

type panicView struct{ recordingView }

func (panicView) UpdateTopDisplay(*natural.Natural) { panic("boom") }

func TestDispatchLogsEvents(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	m := NewModel()
	c := NewController(m, &recordingView{}, WithLogger(logrus.NewEntry(logger)))

	require.NoError(t, c.Dispatch(Digit(8)))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "event handled", entry.Message)
	assert.Equal(t, "digit(8)", entry.Data["event"])
	assert.Equal(t, "8", entry.Data["bottom"])

	// bottom 0 makes the divide a contract violation
	c.Clear()
	require.Error(t, c.Dispatch(Op(EventDivide)))
	entry = hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "divide", entry.Data["event"])
}

func TestElideLongRegisters(t *testing.T) {
	short := natural.FromInt(12345)
	assert.Equal(t, "12345", elide(short))

	long := parse(t, strings.Repeat("1234567890", 10))
	got := elide(long)
	assert.True(t, strings.HasSuffix(got, "(100 digits)"), got)
	assert.Less(t, len(got), 100)
}
