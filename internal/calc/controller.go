// Package calc is the control layer of the two-register calculator.
//
// A Controller owns no values of its own. Each event handler borrows the
// registers from the Model, applies one algebraic rule, and then pushes the
// registers and the operation legality to the View. Handlers trust the View
// to have disabled illegal operations and do not re-check their operands;
// use Dispatch when a violation should come back as an error instead of a
// panic.
package calc

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/jask/nncalc/internal/natural"
)

// ErrUnknownEvent is returned by Dispatch for an EventKind outside the
// declared set.
var ErrUnknownEvent = errors.New("unknown event")

// logFieldDigits bounds register values written to log fields.
const logFieldDigits = 40

// Controller handles calculator events.
type Controller struct {
	model Model
	view  View
	log   *logrus.Entry
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for event tracing.
func WithLogger(l *logrus.Entry) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// NewController connects model and view and brings the view in line with the
// model before any event is handled.
func NewController(model Model, view View, opts ...Option) *Controller {
	c := &Controller{model: model, view: view}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.log = logrus.NewEntry(l)
	}
	syncView(c.model, c.view)
	return c
}

// Legality reports which gated operations the current registers permit.
func (c *Controller) Legality() Legality {
	return Evaluate(c.model.Top(), c.model.Bottom())
}

// Dispatch routes ev to its handler. A contract violation raised by the
// arithmetic aborts the event: the registers keep their previous values, the
// view is not refreshed, and the violation is returned wrapped with the event
// name. Other panics propagate.
func (c *Controller) Dispatch(ev Event) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ce, ok := r.(*natural.ContractError)
		if !ok {
			panic(r)
		}
		c.log.WithError(ce).WithField("event", ev.String()).Error("event aborted")
		err = fmt.Errorf("%s: %w", ev, ce)
	}()

	switch ev.Kind {
	case EventClear:
		c.Clear()
	case EventSwap:
		c.Swap()
	case EventEnter:
		c.Enter()
	case EventAppendDigit:
		c.AppendDigit(ev.Digit)
	case EventAdd:
		c.Add()
	case EventSubtract:
		c.Subtract()
	case EventMultiply:
		c.Multiply()
	case EventDivide:
		c.Divide()
	case EventPower:
		c.Power()
	case EventRoot:
		c.Root()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEvent, ev.Kind)
	}

	if c.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		c.log.WithFields(logrus.Fields{
			"event":  ev.String(),
			"top":    elide(c.model.Top()),
			"bottom": elide(c.model.Bottom()),
		}).Debug("event handled")
	}
	return nil
}

// Clear resets bottom to 0.
func (c *Controller) Clear() {
	bottom := c.model.Bottom()

	bottom.Clear()

	syncView(c.model, c.view)
}

// Swap exchanges top and bottom.
func (c *Controller) Swap() {
	top, bottom := c.model.Top(), c.model.Bottom()

	temp := top.Take()
	top.TransferFrom(bottom)
	bottom.TransferFrom(temp)

	syncView(c.model, c.view)
}

// Enter moves bottom into top, leaving bottom at 0.
func (c *Controller) Enter() {
	top, bottom := c.model.Top(), c.model.Bottom()

	top.TransferFrom(bottom)

	syncView(c.model, c.view)
}

// AppendDigit sets bottom to 10*bottom + d. The caller guarantees 0 <= d <= 9.
func (c *Controller) AppendDigit(d int) {
	bottom := c.model.Bottom()

	bottom.MultiplyBy10(d)

	syncView(c.model, c.view)
}

// Add sets bottom to bottom + top and top to 0.
func (c *Controller) Add() {
	top, bottom := c.model.Top(), c.model.Bottom()

	bottom.Add(top)
	top.Clear()

	syncView(c.model, c.view)
}

// Subtract sets bottom to bottom - top and top to 0.
func (c *Controller) Subtract() {
	top, bottom := c.model.Top(), c.model.Bottom()

	bottom.Subtract(top)
	top.Clear()

	syncView(c.model, c.view)
}

// Multiply sets bottom to bottom * top and top to 0.
func (c *Controller) Multiply() {
	top, bottom := c.model.Top(), c.model.Bottom()

	bottom.Multiply(top)
	top.Clear()

	syncView(c.model, c.view)
}

// Divide divides top by bottom, leaving the quotient in bottom and the
// remainder in top.
func (c *Controller) Divide() {
	top, bottom := c.model.Top(), c.model.Bottom()

	rem := top.Divide(bottom)
	bottom.TransferFrom(top)
	top.TransferFrom(rem)

	syncView(c.model, c.view)
}

// Power sets bottom to top raised to bottom and top to 0.
func (c *Controller) Power() {
	top, bottom := c.model.Top(), c.model.Bottom()

	exp := bottom.MustInt()
	result := top.NewInstance()
	result.CopyFrom(top)
	result.Power(exp)
	bottom.TransferFrom(result)
	top.Clear()

	syncView(c.model, c.view)
}

// Root sets bottom to the floor of the bottom-th root of top and top to 0.
func (c *Controller) Root() {
	top, bottom := c.model.Top(), c.model.Bottom()

	degree := bottom.MustInt()
	result := top.NewInstance()
	result.CopyFrom(top)
	result.Root(degree)
	bottom.TransferFrom(result)
	top.Clear()

	syncView(c.model, c.view)
}

func elide(n *natural.Natural) string {
	if n.Digits() <= logFieldDigits {
		return n.String()
	}
	s := n.String()
	half := logFieldDigits / 2
	return fmt.Sprintf("%s...%s (%d digits)", s[:half], s[len(s)-half:], len(s))
}
