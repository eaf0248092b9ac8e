package tui

import (
	"fmt"

	"github.com/jask/nncalc/internal/calc"
	"github.com/jask/nncalc/internal/natural"
)

// display is the calc.View the controller drives. It keeps decimal
// snapshots, never the register handles.
type display struct {
	top, bottom string
	legal       calc.Legality
}

func (d *display) UpdateTopDisplay(n *natural.Natural)    { d.top = n.String() }
func (d *display) UpdateBottomDisplay(n *natural.Natural) { d.bottom = n.String() }
func (d *display) UpdateSubtractAllowed(allowed bool)     { d.legal.Subtract = allowed }
func (d *display) UpdateDivideAllowed(allowed bool)       { d.legal.Divide = allowed }
func (d *display) UpdatePowerAllowed(allowed bool)        { d.legal.Power = allowed }
func (d *display) UpdateRootAllowed(allowed bool)         { d.legal.Root = allowed }

func (d *display) allowed(kind calc.EventKind) bool { return d.legal.Allowed(kind) }

func disabledReason(kind calc.EventKind) string {
	switch kind {
	case calc.EventSubtract:
		return "subtract needs top ≥ bottom"
	case calc.EventDivide:
		return "cannot divide by zero"
	case calc.EventPower:
		return fmt.Sprintf("exponent must not exceed %d", natural.MaxInt)
	case calc.EventRoot:
		return fmt.Sprintf("root degree must be between 2 and %d", natural.MaxInt)
	}
	return kind.String() + " is disabled"
}
