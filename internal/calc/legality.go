package calc

import "github.com/jask/nncalc/internal/natural"

// Read-only after init.
var (
	two      = natural.FromInt(2)
	intLimit = natural.FromInt(natural.MaxInt)
)

// Legality records which gated operations the current registers permit.
type Legality struct {
	Subtract bool
	Divide   bool
	Power    bool
	Root     bool
}

// Evaluate computes the legality of the gated operations for the given
// register values.
func Evaluate(top, bottom *natural.Natural) Legality {
	fitsInt := bottom.Compare(intLimit) <= 0
	return Legality{
		Subtract: top.Compare(bottom) >= 0,
		Divide:   !bottom.IsZero(),
		Power:    fitsInt,
		Root:     fitsInt && bottom.Compare(two) >= 0,
	}
}

// Allowed reports whether an event of kind k may be raised. Events without a
// gate are always allowed.
func (l Legality) Allowed(k EventKind) bool {
	switch k {
	case EventSubtract:
		return l.Subtract
	case EventDivide:
		return l.Divide
	case EventPower:
		return l.Power
	case EventRoot:
		return l.Root
	}
	return true
}

// syncView pushes both registers and the current legality to view.
func syncView(m Model, v View) Legality {
	top, bottom := m.Top(), m.Bottom()

	v.UpdateTopDisplay(top)
	v.UpdateBottomDisplay(bottom)

	l := Evaluate(top, bottom)
	v.UpdateSubtractAllowed(l.Subtract)
	v.UpdateDivideAllowed(l.Divide)
	v.UpdatePowerAllowed(l.Power)
	v.UpdateRootAllowed(l.Root)
	return l
}
