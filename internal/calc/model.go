package calc

import "github.com/jask/nncalc/internal/natural"

// Model holds the two registers. Top and Bottom return live handles into the
// model's own state; mutations through them are the model's mutations.
type Model interface {
	Top() *natural.Natural
	Bottom() *natural.Natural
}

// View receives register values and operation enablement from the
// controller. The handles passed to the display methods are only valid for
// the duration of the call and must not be mutated.
type View interface {
	UpdateTopDisplay(n *natural.Natural)
	UpdateBottomDisplay(n *natural.Natural)
	UpdateSubtractAllowed(allowed bool)
	UpdateDivideAllowed(allowed bool)
	UpdatePowerAllowed(allowed bool)
	UpdateRootAllowed(allowed bool)
}

// Registers is the default Model. Both registers start at 0.
type Registers struct {
	top    natural.Natural
	bottom natural.Natural
}

// NewModel returns a Registers with top and bottom set to 0.
func NewModel() *Registers { return &Registers{} }

func (r *Registers) Top() *natural.Natural    { return &r.top }
func (r *Registers) Bottom() *natural.Natural { return &r.bottom }
