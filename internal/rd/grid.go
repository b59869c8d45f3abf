package rd

import "fmt"

// Slot names one of the two buffers of a Grid.
type Slot int

const (
	SlotA Slot = iota
	SlotB
)

func (s Slot) String() string {
	switch s {
	case SlotA:
		return "A"
	case SlotB:
		return "B"
	default:
		return fmt.Sprintf("Slot(%d)", int(s))
	}
}

// Other returns the slot that is not s.
func (s Slot) Other() Slot {
	if s == SlotA {
		return SlotB
	}
	return SlotA
}

// Grid is the double buffer behind a Solver. The front slot holds the most
// recent values; the back slot holds the slice they were computed from.
// Both slots always share one shape.
type Grid struct {
	a, b   *Slice
	active Slot
}

func newGrid(fields, nx, ny int) *Grid {
	return &Grid{
		a:      newSlice(fields, nx, ny),
		b:      newSlice(fields, nx, ny),
		active: SlotA,
	}
}

func (g *Grid) slot(s Slot) *Slice {
	if s == SlotA {
		return g.a
	}
	return g.b
}

// Active returns the slot holding the current values.
func (g *Grid) Active() Slot { return g.active }

func (g *Grid) front() *Slice { return g.slot(g.active) }

func (g *Grid) back() *Slice { return g.slot(g.active.Other()) }

// swap makes the back slot current. Only the stepping loop calls it.
func (g *Grid) swap() { g.active = g.active.Other() }

func (g *Grid) shape() (nx, ny int) { return g.a.nx, g.a.ny }

func (g *Grid) resizeX(nx int) error {
	old, _ := g.shape()
	if nx < old {
		return fmt.Errorf("%w: x %d -> %d", ErrShrink, old, nx)
	}
	if nx == old {
		return nil
	}
	g.a, g.b = g.a.extendX(nx), g.b.extendX(nx)
	return nil
}

func (g *Grid) resizeY(ny int) error {
	_, old := g.shape()
	if ny < old {
		return fmt.Errorf("%w: y %d -> %d", ErrShrink, old, ny)
	}
	if ny == old {
		return nil
	}
	g.a, g.b = g.a.extendY(ny), g.b.extendY(ny)
	return nil
}
