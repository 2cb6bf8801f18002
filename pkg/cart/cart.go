package cart

import (
	"github.com/MasudBS-1458/tr-cafe/pkg/api"
	"github.com/MasudBS-1458/tr-cafe/pkg/state"
)

// Line is one product's accumulated quantity in the cart. UnitPrice is the
// catalog price at the moment the product was first added; later catalog
// price changes do not retroactively alter it.
type Line struct {
	ProductID string
	Name      string
	UnitPrice float64
	Quantity  int
}

// Snapshot is a point-in-time copy of the cart. TotalQuantity and
// TotalPrice are derived from the lines on every mutation, never cached
// across mutations.
type Snapshot struct {
	Lines         []Line
	TotalQuantity int
	TotalPrice    float64
}

// Store owns the cart state. At most one line exists per product id;
// quantities are always ≥ 1 — reducing a line to zero or below removes it.
type Store struct {
	loop *state.Loop
	cart *state.Signal[Snapshot]
}

// NewStore creates an empty cart.
func NewStore(loop *state.Loop) *Store {
	return &Store{
		loop: loop,
		cart: state.NewSignal(Snapshot{}),
	}
}

// Add puts qty units of the item into the cart. If a line for the product
// already exists its quantity is incremented; otherwise a new line is
// appended with the item's current price as the unit-price snapshot.
// qty values below 1 are treated as 1.
func (s *Store) Add(item api.Food, qty int) {
	if qty < 1 {
		qty = 1
	}
	s.loop.Dispatch(func() {
		s.cart.Update(func(snap Snapshot) Snapshot {
			lines := copyLines(snap.Lines)
			found := false
			for i := range lines {
				if lines[i].ProductID == item.ID {
					lines[i].Quantity += qty
					found = true
					break
				}
			}
			if !found {
				lines = append(lines, Line{
					ProductID: item.ID,
					Name:      item.Name,
					UnitPrice: item.Price,
					Quantity:  qty,
				})
			}
			return recompute(lines)
		})
	})
}

// Remove deletes the product's line unconditionally. No-op if absent.
func (s *Store) Remove(productID string) {
	s.loop.Dispatch(func() {
		s.cart.Update(func(snap Snapshot) Snapshot {
			lines := make([]Line, 0, len(snap.Lines))
			for _, l := range snap.Lines {
				if l.ProductID != productID {
					lines = append(lines, l)
				}
			}
			return recompute(lines)
		})
	})
}

// SetQuantity overwrites the line's quantity. A quantity of zero or below
// is equivalent to Remove.
func (s *Store) SetQuantity(productID string, qty int) {
	if qty <= 0 {
		s.Remove(productID)
		return
	}
	s.loop.Dispatch(func() {
		s.cart.Update(func(snap Snapshot) Snapshot {
			lines := copyLines(snap.Lines)
			for i := range lines {
				if lines[i].ProductID == productID {
					lines[i].Quantity = qty
					break
				}
			}
			return recompute(lines)
		})
	})
}

// Clear empties the cart and resets the derived totals to zero.
func (s *Store) Clear() {
	s.loop.Dispatch(func() {
		s.cart.Set(Snapshot{})
	})
}

// Snapshot returns a point-in-time copy of the cart.
func (s *Store) Snapshot() Snapshot {
	snap := s.cart.Peek()
	snap.Lines = copyLines(snap.Lines)
	return snap
}

// Subscribe registers fn to observe every cart change and returns an
// unsubscribe function.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	return s.cart.Subscribe(fn)
}

// Wait blocks until all previously issued mutations have been applied.
func (s *Store) Wait() {
	s.loop.DispatchWait(func() {})
}

// recompute derives the totals from the lines. O(n) in line count, which
// is bounded by user interaction rate.
func recompute(lines []Line) Snapshot {
	snap := Snapshot{Lines: lines}
	for _, l := range lines {
		snap.TotalQuantity += l.Quantity
		snap.TotalPrice += l.UnitPrice * float64(l.Quantity)
	}
	return snap
}

func copyLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
