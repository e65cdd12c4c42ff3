// Package cart holds the customer's working selection of menu items.
//
// State transitions are pure (Reduce); Store applies them and persists the
// resulting snapshot after every mutation.
package cart

import (
	"menucart/internal/models"

	"github.com/shopspring/decimal"
)

// State is an immutable cart snapshot. Lines keep insertion order and hold at
// most one line per item id.
type State struct {
	Lines []models.CartLine `json:"lines"`
}

// Action is a cart state transition.
type Action interface {
	apply(State) State
}

// Add increments the line for Item by Quantity, inserting it if absent.
type Add struct {
	Item     models.MenuItem
	Quantity int
}

// SetQuantity sets the line's quantity exactly; zero or less removes it.
type SetQuantity struct {
	ItemID   string
	Quantity int
}

// Remove deletes the line for ItemID if present.
type Remove struct {
	ItemID string
}

// Clear empties the cart.
type Clear struct{}

// Reduce returns the state that results from applying a to s. s is not modified.
func Reduce(s State, a Action) State {
	return a.apply(s)
}

func (a Add) apply(s State) State {
	qty := a.Quantity
	if qty <= 0 {
		qty = 1
	}
	lines := models.CopyLines(s.Lines)
	if i := indexOf(lines, a.Item.ID); i >= 0 {
		lines[i].Quantity += qty
		return State{Lines: lines}
	}
	item := a.Item
	if item.Addons != nil {
		item.Addons = append([]string(nil), item.Addons...)
	}
	return State{Lines: append(lines, models.CartLine{MenuItem: item, Quantity: qty})}
}

func (a SetQuantity) apply(s State) State {
	if a.Quantity <= 0 {
		return Remove{ItemID: a.ItemID}.apply(s)
	}
	lines := models.CopyLines(s.Lines)
	if i := indexOf(lines, a.ItemID); i >= 0 {
		lines[i].Quantity = a.Quantity
	}
	return State{Lines: lines}
}

func (a Remove) apply(s State) State {
	lines := make([]models.CartLine, 0, len(s.Lines))
	for _, l := range models.CopyLines(s.Lines) {
		if l.ID != a.ItemID {
			lines = append(lines, l)
		}
	}
	return State{Lines: lines}
}

func (Clear) apply(State) State {
	return State{Lines: []models.CartLine{}}
}

func indexOf(lines []models.CartLine, id string) int {
	for i := range lines {
		if lines[i].ID == id {
			return i
		}
	}
	return -1
}

// Quantity returns the quantity held for id, or 0.
func (s State) Quantity(id string) int {
	if i := indexOf(s.Lines, id); i >= 0 {
		return s.Lines[i].Quantity
	}
	return 0
}

// Totals are derived cart values.
type Totals struct {
	TotalItems int     `json:"totalItems"`
	TotalPrice float64 `json:"totalPrice"`
}

// Count sums the quantities of lines.
func Count(lines []models.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// Total sums quantity × price over lines.
func Total(lines []models.CartLine) float64 {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum.InexactFloat64()
}

// Totals recomputes the derived values of s.
func (s State) Totals() Totals {
	return Totals{TotalItems: Count(s.Lines), TotalPrice: Total(s.Lines)}
}
