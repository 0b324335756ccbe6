package cart

import (
	"sort"
	"strings"

	"efficiensa/internal/models"
)

// Line is one cart entry: an item with a particular set of modifiers
type Line struct {
	Key       string            `json:"key"`
	Item      models.MenuItem   `json:"item"`
	Modifiers []models.Modifier `json:"modifiers,omitempty"`
	Quantity  int               `json:"quantity"`
}

// State is the cart of a single terminal
type State struct {
	Lines     []Line           `json:"lines"`
	OrderType models.OrderType `json:"orderType,omitempty"`
}

// Action is a change applied to a cart by Reduce
type Action interface {
	apply(State) State
}

// AddItem adds one unit of an item. A line with the same item and the same
// set of modifiers is incremented instead of duplicated.
type AddItem struct {
	Item      models.MenuItem
	Modifiers []models.Modifier
}

// RemoveItem removes every line for an item id, whatever its modifiers
type RemoveItem struct {
	ItemID string
}

// UpdateQuantity sets the quantity of every line for an item id.
// A quantity of zero or less removes those lines.
type UpdateQuantity struct {
	ItemID   string
	Quantity int
}

// RemoveLine removes a single line by key
type RemoveLine struct {
	Key string
}

// UpdateLineQuantity sets the quantity of a single line; zero or less removes it
type UpdateLineQuantity struct {
	Key      string
	Quantity int
}

// SetOrderType records how the guest receives the order
type SetOrderType struct {
	OrderType models.OrderType
}

// ClearCart empties the cart and resets the order type
type ClearCart struct{}

// Reduce returns the state after applying the action. The input state is never modified.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

// LineKey identifies a line by item id and modifier set. Modifier order does not matter.
func LineKey(itemID string, modifiers []models.Modifier) string {
	ids := make([]string, len(modifiers))
	for i, m := range modifiers {
		ids[i] = m.ID
	}
	sort.Strings(ids)
	return itemID + "|" + strings.Join(ids, ",")
}

func (a AddItem) apply(s State) State {
	key := LineKey(a.Item.ID, a.Modifiers)
	lines := copyLines(s.Lines)
	for i := range lines {
		if lines[i].Key == key {
			lines[i].Quantity++
			s.Lines = lines
			return s
		}
	}
	s.Lines = append(lines, Line{
		Key:       key,
		Item:      a.Item,
		Modifiers: append([]models.Modifier(nil), a.Modifiers...),
		Quantity:  1,
	})
	return s
}

func (a RemoveItem) apply(s State) State {
	s.Lines = filter(s.Lines, func(l Line) bool { return l.Item.ID != a.ItemID })
	return s
}

func (a UpdateQuantity) apply(s State) State {
	if a.Quantity <= 0 {
		return RemoveItem{ItemID: a.ItemID}.apply(s)
	}
	lines := copyLines(s.Lines)
	for i := range lines {
		if lines[i].Item.ID == a.ItemID {
			lines[i].Quantity = a.Quantity
		}
	}
	s.Lines = lines
	return s
}

func (a RemoveLine) apply(s State) State {
	s.Lines = filter(s.Lines, func(l Line) bool { return l.Key != a.Key })
	return s
}

func (a UpdateLineQuantity) apply(s State) State {
	if a.Quantity <= 0 {
		return RemoveLine{Key: a.Key}.apply(s)
	}
	lines := copyLines(s.Lines)
	for i := range lines {
		if lines[i].Key == a.Key {
			lines[i].Quantity = a.Quantity
		}
	}
	s.Lines = lines
	return s
}

func (a SetOrderType) apply(s State) State {
	s.Lines = copyLines(s.Lines)
	s.OrderType = a.OrderType
	return s
}

func (ClearCart) apply(State) State {
	return State{Lines: []Line{}}
}

func copyLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

func filter(lines []Line, keep func(Line) bool) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}
