package kitchen

import (
	"fmt"
	"sort"
	"time"

	"github.com/gosimple/slug"

	"efficiensa/internal/models"
)

// View is a named filter over the order board. Each kitchen screen is one view.
type View string

const (
	ViewQueue   View = "queue"
	ViewCooking View = "cooking"
	ViewExpo    View = "expo"
	ViewDelayed View = "delayed"
	ViewHistory View = "history"
	ViewKitchen View = "kitchen"
	ViewAll     View = "all"
)

var viewStatuses = map[View][]models.Status{
	ViewQueue:   {models.StatusQueue},
	ViewCooking: {models.StatusCooking},
	ViewExpo:    {models.StatusReady},
	ViewDelayed: {models.StatusDelayed},
	ViewHistory: {models.StatusCompleted},
	ViewKitchen: {models.StatusQueue, models.StatusCooking, models.StatusReady, models.StatusDelayed},
	ViewAll:     models.AllStatuses,
}

// ParseView validates a view name; empty selects the kitchen view
func ParseView(s string) (View, error) {
	if s == "" {
		return ViewKitchen, nil
	}
	v := View(s)
	if _, ok := viewStatuses[v]; !ok {
		return "", fmt.Errorf("unknown view %q", s)
	}
	return v, nil
}

// Statuses returns the order statuses shown by the view
func (v View) Statuses() []models.Status {
	return viewStatuses[v]
}

// Card is an order together with its derived badge
type Card struct {
	*models.Order
	Badge Badge `json:"badge"`
}

// Board is a rendered view at a point in time
type Board struct {
	View        View                       `json:"view"`
	Station     string                     `json:"station,omitempty"`
	GeneratedAt time.Time                  `json:"generatedAt"`
	Cards       []Card                     `json:"cards"`
	Counts      map[models.Status]int      `json:"counts"`
	Groups      map[models.OrderType][]int `json:"groups,omitempty"`
}

// BuildBoard filters, sorts and decorates orders for a view.
// Orders must already be limited to the view's statuses.
func BuildBoard(orders []*models.Order, view View, station string, now time.Time, th Thresholds) Board {
	board := Board{
		View:        view,
		Station:     station,
		GeneratedAt: now,
		Cards:       []Card{},
		Counts:      make(map[models.Status]int),
	}

	for _, o := range orders {
		if station != "" {
			o = FilterStation(o, station)
			if o == nil {
				continue
			}
		}
		board.Counts[o.Status]++
		board.Cards = append(board.Cards, Card{Order: o, Badge: BadgeOf(o, now, th)})
	}

	if view == ViewHistory {
		sort.SliceStable(board.Cards, func(i, j int) bool {
			return completedAt(board.Cards[i].Order).After(completedAt(board.Cards[j].Order))
		})
	} else {
		sort.SliceStable(board.Cards, func(i, j int) bool {
			a, b := board.Cards[i].Order, board.Cards[j].Order
			if a.Priority.Rank() != b.Priority.Rank() {
				return a.Priority.Rank() > b.Priority.Rank()
			}
			return a.CreatedAt.Before(b.CreatedAt)
		})
	}

	if view == ViewExpo {
		board.Groups = make(map[models.OrderType][]int)
		for i, c := range board.Cards {
			board.Groups[c.OrderType] = append(board.Groups[c.OrderType], i)
		}
	}
	return board
}

// FilterStation returns a copy of the order holding only items routed to the
// station, or nil when none are. Routing is advisory and never affects status.
func FilterStation(o *models.Order, station string) *models.Order {
	want := slug.Make(station)
	c := o.Clone()
	c.Items = c.Items[:0]
	for _, item := range o.Items {
		if slug.Make(item.Station) == want {
			c.Items = append(c.Items, item)
		}
	}
	if len(c.Items) == 0 {
		return nil
	}
	return c
}

func completedAt(o *models.Order) time.Time {
	if o.CompletedAt != nil {
		return *o.CompletedAt
	}
	return o.CreatedAt
}

// OnlyStatus narrows a board to a single status
func (b Board) OnlyStatus(st models.Status) Board {
	out := Board{
		View:        b.View,
		Station:     b.Station,
		GeneratedAt: b.GeneratedAt,
		Cards:       []Card{},
		Counts:      map[models.Status]int{},
	}
	for _, c := range b.Cards {
		if c.Status == st {
			out.Cards = append(out.Cards, c)
		}
	}
	if len(out.Cards) > 0 {
		out.Counts[st] = len(out.Cards)
	}
	if b.Groups != nil {
		out.Groups = make(map[models.OrderType][]int)
		for i, c := range out.Cards {
			out.Groups[c.OrderType] = append(out.Groups[c.OrderType], i)
		}
	}
	return out
}
