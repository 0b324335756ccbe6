package models

import (
	"fmt"
	"strings"
	"time"
)

// OrderType represents how the guest receives the order
type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine-in"
	OrderTypeTakeout  OrderType = "takeout"
	OrderTypeDelivery OrderType = "delivery"
)

// Priority represents the urgency staff attach to a ticket
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityVIP    Priority = "vip"
	PriorityRush   Priority = "rush"
)

// Rank orders priorities from least to most urgent. Unknown values rank below normal.
func (p Priority) Rank() int {
	switch p {
	case PriorityNormal:
		return 0
	case PriorityVIP:
		return 1
	case PriorityRush:
		return 2
	default:
		return -1
	}
}

// Status represents the lifecycle stage of a kitchen ticket
type Status string

const (
	StatusQueue     Status = "queue"
	StatusCooking   Status = "cooking"
	StatusReady     Status = "ready"
	StatusDelayed   Status = "delayed"
	StatusCompleted Status = "completed"
)

// AllStatuses lists every lifecycle status in board order
var AllStatuses = []Status{StatusQueue, StatusCooking, StatusReady, StatusDelayed, StatusCompleted}

// ItemStatus represents the preparation state of a single line item
type ItemStatus string

const (
	ItemPending    ItemStatus = "pending"
	ItemInProgress ItemStatus = "in-progress"
	ItemDone       ItemStatus = "done"
)

// Order represents a kitchen ticket shown on the displays
type Order struct {
	ID               string      `gorm:"primary_key" json:"id"`
	OrderNumber      string      `gorm:"index" json:"orderNumber"`
	TableName        string      `json:"tableName,omitempty"`
	OrderType        OrderType   `json:"orderType"`
	Priority         Priority    `json:"priority"`
	Status           Status      `gorm:"index" json:"status"`
	Items            []OrderItem `gorm:"foreignkey:OrderID" json:"items"`
	CreatedAt        time.Time   `json:"createdAt"`
	StartedAt        *time.Time  `json:"startedAt,omitempty"`
	ReadyAt          *time.Time  `json:"readyAt,omitempty"`
	CompletedAt      *time.Time  `json:"completedAt,omitempty"`
	AcknowledgedAt   *time.Time  `json:"acknowledgedAt,omitempty"`
	EstimatedMinutes int         `json:"estimatedTime,omitempty"`
	Source           string      `json:"source,omitempty"`
	Server           string      `json:"server,omitempty"`
	Notes            string      `json:"notes,omitempty"`
}

// OrderItem represents a line item within a kitchen ticket
type OrderItem struct {
	RowID     uint       `gorm:"primary_key" json:"-"`
	OrderID   string     `gorm:"index" json:"-"`
	Position  int        `json:"-"`
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity"`
	Modifiers []string   `gorm:"-" json:"modifiers,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Status    ItemStatus `json:"status"`
	Station   string     `json:"station,omitempty"`

	// ModifierList is the persisted form of Modifiers
	ModifierList string `json:"-"`
}

// BeforeSave flattens modifiers for storage
func (i *OrderItem) BeforeSave() error {
	i.ModifierList = strings.Join(i.Modifiers, "\x1f")
	return nil
}

// AfterFind restores modifiers from storage
func (i *OrderItem) AfterFind() error {
	if i.ModifierList == "" {
		i.Modifiers = nil
		return nil
	}
	i.Modifiers = strings.Split(i.ModifierList, "\x1f")
	return nil
}

// IsOpen reports whether the order is still being worked on
func (o *Order) IsOpen() bool {
	return o.Status != StatusCompleted
}

// AllItemsDone reports whether every item has been marked done.
// An order without items is never considered done.
func (o *Order) AllItemsDone() bool {
	if len(o.Items) == 0 {
		return false
	}
	for _, item := range o.Items {
		if item.Status != ItemDone {
			return false
		}
	}
	return true
}

// FindItem returns the index of the item with the given id, or -1
func (o *Order) FindItem(itemID string) int {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can compare before and after a transition
func (o *Order) Clone() *Order {
	c := *o
	c.Items = make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		item.Modifiers = append([]string(nil), item.Modifiers...)
		c.Items[i] = item
	}
	c.StartedAt = cloneTime(o.StartedAt)
	c.ReadyAt = cloneTime(o.ReadyAt)
	c.CompletedAt = cloneTime(o.CompletedAt)
	c.AcknowledgedAt = cloneTime(o.AcknowledgedAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// ParseOrderType validates an order type string
func ParseOrderType(s string) (OrderType, error) {
	switch t := OrderType(s); t {
	case OrderTypeDineIn, OrderTypeTakeout, OrderTypeDelivery:
		return t, nil
	}
	return "", fmt.Errorf("invalid order type %q", s)
}

// ParsePriority validates a priority string; empty means normal
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return PriorityNormal, nil
	}
	if p := Priority(s); p.Rank() >= 0 {
		return p, nil
	}
	return "", fmt.Errorf("invalid priority %q", s)
}

// ParseStatus validates a status string
func ParseStatus(s string) (Status, error) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q", s)
}
