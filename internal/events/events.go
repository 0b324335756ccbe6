package events

import (
	"context"
	"time"

	"efficiensa/internal/models"
)

// StatusChanged is broadcast whenever a transition changes an order
type StatusChanged struct {
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Event       string          `json:"event"`
	OldStatus   models.Status   `json:"old_status"`
	NewStatus   models.Status   `json:"new_status"`
	Priority    models.Priority `json:"priority"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Publisher delivers status events to other kitchen displays
type Publisher interface {
	PublishStatusChanged(ctx context.Context, msg StatusChanged) error
	Close() error
}

type noop struct{}

// Noop returns a publisher that drops every event
func Noop() Publisher {
	return noop{}
}

func (noop) PublishStatusChanged(context.Context, StatusChanged) error { return nil }

func (noop) Close() error { return nil }
