package kitchen

import (
	"time"

	"efficiensa/internal/models"
)

// Event represents a staff or timer action applied to an order
type Event string

const (
	EventBump        Event = "bump"
	EventRecall      Event = "recall"
	EventFlagDelayed Event = "delay"
	EventAutoDelay   Event = "auto_delay"
	EventAcknowledge Event = "acknowledge"
	EventToggleItem  Event = "toggle_item"
	EventPriority    Event = "priority"
)

// Machine holds the order lifecycle rules shared by every display.
// Methods mutate the order in place and report whether anything changed;
// an event that does not apply to the current status leaves the order untouched.
type Machine struct {
	// ExpoEnabled routes finished tickets through the ready/expo stage
	// instead of completing them straight from cooking.
	ExpoEnabled bool
}

// NewMachine creates a lifecycle machine
func NewMachine(expoEnabled bool) *Machine {
	return &Machine{ExpoEnabled: expoEnabled}
}

// Bump advances an order to its next stage
func (m *Machine) Bump(o *models.Order, now time.Time) bool {
	switch o.Status {
	case models.StatusQueue:
		o.Status = models.StatusCooking
		stamp(&o.StartedAt, now)
	case models.StatusCooking:
		if !o.AllItemsDone() {
			return false
		}
		if m.ExpoEnabled {
			o.Status = models.StatusReady
			stamp(&o.ReadyAt, now)
		} else {
			o.Status = models.StatusCompleted
			stamp(&o.CompletedAt, now)
		}
	case models.StatusReady, models.StatusDelayed:
		o.Status = models.StatusCompleted
		stamp(&o.CompletedAt, now)
	default:
		return false
	}
	return true
}

// Recall sends a ready or completed order back to the line
func (m *Machine) Recall(o *models.Order) bool {
	if o.Status != models.StatusReady && o.Status != models.StatusCompleted {
		return false
	}
	o.Status = models.StatusCooking
	o.ReadyAt = nil
	o.CompletedAt = nil
	return true
}

// FlagDelayed moves a queued or cooking order to the delayed board.
// Timestamps are left alone so elapsed time keeps counting from the original start.
func (m *Machine) FlagDelayed(o *models.Order) bool {
	if o.Status != models.StatusQueue && o.Status != models.StatusCooking {
		return false
	}
	o.Status = models.StatusDelayed
	return true
}

// Acknowledge returns a delayed order to cooking and restarts the auto-delay
// window. StartedAt is kept so the badge still counts from the first start.
func (m *Machine) Acknowledge(o *models.Order, now time.Time) bool {
	if o.Status != models.StatusDelayed {
		return false
	}
	o.Status = models.StatusCooking
	stamp(&o.StartedAt, now)
	t := now
	o.AcknowledgedAt = &t
	return true
}

// ToggleItem flips a line item between done and pending.
// Items can only be toggled while the order is still on the line.
func (m *Machine) ToggleItem(o *models.Order, itemID string) bool {
	switch o.Status {
	case models.StatusQueue, models.StatusCooking, models.StatusDelayed:
	default:
		return false
	}
	i := o.FindItem(itemID)
	if i < 0 {
		return false
	}
	if o.Items[i].Status == models.ItemDone {
		o.Items[i].Status = models.ItemPending
	} else {
		o.Items[i].Status = models.ItemDone
	}
	return true
}

// UpgradePriority raises the priority of an open order. Downgrades are ignored.
func (m *Machine) UpgradePriority(o *models.Order, p models.Priority) bool {
	if !o.IsOpen() || p.Rank() <= o.Priority.Rank() {
		return false
	}
	o.Priority = p
	return true
}

func stamp(field **time.Time, now time.Time) {
	if *field != nil {
		return
	}
	t := now
	*field = &t
}
