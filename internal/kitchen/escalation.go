package kitchen

import (
	"fmt"
	"time"

	"efficiensa/internal/models"
)

// Tier represents the alert colour of an order card
type Tier string

const (
	TierSuccess  Tier = "success"
	TierWarning  Tier = "warning"
	TierCritical Tier = "critical"
	TierInfo     Tier = "info"
	TierMuted    Tier = "muted"
)

// Thresholds configures when an open order escalates
type Thresholds struct {
	Warning  time.Duration
	Critical time.Duration
}

// DefaultThresholds escalates to warning after five minutes and critical after ten
var DefaultThresholds = Thresholds{Warning: 300 * time.Second, Critical: 600 * time.Second}

// Badge is the countdown badge rendered on an order card
type Badge struct {
	ElapsedSeconds int64  `json:"elapsedSeconds"`
	Label          string `json:"label"`
	Tier           Tier   `json:"tier"`
	Border         Tier   `json:"border"`
	Pulse          bool   `json:"pulse"`
}

// Elapsed returns whole seconds since the order started, or since it was
// created when it never started. The count freezes once the order completes.
func Elapsed(o *models.Order, now time.Time) int64 {
	start := o.CreatedAt
	if o.StartedAt != nil {
		start = *o.StartedAt
	}
	end := now
	if o.CompletedAt != nil {
		end = *o.CompletedAt
	}
	secs := int64(end.Sub(start) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// SinceAcknowledged is Elapsed measured from the last acknowledgement when
// there is one. Auto-delay uses it so an acknowledged order gets a fresh window.
func SinceAcknowledged(o *models.Order, now time.Time) int64 {
	if o.AcknowledgedAt == nil {
		return Elapsed(o, now)
	}
	secs := int64(now.Sub(*o.AcknowledgedAt) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// TierOf resolves the alert tier of an order
func TierOf(o *models.Order, now time.Time, th Thresholds) Tier {
	switch o.Status {
	case models.StatusDelayed:
		return TierCritical
	case models.StatusReady:
		return TierSuccess
	}
	elapsed := Elapsed(o, now)
	switch {
	case elapsed > seconds(th.Critical):
		return TierCritical
	case elapsed > seconds(th.Warning):
		return TierWarning
	default:
		return TierSuccess
	}
}

// BorderOf resolves the card border colour. Rush orders always get the critical
// border; this is visual only and never changes status.
func BorderOf(o *models.Order) Tier {
	if o.Priority == models.PriorityRush {
		return TierCritical
	}
	switch o.Status {
	case models.StatusQueue:
		return TierInfo
	case models.StatusCooking:
		return TierWarning
	case models.StatusReady:
		return TierSuccess
	case models.StatusDelayed:
		return TierCritical
	default:
		return TierMuted
	}
}

// BadgeOf builds the full card badge for an order
func BadgeOf(o *models.Order, now time.Time, th Thresholds) Badge {
	elapsed := Elapsed(o, now)
	return Badge{
		ElapsedSeconds: elapsed,
		Label:          FormatElapsed(elapsed),
		Tier:           TierOf(o, now, th),
		Border:         BorderOf(o),
		Pulse:          o.Status == models.StatusDelayed || (o.IsOpen() && elapsed > seconds(th.Critical)),
	}
}

// FormatElapsed renders seconds as m:ss
func FormatElapsed(secs int64) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
