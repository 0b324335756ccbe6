package kitchen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"efficiensa/internal/events"
	"efficiensa/internal/logger"
	"efficiensa/internal/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidOrder  = errors.New("invalid order")
)

// Repository persists kitchen orders
type Repository interface {
	Create(o *models.Order) error
	Get(id string) (*models.Order, error)
	ListByStatus(statuses ...models.Status) ([]*models.Order, error)
	Save(o *models.Order) error
	DeleteCompletedBefore(cutoff time.Time) (int64, error)
}

// Recorder receives lifecycle metrics
type Recorder interface {
	Transition(event Event, from, to models.Status)
	TicketCompleted(orderType models.OrderType, d time.Duration)
	Snapshot(open map[models.Status]int, tiers map[Tier]int)
}

type nopRecorder struct{}

func (nopRecorder) Transition(Event, models.Status, models.Status) {}
func (nopRecorder) TicketCompleted(models.OrderType, time.Duration) {}
func (nopRecorder) Snapshot(map[models.Status]int, map[Tier]int) {}

// CreateItem is a line item in a create-order request
type CreateItem struct {
	ID        string   `json:"id" validate:"required"`
	Name      string   `json:"name" validate:"required"`
	Quantity  int      `json:"quantity" validate:"gte=1"`
	Modifiers []string `json:"modifiers"`
	Notes     string   `json:"notes"`
	Station   string   `json:"station"`
}

// CreateOrder is the request to put a new ticket on the line
type CreateOrder struct {
	OrderNumber      string       `json:"orderNumber" validate:"required"`
	TableName        string       `json:"tableName"`
	OrderType        string       `json:"orderType" validate:"required,oneof=dine-in takeout delivery"`
	Priority         string       `json:"priority" validate:"omitempty,oneof=normal vip rush"`
	Items            []CreateItem `json:"items" validate:"required,min=1,dive"`
	EstimatedMinutes int          `json:"estimatedTime" validate:"gte=0"`
	Source           string       `json:"source"`
	Server           string       `json:"server"`
	Notes            string       `json:"notes"`
}

// Options configures a Service
type Options struct {
	ExpoEnabled bool
	Thresholds  Thresholds
	// AutoDelayAfter flags open orders as delayed once they run this long. Zero disables it.
	AutoDelayAfter time.Duration
	Clock          clockwork.Clock
	Publisher      events.Publisher
	Recorder       Recorder
	Logger         logger.Logger
}

// Service applies lifecycle events to persisted orders
type Service struct {
	repo       Repository
	machine    *Machine
	thresholds Thresholds
	autoDelay  time.Duration
	clock      clockwork.Clock
	publisher  events.Publisher
	recorder   Recorder
	log        logger.Logger
	validate   *validator.Validate

	mu sync.Mutex
}

// NewService creates a kitchen service
func NewService(repo Repository, opts Options) *Service {
	s := &Service{
		repo:       repo,
		machine:    NewMachine(opts.ExpoEnabled),
		thresholds: opts.Thresholds,
		autoDelay:  opts.AutoDelayAfter,
		clock:      opts.Clock,
		publisher:  opts.Publisher,
		recorder:   opts.Recorder,
		log:        opts.Logger,
		validate:   validator.New(),
	}
	if s.thresholds == (Thresholds{}) {
		s.thresholds = DefaultThresholds
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.publisher == nil {
		s.publisher = events.Noop()
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

// Thresholds returns the escalation thresholds in use
func (s *Service) Thresholds() Thresholds {
	return s.thresholds
}

// Now returns the service clock's current time
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// Create validates the request and queues a new order
func (s *Service) Create(ctx context.Context, req CreateOrder) (*models.Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	orderType, err := models.ParseOrderType(req.OrderType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	priority, err := models.ParsePriority(req.Priority)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}

	o := &models.Order{
		ID:               uuid.NewString(),
		OrderNumber:      req.OrderNumber,
		TableName:        req.TableName,
		OrderType:        orderType,
		Priority:         priority,
		Status:           models.StatusQueue,
		CreatedAt:        s.clock.Now(),
		EstimatedMinutes: req.EstimatedMinutes,
		Source:           req.Source,
		Server:           req.Server,
		Notes:            req.Notes,
	}
	seen := make(map[string]bool, len(req.Items))
	for i, item := range req.Items {
		if seen[item.ID] {
			return nil, fmt.Errorf("%w: duplicate item id %q", ErrInvalidOrder, item.ID)
		}
		seen[item.ID] = true
		o.Items = append(o.Items, models.OrderItem{
			ID:        item.ID,
			Position:  i,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Modifiers: item.Modifiers,
			Notes:     item.Notes,
			Status:    models.ItemPending,
			Station:   item.Station,
		})
	}

	s.mu.Lock()
	err = s.repo.Create(o)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.log.Info("order_created", "Order queued", "", map[string]interface{}{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"priority":     o.Priority,
	})
	return o, nil
}

// Get returns a single order
func (s *Service) Get(id string) (*models.Order, error) {
	return s.repo.Get(id)
}

// Board renders a view at the current time
func (s *Service) Board(view View, station string) (Board, error) {
	return s.BoardAt(view, station, s.clock.Now())
}

// BoardAt renders a view at the given time
func (s *Service) BoardAt(view View, station string, now time.Time) (Board, error) {
	orders, err := s.repo.ListByStatus(view.Statuses()...)
	if err != nil {
		return Board{}, fmt.Errorf("failed to list orders: %w", err)
	}
	return BuildBoard(orders, view, station, now, s.thresholds), nil
}

// Bump advances an order to its next stage
func (s *Service) Bump(ctx context.Context, id string) (*models.Order, bool, error) {
	return s.apply(ctx, id, EventBump, s.machine.Bump)
}

// Recall sends a ready or completed order back to cooking
func (s *Service) Recall(ctx context.Context, id string) (*models.Order, bool, error) {
	return s.apply(ctx, id, EventRecall, func(o *models.Order, _ time.Time) bool {
		return s.machine.Recall(o)
	})
}

// FlagDelayed moves an order to the delayed board
func (s *Service) FlagDelayed(ctx context.Context, id string) (*models.Order, bool, error) {
	return s.apply(ctx, id, EventFlagDelayed, func(o *models.Order, _ time.Time) bool {
		return s.machine.FlagDelayed(o)
	})
}

// Acknowledge returns a delayed order to cooking
func (s *Service) Acknowledge(ctx context.Context, id string) (*models.Order, bool, error) {
	return s.apply(ctx, id, EventAcknowledge, s.machine.Acknowledge)
}

// ToggleItem flips a line item between done and pending
func (s *Service) ToggleItem(ctx context.Context, id, itemID string) (*models.Order, bool, error) {
	return s.apply(ctx, id, EventToggleItem, func(o *models.Order, _ time.Time) bool {
		return s.machine.ToggleItem(o, itemID)
	})
}

// UpgradePriority raises the priority of an open order
func (s *Service) UpgradePriority(ctx context.Context, id string, p models.Priority) (*models.Order, bool, error) {
	if p.Rank() < 0 {
		return nil, false, fmt.Errorf("%w: unknown priority %q", ErrInvalidOrder, p)
	}
	return s.apply(ctx, id, EventPriority, func(o *models.Order, _ time.Time) bool {
		return s.machine.UpgradePriority(o, p)
	})
}

func (s *Service) apply(ctx context.Context, id string, event Event, fn func(*models.Order, time.Time) bool) (*models.Order, bool, error) {
	s.mu.Lock()
	o, err := s.repo.Get(id)
	if err != nil {
		s.mu.Unlock()
		return nil, false, err
	}
	now := s.clock.Now()
	from := o.Status
	if !fn(o, now) {
		s.mu.Unlock()
		return o, false, nil
	}
	if err := s.repo.Save(o); err != nil {
		s.mu.Unlock()
		return nil, false, fmt.Errorf("failed to save order: %w", err)
	}
	s.mu.Unlock()

	s.changed(ctx, o, event, from, now)
	return o, true, nil
}

// changed records and broadcasts an effective transition. Publish errors are logged only.
func (s *Service) changed(ctx context.Context, o *models.Order, event Event, from models.Status, now time.Time) {
	s.recorder.Transition(event, from, o.Status)
	if o.Status == models.StatusCompleted && from != models.StatusCompleted && o.CompletedAt != nil {
		s.recorder.TicketCompleted(o.OrderType, o.CompletedAt.Sub(o.CreatedAt))
	}

	details := map[string]interface{}{
		"order_id":   o.ID,
		"event":      event,
		"old_status": from,
		"new_status": o.Status,
	}
	s.log.Debug("order_transition", "Order changed", "", details)

	err := s.publisher.PublishStatusChanged(ctx, events.StatusChanged{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Event:       string(event),
		OldStatus:   from,
		NewStatus:   o.Status,
		Priority:    o.Priority,
		Timestamp:   now,
	})
	if err != nil {
		s.log.Error("publish_failed", "Failed to publish status change", "", details, err)
	}
}

// Sweep flags long-running orders as delayed and refreshes the open-order gauges.
// It returns the number of orders it delayed.
func (s *Service) Sweep(ctx context.Context, now time.Time) (int, error) {
	open := []models.Status{models.StatusQueue, models.StatusCooking, models.StatusReady, models.StatusDelayed}

	type delayed struct {
		order *models.Order
		from  models.Status
	}
	var moved []delayed

	s.mu.Lock()
	orders, err := s.repo.ListByStatus(open...)
	if err != nil {
		s.mu.Unlock()
		return 0, fmt.Errorf("failed to list open orders: %w", err)
	}

	counts := make(map[models.Status]int, len(open))
	for _, st := range open {
		counts[st] = 0
	}
	tiers := map[Tier]int{TierSuccess: 0, TierWarning: 0, TierCritical: 0}

	for _, o := range orders {
		from := o.Status
		if s.autoDelay > 0 && SinceAcknowledged(o, now) > seconds(s.autoDelay) && s.machine.FlagDelayed(o) {
			if err := s.repo.Save(o); err != nil {
				s.log.Error("auto_delay_failed", "Failed to save delayed order", "", map[string]interface{}{"order_id": o.ID}, err)
				o.Status = from
			} else {
				moved = append(moved, delayed{order: o, from: from})
			}
		}
		counts[o.Status]++
		tiers[TierOf(o, now, s.thresholds)]++
	}
	s.mu.Unlock()

	for _, d := range moved {
		s.changed(ctx, d.order, EventAutoDelay, d.from, now)
	}
	s.recorder.Snapshot(counts, tiers)
	return len(moved), nil
}

// PurgeHistory deletes completed orders finished before the cutoff
func (s *Service) PurgeHistory(before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.repo.DeleteCompletedBefore(before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge history: %w", err)
	}
	s.log.Info("history_purged", "Completed orders purged", "", map[string]interface{}{
		"before":  before,
		"deleted": n,
	})
	return n, nil
}

// Run sweeps on every tick until the context ends or ticks closes
func (s *Service) Run(ctx context.Context, ticks <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case now, ok := <-ticks:
			if !ok {
				return
			}
			if _, err := s.Sweep(ctx, now); err != nil {
				s.log.Error("sweep_failed", "Kitchen sweep failed", "", nil, err)
			}
		}
	}
}
