// Package clock provides the single ticking clock shared by every board,
// timer and rotation in the process.
package clock

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultInterval is how often the kitchen clock ticks
const DefaultInterval = time.Second

// Ticker broadcasts the current time to every subscriber on each interval.
// A subscriber that falls behind misses ticks instead of stalling the others.
type Ticker struct {
	clock    clockwork.Clock
	interval time.Duration

	mu     sync.Mutex
	subs   map[int]chan time.Time
	nextID int
	closed bool
}

// NewTicker creates a ticker on the given clock
func NewTicker(clock clockwork.Clock, interval time.Duration) *Ticker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{
		clock:    clock,
		interval: interval,
		subs:     make(map[int]chan time.Time),
	}
}

// Now returns the clock's current time
func (t *Ticker) Now() time.Time {
	return t.clock.Now()
}

// Subscribe returns a channel of ticks and a function that unsubscribes
func (t *Ticker) Subscribe() (<-chan time.Time, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan time.Time, 1)
	if t.closed {
		close(ch)
		return ch, func() {}
	}
	id := t.nextID
	t.nextID++
	t.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if c, ok := t.subs[id]; ok {
				delete(t.subs, id)
				close(c)
			}
		})
	}
}

// Subscribers returns the number of active subscriptions
func (t *Ticker) Subscribers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

// Run ticks until the context is cancelled, then closes every subscription
func (t *Ticker) Run(ctx context.Context) {
	tk := t.clock.NewTicker(t.interval)
	defer tk.Stop()
	defer t.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tk.Chan():
			t.broadcast(now)
		}
	}
}

func (t *Ticker) broadcast(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ch := range t.subs {
		select {
		case ch <- now:
		default:
		}
	}
}

func (t *Ticker) shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, ch := range t.subs {
		close(ch)
		delete(t.subs, id)
	}
	t.closed = true
}
