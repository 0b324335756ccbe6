package display

import (
	"context"
	"sync"
	"time"

	"efficiensa/internal/models"
)

// State is what a display shows right now
type State struct {
	Screen         models.ScreenConfig   `json:"screen"`
	Index          int                   `json:"index"`
	Total          int                   `json:"total"`
	Progress       float64               `json:"progress"`
	RemainingSecs  int                   `json:"remainingSeconds"`
	Paused         bool                  `json:"paused"`
	AutoRotate     bool                  `json:"autoRotate"`
	TransitionType models.TransitionType `json:"transitionType"`
}

// Rotator cycles a display through its enabled screens
type Rotator struct {
	mu       sync.Mutex
	cfg      models.DisplayConfig
	screens  []models.ScreenConfig
	index    int
	since    time.Time
	paused   bool
	pausedAt time.Time
}

// NewRotator starts rotation on the first enabled screen
func NewRotator(cfg models.DisplayConfig, now time.Time) *Rotator {
	r := &Rotator{}
	r.configure(cfg, now)
	return r
}

// Configure replaces the display config. The current screen is kept when it is still enabled.
func (r *Rotator) Configure(cfg models.DisplayConfig, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configure(cfg, now)
}

func (r *Rotator) configure(cfg models.DisplayConfig, now time.Time) {
	current := ""
	if len(r.screens) > 0 {
		current = r.screens[r.index].ID
	}

	r.cfg = cfg
	r.screens = cfg.EnabledScreens()
	if len(r.screens) == 0 {
		// nothing enabled, fall back to the first built-in screen
		r.screens = models.DefaultScreens()[:1]
		r.screens[0].Enabled = true
	}

	r.index = 0
	for i, s := range r.screens {
		if s.ID == current {
			r.index = i
			return
		}
	}
	r.since = now
}

func (r *Rotator) rotates() bool {
	return r.cfg.AutoRotate && len(r.screens) > 1
}

func (r *Rotator) duration() time.Duration {
	d := r.screens[r.index].Duration
	if d <= 0 {
		d = 30
	}
	return time.Duration(d) * time.Second
}

func (r *Rotator) elapsed(now time.Time) time.Duration {
	if r.paused {
		now = r.pausedAt
	}
	if e := now.Sub(r.since); e > 0 {
		return e
	}
	return 0
}

// Tick advances to the next screen once the current one has been shown for
// its full duration. It reports whether the screen changed.
func (r *Rotator) Tick(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.paused || !r.rotates() || r.elapsed(now) < r.duration() {
		return false
	}
	r.advance(now)
	return true
}

// Next skips to the next screen immediately
func (r *Rotator) Next(now time.Time) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.screens) > 1 {
		r.advance(now)
		if r.paused {
			r.pausedAt = now
		}
	}
	return r.state(now)
}

func (r *Rotator) advance(now time.Time) {
	r.index = (r.index + 1) % len(r.screens)
	r.since = now
}

// Pause freezes rotation on the current screen
func (r *Rotator) Pause(now time.Time) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.paused {
		r.paused = true
		r.pausedAt = now
	}
	return r.state(now)
}

// Resume continues rotation where it was paused
func (r *Rotator) Resume(now time.Time) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.paused {
		r.since = r.since.Add(now.Sub(r.pausedAt))
		r.paused = false
	}
	return r.state(now)
}

// Current returns the screen being shown and its progress
func (r *Rotator) Current(now time.Time) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state(now)
}

func (r *Rotator) state(now time.Time) State {
	s := State{
		Screen:         r.screens[r.index],
		Index:          r.index,
		Total:          len(r.screens),
		Paused:         r.paused,
		AutoRotate:     r.cfg.AutoRotate,
		TransitionType: r.cfg.TransitionType,
	}
	if !r.rotates() {
		return s
	}
	d := r.duration()
	e := r.elapsed(now)
	if e > d {
		e = d
	}
	s.Progress = float64(e) / float64(d)
	s.RemainingSecs = int((d - e + time.Second - 1) / time.Second)
	return s
}

// Run advances the rotation on every tick until the context ends or ticks closes
func (r *Rotator) Run(ctx context.Context, ticks <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case now, ok := <-ticks:
			if !ok {
				return
			}
			r.Tick(now)
		}
	}
}
