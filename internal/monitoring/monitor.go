package monitoring

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Monitor keeps a JSON snapshot of the kitchen counters for displays that
// poll /api/v1/metrics instead of scraping Prometheus.
type Monitor struct {
	clock   clockwork.Clock
	started time.Time

	mu       sync.RWMutex
	counters map[string]int64
	values   map[string]float64
	groups   map[string]map[string]int
	updated  map[string]time.Time
}

// NewMonitor creates a monitor on the wall clock
func NewMonitor() *Monitor {
	return NewMonitorWithClock(clockwork.NewRealClock())
}

// NewMonitorWithClock creates a monitor whose uptime and group stamps come from clock
func NewMonitorWithClock(clock clockwork.Clock) *Monitor {
	return &Monitor{
		clock:    clock,
		started:  clock.Now(),
		counters: make(map[string]int64),
		values:   make(map[string]float64),
		groups:   make(map[string]map[string]int),
		updated:  make(map[string]time.Time),
	}
}

// Count adds delta to a counter, starting from zero
func (m *Monitor) Count(name string, delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += delta
}

// Counter returns the current value of a counter
func (m *Monitor) Counter(name string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[name]
}

// Observe records the latest value of a measurement
func (m *Monitor) Observe(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = value
}

// SetGroup replaces every gauge under prefix. Keys missing from values drop out.
func (m *Monitor) SetGroup(prefix string, values map[string]int) {
	group := make(map[string]int, len(values))
	for k, v := range values {
		group[k] = v
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[prefix] = group
	m.updated[prefix] = m.clock.Now()
}

// Snapshot flattens everything into one map. Group gauges are keyed prefix_name.
func (m *Monitor) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]interface{}, len(m.counters)+len(m.values)+2*len(m.groups)+1)
	for k, v := range m.counters {
		out[k] = v
	}
	for k, v := range m.values {
		out[k] = v
	}
	for prefix, group := range m.groups {
		for k, v := range group {
			out[prefix+"_"+k] = v
		}
		out[prefix+"_last_updated"] = m.updated[prefix].Format(time.RFC3339)
	}
	out["uptime_seconds"] = m.clock.Since(m.started).Seconds()
	return out
}
