package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"efficiensa/internal/kitchen"
	"efficiensa/internal/models"
)

// MetricsCollector handles metrics collection and reporting
type MetricsCollector struct {
	registry *prometheus.Registry
	metrics  map[string]prometheus.Collector
	monitor  *Monitor
}

var _ kitchen.Recorder = (*MetricsCollector)(nil)

// NewMetricsCollector creates a collector that also mirrors totals into the monitor
func NewMetricsCollector(monitor *Monitor) *MetricsCollector {
	registry := prometheus.NewRegistry()

	transitions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kds_transitions_total",
			Help: "Order lifecycle transitions applied",
		},
		[]string{"event", "from", "to"},
	)

	ticketTime := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kds_ticket_seconds",
			Help:    "Time from order creation to completion",
			Buckets: prometheus.LinearBuckets(0, 120, 15), // 2-minute buckets
		},
		[]string{"order_type"},
	)

	openOrders := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kds_open_orders",
			Help: "Orders currently on the line by status",
		},
		[]string{"status"},
	)

	escalation := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kds_escalation_orders",
			Help: "Open orders by alert tier",
		},
		[]string{"tier"},
	)

	metrics := map[string]prometheus.Collector{
		"transitions": transitions,
		"ticket_time": ticketTime,
		"open":        openOrders,
		"escalation":  escalation,
	}

	for _, metric := range metrics {
		registry.MustRegister(metric)
	}

	if monitor == nil {
		monitor = NewMonitor()
	}
	return &MetricsCollector{
		registry: registry,
		metrics:  metrics,
		monitor:  monitor,
	}
}

// Registry exposes the private registry
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// Monitor returns the monitor fed by this collector
func (mc *MetricsCollector) Monitor() *Monitor {
	return mc.monitor
}

// Handler serves the registry in the Prometheus text format
func (mc *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{Registry: mc.registry})
}

// Transition counts an applied lifecycle event
func (mc *MetricsCollector) Transition(event kitchen.Event, from, to models.Status) {
	if counter, ok := mc.metrics["transitions"].(*prometheus.CounterVec); ok {
		counter.WithLabelValues(string(event), string(from), string(to)).Inc()
	}
	mc.monitor.Count("transitions_total", 1)
}

// TicketCompleted records how long a ticket took end to end
func (mc *MetricsCollector) TicketCompleted(orderType models.OrderType, d time.Duration) {
	if histogram, ok := mc.metrics["ticket_time"].(*prometheus.HistogramVec); ok {
		histogram.WithLabelValues(string(orderType)).Observe(d.Seconds())
	}
	mc.monitor.Count("completed_total", 1)
	mc.monitor.Observe("last_ticket_seconds", d.Seconds())
}

// Snapshot replaces the open-order and escalation gauges
func (mc *MetricsCollector) Snapshot(open map[models.Status]int, tiers map[kitchen.Tier]int) {
	group := make(map[string]int, len(open))
	if gauge, ok := mc.metrics["open"].(*prometheus.GaugeVec); ok {
		for status, n := range open {
			gauge.WithLabelValues(string(status)).Set(float64(n))
			group[string(status)] = n
		}
	}
	mc.monitor.SetGroup("open", group)

	group = make(map[string]int, len(tiers))
	if gauge, ok := mc.metrics["escalation"].(*prometheus.GaugeVec); ok {
		for tier, n := range tiers {
			gauge.WithLabelValues(string(tier)).Set(float64(n))
			group[string(tier)] = n
		}
	}
	mc.monitor.SetGroup("tier", group)
}
