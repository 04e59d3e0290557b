// Package metrics exports branch-and-bound search activity as Prometheus
// metrics. A Collector is a bnb.Observer; attach it with bnb.WithObserver.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/milp/bnb"
)

const namespace = "milp"

// Collector records search events. Bound gauges hold the engine's internal
// maximization values.
type Collector struct {
	events     *prometheus.CounterVec
	pruned     *prometheus.CounterVec
	upper      prometheus.Gauge
	lower      prometheus.Gauge
	queue      prometheus.Gauge
	depth      prometheus.Histogram
	iterations prometheus.Counter
}

var _ bnb.Observer = (*Collector)(nil)

// NewCollector registers the search metrics on reg.
// It panics if the metrics are already registered on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)

	return &Collector{
		events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bnb",
			Name:      "events_total",
			Help:      "Search events by kind",
		}, []string{"kind"}),
		pruned: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bnb",
			Name:      "pruned_nodes_total",
			Help:      "Pruned nodes by reason",
		}, []string{"reason"}),
		upper: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "bnb",
			Name:      "upper_bound",
			Help:      "Current global upper bound (maximization form)",
		}),
		lower: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "bnb",
			Name:      "lower_bound",
			Help:      "Current global lower bound (maximization form), -Inf before the first incumbent",
		}),
		queue: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "bnb",
			Name:      "queue_length",
			Help:      "Pending nodes after the last event",
		}),
		depth: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "bnb",
			Name:      "pruned_node_depth",
			Help:      "Depth at which nodes were pruned",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		iterations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bnb",
			Name:      "iterations_total",
			Help:      "Completed search iterations",
		}),
	}
}

// Observe implements bnb.Observer.
func (c *Collector) Observe(ev bnb.Event) {
	c.events.WithLabelValues(ev.Kind.String()).Inc()
	c.queue.Set(float64(ev.QueueLen))
	switch ev.Kind {
	case bnb.EventNodePruned:
		c.pruned.WithLabelValues(ev.Reason.String()).Inc()
		c.depth.Observe(float64(ev.Depth))
	case bnb.EventBounds:
		c.iterations.Inc()
		c.upper.Set(ev.Upper)
		c.lower.Set(ev.Lower)
	case bnb.EventIncumbent:
		c.lower.Set(ev.Lower)
	}
}
