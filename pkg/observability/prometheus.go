package observability

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics implements Metrics with client_golang collectors that
// are created on first use. Dots in names become underscores; the label
// set of a metric is fixed by its first observation and later
// observations with other labels are dropped.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*labelled[*prometheus.CounterVec]
	gauges     map[string]*labelled[*prometheus.GaugeVec]
	histograms map[string]*labelled[*prometheus.HistogramVec]
}

type labelled[V any] struct {
	vec  V
	keys []string
}

// NewPrometheusMetrics creates a collector with its own registry,
// pre-loaded with Go runtime and process collectors.
func NewPrometheusMetrics() *PrometheusMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &PrometheusMetrics{
		registry:   reg,
		counters:   make(map[string]*labelled[*prometheus.CounterVec]),
		gauges:     make(map[string]*labelled[*prometheus.GaugeVec]),
		histograms: make(map[string]*labelled[*prometheus.HistogramVec]),
	}
}

// Registry exposes the underlying registry.
func (p *PrometheusMetrics) Registry() *prometheus.Registry { return p.registry }

// Handler serves the /metrics exposition.
func (p *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *PrometheusMetrics) Counter(name string, value int64, tags ...Tag) {
	keys, values := splitTags(tags)
	p.mu.Lock()
	c, ok := p.counters[name]
	if !ok {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: promName(name), Help: name}, keys)
		if err := p.registry.Register(vec); err != nil {
			p.mu.Unlock()
			return
		}
		c = &labelled[*prometheus.CounterVec]{vec: vec, keys: keys}
		p.counters[name] = c
	}
	p.mu.Unlock()

	if !sameKeys(c.keys, keys) {
		return
	}
	if m, err := c.vec.GetMetricWithLabelValues(values...); err == nil {
		m.Add(float64(value))
	}
}

func (p *PrometheusMetrics) Gauge(name string, value float64, tags ...Tag) {
	keys, values := splitTags(tags)
	p.mu.Lock()
	g, ok := p.gauges[name]
	if !ok {
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: promName(name), Help: name}, keys)
		if err := p.registry.Register(vec); err != nil {
			p.mu.Unlock()
			return
		}
		g = &labelled[*prometheus.GaugeVec]{vec: vec, keys: keys}
		p.gauges[name] = g
	}
	p.mu.Unlock()

	if !sameKeys(g.keys, keys) {
		return
	}
	if m, err := g.vec.GetMetricWithLabelValues(values...); err == nil {
		m.Set(value)
	}
}

// Timing observes seconds in a histogram named <name>_seconds.
func (p *PrometheusMetrics) Timing(name string, d time.Duration, tags ...Tag) {
	keys, values := splitTags(tags)
	p.mu.Lock()
	h, ok := p.histograms[name]
	if !ok {
		vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    promName(name) + "_seconds",
			Help:    name,
			Buckets: prometheus.DefBuckets,
		}, keys)
		if err := p.registry.Register(vec); err != nil {
			p.mu.Unlock()
			return
		}
		h = &labelled[*prometheus.HistogramVec]{vec: vec, keys: keys}
		p.histograms[name] = h
	}
	p.mu.Unlock()

	if !sameKeys(h.keys, keys) {
		return
	}
	if m, err := h.vec.GetMetricWithLabelValues(values...); err == nil {
		m.Observe(d.Seconds())
	}
}

func promName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}

// splitTags sorts tags by key so label order is stable across call sites.
func splitTags(tags []Tag) ([]string, []string) {
	sorted := append([]Tag(nil), tags...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
	keys := make([]string, len(sorted))
	values := make([]string, len(sorted))
	for i, t := range sorted {
		keys[i] = t.Key
		values[i] = t.Value
	}
	return keys, values
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
