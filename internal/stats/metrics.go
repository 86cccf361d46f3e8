package stats

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// prometheusMirror lets Stats double as a source of Prometheus metrics
// without the counter bag itself depending on any particular registry.
// ObserveCounter takes the increment applied to the named counter, not its
// running total, so it can be forwarded to a prometheus.Counter's Add.
type prometheusMirror interface {
	ObserveCounter(name string, delta int)
	ObserveGauge(name string, value float64)
}

type noopMirror struct{}

func (noopMirror) ObserveCounter(string, int)   {}
func (noopMirror) ObserveGauge(string, float64) {}

// PrometheusMirror mirrors every named counter and gauge onto lazily
// registered Prometheus vectors, so a long-running crawl is observable
// through the usual /metrics scrape without every call site importing the
// Prometheus SDK directly.
type PrometheusMirror struct {
	counters *prometheus.CounterVec
	gauges   *prometheus.GaugeVec
}

// NewPrometheusMirror registers the vectors this mirror needs with the
// default registry.
func NewPrometheusMirror() *PrometheusMirror {
	return &PrometheusMirror{
		counters: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "archivecrawler",
			Name:      "counter_total",
			Help:      "Named crawl counters (processed_urls, match_count, error_count, ...).",
		}, []string{"name"}),
		gauges: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "archivecrawler",
			Name:      "gauge",
			Help:      "Named crawl gauges (total_urls, total_snapshots, failed_domains, ...).",
		}, []string{"name"}),
	}
}

func (m *PrometheusMirror) ObserveCounter(name string, delta int) {
	m.counters.WithLabelValues(name).Add(float64(delta))
}

func (m *PrometheusMirror) ObserveGauge(name string, value float64) {
	m.gauges.WithLabelValues(name).Set(value)
}

// Handler exposes the registered metrics for an HTTP /metrics listener.
func Handler() http.Handler {
	return promhttp.Handler()
}
