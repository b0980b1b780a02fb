// Package metrics provides Prometheus instrumentation for goshout components.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "goshout"

// Registry holds all metric instances for goshout components.
type Registry struct {
	// Sink Metrics
	SinkSends  *prometheus.CounterVec
	SinkBytes  *prometheus.CounterVec
	SinkErrors *prometheus.CounterVec
	SinksOpen  *prometheus.GaugeVec

	// Writer Metrics
	WriterFlushes       *prometheus.CounterVec
	WriterBytesFlushed  *prometheus.CounterVec
	WriterFlushDuration *prometheus.HistogramVec
	WriterBufferUsage   *prometheus.GaugeVec
}

// DefaultRegistry is the default metrics registry used by goshout components.
var DefaultRegistry *Registry

type registryKey struct {
	reg       prometheus.Registerer
	namespace string
}

var (
	registriesMu sync.Mutex
	registries   = make(map[registryKey]*Registry)
)

func init() {
	DefaultRegistry = For(DefaultConfig())
}

// For returns the Registry for config, creating it on first use. Repeated
// calls with the same Registerer and namespace share one Registry, so many
// sinks can be instrumented against one Prometheus registry without
// duplicate registration.
func For(config Config) *Registry {
	config = config.withDefaults()
	key := registryKey{reg: config.Registry, namespace: config.Namespace}

	registriesMu.Lock()
	defer registriesMu.Unlock()

	if r, ok := registries[key]; ok {
		return r
	}
	r := NewRegistryWithConfig(config)
	registries[key] = r
	return r
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithConfig(Config{
		Enabled:   true,
		Registry:  reg,
		Namespace: DefaultNamespace,
	})
}

// NewRegistryWithConfig creates a new metrics registry honoring the
// namespace and constant labels in config. Each call registers a fresh set
// of collectors; use For to share them.
func NewRegistryWithConfig(config Config) *Registry {
	config = config.withDefaults()
	factory := promauto.With(config.Registry)
	ns := config.Namespace
	labels := config.Labels

	return &Registry{
		SinkSends: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "sink",
				Name:        "sends_total",
				Help:        "Total number of Send calls on format sinks",
				ConstLabels: labels,
			},
			[]string{"format", "sink_name"},
		),

		SinkBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "sink",
				Name:        "bytes_total",
				Help:        "Total payload bytes delivered through format sinks",
				ConstLabels: labels,
			},
			[]string{"format", "sink_name"},
		),

		SinkErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "sink",
				Name:        "errors_total",
				Help:        "Total number of failed sink operations by error code",
				ConstLabels: labels,
			},
			[]string{"format", "sink_name", "code"},
		),

		SinksOpen: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "sink",
				Name:        "open",
				Help:        "Number of format sinks currently open",
				ConstLabels: labels,
			},
			[]string{"format"},
		),

		WriterFlushes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "writer",
				Name:        "flushes_total",
				Help:        "Total number of successful buffer flushes",
				ConstLabels: labels,
			},
			[]string{"sink_name"},
		),

		WriterBytesFlushed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "writer",
				Name:        "bytes_flushed_total",
				Help:        "Total bytes accepted by the transport",
				ConstLabels: labels,
			},
			[]string{"sink_name"},
		),

		WriterFlushDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "writer",
				Name:        "flush_duration_seconds",
				Help:        "Time spent in a single transport send",
				Buckets:     config.FlushBuckets,
				ConstLabels: labels,
			},
			[]string{"sink_name"},
		),

		WriterBufferUsage: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "writer",
				Name:        "buffer_usage_bytes",
				Help:        "Bytes left in the buffer after the last operation",
				ConstLabels: labels,
			},
			[]string{"sink_name"},
		),
	}
}
