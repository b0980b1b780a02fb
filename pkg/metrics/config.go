package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Config selects where sink and writer metrics are registered.
type Config struct {
	// Enabled turns instrumentation on for components that accept a Config.
	Enabled bool

	// Registry receives the collectors. Nil means prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// Namespace prefixes metric names. Empty means DefaultNamespace.
	Namespace string

	// Labels are attached to every collector as constant labels.
	Labels prometheus.Labels

	// FlushBuckets are the flush latency histogram buckets in seconds.
	// Nil means DefaultFlushBuckets.
	FlushBuckets []float64
}

// DefaultFlushBuckets spans loopback writes up to a stalled server.
var DefaultFlushBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5, 10}

// DefaultConfig enables metrics on the default Prometheus registerer.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Registry:  prometheus.DefaultRegisterer,
		Namespace: DefaultNamespace,
	}
}

func (c Config) withDefaults() Config {
	if c.Registry == nil {
		c.Registry = prometheus.DefaultRegisterer
	}
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	if c.FlushBuckets == nil {
		c.FlushBuckets = DefaultFlushBuckets
	}
	return c
}

// Instrumentable is implemented by components whose metrics can be toggled
// at runtime.
type Instrumentable interface {
	EnableMetrics(config Config) error
	DisableMetrics()
	MetricsEnabled() bool
}
