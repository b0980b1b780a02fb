package format

import (
	"time"

	"github.com/vnykmshr/goshout/pkg/metrics"
)

var _ metrics.Instrumentable = (*MetricsSink)(nil)

// MetricsSink wraps a Sink with Prometheus metrics collection.
type MetricsSink struct {
	sink     Sink
	format   string
	name     string
	registry *metrics.Registry
	enabled  bool
	open     bool
}

// NewWithMetrics instruments sink. When sink is an unopened *Handler its
// buffer flushes are recorded as well. A disabled config returns sink
// unchanged.
func NewWithMetrics(sink Sink, format, name string, config metrics.Config) Sink {
	if !config.Enabled {
		return sink
	}

	ms := &MetricsSink{
		sink:     sink,
		format:   format,
		name:     name,
		registry: metrics.For(config),
		enabled:  true,
	}

	if h, ok := sink.(*Handler); ok && h.state == StateUninitialized {
		h.onFlush = ms.recordFlush
	}
	return ms
}

// Open opens the wrapped sink if it needs opening.
func (ms *MetricsSink) Open() error {
	o, ok := ms.sink.(Opener)
	if !ok {
		ms.markOpen()
		return nil
	}

	if err := o.Open(); err != nil {
		ms.recordError(err)
		return err
	}
	ms.markOpen()
	return nil
}

func (ms *MetricsSink) markOpen() {
	if ms.open {
		return
	}
	ms.open = true
	if ms.enabled {
		ms.registry.SinksOpen.WithLabelValues(ms.format).Inc()
	}
}

// Send forwards to the wrapped sink.
func (ms *MetricsSink) Send(data []byte) error {
	if ms.enabled {
		ms.registry.SinkSends.WithLabelValues(ms.format, ms.name).Inc()
	}

	err := ms.sink.Send(data)

	if ms.enabled {
		if err != nil {
			ms.recordError(err)
		} else {
			ms.registry.SinkBytes.WithLabelValues(ms.format, ms.name).Add(float64(len(data)))
		}
		if h, ok := ms.sink.(*Handler); ok {
			ms.registry.WriterBufferUsage.WithLabelValues(ms.name).Set(float64(h.Buffered()))
		}
	}
	return err
}

// Close forwards to the wrapped sink.
func (ms *MetricsSink) Close() error {
	err := ms.sink.Close()
	if ms.open {
		ms.open = false
		if ms.enabled {
			ms.registry.SinksOpen.WithLabelValues(ms.format).Dec()
			ms.registry.WriterBufferUsage.WithLabelValues(ms.name).Set(0)
		}
	}
	return err
}

// Unwrap returns the instrumented sink.
func (ms *MetricsSink) Unwrap() Sink {
	return ms.sink
}

func (ms *MetricsSink) recordError(err error) {
	if ms.enabled {
		ms.registry.SinkErrors.WithLabelValues(ms.format, ms.name, CodeOf(err).String()).Inc()
	}
}

func (ms *MetricsSink) recordFlush(bytes int, d time.Duration) {
	if !ms.enabled {
		return
	}
	ms.registry.WriterFlushes.WithLabelValues(ms.name).Inc()
	ms.registry.WriterBytesFlushed.WithLabelValues(ms.name).Add(float64(bytes))
	ms.registry.WriterFlushDuration.WithLabelValues(ms.name).Observe(d.Seconds())
}

// EnableMetrics enables metrics collection.
func (ms *MetricsSink) EnableMetrics(config metrics.Config) error {
	ms.enabled = config.Enabled
	ms.registry = metrics.For(config)
	return nil
}

// DisableMetrics disables metrics collection.
func (ms *MetricsSink) DisableMetrics() {
	ms.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (ms *MetricsSink) MetricsEnabled() bool {
	return ms.enabled
}
