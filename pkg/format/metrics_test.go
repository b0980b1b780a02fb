package format

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vnykmshr/goshout/internal/testutil"
	"github.com/vnykmshr/goshout/pkg/metrics"
)

func metricsOptions(reg prometheus.Registerer, name string, size int) Options {
	opts := DefaultOptions()
	opts.Name = name
	opts.BufferSize = size
	opts.Metrics = metrics.Config{Enabled: true, Registry: reg}
	return opts
}

func TestOpenWithMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.For(metrics.Config{Registry: reg})
	mt := testutil.NewMockTransport()

	sink, err := Open("webm", mt, metricsOptions(reg, "radio1", 4))
	testutil.AssertNoError(t, err)

	ms, ok := sink.(*MetricsSink)
	if !ok {
		t.Fatalf("expected *MetricsSink, got %T", sink)
	}
	testutil.AssertEqual(t, ms.MetricsEnabled(), true)
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.SinksOpen.WithLabelValues("webm")), 1.0)

	testutil.AssertNoError(t, sink.Send([]byte{1, 2, 3, 4, 5, 6}))

	testutil.AssertEqual(t, promtestutil.ToFloat64(m.SinkSends.WithLabelValues("webm", "radio1")), 1.0)
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.SinkBytes.WithLabelValues("webm", "radio1")), 6.0)
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.WriterFlushes.WithLabelValues("radio1")), 2.0)
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.WriterBytesFlushed.WithLabelValues("radio1")), 6.0)

	testutil.AssertNoError(t, sink.Close())
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.SinksOpen.WithLabelValues("webm")), 0.0)

	// second close must not decrement again
	testutil.AssertNoError(t, sink.Close())
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.SinksOpen.WithLabelValues("webm")), 0.0)
}

func TestMetricsSinkErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.For(metrics.Config{Registry: reg})
	mt := testutil.NewMockTransport()
	mt.SetFailOnNth(2)

	sink, err := Open("matroska", mt, metricsOptions(reg, "radio2", 4))
	testutil.AssertNoError(t, err)

	testutil.AssertError(t, sink.Send([]byte{1, 2, 3, 4, 5}))

	errs := m.SinkErrors.WithLabelValues("matroska", "radio2", "transport_failure")
	testutil.AssertEqual(t, promtestutil.ToFloat64(errs), 1.0)
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.SinkBytes.WithLabelValues("matroska", "radio2")), 0.0)
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.WriterBufferUsage.WithLabelValues("radio2")), 1.0)

	h := sink.(*MetricsSink).Unwrap().(*Handler)
	testutil.AssertEqual(t, h.Buffered(), 1)
}

func TestMetricsSinkDisable(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.For(metrics.Config{Registry: reg})

	sink, err := Open("webm", testutil.NewMockTransport(), metricsOptions(reg, "quiet", 16))
	testutil.AssertNoError(t, err)

	ms := sink.(*MetricsSink)
	ms.DisableMetrics()
	testutil.AssertEqual(t, ms.MetricsEnabled(), false)

	testutil.AssertNoError(t, ms.Send([]byte("abc")))
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.SinkSends.WithLabelValues("webm", "quiet")), 0.0)

	testutil.AssertNoError(t, ms.EnableMetrics(metrics.Config{Enabled: true, Registry: reg}))
	testutil.AssertNoError(t, ms.Send([]byte("abc")))
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.SinkSends.WithLabelValues("webm", "quiet")), 1.0)
}

func TestNewWithMetricsDisabled(t *testing.T) {
	h := NewHandler(testutil.NewMockTransport(), DefaultOptions())

	sink := NewWithMetrics(h, "webm", "off", metrics.Config{Enabled: false})
	if sink != Sink(h) {
		t.Fatalf("expected the handler back, got %T", sink)
	}
}
