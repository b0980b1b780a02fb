// Package metrics provides Prometheus instrumentation for goshout components.
//
// # Overview
//
// The metrics package instruments:
//   - Format sinks (sends, delivered bytes, errors by code, open sinks)
//   - Buffered writers (flushes, flushed bytes, flush latency, buffer usage)
//
// # Quick Start
//
// Ask format.Open for an instrumented sink:
//
//	opts := format.DefaultOptions()
//	opts.Name = "radio1"
//	opts.Metrics = metrics.DefaultConfig()
//	sink, err := format.Open("webm", conn, opts)
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":9100", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	m := metrics.For(metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	})
//
// For returns the same *Registry for the same Registerer and namespace, so
// every sink of a process can share it.
//
// # Available Metrics
//
//   - goshout_sink_sends_total: Total number of Send calls on format sinks
//   - goshout_sink_bytes_total: Total payload bytes delivered through format sinks
//   - goshout_sink_errors_total: Failed sink operations by error code
//   - goshout_sink_open: Number of format sinks currently open
//   - goshout_writer_flushes_total: Successful buffer flushes
//   - goshout_writer_bytes_flushed_total: Bytes accepted by the transport
//   - goshout_writer_flush_duration_seconds: Time spent in a single transport send
//   - goshout_writer_buffer_usage_bytes: Bytes left in the buffer
//
// # Labels
//
//   - format: registered format name, e.g. "webm"
//   - sink_name: user-provided name for the sink instance
//   - code: error code name, e.g. "transport_failure"
package metrics
