/*
Package goshout is a Go library for pushing encoded media streams to a
streaming server through buffered, pluggable format handlers.

Formats (pkg/format):
  - Handler: passthrough handler with an open, send, close lifecycle
  - registry: format lookup by name ("webm", "matroska")
  - MetricsSink: Prometheus instrumentation for any Sink

Buffering (pkg/streaming):
  - writer: fixed-capacity buffer with flush-on-full and flush-on-demand

Host collaborators:
  - alloc: heap and bounded buffer allocators
  - transport: TCP connections with dial retry, Redis stream relay
  - metrics: Prometheus collectors

Example usage:

	import (
		"github.com/vnykmshr/goshout/pkg/format"
		"github.com/vnykmshr/goshout/pkg/transport"
	)

	conn, _ := transport.Dial(ctx, "tcp", "icecast:8000", transport.DefaultConfig())
	sink, _ := format.Open("webm", conn, format.DefaultOptions())
	defer sink.Close()

	if err := sink.Send(cluster); err != nil {
		log.Println(format.CodeOf(err))
	}
*/
package goshout
