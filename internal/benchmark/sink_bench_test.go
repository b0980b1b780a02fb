package benchmark

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/vnykmshr/goshout/pkg/alloc"
	"github.com/vnykmshr/goshout/pkg/format"
	"github.com/vnykmshr/goshout/pkg/streaming/writer"
	"github.com/vnykmshr/goshout/pkg/transport"
)

var discard = writer.TransportFunc(func(p []byte) (int, error) { return len(p), nil })

// BenchmarkHandlerSend measures Send for chunks smaller and larger than the
// default buffer.
func BenchmarkHandlerSend(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		chunk := make([]byte, size)

		b.Run(sizeLabel(size), func(b *testing.B) {
			sink, err := format.Open("webm", discard, format.DefaultOptions())
			if err != nil {
				b.Fatal(err)
			}
			defer sink.Close()

			b.SetBytes(int64(size))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = sink.Send(chunk)
			}
		})
	}
}

// BenchmarkOpenClose measures session setup against both allocators.
func BenchmarkOpenClose(b *testing.B) {
	bounded, err := alloc.NewBounded(1)
	if err != nil {
		b.Fatal(err)
	}

	allocators := map[string]alloc.Allocator{
		"heap":    alloc.Heap(),
		"bounded": bounded,
	}

	for name, a := range allocators {
		opts := format.DefaultOptions()
		opts.Allocator = a

		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				sink, err := format.Open("webm", discard, opts)
				if err != nil {
					b.Fatal(err)
				}
				_ = sink.Close()
			}
		})
	}
}

// BenchmarkTCPSend measures Send over a loopback connection.
func BenchmarkTCPSend(b *testing.B) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		b.Fatal(err)
	}
	defer ln.Close()

	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		_, _ = io.Copy(io.Discard, c)
	}()

	conn, err := transport.Dial(context.Background(), "tcp", ln.Addr().String(), transport.DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	defer conn.Close()

	sink, err := format.Open("webm", conn, format.DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	defer sink.Close()

	chunk := make([]byte, 1500)
	b.SetBytes(int64(len(chunk)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := sink.Send(chunk); err != nil {
			b.Fatal(err)
		}
	}
}

func sizeLabel(size int) string {
	switch {
	case size >= 10000:
		return "10k"
	case size >= 1000:
		return "1k"
	case size >= 100:
		return "100"
	default:
		return "10"
	}
}
