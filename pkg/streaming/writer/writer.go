package writer

import (
	"time"

	"github.com/vnykmshr/goshout/pkg/common/validation"
)

// DefaultBufferSize is the socket buffer size shared by all format handlers.
const DefaultBufferSize = 4096

// Stats holds statistics about a BufferedWriter.
type Stats struct {
	// BytesAppended is the total number of bytes copied into the buffer.
	BytesAppended int64

	// BytesFlushed is the total number of bytes the transport accepted.
	BytesFlushed int64

	// AppendCount is the number of Append calls with non-empty input.
	AppendCount int64

	// FlushCount is the number of transport sends, failed ones included.
	FlushCount int64

	// ErrorCount is the number of failed transport sends.
	ErrorCount int64

	// LastFlushTime is the completion time of the last successful flush.
	LastFlushTime time.Time

	// BufferUtilization is the current buffer occupancy (0.0 to 1.0).
	BufferUtilization float64
}

// Config holds configuration options for BufferedWriter.
type Config struct {
	// BufferSize is the fixed capacity of the buffer in bytes.
	// Default: DefaultBufferSize
	BufferSize int

	// OnFlush is called after each successful flush.
	OnFlush func(bytesWritten int, duration time.Duration)

	// OnError is called when a flush fails.
	OnError func(error)
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		BufferSize: DefaultBufferSize,
	}
}

// BufferedWriter accumulates bytes in a fixed-capacity buffer and drains it
// to a Transport whenever the buffer fills or Flush is called.
//
// A BufferedWriter is not safe for concurrent use. It belongs to exactly one
// format handler, which belongs to exactly one streaming session.
type BufferedWriter struct {
	transport Transport
	config    Config

	buf []byte // len(buf) is the capacity
	pos int    // next free byte; 0 <= pos <= len(buf)

	stats Stats
}

// New creates a BufferedWriter with the default buffer size.
func New(t Transport) (*BufferedWriter, error) {
	return NewWithConfig(t, DefaultConfig())
}

// NewWithConfig creates a BufferedWriter that allocates its own buffer of
// config.BufferSize bytes.
func NewWithConfig(t Transport, config Config) (*BufferedWriter, error) {
	if err := validation.ValidatePositive("writer", "buffer_size", config.BufferSize); err != nil {
		return nil, err
	}
	return NewWithBuffer(t, make([]byte, config.BufferSize), config)
}

// NewWithBuffer creates a BufferedWriter over caller-supplied storage. The
// capacity is len(buf); config.BufferSize is ignored. The writer takes
// ownership of buf until it is discarded.
func NewWithBuffer(t Transport, buf []byte, config Config) (*BufferedWriter, error) {
	if err := validation.ValidateNotNil("writer", "transport", t); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositive("writer", "buffer_size", len(buf)); err != nil {
		return nil, err
	}
	config.BufferSize = len(buf)

	return &BufferedWriter{
		transport: t,
		config:    config,
		buf:       buf,
	}, nil
}

// Append copies all of data into the buffer, flushing to the transport each
// time the buffer fills. It stops at the first transport failure, in which
// case some of data may not have been consumed and none of it should be
// assumed delivered. Zero-length input is a no-op.
func (w *BufferedWriter) Append(data []byte) error {
	_, err := w.append(data)
	return err
}

// Write implements io.Writer on top of Append. It returns the number of
// bytes of p consumed into the buffer.
func (w *BufferedWriter) Write(p []byte) (int, error) {
	return w.append(p)
}

func (w *BufferedWriter) append(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	w.stats.AppendCount++

	consumed := 0
	for consumed < len(data) {
		consumed += w.copyPossible(data[consumed:])

		if w.pos == len(w.buf) {
			if err := w.Flush(); err != nil {
				return consumed, err
			}
		}
	}
	return consumed, nil
}

// copyPossible copies as much of src as fits in the free part of the buffer
// and returns the count copied.
func (w *BufferedWriter) copyPossible(src []byte) int {
	n := copy(w.buf[w.pos:], src)
	w.pos += n
	w.stats.BytesAppended += int64(n)
	return n
}

// Flush sends the buffered bytes to the transport in a single call. An empty
// buffer is a no-op. Anything short of the transport accepting every byte
// is reported as a *TransportError, and the buffer is left as it was.
func (w *BufferedWriter) Flush() error {
	if w.pos == 0 {
		return nil
	}

	start := time.Now()
	n, err := w.transport.SendRaw(w.buf[:w.pos])
	w.stats.FlushCount++

	if err != nil || n != w.pos {
		terr := &TransportError{Requested: w.pos, Sent: n, Err: err}
		w.stats.ErrorCount++
		if w.config.OnError != nil {
			w.config.OnError(terr)
		}
		return terr
	}

	flushed := w.pos
	w.pos = 0
	w.stats.BytesFlushed += int64(flushed)
	w.stats.LastFlushTime = time.Now()

	if w.config.OnFlush != nil {
		w.config.OnFlush(flushed, time.Since(start))
	}
	return nil
}

// Reset discards any buffered bytes without sending them.
func (w *BufferedWriter) Reset() {
	w.pos = 0
}

// Buffered returns the number of bytes waiting in the buffer.
func (w *BufferedWriter) Buffered() int {
	return w.pos
}

// Available returns the number of free bytes in the buffer.
func (w *BufferedWriter) Available() int {
	return len(w.buf) - w.pos
}

// Capacity returns the fixed buffer capacity.
func (w *BufferedWriter) Capacity() int {
	return len(w.buf)
}

// Pending returns a copy of the bytes waiting in the buffer.
func (w *BufferedWriter) Pending() []byte {
	out := make([]byte, w.pos)
	copy(out, w.buf[:w.pos])
	return out
}

// Stats returns statistics about the writer.
func (w *BufferedWriter) Stats() Stats {
	stats := w.stats
	stats.BufferUtilization = float64(w.pos) / float64(len(w.buf))
	return stats
}
