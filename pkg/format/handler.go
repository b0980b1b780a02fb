package format

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vnykmshr/goshout/pkg/alloc"
	gferrors "github.com/vnykmshr/goshout/pkg/common/errors"
	"github.com/vnykmshr/goshout/pkg/common/validation"
	"github.com/vnykmshr/goshout/pkg/metrics"
	"github.com/vnykmshr/goshout/pkg/streaming/writer"
)

// Sink is the polymorphic handle a host holds for the format chosen at
// session open.
type Sink interface {
	// Send delivers data to the server. On success nothing is left buffered.
	Send(data []byte) error

	// Close releases the sink. It does not flush.
	Close() error
}

// State is the lifecycle state of a Handler.
type State int

const (
	StateUninitialized State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Options configures a Handler.
type Options struct {
	// Name identifies the sink in logs and metric labels.
	Name string

	// Format is the registered format name. Open fills it in.
	Format string

	// BufferSize is the handler buffer capacity in bytes.
	// Default: writer.DefaultBufferSize
	BufferSize int

	// Allocator supplies the handler buffer. Default: alloc.Heap()
	Allocator alloc.Allocator

	// Logger receives lifecycle events. Default: zerolog.Nop()
	Logger zerolog.Logger

	// Metrics enables Prometheus instrumentation when Metrics.Enabled is set.
	Metrics metrics.Config
}

// DefaultOptions returns options for an unnamed, uninstrumented handler
// with a heap-allocated buffer of writer.DefaultBufferSize bytes.
func DefaultOptions() Options {
	return Options{
		Name:       "default",
		BufferSize: writer.DefaultBufferSize,
		Allocator:  alloc.Heap(),
		Logger:     zerolog.Nop(),
	}
}

// Handler is the passthrough format handler. It copies every chunk into a
// fixed buffer, drains the buffer to the transport when it fills and again
// at the end of every Send.
type Handler struct {
	transport writer.Transport
	opts      Options
	logger    zerolog.Logger

	state State
	buf   []byte
	w     *writer.BufferedWriter

	lastErr error

	// set by MetricsSink before Open
	onFlush func(bytes int, d time.Duration)
}

// NewHandler creates an uninitialized handler draining into t.
func NewHandler(t writer.Transport, opts Options) *Handler {
	if opts.Allocator == nil {
		opts.Allocator = alloc.Heap()
	}
	if opts.BufferSize == 0 {
		opts.BufferSize = writer.DefaultBufferSize
	}

	return &Handler{
		transport: t,
		opts:      opts,
		logger: opts.Logger.With().
			Str("format", opts.Format).
			Str("sink", opts.Name).
			Logger(),
	}
}

// Open allocates the handler buffer and makes the handler ready for Send.
// If the allocator cannot supply the buffer the returned error matches
// errors.ErrResourceExhausted.
func (h *Handler) Open() error {
	if h.state != StateUninitialized {
		return h.fail(fmt.Errorf("format: open in state %s: %w", h.state, gferrors.ErrInvalidState))
	}
	if err := validation.ValidatePositive("format", "buffer_size", h.opts.BufferSize); err != nil {
		return h.fail(err)
	}

	buf, err := h.opts.Allocator.Allocate(h.opts.BufferSize)
	if err != nil {
		h.logger.Error().Err(err).Int("bytes", h.opts.BufferSize).Msg("buffer allocation failed")
		return h.fail(gferrors.NewOperationError("format", "open", err))
	}

	w, err := writer.NewWithBuffer(h.transport, buf, writer.Config{
		OnFlush: h.onFlush,
	})
	if err != nil {
		h.opts.Allocator.Release(buf)
		return h.fail(err)
	}

	h.buf = buf
	h.w = w
	h.state = StateOpen
	h.lastErr = nil
	h.logger.Debug().Int("bytes", len(buf)).Msg("handler opened")
	return nil
}

// Send appends data and then flushes whatever is left in the buffer. A
// transport failure is returned as-is and leaves the unsent bytes buffered.
func (h *Handler) Send(data []byte) error {
	switch h.state {
	case StateOpen:
	case StateClosed:
		return h.fail(fmt.Errorf("format: send: %w", gferrors.ErrClosed))
	default:
		return h.fail(fmt.Errorf("format: send in state %s: %w", h.state, gferrors.ErrInvalidState))
	}

	if err := h.w.Append(data); err != nil {
		h.logger.Warn().Err(err).Int("bytes", len(data)).Msg("append failed")
		return h.fail(err)
	}
	if err := h.w.Flush(); err != nil {
		h.logger.Warn().Err(err).Int("bytes", h.w.Buffered()).Msg("flush failed")
		return h.fail(err)
	}

	h.lastErr = nil
	return nil
}

// Close releases the buffer back to the allocator. Buffered bytes, which
// only exist after a failed Send, are discarded.
func (h *Handler) Close() error {
	switch h.state {
	case StateClosed:
		return nil
	case StateUninitialized:
		h.state = StateClosed
		return nil
	}

	if n := h.w.Buffered(); n > 0 {
		h.logger.Warn().Int("bytes", n).Msg("closing with unsent bytes")
	}

	h.opts.Allocator.Release(h.buf)
	h.buf = nil
	h.w = nil
	h.state = StateClosed
	h.logger.Debug().Msg("handler closed")
	return nil
}

func (h *Handler) fail(err error) error {
	h.lastErr = err
	return err
}

// State returns the lifecycle state.
func (h *Handler) State() State {
	return h.state
}

// Err returns the error of the most recent failed operation, or nil if the
// last Open or Send succeeded.
func (h *Handler) Err() error {
	return h.lastErr
}

// Name returns the sink name.
func (h *Handler) Name() string {
	return h.opts.Name
}

// Format returns the registered format name, empty for handlers built
// outside the registry.
func (h *Handler) Format() string {
	return h.opts.Format
}

// Buffered returns the number of unsent bytes. It is non-zero only after a
// failed Send.
func (h *Handler) Buffered() int {
	if h.w == nil {
		return 0
	}
	return h.w.Buffered()
}

// Stats returns the writer statistics, or the zero value when not open.
func (h *Handler) Stats() writer.Stats {
	if h.w == nil {
		return writer.Stats{}
	}
	return h.w.Stats()
}
