package format

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	gferrors "github.com/vnykmshr/goshout/pkg/common/errors"
	"github.com/vnykmshr/goshout/pkg/streaming/writer"
)

// Factory builds an unopened sink for one session.
type Factory func(t writer.Transport, opts Options) Sink

// Opener is implemented by sinks that need an explicit Open before Send.
type Opener interface {
	Open() error
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func init() {
	// Matroska and WebM streams share the passthrough handler.
	MustRegister("webm", Passthrough)
	MustRegister("matroska", Passthrough)
}

// Passthrough is the Factory for the byte-transparent Handler.
func Passthrough(t writer.Transport, opts Options) Sink {
	return NewHandler(t, opts)
}

func normalize(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}

// Register adds a format. Names are case-insensitive.
func Register(format string, factory Factory) error {
	format = normalize(format)
	if format == "" || factory == nil {
		return gferrors.NewValidationError("format", "format", format, "name and factory are required")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[format]; exists {
		return fmt.Errorf("format: %q already registered", format)
	}
	registry[format] = factory
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(format string, factory Factory) {
	if err := Register(format, factory); err != nil {
		panic(err)
	}
}

// Get returns the factory for format.
func Get(format string) (Factory, error) {
	registryMu.RLock()
	factory, ok := registry[normalize(format)]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("format %q (available: %s): %w",
			format, strings.Join(List(), ", "), gferrors.ErrUnsupportedFormat)
	}
	return factory, nil
}

// List returns the registered format names in sorted order.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	formats := make([]string, 0, len(registry))
	for name := range registry {
		formats = append(formats, name)
	}
	sort.Strings(formats)
	return formats
}

// Open selects the handler for format, wraps it with metrics when
// opts.Metrics.Enabled is set, and opens it.
func Open(format string, t writer.Transport, opts Options) (Sink, error) {
	factory, err := Get(format)
	if err != nil {
		return nil, err
	}
	opts.Format = normalize(format)

	sink := factory(t, opts)
	if opts.Metrics.Enabled {
		sink = NewWithMetrics(sink, opts.Format, opts.Name, opts.Metrics)
	}

	if o, ok := sink.(Opener); ok {
		if err := o.Open(); err != nil {
			return nil, err
		}
	}
	return sink, nil
}
