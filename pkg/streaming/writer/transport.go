package writer

import (
	"fmt"
	"io"

	gferrors "github.com/vnykmshr/goshout/pkg/common/errors"
)

// Transport is the connection a BufferedWriter drains into.
type Transport interface {
	// SendRaw makes a single attempt to write p and returns the number of
	// bytes the connection accepted.
	SendRaw(p []byte) (int, error)
}

// TransportFunc adapts an ordinary function to the Transport interface.
type TransportFunc func(p []byte) (int, error)

// SendRaw calls f(p).
func (f TransportFunc) SendRaw(p []byte) (int, error) {
	return f(p)
}

// FromWriter adapts an io.Writer to a Transport. Each SendRaw is exactly one
// Write call.
func FromWriter(w io.Writer) Transport {
	return TransportFunc(w.Write)
}

// TransportError reports a flush the transport did not accept in full.
// It matches errors.ErrTransportFailure under errors.Is.
type TransportError struct {
	// Requested is the number of buffered bytes handed to the transport.
	Requested int

	// Sent is the count the transport reported.
	Sent int

	// Err is the transport's own error, nil for a plain short write.
	Err error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport failure: sent %d of %d bytes: %v", e.Sent, e.Requested, e.Err)
	}
	return fmt.Sprintf("transport failure: short write, sent %d of %d bytes", e.Sent, e.Requested)
}

// Is reports whether target is errors.ErrTransportFailure.
func (e *TransportError) Is(target error) bool {
	return target == gferrors.ErrTransportFailure
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
