package testutil

import (
	"bytes"
	"errors"
	"sync"
)

// ErrSimulated is returned by mocks configured to fail.
var ErrSimulated = errors.New("simulated error")

// MockTransport records every raw send and can simulate short writes and
// errors on a chosen call.
type MockTransport struct {
	mu          sync.Mutex
	sends       [][]byte
	callCount   int
	failOnNth   int
	shortOnNth  int
	shortBy     int
	shouldError bool
	err         error
}

// NewMockTransport creates a MockTransport that accepts every send in full.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// SendRaw records p. A failing call records nothing.
func (mt *MockTransport) SendRaw(p []byte) (int, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	mt.callCount++

	if mt.shouldError {
		return 0, mt.err
	}
	if mt.failOnNth > 0 && mt.callCount == mt.failOnNth {
		return 0, ErrSimulated
	}

	n := len(p)
	if mt.shortOnNth > 0 && mt.callCount == mt.shortOnNth {
		n -= mt.shortBy
		if n < 0 {
			n = 0
		}
	}

	sent := make([]byte, n)
	copy(sent, p[:n])
	mt.sends = append(mt.sends, sent)
	return n, nil
}

// Sends returns a copy of every recorded send, in order.
func (mt *MockTransport) Sends() [][]byte {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	out := make([][]byte, len(mt.sends))
	for i, s := range mt.sends {
		out[i] = append([]byte(nil), s...)
	}
	return out
}

// Bytes returns the concatenation of every recorded send.
func (mt *MockTransport) Bytes() []byte {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return bytes.Join(mt.sends, nil)
}

// CallCount returns the number of SendRaw calls, failed ones included.
func (mt *MockTransport) CallCount() int {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return mt.callCount
}

// SetFailOnNth makes the nth SendRaw call return ErrSimulated.
func (mt *MockTransport) SetFailOnNth(n int) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.failOnNth = n
}

// SetShortOnNth makes the nth SendRaw call report by fewer bytes than asked.
func (mt *MockTransport) SetShortOnNth(n, by int) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.shortOnNth = n
	mt.shortBy = by
}

// SetAlwaysError configures the transport to always return the given error.
func (mt *MockTransport) SetAlwaysError(err error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.shouldError = true
	mt.err = err
}

// Reset clears recorded sends and failure settings.
func (mt *MockTransport) Reset() {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.sends = nil
	mt.callCount = 0
	mt.failOnNth = 0
	mt.shortOnNth = 0
	mt.shortBy = 0
	mt.shouldError = false
	mt.err = nil
}

// MockWriter is an io.Writer that can fail on the nth write.
type MockWriter struct {
	buf        bytes.Buffer
	mu         sync.Mutex
	errorOnNth int
	writeCount int
}

// NewMockWriter creates a new MockWriter.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write implements io.Writer.
func (mw *MockWriter) Write(p []byte) (int, error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	mw.writeCount++
	if mw.errorOnNth > 0 && mw.writeCount == mw.errorOnNth {
		return 0, ErrSimulated
	}
	return mw.buf.Write(p)
}

// String returns the current buffer contents.
func (mw *MockWriter) String() string {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.buf.String()
}

// WriteCount returns the number of Write calls.
func (mw *MockWriter) WriteCount() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.writeCount
}

// SetErrorOnNth configures the writer to error on the nth write.
func (mw *MockWriter) SetErrorOnNth(n int) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.errorOnNth = n
}
