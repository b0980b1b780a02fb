// Package alloc supplies and reclaims the per-session buffers owned by
// format handlers.
package alloc

import (
	"fmt"
	"sync"

	gferrors "github.com/vnykmshr/goshout/pkg/common/errors"
	"github.com/vnykmshr/goshout/pkg/common/validation"
)

// Allocator hands out handler buffers and takes them back.
type Allocator interface {
	// Allocate returns a zeroed buffer of exactly size bytes, or an error
	// matching errors.ErrResourceExhausted when the host cannot supply one.
	Allocate(size int) ([]byte, error)

	// Release returns a buffer obtained from Allocate. Releasing nil is a no-op.
	Release(buf []byte)
}

type heap struct{}

// Heap returns an Allocator backed by the Go heap. It never reports
// exhaustion for positive sizes.
func Heap() Allocator {
	return heap{}
}

func (heap) Allocate(size int) ([]byte, error) {
	if err := validation.ValidatePositive("alloc", "size", size); err != nil {
		return nil, err
	}
	return make([]byte, size), nil
}

func (heap) Release([]byte) {}

// Bounded limits how many buffers may be outstanding at once, so a host
// serving many sessions fails new opens instead of growing without bound.
// Released buffers are recycled. Bounded is safe for concurrent use.
type Bounded struct {
	mu       sync.Mutex
	capacity int
	inUse    int
	pools    map[int]*sync.Pool
}

// NewBounded creates an allocator allowing at most maxBuffers outstanding
// buffers.
func NewBounded(maxBuffers int) (*Bounded, error) {
	if err := validation.ValidatePositive("alloc", "max_buffers", maxBuffers); err != nil {
		return nil, err
	}
	return &Bounded{
		capacity: maxBuffers,
		pools:    make(map[int]*sync.Pool),
	}, nil
}

// Allocate reserves one slot and returns a zeroed buffer of size bytes.
func (b *Bounded) Allocate(size int) ([]byte, error) {
	if err := validation.ValidatePositive("alloc", "size", size); err != nil {
		return nil, err
	}

	b.mu.Lock()
	if b.inUse >= b.capacity {
		b.mu.Unlock()
		return nil, fmt.Errorf("alloc: %d of %d buffers in use: %w", b.capacity, b.capacity, gferrors.ErrResourceExhausted)
	}
	b.inUse++
	pool := b.poolFor(size)
	b.mu.Unlock()

	if buf, ok := pool.Get().([]byte); ok {
		clear(buf)
		return buf, nil
	}
	return make([]byte, size), nil
}

// Release frees the slot held by buf and recycles its storage.
// It panics if more buffers are released than were allocated.
func (b *Bounded) Release(buf []byte) {
	if buf == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inUse == 0 {
		panic("alloc: released more buffers than allocated")
	}
	b.inUse--
	//nolint:staticcheck // slices are the pooled value
	b.poolFor(len(buf)).Put(buf)
}

// poolFor must be called with b.mu held.
func (b *Bounded) poolFor(size int) *sync.Pool {
	p, ok := b.pools[size]
	if !ok {
		p = &sync.Pool{}
		b.pools[size] = p
	}
	return p
}

// Capacity returns the maximum number of outstanding buffers.
func (b *Bounded) Capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity
}

// InUse returns the number of buffers currently allocated.
func (b *Bounded) InUse() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inUse
}

// Available returns how many more buffers can be allocated right now.
func (b *Bounded) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity - b.inUse
}
