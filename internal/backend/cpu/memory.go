package cpu

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/born-ml/devpolicy/internal/device"
)

var errReleased = errors.New("buffer already released")

// buffer is a host-resident device buffer.
type buffer struct {
	queue    *Queue
	data     reflect.Value
	n        int
	bytes    int64
	released atomic.Bool
}

// Len returns the element count.
func (b *buffer) Len() int {
	return b.n
}

// Host returns the backing slice.
func (b *buffer) Host() any {
	return b.data.Interface()
}

// Release returns the buffer's bytes to the memory budget.
// Calling Release multiple times is safe.
func (b *buffer) Release() {
	if b.released.Swap(true) {
		return
	}
	b.queue.free(b.bytes)
}

// Upload stages a copy of src, which must be a slice.
func (q *Queue) Upload(_ context.Context, src any) (device.Memory, error) {
	v := reflect.ValueOf(src)
	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: upload of %T", device.ErrUnsupportedType, src)
	}
	b, err := q.newBuffer(v.Type(), v.Len())
	if err != nil {
		return nil, err
	}
	reflect.Copy(b.data, v)
	q.stats.bytesStaged.Add(b.bytes)
	return b, nil
}

// Alloc creates a zeroed buffer of n elements of like's element type.
func (q *Queue) Alloc(_ context.Context, like any, n int) (device.Memory, error) {
	t := reflect.TypeOf(like)
	if t == nil || t.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: alloc like %T", device.ErrUnsupportedType, like)
	}
	if n < 0 {
		return nil, fmt.Errorf("cpu: alloc of %d elements", n)
	}
	return q.newBuffer(t, n)
}

// Download copies the buffer contents into dst.
func (q *Queue) Download(_ context.Context, m device.Memory, dst any) error {
	if q.closed.Load() {
		return device.ErrQueueClosed
	}
	b, ok := m.(*buffer)
	if !ok || b.queue != q {
		return fmt.Errorf("%w: %T is not memory of this queue", device.ErrUnsupportedType, m)
	}
	if b.released.Load() {
		return fmt.Errorf("cpu: download: %w", errReleased)
	}
	v := reflect.ValueOf(dst)
	if v.Type() != b.data.Type() {
		return fmt.Errorf("%w: download of %s into %T", device.ErrUnsupportedType, b.data.Type(), dst)
	}
	if v.Len() > b.n {
		return fmt.Errorf("cpu: download of %d elements from a buffer of %d", v.Len(), b.n)
	}
	reflect.Copy(v, b.data)
	return nil
}

func (q *Queue) newBuffer(t reflect.Type, n int) (*buffer, error) {
	if q.closed.Load() {
		return nil, device.ErrQueueClosed
	}
	bytes := int64(n) * int64(t.Elem().Size())
	if err := q.reserve(bytes); err != nil {
		return nil, err
	}
	q.stats.activeBuffers.Add(1)
	return &buffer{
		queue: q,
		data:  reflect.MakeSlice(t, n, n),
		n:     n,
		bytes: bytes,
	}, nil
}

// reserve takes bytes from the memory budget without blocking.
func (q *Queue) reserve(bytes int64) error {
	if q.memory == nil || bytes == 0 {
		return nil
	}
	if !q.memory.TryAcquire(bytes) {
		return fmt.Errorf("%w: %d bytes requested, limit %d", device.ErrOutOfMemory, bytes, q.cfg.MemoryLimitBytes)
	}
	return nil
}

func (q *Queue) free(bytes int64) {
	q.stats.activeBuffers.Add(-1)
	if q.memory != nil && bytes > 0 {
		q.memory.Release(bytes)
	}
}
