//go:build windows

package webgpu

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"
	"unsafe"

	"github.com/born-ml/devpolicy/internal/device"
	"github.com/go-webgpu/webgpu/wgpu"
)

// elemSize is the width of every supported element type.
const elemSize = 4

// buffer is a storage buffer in device memory.
type buffer struct {
	queue    *Queue
	buf      *wgpu.Buffer
	elem     reflect.Type
	n        int
	size     uint64
	released atomic.Bool
}

// Len returns the element count.
func (b *buffer) Len() int {
	return b.n
}

// Release frees the device buffer. Calling Release multiple times is safe.
func (b *buffer) Release() {
	if b.released.Swap(true) {
		return
	}
	b.buf.Release()
	b.queue.memoryStats.activeBuffers.Add(-1)
}

// bytesOf returns the raw bytes of a supported slice.
func bytesOf(src any) (reflect.Type, []byte, int, error) {
	var (
		ptr unsafe.Pointer
		n   int
	)
	switch s := src.(type) {
	case []float32:
		ptr, n = unsafe.Pointer(unsafe.SliceData(s)), len(s)
	case []int32:
		ptr, n = unsafe.Pointer(unsafe.SliceData(s)), len(s)
	case []uint32:
		ptr, n = unsafe.Pointer(unsafe.SliceData(s)), len(s)
	default:
		return nil, nil, 0, fmt.Errorf("%w: webgpu buffers hold float32, int32 or uint32, not %T", device.ErrUnsupportedType, src)
	}
	t := reflect.TypeOf(src).Elem()
	if n == 0 {
		return t, nil, 0, nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	return t, unsafe.Slice((*byte)(ptr), n*elemSize), n, nil
}

// Upload copies src into a new storage buffer.
func (q *Queue) Upload(_ context.Context, src any) (device.Memory, error) {
	if !q.Valid() {
		return nil, device.ErrQueueClosed
	}
	t, data, n, err := bytesOf(src)
	if err != nil {
		return nil, err
	}
	size := bufferSize(n)

	// Create buffer with MappedAtCreation for initial data upload
	buf := q.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	mappedPtr := buf.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(unsafe.Slice((*byte)(mappedPtr), size), data)
	buf.Unmap()

	return q.track(buf, t, n, size), nil
}

// Alloc creates a storage buffer of n elements of like's element type.
func (q *Queue) Alloc(_ context.Context, like any, n int) (device.Memory, error) {
	if !q.Valid() {
		return nil, device.ErrQueueClosed
	}
	t, _, _, err := bytesOf(like)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("webgpu: alloc of %d elements", n)
	}
	size := bufferSize(n)
	buf := q.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	return q.track(buf, t, n, size), nil
}

// Download copies the first len(dst) elements of m into dst.
func (q *Queue) Download(ctx context.Context, m device.Memory, dst any) error {
	if !q.Valid() {
		return device.ErrQueueClosed
	}
	b, err := q.own(m)
	if err != nil {
		return err
	}
	t, out, n, err := bytesOf(dst)
	if err != nil {
		return err
	}
	if t != b.elem {
		return fmt.Errorf("%w: download of %s into %T", device.ErrUnsupportedType, b.elem, dst)
	}
	if n > b.n {
		return fmt.Errorf("webgpu: download of %d elements from a buffer of %d", n, b.n)
	}
	if n == 0 {
		return nil
	}

	if err := q.order.Acquire(ctx, 1); err != nil {
		return err
	}
	defer q.order.Release(1)
	if q.closed.Load() {
		return device.ErrQueueClosed
	}

	//nolint:gosec // G115: n is non-negative
	data, err := q.readBuffer(b.buf, uint64(n*elemSize))
	if err != nil {
		return err
	}
	copy(out, data)
	return nil
}

// own checks that m is a live buffer of this queue.
func (q *Queue) own(m device.Memory) (*buffer, error) {
	b, ok := m.(*buffer)
	if !ok || b.queue != q {
		return nil, fmt.Errorf("%w: %T is not memory of this queue", device.ErrUnsupportedType, m)
	}
	if b.released.Load() {
		return nil, fmt.Errorf("webgpu: buffer of %d elements already released", b.n)
	}
	return b, nil
}

func (q *Queue) track(buf *wgpu.Buffer, t reflect.Type, n int, size uint64) *buffer {
	q.memoryStats.totalAllocatedBytes.Add(size)
	q.memoryStats.activeBuffers.Add(1)
	return &buffer{queue: q, buf: buf, elem: t, n: n, size: size}
}

// bufferSize returns the byte size of an n-element buffer. Zero-sized
// buffers cannot be bound, so empty buffers hold one element.
func bufferSize(n int) uint64 {
	//nolint:gosec // G115: n is non-negative
	return uint64(max(n, 1) * elemSize)
}

// readBuffer reads data back from a GPU buffer to CPU memory.
// Uses a staging buffer since storage buffers can't be mapped directly.
func (q *Queue) readBuffer(src *wgpu.Buffer, size uint64) ([]byte, error) {
	staging := q.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	encoder := q.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	cmdBuffer := encoder.Finish(nil)
	q.queue.Submit(cmdBuffer)

	// MapAsync returns once every prior submission has completed.
	if err := staging.MapAsync(q.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("webgpu: failed to map staging buffer: %w", err)
	}

	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	result := make([]byte, size)
	copy(result, unsafe.Slice((*byte)(mappedPtr), size))
	staging.Unmap()

	return result, nil
}
