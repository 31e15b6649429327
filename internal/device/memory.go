package device

import (
	"context"
	"fmt"
)

// HostMemory is implemented by buffers that host kernels address directly.
type HostMemory interface {
	Memory
	// Host returns the backing slice.
	Host() any
}

// Stage uploads src into a new device buffer.
func Stage[T any](ctx context.Context, q Queue, src []T) (Memory, error) {
	return q.Upload(ctx, src)
}

// Allocate creates an uninitialized device buffer of n elements of type T.
func Allocate[T any](ctx context.Context, q Queue, n int) (Memory, error) {
	return q.Alloc(ctx, []T(nil), n)
}

// Fetch copies the first len(dst) elements of m back into dst.
func Fetch[T any](ctx context.Context, q Queue, m Memory, dst []T) error {
	return q.Download(ctx, m, dst)
}

// HostSlice returns the backing slice of a host buffer. It panics when m is
// not host memory of element type T; devices report such panics as
// ErrKernelPanic.
func HostSlice[T any](m Memory) []T {
	hm, ok := m.(HostMemory)
	if !ok {
		panic(fmt.Sprintf("device: %T is not host memory", m))
	}
	s, ok := hm.Host().([]T)
	if !ok {
		panic(fmt.Sprintf("device: host buffer holds %T, not %T", hm.Host(), s))
	}
	return s
}
