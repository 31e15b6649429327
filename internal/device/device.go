// Package device defines the runtime interface execution policies submit work through.
//
// A Queue stages host slices into device memory, runs kernels over an NDRange
// and copies results back. Every call is synchronous: Submit returns only after
// the kernel has finished on the device.
package device

import "context"

// Kind identifies the family of a compute device.
type Kind int

// Supported device kinds.
const (
	CPU Kind = iota
	WebGPU
)

// String returns a human-readable device kind.
func (k Kind) String() string {
	switch k {
	case CPU:
		return "CPU"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// Info describes the device behind a queue.
type Info struct {
	Name         string
	Kind         Kind
	Vendor       string
	ComputeUnits int
	MaxLocalSize int
	Features     []string
}

// Memory is a device buffer. It is a staging copy owned by the call that
// created it and must be released before that call returns.
type Memory interface {
	// Len returns the element count.
	Len() int
	Release()
}

// Queue is a single in-order work queue on one device.
//
// Queues may be shared by several policies. Submissions are executed in the
// order they acquire the queue.
type Queue interface {
	Info() Info

	// Valid reports whether the runtime context behind the queue is still usable.
	Valid() bool

	// Upload stages src, which must be a slice, into a new device buffer.
	Upload(ctx context.Context, src any) (Memory, error)

	// Alloc creates an uninitialized device buffer of n elements. like is a
	// slice value (usually nil) whose element type selects the buffer type.
	Alloc(ctx context.Context, like any, n int) (Memory, error)

	// Download copies the contents of m into dst, which must be a slice of the
	// buffer's element type with len(dst) <= m.Len().
	Download(ctx context.Context, m Memory, dst any) error

	// Submit compiles k if needed, runs it over nd with args bound in order and
	// blocks until it completes.
	Submit(ctx context.Context, k *Kernel, nd NDRange, args ...Memory) error

	Close() error
}
