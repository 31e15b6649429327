package device

import "errors"

var (
	// ErrInvalidQueue is returned when a policy has no usable queue.
	ErrInvalidQueue = errors.New("device: invalid queue")

	// ErrQueueClosed is returned by a queue after Close.
	ErrQueueClosed = errors.New("device: queue closed")

	// ErrOutOfMemory is returned when a buffer does not fit in the device memory budget.
	ErrOutOfMemory = errors.New("device: out of device memory")

	// ErrUnsupportedKernel is returned when a device cannot compile a kernel,
	// e.g. a GPU device given a kernel without a shader source.
	ErrUnsupportedKernel = errors.New("device: kernel not supported by device")

	// ErrKernelConflict is returned when one kernel id is submitted with two
	// different program bodies.
	ErrKernelConflict = errors.New("device: kernel identity conflict")

	// ErrKernelPanic is returned when a kernel panics during execution.
	ErrKernelPanic = errors.New("device: kernel panicked")

	// ErrUnsupportedType is returned for buffers of element types the device cannot hold.
	ErrUnsupportedType = errors.New("device: unsupported element type")
)
