// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/devpolicy/internal/backend/cpu"
	"github.com/born-ml/devpolicy/internal/device"
)

// Queue is a host-emulated device queue.
//
// Kernels run as Go code, one goroutine per chunk of work-groups, and
// submissions are executed one at a time in arrival order.
type Queue = internalcpu.Queue

// Config holds the queue configuration.
type Config = internalcpu.Config

// Option configures a Queue.
type Option = internalcpu.Option

// Stats is a snapshot of queue activity.
type Stats = internalcpu.Stats

// Compile-time check that Queue implements device.Queue.
var _ device.Queue = (*Queue)(nil)

// New creates a new CPU queue.
//
// Example:
//
//	import (
//	    "github.com/born-ml/devpolicy/backend/cpu"
//	    "github.com/born-ml/devpolicy/policy"
//	)
//
//	func main() {
//	    q := cpu.New()
//	    defer q.Close()
//	    p := policy.New(q)
//	    err := policy.Sort(p, []int32{3, 1, 2})
//	}
func New(opts ...Option) *Queue {
	return internalcpu.New(opts...)
}

// DefaultConfig returns the default queue configuration.
func DefaultConfig() Config {
	return internalcpu.DefaultConfig()
}

// WithLocalSize sets the work-group size reported to policies.
func WithLocalSize(n int) Option {
	return internalcpu.WithLocalSize(n)
}

// WithComputeUnits sets the number of goroutines work-groups fan out to.
func WithComputeUnits(n int) Option {
	return internalcpu.WithComputeUnits(n)
}

// WithMemoryLimit caps the bytes of live device buffers. Allocations past
// the limit fail with device.ErrOutOfMemory.
func WithMemoryLimit(bytes int64) Option {
	return internalcpu.WithMemoryLimit(bytes)
}
