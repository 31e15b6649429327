//go:build windows

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides a WebGPU compute device for execution policies.
//
// WebGPU is a cross-platform graphics and compute API that works on:
//   - Windows (via Dawn/D3D12)
//   - macOS (via Dawn/Metal)
//   - Linux (via Dawn/Vulkan)
//
// Kernels run from their WGSL programs, which exist for float32 ranges with
// the built-in functors (policy.Plus, policy.Multiplies, policy.Less,
// policy.Greater). Other calls fail with device.ErrUnsupportedKernel.
//
// Example:
//
//	import (
//	    "github.com/born-ml/devpolicy/backend/cpu"
//	    "github.com/born-ml/devpolicy/backend/webgpu"
//	    "github.com/born-ml/devpolicy/policy"
//	)
//
//	func main() {
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer gpu.Close()
//
//	    p := policy.New(gpu)
//	    sum, err := policy.Reduce(p, []float32{1, 2, 3, 4})
//	}
package webgpu

import (
	internalwebgpu "github.com/born-ml/devpolicy/internal/backend/webgpu"
	"github.com/born-ml/devpolicy/internal/device"
	"github.com/go-webgpu/webgpu/wgpu"
)

// Queue submits kernels to a WebGPU device.
type Queue = internalwebgpu.Queue

// Compile-time check that Queue implements device.Queue.
var _ device.Queue = (*Queue)(nil)

// New creates a queue on the default high-performance adapter.
//
// Returns an error if WebGPU initialization fails (e.g., no compatible GPU).
// Call Close when done to free GPU resources.
func New() (*Queue, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// It is useful for graceful fallback to the CPU queue when no GPU is present.
//
// Example:
//
//	var q device.Queue
//	if webgpu.IsAvailable() {
//	    q, _ = webgpu.New()
//	} else {
//	    q = cpu.New()
//	}
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}

// ListAdapters returns information about the available GPU adapters.
func ListAdapters() ([]wgpu.AdapterInfo, error) {
	return internalwebgpu.ListAdapters()
}
