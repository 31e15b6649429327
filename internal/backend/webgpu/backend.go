//go:build windows

// Package webgpu implements a device queue on a WebGPU adapter.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU bindings.
//
// Kernels run from their WGSL source; kernels without one are rejected with
// device.ErrUnsupportedKernel. Buffers hold float32, int32 or uint32 elements.
package webgpu

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/born-ml/devpolicy/internal/device"
	"github.com/go-webgpu/webgpu/wgpu"
	"golang.org/x/sync/semaphore"
)

// maxLocalSize is the largest work-group size every WebGPU adapter supports
// (maxComputeInvocationsPerWorkgroup default limit).
const maxLocalSize = 256

// Queue submits kernels to the default queue of one WebGPU device.
type Queue struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	// Device info
	adapterInfo wgpu.AdapterInfo
	info        device.Info

	// fence is copied to a mappable buffer to wait for submitted work.
	fence *wgpu.Buffer

	// Pipeline cache keyed by kernel id.
	pipelines map[string]*pipeline
	mu        sync.RWMutex

	order  *semaphore.Weighted
	closed atomic.Bool

	// Memory tracking
	memoryStats struct {
		totalAllocatedBytes atomic.Uint64
		activeBuffers       atomic.Int64
	}
}

// New creates a queue on the default high-performance adapter.
// Returns an error if WebGPU is not available or initialization fails.
func New() (q *Queue, err error) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			q = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}
	adapterInfo := adapter.GetInfo()

	dev, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	queue := dev.GetQueue()
	if queue == nil {
		dev.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	q = &Queue{
		instance:    instance,
		adapter:     adapter,
		device:      dev,
		queue:       queue,
		adapterInfo: adapterInfo,
		pipelines:   make(map[string]*pipeline),
		order:       semaphore.NewWeighted(1),
	}
	q.fence = dev.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
		Size:  4,
	})
	q.info = device.Info{
		Name:         q.name(),
		Kind:         device.WebGPU,
		Vendor:       adapterInfo.Vendor,
		ComputeUnits: 1,
		MaxLocalSize: maxLocalSize,
		Features:     []string{"wgsl", "f32", "i32", "u32"},
	}
	return q, nil
}

func (q *Queue) name() string {
	if q.adapterInfo.Device != "" {
		return fmt.Sprintf("WebGPU (%s %s)", q.adapterInfo.Device, q.adapterInfo.Vendor)
	}
	return "WebGPU"
}

// Info describes the adapter behind the queue.
func (q *Queue) Info() device.Info {
	return q.info
}

// AdapterInfo returns information about the GPU adapter.
func (q *Queue) AdapterInfo() wgpu.AdapterInfo {
	return q.adapterInfo
}

// Valid reports whether the queue accepts work.
func (q *Queue) Valid() bool {
	return !q.closed.Load() && q.device != nil
}

// Close releases all WebGPU resources. Calling Close multiple times is safe.
func (q *Queue) Close() error {
	if q.closed.Swap(true) {
		return nil
	}
	// Wait for an in-flight submission.
	_ = q.order.Acquire(context.Background(), 1)
	defer q.order.Release(1)

	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.pipelines {
		p.release()
	}
	q.pipelines = nil

	if q.fence != nil {
		q.fence.Release()
		q.fence = nil
	}
	if q.queue != nil {
		q.queue.Release()
		q.queue = nil
	}
	if q.device != nil {
		q.device.Release()
		q.device = nil
	}
	if q.adapter != nil {
		q.adapter.Release()
		q.adapter = nil
	}
	if q.instance != nil {
		q.instance.Release()
		q.instance = nil
	}
	return nil
}

// MemoryStats represents GPU memory usage statistics.
type MemoryStats struct {
	// Total bytes allocated since queue creation
	TotalAllocatedBytes uint64
	// Number of currently active buffers
	ActiveBuffers int64
	// Number of cached pipelines
	Pipelines int
}

// MemoryStats returns current GPU memory usage statistics.
func (q *Queue) MemoryStats() MemoryStats {
	q.mu.RLock()
	pipelines := len(q.pipelines)
	q.mu.RUnlock()
	return MemoryStats{
		TotalAllocatedBytes: q.memoryStats.totalAllocatedBytes.Load(),
		ActiveBuffers:       q.memoryStats.activeBuffers.Load(),
		Pipelines:           pipelines,
	}
}

// IsAvailable checks if WebGPU is available on this system.
func IsAvailable() (available bool) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()

	return true
}

// ListAdapters returns information about all available GPU adapters.
func ListAdapters() (adapters []wgpu.AdapterInfo, err error) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			adapters = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	// WebGPU has no adapter enumeration; report the default adapter.
	adapter, adapterErr := instance.RequestAdapter(nil)
	if adapterErr != nil {
		return nil, fmt.Errorf("webgpu: no adapters available: %w", adapterErr)
	}
	defer adapter.Release()

	return []wgpu.AdapterInfo{adapter.GetInfo()}, nil
}
