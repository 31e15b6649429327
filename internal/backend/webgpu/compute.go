//go:build windows

package webgpu

import (
	"context"
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/born-ml/devpolicy/internal/device"
	"github.com/go-webgpu/webgpu/wgpu"
)

// pipeline is a compiled kernel.
type pipeline struct {
	fingerprint string
	shader      *wgpu.ShaderModule
	compute     *wgpu.ComputePipeline
}

func (p *pipeline) release() {
	p.compute.Release()
	p.shader.Release()
}

// getOrCreatePipeline returns the cached pipeline of k or compiles it.
// A cached pipeline compiled from a different fingerprint is a conflict.
func (q *Queue) getOrCreatePipeline(k *device.Kernel) (*pipeline, error) {
	q.mu.RLock()
	p, exists := q.pipelines[k.ID]
	q.mu.RUnlock()

	if !exists {
		q.mu.Lock()
		if p, exists = q.pipelines[k.ID]; !exists {
			shader := q.device.CreateShaderModuleWGSL(k.WGSL)
			// Create compute pipeline with auto layout (nil layout)
			p = &pipeline{
				fingerprint: k.Fingerprint,
				shader:      shader,
				compute:     q.device.CreateComputePipelineSimple(nil, shader, "main"),
			}
			q.pipelines[k.ID] = p
		}
		q.mu.Unlock()
	}

	if p.fingerprint != k.Fingerprint {
		return nil, fmt.Errorf("%w: %s is compiled from %s, not %s",
			device.ErrKernelConflict, k.ID, p.fingerprint, k.Fingerprint)
	}
	return p, nil
}

// createUniformBuffer creates a uniform buffer with proper alignment.
// Uniform buffers require 16-byte alignment for struct fields.
func (q *Queue) createUniformBuffer(params []uint32) (*wgpu.Buffer, uint64) {
	data := make([]byte, 4*len(params))
	for i, v := range params {
		binary.LittleEndian.PutUint32(data[4*i:], v)
	}
	size := max(uint64(len(data)), 16)
	alignedSize := (size + 15) &^ 15 // Round up to 16-byte boundary

	buffer := q.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})
	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(unsafe.Slice((*byte)(mappedPtr), alignedSize), data)
	buffer.Unmap()

	return buffer, alignedSize
}

// Submit runs k over nd and blocks until the device has finished it.
// Storage arguments are bound in order from binding 0 and the params
// uniform follows the last argument.
func (q *Queue) Submit(ctx context.Context, k *device.Kernel, nd device.NDRange, args ...device.Memory) error {
	if !q.Valid() {
		return device.ErrQueueClosed
	}
	if k == nil || k.WGSL == "" {
		return fmt.Errorf("%w: no WGSL program", device.ErrUnsupportedKernel)
	}
	bufs := make([]*buffer, len(args))
	for i, a := range args {
		b, err := q.own(a)
		if err != nil {
			return fmt.Errorf("argument %d of %s: %w", i, k.ID, err)
		}
		bufs[i] = b
	}

	if err := q.order.Acquire(ctx, 1); err != nil {
		return err
	}
	defer q.order.Release(1)
	if q.closed.Load() {
		return device.ErrQueueClosed
	}

	p, err := q.getOrCreatePipeline(k)
	if err != nil {
		return err
	}

	params, paramsSize := q.createUniformBuffer(k.Params)
	defer params.Release()

	entries := make([]wgpu.BindGroupEntry, 0, len(bufs)+1)
	for i, b := range bufs {
		//nolint:gosec // G115: argument count is small
		entries = append(entries, wgpu.BufferBindingEntry(uint32(i), b.buf, 0, b.size))
	}
	//nolint:gosec // G115: argument count is small
	entries = append(entries, wgpu.BufferBindingEntry(uint32(len(bufs)), params, 0, paramsSize))

	bindGroupLayout := p.compute.GetBindGroupLayout(0)
	bindGroup := q.device.CreateBindGroupSimple(bindGroupLayout, entries)
	defer bindGroup.Release()

	encoder := q.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(p.compute)
	computePass.SetBindGroup(0, bindGroup, nil)
	//nolint:gosec // G115: workgroup count is non-negative
	computePass.DispatchWorkgroups(uint32(nd.Groups()), 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	q.queue.Submit(cmdBuffer)

	// Wait for the submission through the fence buffer.
	_, err = q.readBuffer(q.fence, 4)
	return err
}
