package kernels

import (
	"context"
	"fmt"
	"math"

	"github.com/born-ml/devpolicy/internal/device"
)

// GroupReduce folds the first n elements of buf with op and returns the
// result. Every launch reduces each work-group to one partial; launches
// repeat over the partials until one value is left. Valid for any n > 0.
func GroupReduce[T any](ctx context.Context, q device.Queue, p Program, buf device.Memory, n int, op func(a, b T) T) (T, error) {
	var zero T
	if n <= 0 {
		return zero, fmt.Errorf("kernels: group reduce of %d elements", n)
	}
	local := p.local()
	wgsl := shader[T](p, groupReduceShader, local)

	host := func(g device.Group, args []device.Memory) {
		in := device.HostSlice[T](args[0])
		out := device.HostSlice[T](args[1])
		lo, hi := g.Range()
		acc := in[lo]
		for i := lo + 1; i < hi; i++ {
			acc = op(acc, in[i])
		}
		out[g.ID] = acc
	}

	cur, count := buf, n
	for count > 1 {
		nd := device.NewNDRange(count, local)
		partials, err := device.Allocate[T](ctx, q, nd.Groups())
		if err != nil {
			release(cur, buf)
			return zero, err
		}
		//nolint:gosec // G115: count is bounded by the buffer length
		err = q.Submit(ctx, p.kernel("group", host, wgsl, uint32(count)), nd, cur, partials)
		release(cur, buf)
		if err != nil {
			partials.Release()
			return zero, err
		}
		cur, count = partials, nd.Groups()
	}
	defer release(cur, buf)

	return first[T](ctx, q, cur)
}

// TreeReduce folds the first n elements of buf with op through a pairwise
// reduction tree, halving the live range each launch. buf is overwritten.
// n must be a power of two.
func TreeReduce[T any](ctx context.Context, q device.Queue, p Program, buf device.Memory, n int, op func(a, b T) T) (T, error) {
	var zero T
	if Classify(n) != PowerOfTwo {
		return zero, fmt.Errorf("%w: tree reduce of %d elements", ErrNotPowerOfTwo, n)
	}
	local := p.local()
	wgsl := shader[T](p, treeReduceShader, local)

	for stride := 1; stride < n; stride <<= 1 {
		pairs := n / (2 * stride)
		host := func(g device.Group, args []device.Memory) {
			data := device.HostSlice[T](args[0])
			lo, hi := g.Range()
			for i := lo; i < hi; i++ {
				at := i * 2 * stride
				data[at] = op(data[at], data[at+stride])
			}
		}
		//nolint:gosec // G115: stride and pairs are bounded by the buffer length
		stage := p.kernel("tree", host, wgsl, uint32(stride), uint32(pairs))
		if err := q.Submit(ctx, stage, device.NewNDRange(pairs, local), buf); err != nil {
			return zero, err
		}
	}
	return first[T](ctx, q, buf)
}

// SequentialFold folds the first n elements of buf into init with a single
// work item, left to right.
func SequentialFold[T any](ctx context.Context, q device.Queue, p Program, buf device.Memory, n int, init T, op func(a, b T) T) (T, error) {
	var zero T
	out, err := device.Allocate[T](ctx, q, 1)
	if err != nil {
		return zero, err
	}
	defer out.Release()

	host := func(_ device.Group, args []device.Memory) {
		in := device.HostSlice[T](args[0])
		acc := init
		for i := 0; i < n; i++ {
			acc = op(acc, in[i])
		}
		device.HostSlice[T](args[1])[0] = acc
	}
	wgsl := shader[T](p, sequentialFoldShader, 1)
	//nolint:gosec // G115: n is bounded by the buffer length
	params := []uint32{uint32(n), floatBits(init)}

	if err := q.Submit(ctx, p.kernel("sequential", host, wgsl, params...), device.Single(), buf, out); err != nil {
		return zero, err
	}
	return first[T](ctx, q, out)
}

// first reads element 0 of m back to the host.
func first[T any](ctx context.Context, q device.Queue, m device.Memory) (T, error) {
	v := make([]T, 1)
	if err := device.Fetch(ctx, q, m, v); err != nil {
		var zero T
		return zero, err
	}
	return v[0], nil
}

// release frees intermediate buffers, never the caller's input.
func release(m, input device.Memory) {
	if m != input {
		m.Release()
	}
}

// floatBits returns the IEEE bits of v when it is a float32, else 0.
func floatBits(v any) uint32 {
	if f, ok := v.(float32); ok {
		return math.Float32bits(f)
	}
	return 0
}
