package kernels

import (
	"context"
	"fmt"

	"github.com/born-ml/devpolicy/internal/device"
)

// Map writes f(in[i]) to out[i] for the first n elements.
func Map[T, U any](ctx context.Context, q device.Queue, p Program, in, out device.Memory, n int, f func(T) U) error {
	host := func(g device.Group, args []device.Memory) {
		src := device.HostSlice[T](args[0])
		dst := device.HostSlice[U](args[1])
		lo, hi := g.Range()
		for i := lo; i < hi; i++ {
			dst[i] = f(src[i])
		}
	}
	return q.Submit(ctx, p.kernel("map", host, ""), device.NewNDRange(n, p.local()), in, out)
}

// Zip writes f(a[i], b[i]) to out[i] for the first n elements.
func Zip[T1, T2, U any](ctx context.Context, q device.Queue, p Program, a, b, out device.Memory, n int, f func(T1, T2) U) error {
	host := func(g device.Group, args []device.Memory) {
		x := device.HostSlice[T1](args[0])
		y := device.HostSlice[T2](args[1])
		dst := device.HostSlice[U](args[2])
		lo, hi := g.Range()
		for i := lo; i < hi; i++ {
			dst[i] = f(x[i], y[i])
		}
	}
	local := p.local()
	var wgsl string
	if sameType[T1, T2]() && sameType[T1, U]() {
		wgsl = shader[T1](p, zipShader, local)
	}
	//nolint:gosec // G115: n is bounded by the buffer length
	return q.Submit(ctx, p.kernel("zip", host, wgsl, uint32(n)), device.NewNDRange(n, local), a, b, out)
}

// Each calls f on a pointer to each of the first n elements of buf. Changes
// made through the pointer are kept in buf.
func Each[T any](ctx context.Context, q device.Queue, p Program, buf device.Memory, n int, f func(*T)) error {
	host := func(g device.Group, args []device.Memory) {
		data := device.HostSlice[T](args[0])
		lo, hi := g.Range()
		for i := lo; i < hi; i++ {
			f(&data[i])
		}
	}
	return q.Submit(ctx, p.kernel("each", host, ""), device.NewNDRange(n, p.local()), buf)
}

// MapReduce applies f to each of the first n elements of buf and folds the
// results with op. The first launch fuses the map into the per-group
// partial reduction; the partials are then folded by GroupReduce. n > 0.
func MapReduce[T, U any](ctx context.Context, q device.Queue, p Program, buf device.Memory, n int, f func(T) U, op func(a, b U) U) (U, error) {
	var zero U
	if n <= 0 {
		return zero, fmt.Errorf("kernels: map-reduce of %d elements", n)
	}
	nd := device.NewNDRange(n, p.local())
	partials, err := device.Allocate[U](ctx, q, nd.Groups())
	if err != nil {
		return zero, err
	}
	defer partials.Release()

	host := func(g device.Group, args []device.Memory) {
		in := device.HostSlice[T](args[0])
		out := device.HostSlice[U](args[1])
		lo, hi := g.Range()
		acc := f(in[lo])
		for i := lo + 1; i < hi; i++ {
			acc = op(acc, f(in[i]))
		}
		out[g.ID] = acc
	}
	if err := q.Submit(ctx, p.kernel("fused", host, ""), nd, buf, partials); err != nil {
		return zero, err
	}
	return GroupReduce(ctx, q, p, partials, nd.Groups(), op)
}

func sameType[A, B any]() bool {
	var a A
	_, ok := any(a).(B)
	return ok
}
