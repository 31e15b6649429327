package kernels

import (
	"context"
	"fmt"
	"slices"

	"github.com/born-ml/devpolicy/internal/device"
)

// BitonicSort sorts the first n elements of buf in place with a bitonic merge
// network: one launch per (k, j) stage, each work item compare-exchanging
// the pair (i, i^j). n must be a power of two.
func BitonicSort[T any](ctx context.Context, q device.Queue, p Program, buf device.Memory, n int, less func(a, b T) bool) error {
	if Classify(n) != PowerOfTwo {
		return fmt.Errorf("%w: bitonic sort of %d elements", ErrNotPowerOfTwo, n)
	}
	local := p.local()
	wgsl := shader[T](p, bitonicShader, local)
	nd := device.NewNDRange(n, local)

	for k := 2; k <= n; k <<= 1 {
		for j := k >> 1; j > 0; j >>= 1 {
			host := func(g device.Group, args []device.Memory) {
				data := device.HostSlice[T](args[0])
				lo, hi := g.Range()
				for i := lo; i < hi; i++ {
					l := i ^ j
					if l <= i {
						continue
					}
					if i&k == 0 {
						if less(data[l], data[i]) {
							data[i], data[l] = data[l], data[i]
						}
					} else if less(data[i], data[l]) {
						data[i], data[l] = data[l], data[i]
					}
				}
			}
			//nolint:gosec // G115: j, k and n are bounded by the buffer length
			stage := p.kernel("bitonic", host, wgsl, uint32(j), uint32(k), uint32(n))
			if err := q.Submit(ctx, stage, nd, buf); err != nil {
				return err
			}
		}
	}
	return nil
}

// SequentialSort sorts the first n elements of buf with a single work item.
// It is valid for any n and keeps equal elements in order.
func SequentialSort[T any](ctx context.Context, q device.Queue, p Program, buf device.Memory, n int, less func(a, b T) bool) error {
	host := func(_ device.Group, args []device.Memory) {
		data := device.HostSlice[T](args[0])[:n]
		slices.SortStableFunc(data, func(a, b T) int {
			switch {
			case less(a, b):
				return -1
			case less(b, a):
				return 1
			default:
				return 0
			}
		})
	}
	return q.Submit(ctx, p.kernel("sequential", host, ""), device.Single(), buf)
}
