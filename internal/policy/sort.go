package policy

import (
	"cmp"
	"time"

	"github.com/born-ml/devpolicy/internal/device"
	"github.com/born-ml/devpolicy/internal/kernel"
	"github.com/born-ml/devpolicy/internal/kernels"
)

// Sort sorts r in ascending order.
func Sort[T cmp.Ordered](p Policy, r []T) error {
	return SortFunc[T](p, r, Less[T]{})
}

// SortFunc sorts r in place by comp.
//
// Power-of-two lengths run a bitonic merge network on the device. Any other
// length runs a single work-item stable sort, since the network is only
// defined for power-of-two inputs.
func SortFunc[T any](p Policy, r []T, comp Comparator[T]) (err error) {
	const algorithm = "sort"
	n := len(r)
	variant := sortVariant(n)
	var tag kernel.Name
	defer p.observe(algorithm, variant, n, &tag, time.Now(), &err)

	if err := p.check(); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	tag, err = kernel.Resolve(p.name, comp)
	if err != nil {
		return err
	}

	buf, err := device.Stage(p.ctx, p.queue, r)
	if err != nil {
		return err
	}
	defer buf.Release()

	prog := program[T](p, algorithm, tag, kernels.ExprOf(comp), comp)
	if variant == "bitonic" {
		err = kernels.BitonicSort(p.ctx, p.queue, prog, buf, n, comp.Less)
	} else {
		err = kernels.SequentialSort(p.ctx, p.queue, prog, buf, n, comp.Less)
	}
	if err != nil {
		return err
	}
	return device.Fetch(p.ctx, p.queue, buf, r)
}

func sortVariant(n int) string {
	if kernels.Classify(n) == kernels.PowerOfTwo {
		return "bitonic"
	}
	return "sequential"
}
