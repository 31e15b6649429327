package policy

import (
	"time"

	"github.com/born-ml/devpolicy/internal/device"
	"github.com/born-ml/devpolicy/internal/kernel"
	"github.com/born-ml/devpolicy/internal/kernels"
)

// Reduce returns the sum of r.
func Reduce[T Number](p Policy, r []T) (T, error) {
	var zero T
	return ReduceWith[T](p, r, zero, Plus[T]{})
}

// ReduceInit returns init plus the sum of r.
func ReduceInit[T Number](p Policy, r []T, init T) (T, error) {
	return ReduceWith[T](p, r, init, Plus[T]{})
}

// ReduceWith folds r into init with op. Elements may be combined in any
// order, so op must be associative for a deterministic result.
func ReduceWith[T any](p Policy, r []T, init T, op BinaryOp[T]) (result T, err error) {
	const algorithm = "reduce"
	var tag kernel.Name
	defer p.observe(algorithm, "group", len(r), &tag, time.Now(), &err)

	if err := p.check(); err != nil {
		return init, err
	}
	if len(r) == 0 {
		return init, nil
	}
	tag, err = kernel.Resolve(p.name, op)
	if err != nil {
		return init, err
	}

	buf, err := device.Stage(p.ctx, p.queue, r)
	if err != nil {
		return init, err
	}
	defer buf.Release()

	prog := program[T](p, algorithm, tag, kernels.ExprOf(op), op)
	v, err := kernels.GroupReduce(p.ctx, p.queue, prog, buf, len(r), op.Apply)
	if err != nil {
		return init, err
	}
	return op.Apply(init, v), nil
}
