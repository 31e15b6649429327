package policy

import (
	"time"

	"github.com/born-ml/devpolicy/internal/device"
	"github.com/born-ml/devpolicy/internal/kernel"
	"github.com/born-ml/devpolicy/internal/kernels"
)

// TransformReduce applies unary to every element of r and folds the results
// into init with binary. The map and the first reduction level run in one
// fused kernel regardless of length.
func TransformReduce[T, U any](p Policy, r []T, unary UnaryOp[T, U], init U, binary BinaryOp[U]) (U, error) {
	return transformReduce(p, "transform_reduce", r, []any{unary, binary}, unary.Apply, init, binary)
}

// CountIf returns the number of elements of r that satisfy pred.
func CountIf[T any](p Policy, r []T, pred Predicate[T]) (int, error) {
	indicator := func(x T) int {
		if pred.Test(x) {
			return 1
		}
		return 0
	}
	return transformReduce(p, "count_if", r, []any{pred}, indicator, 0, BinaryOp[int](Plus[int]{}))
}

// transformReduce resolves the kernel identity from ops, the user callables
// compiled into the kernel, and runs the fused map-reduce.
func transformReduce[T, U any](p Policy, algorithm string, r []T, ops []any, f func(T) U, init U, binary BinaryOp[U]) (result U, err error) {
	var tag kernel.Name
	defer p.observe(algorithm, "fused", len(r), &tag, time.Now(), &err)

	if err := p.check(); err != nil {
		return init, err
	}
	if len(r) == 0 {
		return init, nil
	}
	tag, err = kernel.ResolveAll(p.name, ops...)
	if err != nil {
		return init, err
	}

	buf, err := device.Stage(p.ctx, p.queue, r)
	if err != nil {
		return init, err
	}
	defer buf.Release()

	prog := program[T](p, algorithm, tag, kernels.ExprOf(binary), ops...)
	v, err := kernels.MapReduce(p.ctx, p.queue, prog, buf, len(r), f, binary.Apply)
	if err != nil {
		return init, err
	}
	return binary.Apply(init, v), nil
}
