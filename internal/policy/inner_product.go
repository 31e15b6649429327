package policy

import (
	"time"

	"github.com/born-ml/devpolicy/internal/device"
	"github.com/born-ml/devpolicy/internal/kernel"
	"github.com/born-ml/devpolicy/internal/kernels"
)

// InnerProduct returns init plus the sum of a[i]*b[i]. b must be at least as
// long as a.
func InnerProduct[T Number](p Policy, a, b []T, init T) (T, error) {
	return InnerProductWith[T](p, a, b, init, Plus[T]{}, Multiplies[T]{})
}

// InnerProductWith folds multiply(a[i], b[i]) into init with combine.
//
// Power-of-two lengths fold the products through a reduction tree. Other
// lengths fold them left to right in a single work item.
func InnerProductWith[T any](p Policy, a, b []T, init T, combine, multiply BinaryOp[T]) (result T, err error) {
	const algorithm = "inner_product"
	n := len(a)
	variant := "sequential"
	if kernels.Classify(n) == kernels.PowerOfTwo {
		variant = "tree"
	}
	var tag kernel.Name
	defer p.observe(algorithm, variant, n, &tag, time.Now(), &err)

	if err := p.check(); err != nil {
		return init, err
	}
	if n == 0 {
		return init, nil
	}
	tag, err = kernel.ResolveAll(p.name, combine, multiply)
	if err != nil {
		return init, err
	}

	x, err := device.Stage(p.ctx, p.queue, a)
	if err != nil {
		return init, err
	}
	defer x.Release()
	y, err := device.Stage(p.ctx, p.queue, b[:n])
	if err != nil {
		return init, err
	}
	defer y.Release()
	products, err := device.Allocate[T](p.ctx, p.queue, n)
	if err != nil {
		return init, err
	}
	defer products.Release()

	zip := program[T](p, algorithm, tag, kernels.ExprOf(multiply), combine, multiply)
	if err := kernels.Zip(p.ctx, p.queue, zip, x, y, products, n, multiply.Apply); err != nil {
		return init, err
	}

	fold := zip
	fold.Expr = kernels.ExprOf(combine)
	if variant == "tree" {
		v, err := kernels.TreeReduce(p.ctx, p.queue, fold, products, n, combine.Apply)
		if err != nil {
			return init, err
		}
		return combine.Apply(init, v), nil
	}
	return kernels.SequentialFold(p.ctx, p.queue, fold, products, n, init, combine.Apply)
}
