package policy

import (
	"time"

	"github.com/born-ml/devpolicy/internal/device"
	"github.com/born-ml/devpolicy/internal/kernel"
	"github.com/born-ml/devpolicy/internal/kernels"
)

// Transform writes op(in[i]) to out[i] and returns len(in), the index in out
// one past the last element written. out must be at least as long as in.
func Transform[T, U any](p Policy, in []T, out []U, op UnaryOp[T, U]) (end int, err error) {
	const algorithm = "transform"
	n := len(in)
	var tag kernel.Name
	defer p.observe(algorithm, "map", n, &tag, time.Now(), &err)

	if err := p.check(); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	tag, err = kernel.Resolve(p.name, op)
	if err != nil {
		return 0, err
	}

	src, err := device.Stage(p.ctx, p.queue, in)
	if err != nil {
		return 0, err
	}
	defer src.Release()
	dst, err := device.Allocate[U](p.ctx, p.queue, n)
	if err != nil {
		return 0, err
	}
	defer dst.Release()

	prog := program[T](p, algorithm, tag, kernels.ExprOf(op), op)
	if err := kernels.Map(p.ctx, p.queue, prog, src, dst, n, op.Apply); err != nil {
		return 0, err
	}
	if err := device.Fetch(p.ctx, p.queue, dst, out[:n]); err != nil {
		return 0, err
	}
	return n, nil
}

// TransformBinary writes op(in1[i], in2[i]) to out[i] and returns len(in1).
// in2 and out must be at least as long as in1.
func TransformBinary[T1, T2, U any](p Policy, in1 []T1, in2 []T2, out []U, op ZipOp[T1, T2, U]) (end int, err error) {
	const algorithm = "transform_binary"
	n := len(in1)
	var tag kernel.Name
	defer p.observe(algorithm, "zip", n, &tag, time.Now(), &err)

	if err := p.check(); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	tag, err = kernel.Resolve(p.name, op)
	if err != nil {
		return 0, err
	}

	a, err := device.Stage(p.ctx, p.queue, in1)
	if err != nil {
		return 0, err
	}
	defer a.Release()
	b, err := device.Stage(p.ctx, p.queue, in2[:n])
	if err != nil {
		return 0, err
	}
	defer b.Release()
	dst, err := device.Allocate[U](p.ctx, p.queue, n)
	if err != nil {
		return 0, err
	}
	defer dst.Release()

	prog := program[T1](p, algorithm, tag, kernels.ExprOf(op), op)
	if err := kernels.Zip(p.ctx, p.queue, prog, a, b, dst, n, op.Apply); err != nil {
		return 0, err
	}
	if err := device.Fetch(p.ctx, p.queue, dst, out[:n]); err != nil {
		return 0, err
	}
	return n, nil
}
