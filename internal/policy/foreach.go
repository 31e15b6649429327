package policy

import (
	"time"

	"github.com/born-ml/devpolicy/internal/device"
	"github.com/born-ml/devpolicy/internal/kernel"
	"github.com/born-ml/devpolicy/internal/kernels"
)

// ForEach applies f to every element of r. Changes f makes through its
// pointer argument are written back to r.
func ForEach[T any](p Policy, r []T, f Visitor[T]) error {
	_, err := ForEachN(p, r, len(r), f)
	return err
}

// ForEachN applies f to the first n elements of r and returns n.
func ForEachN[T any](p Policy, r []T, n int, f Visitor[T]) (end int, err error) {
	const algorithm = "for_each"
	var tag kernel.Name
	defer p.observe(algorithm, "each", n, &tag, time.Now(), &err)

	if err := p.check(); err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, nil
	}
	tag, err = kernel.Resolve(p.name, f)
	if err != nil {
		return 0, err
	}

	buf, err := device.Stage(p.ctx, p.queue, r[:n])
	if err != nil {
		return 0, err
	}
	defer buf.Release()

	prog := program[T](p, algorithm, tag, "", f)
	if err := kernels.Each(p.ctx, p.queue, prog, buf, n, f.Visit); err != nil {
		return 0, err
	}
	if err := device.Fetch(p.ctx, p.queue, buf, r[:n]); err != nil {
		return 0, err
	}
	return n, nil
}
