// Package policy runs parallel algorithms on a device queue.
//
// A Policy binds one device.Queue and a kernel identity tag. Every algorithm
// stages its input into device memory, submits one or more kernels, waits for
// them and copies the result back, so a call reads like its sequential
// counterpart.
//
// Kernel identity: each submitted kernel carries an id built from the
// algorithm, the element type and a tag. The tag is the policy's explicit
// kernel name when one is set, otherwise it is derived from the functor type
// passed to the algorithm. Plain funcs and closures have no stable identity;
// passing one (for example through BinaryFunc) without WithKernelName fails
// with kernel.ErrAnonymousKernel.
package policy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/born-ml/devpolicy/internal/device"
	"github.com/born-ml/devpolicy/internal/kernel"
	"github.com/born-ml/devpolicy/internal/kernels"
	"github.com/born-ml/devpolicy/internal/logging"
	"github.com/born-ml/devpolicy/internal/metrics"
)

const defaultLocalSize = 256

// Policy is an execution policy. It is an immutable value and may be copied
// freely; copies share the queue.
type Policy struct {
	queue   device.Queue
	name    kernel.Name
	logger  *logging.Logger
	metrics metrics.Collector
	local   int
	ctx     context.Context //nolint:containedctx // the policy is a per-call-site value
}

// Option configures a Policy.
type Option func(*Policy)

// WithKernelName sets an explicit kernel identity tag.
func WithKernelName(name string) Option {
	return func(p *Policy) {
		p.name = kernel.Named(name)
	}
}

// WithLogger sets the logger used for dispatch records.
func WithLogger(l *logging.Logger) Option {
	return func(p *Policy) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(c metrics.Collector) Option {
	return func(p *Policy) {
		if c != nil {
			p.metrics = c
		}
	}
}

// WithLocalSize overrides the work-group size. By default the queue's
// maximum local size is used.
func WithLocalSize(n int) Option {
	return func(p *Policy) {
		p.local = n
	}
}

// WithContext sets the context passed to the device queue.
func WithContext(ctx context.Context) Option {
	return func(p *Policy) {
		if ctx != nil {
			p.ctx = ctx
		}
	}
}

// New creates a policy submitting to q.
func New(q device.Queue, opts ...Option) Policy {
	p := Policy{
		queue:   q,
		logger:  logging.NoopLogger(),
		metrics: metrics.Noop{},
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithKernelName returns a copy of p carrying an explicit kernel identity
// tag. p itself is unchanged.
func (p Policy) WithKernelName(name string) Policy {
	p.name = kernel.Named(name)
	return p
}

// KernelName returns the policy's kernel identity tag.
func (p Policy) KernelName() kernel.Name {
	return p.name
}

// Queue returns the device queue the policy submits to.
func (p Policy) Queue() device.Queue {
	return p.queue
}

// Context returns the context passed to the device queue.
func (p Policy) Context() context.Context {
	return p.ctx
}

func (p Policy) check() error {
	if p.queue == nil || !p.queue.Valid() {
		return device.ErrInvalidQueue
	}
	return nil
}

// localSize returns the work-group size, clamped to the device maximum.
func (p Policy) localSize() int {
	limit := p.queue.Info().MaxLocalSize
	if limit <= 0 {
		limit = defaultLocalSize
	}
	if p.local > 0 {
		return min(p.local, limit)
	}
	return limit
}

// observe records one algorithm call and wraps its error. tag is the
// resolved kernel tag, unnamed when the call failed before resolution.
func (p Policy) observe(algorithm, variant string, n int, tag *kernel.Name, start time.Time, errp *error) {
	err := *errp
	p.metrics.RecordSubmit(algorithm, variant, n, time.Since(start), err)
	logger := p.logger
	if !tag.IsUnnamed() {
		logger = logger.WithKernel(tag.String())
	}
	logger.LogDispatch(p.ctx, algorithm, variant, n, err)
	if err != nil {
		*errp = fmt.Errorf("policy: %s: %w", algorithm, err)
	}
}

// program returns the kernel program of one algorithm call over elements of
// type T. ops are the callables compiled into the kernel.
func program[T any](p Policy, algorithm string, tag kernel.Name, expr string, ops ...any) kernels.Program {
	prints := make([]string, len(ops))
	for i, op := range ops {
		prints[i] = kernel.Fingerprint(op)
	}
	return kernels.Program{
		ID:          kernel.ID[T](algorithm, tag),
		Fingerprint: strings.Join(prints, ","),
		Local:       p.localSize(),
		Expr:        expr,
	}
}
