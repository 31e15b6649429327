// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package policy provides execution policies that run parallel algorithms on
// a compute device.
//
// The package defines:
//   - Policy: binds a device queue and a kernel identity tag
//   - Algorithms: Reduce, Sort, Transform, ForEach, InnerProduct,
//     TransformReduce and CountIf, each synchronous
//   - Functors: named operator types with a stable kernel identity
//
// Sort and InnerProduct choose their kernel by length: power-of-two ranges
// use a bitonic network or reduction tree, any other length a single
// work-item kernel.
//
// Closures passed through the Func adapters have no kernel identity of their
// own and need an explicit name:
//
//	q := cpu.New()
//	p := policy.New(q)
//	byAbs := policy.CompareFunc[int32](func(a, b int32) bool { return abs(a) < abs(b) })
//	err := policy.SortFunc(p.WithKernelName("by-abs"), data, byAbs)
package policy

import (
	"cmp"
	"context"

	"github.com/born-ml/devpolicy/internal/device"
	"github.com/born-ml/devpolicy/internal/kernel"
	"github.com/born-ml/devpolicy/internal/logging"
	"github.com/born-ml/devpolicy/internal/metrics"
	"github.com/born-ml/devpolicy/internal/policy"
)

// Type aliases for public API

// Policy is an execution policy. It is an immutable value; WithKernelName
// returns a new policy.
type Policy = policy.Policy

// Option configures a Policy.
type Option = policy.Option

// Queue is the device work queue a policy submits to.
type Queue = device.Queue

// Logger is the structured logger used for dispatch records.
type Logger = logging.Logger

// Collector receives one metrics record per algorithm call.
type Collector = metrics.Collector

// Errors surfaced by algorithm calls.
var (
	ErrAnonymousKernel   = kernel.ErrAnonymousKernel
	ErrInvalidQueue      = device.ErrInvalidQueue
	ErrKernelConflict    = device.ErrKernelConflict
	ErrUnsupportedKernel = device.ErrUnsupportedKernel
	ErrOutOfMemory       = device.ErrOutOfMemory
)

// Constraints and operator interfaces.
type (
	Integer              = policy.Integer
	Number               = policy.Number
	BinaryOp[T any]      = policy.BinaryOp[T]
	ZipOp[T1, T2, U any] = policy.ZipOp[T1, T2, U]
	UnaryOp[T, U any]    = policy.UnaryOp[T, U]
	Comparator[T any]    = policy.Comparator[T]
	Predicate[T any]     = policy.Predicate[T]
	Visitor[T any]       = policy.Visitor[T]
)

// Functors.
type (
	Plus[T Number]             = policy.Plus[T]
	Multiplies[T Number]       = policy.Multiplies[T]
	Less[T cmp.Ordered]        = policy.Less[T]
	Greater[T cmp.Ordered]     = policy.Greater[T]
	Identity[T any]            = policy.Identity[T]
	Square[T Number]           = policy.Square[T]
	IsEven[T Integer]          = policy.IsEven[T]
	GreaterThan[T cmp.Ordered] = policy.GreaterThan[T]
	Always[T any]              = policy.Always[T]
	Never[T any]               = policy.Never[T]
)

// Func adapters. They have no kernel identity and need WithKernelName.
type (
	BinaryFunc[T any]      = policy.BinaryFunc[T]
	ZipFunc[T1, T2, U any] = policy.ZipFunc[T1, T2, U]
	UnaryFunc[T, U any]    = policy.UnaryFunc[T, U]
	CompareFunc[T any]     = policy.CompareFunc[T]
	PredicateFunc[T any]   = policy.PredicateFunc[T]
	VisitFunc[T any]       = policy.VisitFunc[T]
)

// New creates a policy submitting to q.
func New(q Queue, opts ...Option) Policy {
	return policy.New(q, opts...)
}

// WithKernelName sets an explicit kernel identity tag.
func WithKernelName(name string) Option {
	return policy.WithKernelName(name)
}

// WithLogger sets the logger used for dispatch records.
func WithLogger(l *Logger) Option {
	return policy.WithLogger(l)
}

// WithMetrics sets the metrics collector.
func WithMetrics(c Collector) Option {
	return policy.WithMetrics(c)
}

// WithLocalSize overrides the work-group size.
func WithLocalSize(n int) Option {
	return policy.WithLocalSize(n)
}

// WithContext sets the context passed to the device queue.
func WithContext(ctx context.Context) Option {
	return policy.WithContext(ctx)
}
