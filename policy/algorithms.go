// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package policy

import (
	"cmp"

	"github.com/born-ml/devpolicy/internal/policy"
)

// Reduce returns the sum of r.
func Reduce[T Number](p Policy, r []T) (T, error) {
	return policy.Reduce(p, r)
}

// ReduceInit returns init plus the sum of r.
func ReduceInit[T Number](p Policy, r []T, init T) (T, error) {
	return policy.ReduceInit(p, r, init)
}

// ReduceWith folds r into init with op, which must be associative.
func ReduceWith[T any](p Policy, r []T, init T, op BinaryOp[T]) (T, error) {
	return policy.ReduceWith(p, r, init, op)
}

// Sort sorts r in ascending order.
func Sort[T cmp.Ordered](p Policy, r []T) error {
	return policy.Sort(p, r)
}

// SortFunc sorts r in place by comp.
func SortFunc[T any](p Policy, r []T, comp Comparator[T]) error {
	return policy.SortFunc(p, r, comp)
}

// Transform writes op(in[i]) to out[i] and returns len(in).
func Transform[T, U any](p Policy, in []T, out []U, op UnaryOp[T, U]) (int, error) {
	return policy.Transform(p, in, out, op)
}

// TransformBinary writes op(in1[i], in2[i]) to out[i] and returns len(in1).
func TransformBinary[T1, T2, U any](p Policy, in1 []T1, in2 []T2, out []U, op ZipOp[T1, T2, U]) (int, error) {
	return policy.TransformBinary(p, in1, in2, out, op)
}

// ForEach applies f to every element of r.
func ForEach[T any](p Policy, r []T, f Visitor[T]) error {
	return policy.ForEach(p, r, f)
}

// ForEachN applies f to the first n elements of r and returns n.
func ForEachN[T any](p Policy, r []T, n int, f Visitor[T]) (int, error) {
	return policy.ForEachN(p, r, n, f)
}

// InnerProduct returns init plus the sum of a[i]*b[i].
func InnerProduct[T Number](p Policy, a, b []T, init T) (T, error) {
	return policy.InnerProduct(p, a, b, init)
}

// InnerProductWith folds multiply(a[i], b[i]) into init with combine.
func InnerProductWith[T any](p Policy, a, b []T, init T, combine, multiply BinaryOp[T]) (T, error) {
	return policy.InnerProductWith(p, a, b, init, combine, multiply)
}

// TransformReduce applies unary to every element of r and folds the results
// into init with binary.
func TransformReduce[T, U any](p Policy, r []T, unary UnaryOp[T, U], init U, binary BinaryOp[U]) (U, error) {
	return policy.TransformReduce(p, r, unary, init, binary)
}

// CountIf returns the number of elements of r that satisfy pred.
func CountIf[T any](p Policy, r []T, pred Predicate[T]) (int, error) {
	return policy.CountIf(p, r, pred)
}
