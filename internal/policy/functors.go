package policy

import "cmp"

// Integer is the set of integer element types.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Number is the set of element types with arithmetic operators.
type Number interface {
	Integer | ~float32 | ~float64
}

// BinaryOp combines two values of one type.
type BinaryOp[T any] interface {
	Apply(a, b T) T
}

// ZipOp combines elements of two ranges into an output element.
type ZipOp[T1, T2, U any] interface {
	Apply(a T1, b T2) U
}

// UnaryOp maps an element to an output element.
type UnaryOp[T, U any] interface {
	Apply(x T) U
}

// Comparator is a strict weak ordering.
type Comparator[T any] interface {
	Less(a, b T) bool
}

// Predicate tests an element.
type Predicate[T any] interface {
	Test(x T) bool
}

// Visitor is applied to elements for side effects.
type Visitor[T any] interface {
	Visit(x *T)
}

// Plus adds two values.
type Plus[T Number] struct{}

// Apply returns a + b.
func (Plus[T]) Apply(a, b T) T { return a + b }

// WGSL returns the device expression.
func (Plus[T]) WGSL() string { return "a + b" }

// Multiplies multiplies two values.
type Multiplies[T Number] struct{}

// Apply returns a * b.
func (Multiplies[T]) Apply(a, b T) T { return a * b }

// WGSL returns the device expression.
func (Multiplies[T]) WGSL() string { return "a * b" }

// Less orders values ascending.
type Less[T cmp.Ordered] struct{}

// Less reports whether a < b.
func (Less[T]) Less(a, b T) bool { return cmp.Less(a, b) }

// WGSL returns the device expression.
func (Less[T]) WGSL() string { return "a < b" }

// Greater orders values descending.
type Greater[T cmp.Ordered] struct{}

// Less reports whether a > b.
func (Greater[T]) Less(a, b T) bool { return cmp.Less(b, a) }

// WGSL returns the device expression.
func (Greater[T]) WGSL() string { return "a > b" }

// Identity returns its argument.
type Identity[T any] struct{}

// Apply returns x.
func (Identity[T]) Apply(x T) T { return x }

// Square multiplies a value by itself.
type Square[T Number] struct{}

// Apply returns x * x.
func (Square[T]) Apply(x T) T { return x * x }

// IsEven tests for even integers.
type IsEven[T Integer] struct{}

// Test reports whether x is even.
func (IsEven[T]) Test(x T) bool { return x%2 == 0 }

// GreaterThan tests whether an element exceeds Threshold.
type GreaterThan[T cmp.Ordered] struct {
	Threshold T
}

// Test reports whether x > Threshold.
func (g GreaterThan[T]) Test(x T) bool { return x > g.Threshold }

// Always accepts every element.
type Always[T any] struct{}

// Test returns true.
func (Always[T]) Test(T) bool { return true }

// Never rejects every element.
type Never[T any] struct{}

// Test returns false.
func (Never[T]) Test(T) bool { return false }

// BinaryFunc adapts a func to BinaryOp. It has no kernel identity of its own.
type BinaryFunc[T any] func(a, b T) T

// Apply calls f(a, b).
func (f BinaryFunc[T]) Apply(a, b T) T { return f(a, b) }

// ZipFunc adapts a func to ZipOp. It has no kernel identity of its own.
type ZipFunc[T1, T2, U any] func(a T1, b T2) U

// Apply calls f(a, b).
func (f ZipFunc[T1, T2, U]) Apply(a T1, b T2) U { return f(a, b) }

// UnaryFunc adapts a func to UnaryOp. It has no kernel identity of its own.
type UnaryFunc[T, U any] func(x T) U

// Apply calls f(x).
func (f UnaryFunc[T, U]) Apply(x T) U { return f(x) }

// CompareFunc adapts a less func to Comparator. It has no kernel identity of
// its own.
type CompareFunc[T any] func(a, b T) bool

// Less calls f(a, b).
func (f CompareFunc[T]) Less(a, b T) bool { return f(a, b) }

// PredicateFunc adapts a func to Predicate. It has no kernel identity of its
// own.
type PredicateFunc[T any] func(x T) bool

// Test calls f(x).
func (f PredicateFunc[T]) Test(x T) bool { return f(x) }

// VisitFunc adapts a func to Visitor. It has no kernel identity of its own.
type VisitFunc[T any] func(x *T)

// Visit calls f(x).
func (f VisitFunc[T]) Visit(x *T) { f(x) }
