package kernels

import (
	"errors"
	"math/bits"
	"reflect"
	"strconv"
	"strings"

	"github.com/born-ml/devpolicy/internal/device"
)

// ErrNotPowerOfTwo is returned by kernels whose network requires a
// power-of-two element count.
var ErrNotPowerOfTwo = errors.New("kernels: length is not a power of two")

// Shape classifies an input length for algorithm selection.
type Shape int

// Input shapes.
const (
	Arbitrary Shape = iota
	PowerOfTwo
)

// String returns the shape name.
func (s Shape) String() string {
	if s == PowerOfTwo {
		return "power-of-two"
	}
	return "arbitrary"
}

// Classify returns PowerOfTwo when n is 1, 2, 4, 8, ...
func Classify(n int) Shape {
	if n > 0 && bits.OnesCount(uint(n)) == 1 {
		return PowerOfTwo
	}
	return Arbitrary
}

// Expr is implemented by operators that have a WGSL expression over the
// operands a and b (or x for unary operators).
type Expr interface {
	WGSL() string
}

// ExprOf returns the WGSL expression of op, or "" when it has none.
func ExprOf(op any) string {
	if e, ok := op.(Expr); ok {
		return e.WGSL()
	}
	return ""
}

// Program is the identity shared by all launches of one algorithm call.
type Program struct {
	ID          string
	Fingerprint string
	Local       int
	// Expr is the WGSL operator expression. Empty when the operator only
	// exists as Go code.
	Expr string
}

// kernel builds the device kernel of one stage of the program. The
// work-group size is part of the id: shaders are compiled for one size.
func (p Program) kernel(stage string, host func(device.Group, []device.Memory), wgsl string, params ...uint32) *device.Kernel {
	return &device.Kernel{
		ID:          p.ID + "/" + stage + "@" + strconv.Itoa(p.local()),
		Fingerprint: p.Fingerprint + "/" + stage,
		Host:        host,
		WGSL:        wgsl,
		Params:      params,
	}
}

func (p Program) local() int {
	return max(p.Local, 2)
}

// shader fills a WGSL template for programs over float32 with a device
// expression, and returns "" for every other program.
func shader[T any](p Program, tmpl string, local int) string {
	if p.Expr == "" || reflect.TypeFor[T]() != reflect.TypeFor[float32]() {
		return ""
	}
	return strings.NewReplacer(
		"{{LOCAL}}", strconv.Itoa(local),
		"{{EXPR}}", p.Expr,
	).Replace(tmpl)
}
