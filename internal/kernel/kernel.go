// Package kernel resolves the identity under which an algorithm instantiation
// is compiled into a device kernel.
//
// A kernel identity must be unique per program: two submissions that share an
// identity are expected to run the same code. Named functor types already
// carry a unique identity (their type), so it is derived from them. Closures
// and plain funcs do not, and need an explicit Name.
package kernel

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// ErrAnonymousKernel is returned when no identity can be derived for a
// callable and the caller did not supply one.
var ErrAnonymousKernel = errors.New("kernel: anonymous callable requires an explicit kernel name")

// Name is a kernel identity tag. The zero value is Unnamed.
type Name struct {
	s string
}

// Unnamed is the default tag: the identity is derived from the callable.
var Unnamed Name

// Named returns an explicit kernel tag.
func Named(s string) Name {
	return Name{s: s}
}

// IsUnnamed reports whether n is the default tag.
func (n Name) IsUnnamed() bool {
	return n.s == ""
}

// String returns the tag text, or "<unnamed>" for the default tag.
func (n Name) String() string {
	if n.IsUnnamed() {
		return "<unnamed>"
	}
	return n.s
}

// Namer is implemented by callables that name their own kernel.
type Namer interface {
	KernelName() string
}

// Resolve returns the tag a kernel built from op should be compiled under.
//
// An explicit tag always wins. Otherwise the tag comes from op's KernelName
// method or from its named type. Funcs, closures, func-typed adapters and nil
// have no stable identity and yield ErrAnonymousKernel.
func Resolve(tag Name, op any) (Name, error) {
	if !tag.IsUnnamed() {
		return tag, nil
	}
	if op == nil {
		return Unnamed, fmt.Errorf("%w: nil callable", ErrAnonymousKernel)
	}
	if n, ok := op.(Namer); ok {
		if name := n.KernelName(); name != "" {
			return Named(name), nil
		}
	}

	t := reflect.TypeOf(op)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Func || t.Name() == "" {
		return Unnamed, fmt.Errorf("%w: %s", ErrAnonymousKernel, t)
	}
	return Named(typeName(t)), nil
}

// ResolveAll resolves one tag for a kernel built from several callables.
// Each callable must be resolvable on its own unless tag is explicit.
func ResolveAll(tag Name, ops ...any) (Name, error) {
	if !tag.IsUnnamed() {
		return tag, nil
	}
	names := make([]string, 0, len(ops))
	for _, op := range ops {
		n, err := Resolve(Unnamed, op)
		if err != nil {
			return Unnamed, err
		}
		names = append(names, n.s)
	}
	return Named(strings.Join(names, ",")), nil
}

// Fingerprint identifies the program body of op: its type for functors, its
// code entry point for funcs. Closures from one literal share a fingerprint.
func Fingerprint(op any) string {
	if op == nil {
		return "nil"
	}
	v := reflect.ValueOf(op)
	if v.Kind() == reflect.Func {
		return fmt.Sprintf("%s@%#x", v.Type(), v.Pointer())
	}
	t := v.Type()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return typeName(t)
}

// ID composes the device kernel id of an algorithm over elements of type T.
func ID[T any](algorithm string, tag Name) string {
	return fmt.Sprintf("%s<%s>[%s]", algorithm, reflect.TypeFor[T](), tag)
}

// names maps each derived type to its identity. Distinct types whose
// qualified names collide, such as named types declared inside two
// functions of one package, get an ordinal suffix in order of first use.
var names = struct {
	sync.Mutex
	byType map[reflect.Type]string
	taken  map[string]int
}{
	byType: make(map[reflect.Type]string),
	taken:  make(map[string]int),
}

func typeName(t reflect.Type) string {
	base := t.String()
	if t.PkgPath() != "" && t.Name() != "" {
		base = t.PkgPath() + "." + t.Name()
	}

	names.Lock()
	defer names.Unlock()
	if name, ok := names.byType[t]; ok {
		return name
	}
	name := base
	if n := names.taken[base]; n > 0 {
		name = fmt.Sprintf("%s#%d", base, n)
	}
	names.taken[base]++
	names.byType[t] = name
	return name
}
