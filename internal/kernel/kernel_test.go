package kernel

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type byAbs struct{}

func (byAbs) Less(a, b int) bool { return abs(a) < abs(b) }

type modLess[T ~int] struct{ mod T }

func (m modLess[T]) Less(a, b T) bool { return a%m.mod < b%m.mod }

type selfNamed struct{ name string }

func (s selfNamed) KernelName() string { return s.name }

type lessFunc func(a, b int) bool

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestResolve_ExplicitTagWins(t *testing.T) {
	tag := Named("my-sort")

	for _, op := range []any{byAbs{}, func(a, b int) bool { return a < b }, nil} {
		got, err := Resolve(tag, op)
		require.NoError(t, err)
		assert.Equal(t, tag, got)
	}
}

func TestResolve_FunctorType(t *testing.T) {
	got, err := Resolve(Unnamed, byAbs{})
	require.NoError(t, err)
	assert.Equal(t, "github.com/born-ml/devpolicy/internal/kernel.byAbs", got.String())

	ptr, err := Resolve(Unnamed, &byAbs{})
	require.NoError(t, err)
	assert.Equal(t, got, ptr, "pointer to functor resolves like the functor")

	generic, err := Resolve(Unnamed, modLess[int]{mod: 3})
	require.NoError(t, err)
	assert.Contains(t, generic.String(), "modLess[int]")
}

func TestResolve_Namer(t *testing.T) {
	got, err := Resolve(Unnamed, selfNamed{name: "custom"})
	require.NoError(t, err)
	assert.Equal(t, Named("custom"), got)

	fallback, err := Resolve(Unnamed, selfNamed{})
	require.NoError(t, err)
	assert.Contains(t, fallback.String(), "selfNamed")
}

func TestResolve_AnonymousCallables(t *testing.T) {
	cases := map[string]any{
		"closure":      func(a, b int) bool { return a < b },
		"func adapter": lessFunc(func(a, b int) bool { return a > b }),
		"nil":          nil,
		"anon struct":  struct{ x int }{1},
	}
	for name, op := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Resolve(Unnamed, op)
			require.ErrorIs(t, err, ErrAnonymousKernel)
			assert.True(t, got.IsUnnamed())
		})
	}
}

func TestResolveAll(t *testing.T) {
	got, err := ResolveAll(Unnamed, byAbs{}, selfNamed{name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "github.com/born-ml/devpolicy/internal/kernel.byAbs,x", got.String())

	_, err = ResolveAll(Unnamed, byAbs{}, func() {})
	require.ErrorIs(t, err, ErrAnonymousKernel)

	explicit, err := ResolveAll(Named("ip"), func() {}, func() {})
	require.NoError(t, err)
	assert.Equal(t, Named("ip"), explicit)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint(byAbs{}), Fingerprint(&byAbs{}))
	assert.Equal(t, Fingerprint(modLess[int]{mod: 3}), Fingerprint(modLess[int]{mod: 5}),
		"functor state is a parameter, not a different program")

	f := func(a, b int) bool { return a < b }
	g := func(a, b int) bool { return a > b }
	assert.Equal(t, Fingerprint(f), Fingerprint(f))
	assert.NotEqual(t, Fingerprint(f), Fingerprint(g))
	assert.Equal(t, "nil", Fingerprint(nil))
}

func TestNameString(t *testing.T) {
	assert.True(t, Unnamed.IsUnnamed())
	assert.Equal(t, "<unnamed>", Unnamed.String())
	assert.False(t, Named("k").IsUnnamed())
	assert.Equal(t, "k", Named("k").String())
}

func TestID(t *testing.T) {
	assert.Equal(t, "sort/bitonic<int32>[by-abs]", ID[int32]("sort/bitonic", Named("by-abs")))
	assert.Equal(t, "reduce<float64>[<unnamed>]", ID[float64]("reduce", Unnamed))
}

func localFunctorA() any {
	type cmpT struct{}
	return cmpT{}
}

func localFunctorB() any {
	type cmpT struct{}
	return cmpT{}
}

func TestResolve_SameNamedLocalTypes(t *testing.T) {
	a, b := localFunctorA(), localFunctorB()
	require.NotEqual(t, reflect.TypeOf(a), reflect.TypeOf(b))

	na, err := Resolve(Unnamed, a)
	require.NoError(t, err)
	nb, err := Resolve(Unnamed, b)
	require.NoError(t, err)

	assert.NotEqual(t, na, nb)
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))

	again, err := Resolve(Unnamed, localFunctorA())
	require.NoError(t, err)
	assert.Equal(t, na, again, "one type always resolves to one identity")
	assert.Equal(t, Fingerprint(a), Fingerprint(localFunctorA()))
}
