package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasic(t *testing.T) {
	var b Basic
	b.RecordSubmit("sort", "bitonic", 8, 2*time.Millisecond, nil)
	b.RecordSubmit("sort", "sequential", 7, 4*time.Millisecond, nil)
	b.RecordSubmit("reduce", "group", 100, 3*time.Millisecond, errors.New("lost"))

	s := b.Stats()
	assert.Equal(t, int64(3), s.Calls)
	assert.Equal(t, int64(1), s.Errors)
	assert.Equal(t, int64(115), s.Elements)
	assert.Equal(t, 3*time.Millisecond, s.AvgDuration)

	assert.Equal(t, int64(1), b.Variant("sort", "bitonic"))
	assert.Equal(t, int64(1), b.Variant("sort", "sequential"))
	assert.Equal(t, int64(0), b.Variant("sort", "tree"))
}

func TestBasic_Empty(t *testing.T) {
	var b Basic
	assert.Equal(t, Stats{}, b.Stats())
}

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg, "devpolicy")
	require.NoError(t, err)

	p.RecordSubmit("inner_product", "tree", 16, time.Millisecond, nil)
	p.RecordSubmit("inner_product", "tree", 16, time.Millisecond, errors.New("x"))

	assert.Equal(t, 2.0, testutil.ToFloat64(p.calls.WithLabelValues("inner_product", "tree")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.errors.WithLabelValues("inner_product", "tree")))
	assert.Equal(t, 32.0, testutil.ToFloat64(p.elements.WithLabelValues("inner_product", "tree")))

	_, err = NewPrometheus(reg, "devpolicy")
	require.Error(t, err, "registering twice on one registry must fail")
}

func TestNoop(t *testing.T) {
	var c Collector = Noop{}
	c.RecordSubmit("sort", "bitonic", 1, 0, nil)
}
