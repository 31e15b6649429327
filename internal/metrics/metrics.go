// Package metrics records device submissions made by execution policies.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector receives one record per algorithm call.
// Implement this interface to integrate with monitoring systems.
type Collector interface {
	// RecordSubmit is called after each algorithm call. variant names the
	// dispatch branch (e.g. "bitonic", "sequential"), n is the input length
	// and err is nil if the call succeeded.
	RecordSubmit(algorithm, variant string, n int, duration time.Duration, err error)
}

// Noop is a no-op Collector.
type Noop struct{}

// RecordSubmit implements Collector.
func (Noop) RecordSubmit(string, string, int, time.Duration, error) {}

// Basic provides simple in-memory metrics collection.
type Basic struct {
	Calls      atomic.Int64
	Errors     atomic.Int64
	Elements   atomic.Int64
	TotalNanos atomic.Int64

	mu       sync.Mutex
	variants map[string]int64
}

// RecordSubmit implements Collector.
func (b *Basic) RecordSubmit(algorithm, variant string, n int, duration time.Duration, err error) {
	b.Calls.Add(1)
	b.Elements.Add(int64(n))
	b.TotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.Errors.Add(1)
	}

	b.mu.Lock()
	if b.variants == nil {
		b.variants = make(map[string]int64)
	}
	b.variants[algorithm+"/"+variant]++
	b.mu.Unlock()
}

// Variant returns how many calls of algorithm were dispatched to variant.
func (b *Basic) Variant(algorithm, variant string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.variants[algorithm+"/"+variant]
}

// Stats is a point-in-time snapshot of a Basic collector.
type Stats struct {
	Calls       int64
	Errors      int64
	Elements    int64
	AvgDuration time.Duration
}

// Stats returns a snapshot of the collected metrics.
func (b *Basic) Stats() Stats {
	s := Stats{
		Calls:    b.Calls.Load(),
		Errors:   b.Errors.Load(),
		Elements: b.Elements.Load(),
	}
	if s.Calls > 0 {
		s.AvgDuration = time.Duration(b.TotalNanos.Load() / s.Calls)
	}
	return s
}
