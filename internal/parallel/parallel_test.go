package parallel

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestForGroups(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.NumWorkers = 4

	n := 1000
	seen := make([]int32, n)

	err := ForGroups(n, func(i int) error {
		atomic.AddInt32(&seen[i], 1)
		return nil
	}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, c := range seen {
		if c != 1 {
			t.Errorf("group %d ran %d times, want 1", i, c)
		}
	}
}

func TestForGroups_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	var order []int
	err := ForGroups(5, func(i int) error {
		order = append(order, i)
		return nil
	}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, got := range order {
		if got != i {
			t.Errorf("Expected group %d at position %d, got %d", i, i, got)
		}
	}
}

func TestForGroups_ErrorDoesNotStopOtherGroups(t *testing.T) {
	boom := errors.New("boom")

	for _, cfg := range []Config{
		{Enabled: false},
		{Enabled: true, NumWorkers: 3, MinChunkSize: 1},
	} {
		var ran int64
		err := ForGroups(64, func(i int) error {
			atomic.AddInt64(&ran, 1)
			if i == 7 {
				return boom
			}
			return nil
		}, cfg)

		if !errors.Is(err, boom) {
			t.Errorf("Expected boom, got %v", err)
		}
		if ran != 64 {
			t.Errorf("Expected all 64 groups to run, got %d", ran)
		}
	}
}

func TestForGroups_Empty(t *testing.T) {
	called := false
	err := ForGroups(0, func(int) error {
		called = true
		return nil
	}, DefaultConfig())
	if err != nil || called {
		t.Errorf("Expected no calls and no error, got called=%v err=%v", called, err)
	}
}

func BenchmarkForGroups(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			_ = ForGroups(n, func(i int) error {
				atomic.AddInt64(&sum, int64(i))
				return nil
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfgSeq := cfg
		cfgSeq.Enabled = false
		for i := 0; i < b.N; i++ {
			var sum int64
			_ = ForGroups(n, func(i int) error {
				atomic.AddInt64(&sum, int64(i))
				return nil
			}, cfgSeq)
		}
	})
}
