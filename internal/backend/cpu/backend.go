// Package cpu implements a device.Queue that emulates a compute device on
// host goroutines. Work-groups run concurrently; the work items of one group
// run sequentially on one goroutine.
package cpu

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/born-ml/devpolicy/internal/device"
	"github.com/born-ml/devpolicy/internal/parallel"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sys/cpu"
)

// Queue is the host device queue.
type Queue struct {
	cfg  Config
	info device.Info

	// order serializes submissions. semaphore.Weighted grants waiters in
	// FIFO order, so kernels run in the order they were submitted.
	order *semaphore.Weighted

	// memory is the device memory budget, nil if unlimited.
	memory *semaphore.Weighted

	// Compiled program cache, keyed by kernel id.
	programs map[string]*program
	mu       sync.RWMutex

	closed atomic.Bool

	stats struct {
		submissions   atomic.Int64
		bytesStaged   atomic.Int64
		activeBuffers atomic.Int64
	}
}

// program is a compiled kernel. Host programs need no translation, so
// compiling only pins the fingerprint behind an id.
type program struct {
	fingerprint string
	launches    atomic.Int64
}

// New creates a host device queue.
func New(opts ...Option) *Queue {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.LocalSize < 1 {
		cfg.LocalSize = defaultLocalSize
	}

	q := &Queue{
		cfg:      cfg,
		order:    semaphore.NewWeighted(1),
		programs: make(map[string]*program),
	}
	if cfg.MemoryLimitBytes > 0 {
		q.memory = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	q.info = device.Info{
		Name:         fmt.Sprintf("Host CPU (%s/%s)", runtime.GOOS, runtime.GOARCH),
		Kind:         device.CPU,
		Vendor:       runtime.GOARCH,
		ComputeUnits: max(cfg.Parallel.NumWorkers, 1),
		MaxLocalSize: cfg.LocalSize,
		Features:     features(),
	}
	return q
}

// Info returns the device description.
func (q *Queue) Info() device.Info {
	return q.info
}

// Valid reports whether the queue accepts work.
func (q *Queue) Valid() bool {
	return !q.closed.Load()
}

// Close invalidates the queue and drops compiled programs.
// Calling Close multiple times is safe.
func (q *Queue) Close() error {
	if q.closed.Swap(true) {
		return nil
	}
	q.mu.Lock()
	q.programs = make(map[string]*program)
	q.mu.Unlock()
	return nil
}

// Submit runs k over nd and blocks until every work-group has finished.
// A panic inside the kernel is returned as device.ErrKernelPanic.
func (q *Queue) Submit(ctx context.Context, k *device.Kernel, nd device.NDRange, args ...device.Memory) error {
	if q.closed.Load() {
		return device.ErrQueueClosed
	}
	if k == nil || k.Host == nil {
		return fmt.Errorf("%w: no host program", device.ErrUnsupportedKernel)
	}
	for i, a := range args {
		b, ok := a.(*buffer)
		if !ok || b.queue != q {
			return fmt.Errorf("%w: argument %d (%T) is not memory of this queue", device.ErrUnsupportedType, i, a)
		}
		if b.released.Load() {
			return fmt.Errorf("cpu: argument %d of %s: %w", i, k.ID, errReleased)
		}
	}

	p, err := q.compile(k)
	if err != nil {
		return err
	}

	if err := q.order.Acquire(ctx, 1); err != nil {
		return err
	}
	defer q.order.Release(1)

	err = parallel.ForGroups(nd.Groups(), func(id int) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %s: %v", device.ErrKernelPanic, k.ID, r)
			}
		}()
		k.Host(device.Group{ID: id, Local: nd.Local, Global: nd.Global, N: nd.N}, args)
		return nil
	}, q.cfg.Parallel)

	p.launches.Add(1)
	q.stats.submissions.Add(1)
	return err
}

// compile returns the cached program for k, registering it on first use.
func (q *Queue) compile(k *device.Kernel) (*program, error) {
	q.mu.RLock()
	p, exists := q.programs[k.ID]
	q.mu.RUnlock()

	if !exists {
		q.mu.Lock()
		if p, exists = q.programs[k.ID]; !exists {
			p = &program{fingerprint: k.Fingerprint}
			q.programs[k.ID] = p
		}
		q.mu.Unlock()
	}

	if p.fingerprint != k.Fingerprint {
		return nil, fmt.Errorf("%w: %s is compiled from %s, not %s",
			device.ErrKernelConflict, k.ID, p.fingerprint, k.Fingerprint)
	}
	return p, nil
}

// Stats is a snapshot of queue activity.
type Stats struct {
	Submissions   int64
	Programs      int
	BytesStaged   int64
	ActiveBuffers int64
}

// Stats returns current queue statistics.
func (q *Queue) Stats() Stats {
	q.mu.RLock()
	programs := len(q.programs)
	q.mu.RUnlock()

	return Stats{
		Submissions:   q.stats.submissions.Load(),
		Programs:      programs,
		BytesStaged:   q.stats.bytesStaged.Load(),
		ActiveBuffers: q.stats.activeBuffers.Load(),
	}
}

// Launches returns how many times the kernel with the given id has run.
func (q *Queue) Launches(id string) int64 {
	q.mu.RLock()
	p, ok := q.programs[id]
	q.mu.RUnlock()
	if !ok {
		return 0
	}
	return p.launches.Load()
}

// features lists the SIMD extensions of the host processor.
func features() []string {
	var fs []string
	add := func(ok bool, name string) {
		if ok {
			fs = append(fs, name)
		}
	}
	add(cpu.X86.HasSSE2, "sse2")
	add(cpu.X86.HasSSE41, "sse4.1")
	add(cpu.X86.HasAVX, "avx")
	add(cpu.X86.HasAVX2, "avx2")
	add(cpu.X86.HasFMA, "fma")
	add(cpu.X86.HasAVX512F, "avx512f")
	add(cpu.ARM64.HasASIMD, "asimd")
	add(cpu.ARM64.HasSVE, "sve")
	add(cpu.ARM64.HasSVE2, "sve2")
	return fs
}
