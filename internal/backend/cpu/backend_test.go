package cpu

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/born-ml/devpolicy/internal/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func double(g device.Group, args []device.Memory) {
	data := device.HostSlice[int32](args[0])
	lo, hi := g.Range()
	for i := lo; i < hi; i++ {
		data[i] *= 2
	}
}

func TestQueueInterface(t *testing.T) {
	var _ device.Queue = (*Queue)(nil)
	var _ device.HostMemory = (*buffer)(nil)
}

func TestNew(t *testing.T) {
	q := New(WithLocalSize(64), WithComputeUnits(3))
	defer q.Close()

	info := q.Info()
	assert.Equal(t, device.CPU, info.Kind)
	assert.Equal(t, 64, info.MaxLocalSize)
	assert.Equal(t, 3, info.ComputeUnits)
	assert.NotEmpty(t, info.Name)
	assert.True(t, q.Valid())
}

func TestUploadSubmitDownload(t *testing.T) {
	ctx := context.Background()
	q := New(WithLocalSize(4), WithComputeUnits(4))
	defer q.Close()

	src := []int32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	buf, err := device.Stage(ctx, q, src)
	require.NoError(t, err)
	defer buf.Release()
	assert.Equal(t, len(src), buf.Len())

	k := &device.Kernel{ID: "double", Fingerprint: "double", Host: double}
	require.NoError(t, q.Submit(ctx, k, device.NewNDRange(len(src), 4), buf))

	got := make([]int32, len(src))
	require.NoError(t, device.Fetch(ctx, q, buf, got))
	assert.Equal(t, []int32{2, 4, 6, 8, 10, 12, 14, 16, 18, 20}, got)
	assert.Equal(t, []int32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, src, "upload must stage a copy")

	assert.Equal(t, int64(1), q.Launches("double"))
	stats := q.Stats()
	assert.Equal(t, int64(1), stats.Submissions)
	assert.Equal(t, 1, stats.Programs)
	assert.Equal(t, int64(40), stats.BytesStaged)
}

func TestAlloc(t *testing.T) {
	ctx := context.Background()
	q := New()
	defer q.Close()

	m, err := device.Allocate[float64](ctx, q, 3)
	require.NoError(t, err)
	defer m.Release()
	assert.Equal(t, []float64{0, 0, 0}, device.HostSlice[float64](m))

	_, err = q.Alloc(ctx, nil, 3)
	require.ErrorIs(t, err, device.ErrUnsupportedType)

	_, err = q.Upload(ctx, 42)
	require.ErrorIs(t, err, device.ErrUnsupportedType)
}

func TestDownloadTypeMismatch(t *testing.T) {
	ctx := context.Background()
	q := New()
	defer q.Close()

	m, err := device.Stage(ctx, q, []int32{1, 2})
	require.NoError(t, err)
	defer m.Release()

	err = q.Download(ctx, m, make([]int64, 2))
	require.ErrorIs(t, err, device.ErrUnsupportedType)

	err = q.Download(ctx, m, make([]int32, 3))
	require.Error(t, err)
}

func TestSubmit_KernelConflict(t *testing.T) {
	ctx := context.Background()
	q := New()
	defer q.Close()

	buf, err := device.Stage(ctx, q, []int32{1})
	require.NoError(t, err)
	defer buf.Release()

	first := &device.Kernel{ID: "op", Fingerprint: "a", Host: double}
	second := &device.Kernel{ID: "op", Fingerprint: "b", Host: double}

	require.NoError(t, q.Submit(ctx, first, device.Single(), buf))
	err = q.Submit(ctx, second, device.Single(), buf)
	require.ErrorIs(t, err, device.ErrKernelConflict)
}

func TestSubmit_Panic(t *testing.T) {
	ctx := context.Background()
	q := New(WithComputeUnits(2))
	defer q.Close()

	buf, err := device.Stage(ctx, q, []int32{1, 2, 3})
	require.NoError(t, err)
	defer buf.Release()

	var ran atomic.Int32
	k := &device.Kernel{ID: "boom", Fingerprint: "boom", Host: func(g device.Group, args []device.Memory) {
		ran.Add(1)
		if g.ID == 1 {
			_ = device.HostSlice[int32](args[0])[100]
		}
	}}
	err = q.Submit(ctx, k, device.NewNDRange(3, 1), buf)
	require.ErrorIs(t, err, device.ErrKernelPanic)
	assert.Equal(t, int32(3), ran.Load(), "the other work-groups still run")
}

func TestSubmit_Rejects(t *testing.T) {
	ctx := context.Background()
	q := New()
	other := New()
	defer other.Close()

	foreign, err := device.Stage(ctx, other, []int32{1})
	require.NoError(t, err)

	err = q.Submit(ctx, &device.Kernel{ID: "x"}, device.Single())
	require.ErrorIs(t, err, device.ErrUnsupportedKernel)

	k := &device.Kernel{ID: "double", Fingerprint: "double", Host: double}
	err = q.Submit(ctx, k, device.Single(), foreign)
	require.ErrorIs(t, err, device.ErrUnsupportedType)

	own, err := device.Stage(ctx, q, []int32{1})
	require.NoError(t, err)
	own.Release()
	err = q.Submit(ctx, k, device.Single(), own)
	require.ErrorIs(t, err, errReleased)

	require.NoError(t, q.Close())
	require.NoError(t, q.Close())
	assert.False(t, q.Valid())
	require.ErrorIs(t, q.Submit(ctx, k, device.Single()), device.ErrQueueClosed)
	_, err = q.Upload(ctx, []int32{1})
	require.ErrorIs(t, err, device.ErrQueueClosed)
}

func TestMemoryLimit(t *testing.T) {
	ctx := context.Background()
	q := New(WithMemoryLimit(64))
	defer q.Close()

	a, err := device.Allocate[int64](ctx, q, 6) // 48 bytes
	require.NoError(t, err)

	_, err = device.Allocate[int64](ctx, q, 4) // 32 more bytes
	require.ErrorIs(t, err, device.ErrOutOfMemory)

	a.Release()
	a.Release()
	b, err := device.Allocate[int64](ctx, q, 8)
	require.NoError(t, err)
	b.Release()

	assert.Equal(t, int64(0), q.Stats().ActiveBuffers)
}

func TestSubmit_SerializesConcurrentCallers(t *testing.T) {
	ctx := context.Background()
	q := New(WithComputeUnits(4))
	defer q.Close()

	var running, overlap atomic.Int32
	k := &device.Kernel{ID: "exclusive", Fingerprint: "exclusive", Host: func(device.Group, []device.Memory) {
		if running.Add(1) > 1 {
			overlap.Add(1)
		}
		running.Add(-1)
	}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, q.Submit(ctx, k, device.Single()))
		}()
	}
	wg.Wait()

	assert.Zero(t, overlap.Load(), "single-item kernels from different callers must not overlap")
	assert.Equal(t, int64(8), q.Launches("exclusive"))
}

func TestSubmit_CanceledWhileWaiting(t *testing.T) {
	q := New()
	defer q.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	blocker := &device.Kernel{ID: "block", Fingerprint: "block", Host: func(device.Group, []device.Memory) {
		close(started)
		<-release
	}}

	done := make(chan error)
	go func() { done <- q.Submit(context.Background(), blocker, device.Single()) }()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := q.Submit(ctx, &device.Kernel{ID: "late", Fingerprint: "late", Host: double}, device.Single())
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	require.NoError(t, <-done)
}
