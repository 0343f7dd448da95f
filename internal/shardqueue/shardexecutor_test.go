package shardqueue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type noopJob struct{}

func (n noopJob) Run(ctx context.Context) error { return nil }

func TestShardExecutor_SubmitAndStop(t *testing.T) {
	t.Parallel()
	exec := NewShardExecutor(Config{})
	defer exec.Stop()

	if err := exec.Submit(context.Background(), "k1", noopJob{}); err != nil {
		t.Fatalf("submit error: %v", err)
	}
}

func TestShardExecutor_QueueFull(t *testing.T) {
	t.Parallel()
	cfg := Config{QueueSize: 1, Shards: 1, EnqueueTimeout: 10 * time.Millisecond}
	exec := NewShardExecutor(cfg)
	defer exec.Stop()

	blockCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	started := make(chan struct{})
	_ = exec.Submit(context.Background(), "same", JobFunc(func(ctx context.Context) error {
		close(started)
		<-blockCtx.Done()
		return nil
	}))
	<-started

	// Fill the buffer
	_ = exec.Submit(context.Background(), "same", noopJob{})
	err := exec.Submit(context.Background(), "same", noopJob{})
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected queue full error, got %v", err)
	}
}

// FIFO ordering for a single key.
func TestShardExecutor_FIFOOrdering(t *testing.T) {
	t.Parallel()
	p := NewShardExecutor(Config{Shards: 4, QueueSize: 10})
	defer p.Stop()

	var (
		mu    sync.Mutex
		order []int
	)
	for i := 0; i < 5; i++ {
		v := i
		if err := p.Submit(context.Background(), "state", JobFunc(func(ctx context.Context) error {
			mu.Lock()
			order = append(order, v)
			mu.Unlock()
			return nil
		})); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Barrier(ctx, "state"); err != nil {
		t.Fatalf("barrier: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 5 {
		t.Fatalf("expected 5 jobs, got %v", order)
	}
	for i, v := range order {
		if i != v {
			t.Fatalf("expected FIFO order, got %v", order)
		}
	}
}

// No overlap for the same key (serial execution guarantee).
func TestShardExecutor_SerialExecutionSameKey(t *testing.T) {
	t.Parallel()
	const N = 200
	p := NewShardExecutor(Config{Shards: 4, QueueSize: N})
	defer p.Stop()

	var (
		inFlight        int32
		overlapDetected int32
		wg              sync.WaitGroup
	)
	wg.Add(N)
	for i := 0; i < N; i++ {
		go func() {
			defer wg.Done()
			_ = p.Run(context.Background(), "X", JobFunc(func(context.Context) error {
				if atomic.AddInt32(&inFlight, 1) > 1 {
					atomic.StoreInt32(&overlapDetected, 1)
				}
				time.Sleep(50 * time.Microsecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			}))
		}()
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("serial execution test timed out")
	}

	if atomic.LoadInt32(&overlapDetected) == 1 {
		t.Fatal("detected overlapping execution for same key")
	}
}

func TestShardExecutor_RunReturnsJobError(t *testing.T) {
	t.Parallel()
	p := NewShardExecutor(Config{})
	defer p.Stop()

	boom := errors.New("boom")
	if err := p.Run(context.Background(), "k", JobFunc(func(context.Context) error { return boom })); !errors.Is(err, boom) {
		t.Fatalf("expected job error, got %v", err)
	}
}

// A job accepted by Run is applied even when the caller's context ends before it runs.
func TestShardExecutor_RunDetachesCancellation(t *testing.T) {
	t.Parallel()
	p := NewShardExecutor(Config{Shards: 1})
	defer p.Stop()

	release := make(chan struct{})
	started := make(chan struct{})
	_ = p.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	var applied int32
	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Run(ctx, "k", JobFunc(func(jobCtx context.Context) error {
			if jobCtx.Err() != nil {
				return jobCtx.Err()
			}
			atomic.StoreInt32(&applied, 1)
			return nil
		}))
	}()

	// Let Run enqueue, then cancel the caller while the job is still queued.
	time.Sleep(20 * time.Millisecond)
	cancel()
	close(release)

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	if atomic.LoadInt32(&applied) != 1 {
		t.Fatal("job was not applied")
	}
}

func TestShardExecutor_PanicIsReported(t *testing.T) {
	t.Parallel()
	var handled int32
	p := NewShardExecutor(Config{ErrorHandler: func(error) { atomic.AddInt32(&handled, 1) }})
	defer p.Stop()

	err := p.Run(context.Background(), "k", JobFunc(func(context.Context) error { panic("bad job") }))
	var pe *PanicError
	if !errors.As(err, &pe) || pe.Key != "k" {
		t.Fatalf("expected PanicError, got %v", err)
	}
	// Worker keeps serving.
	if err := p.Run(context.Background(), "k", noopJob{}); err != nil {
		t.Fatalf("run after panic: %v", err)
	}
	if atomic.LoadInt32(&handled) != 1 {
		t.Fatalf("error handler calls = %d, want 1", handled)
	}
}

// Panic inside ErrorHandler must be recovered; subsequent jobs still run.
func TestErrorHandler_PanicRecovered(t *testing.T) {
	t.Parallel()
	p := NewShardExecutor(Config{ErrorHandler: func(err error) { panic("handler panic") }})
	defer p.Stop()

	_ = p.Run(context.Background(), "k", JobFunc(func(context.Context) error { return errors.New("boom") }))
	if err := p.Run(context.Background(), "k", noopJob{}); err != nil {
		t.Fatalf("worker did not continue after handler panic: %v", err)
	}
}

// When a job's context is canceled before the worker starts it, Run is skipped.
func TestWorker_SkipsRunForCanceledJob(t *testing.T) {
	t.Parallel()
	var handlerCalls int32
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 2, ErrorHandler: func(error) { atomic.AddInt32(&handlerCalls, 1) }})
	defer ex.Stop()

	blockCtx, unblock := context.WithCancel(context.Background())
	started := make(chan struct{})
	_ = ex.Submit(context.Background(), "k", JobFunc(func(ctx context.Context) error {
		close(started)
		<-blockCtx.Done()
		return nil
	}))
	<-started

	var ran int32
	jobCtx, cancelJob := context.WithCancel(context.Background())
	if err := ex.Submit(jobCtx, "k", JobFunc(func(ctx context.Context) error {
		atomic.StoreInt32(&ran, 1)
		return nil
	})); err != nil {
		t.Fatalf("submit second job: %v", err)
	}
	cancelJob()
	unblock()

	if err := ex.Barrier(context.Background(), "k"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	if atomic.LoadInt32(&ran) == 1 {
		t.Fatal("job Run should not have been called for canceled context")
	}
	if atomic.LoadInt32(&handlerCalls) == 0 {
		t.Fatal("expected error handler to be invoked for canceled job")
	}
}

// Submit after Stop should fail with ErrExecutorClosed.
func TestShardExecutor_SubmitAfterStop(t *testing.T) {
	t.Parallel()
	p := NewShardExecutor(Config{Shards: 2, QueueSize: 2})
	p.Stop()
	p.Stop()

	if err := p.Submit(context.Background(), "Z", noopJob{}); !errors.Is(err, ErrExecutorClosed) {
		t.Fatalf("expected ErrExecutorClosed, got %v", err)
	}
	if err := p.Run(context.Background(), "Z", noopJob{}); !errors.Is(err, ErrExecutorClosed) {
		t.Fatalf("expected ErrExecutorClosed from Run, got %v", err)
	}
}

// Stop racing with many concurrent Run calls never strands a caller.
func TestShardExecutor_StopRun_NoStrandedCallers(t *testing.T) {
	t.Parallel()
	p := NewShardExecutor(Config{Shards: 1, QueueSize: 32})

	var wg sync.WaitGroup
	for i := 0; i < 500; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := p.Run(context.Background(), "state", noopJob{})
			if err != nil && !errors.Is(err, ErrExecutorClosed) && !errors.Is(err, ErrQueueFull) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	go p.Stop()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run callers stranded by Stop")
	}
}

func TestQueueFullError_ErrorAndIs(t *testing.T) {
	t.Parallel()
	e := &QueueFullError{Shard: 3, Length: 10, Capacity: 16}
	if e.Error() == "" {
		t.Fatal("empty error string")
	}
	if !errors.Is(e, ErrQueueFull) {
		t.Fatal("expected errors.Is(e, ErrQueueFull) to be true")
	}
	if errors.Is(e, ErrExecutorClosed) {
		t.Fatal("unexpected match with ErrExecutorClosed")
	}
}
