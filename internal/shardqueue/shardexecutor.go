// Copyright 2025 The Synapse Authors.
//
// Package shardqueue provides a lightweight sharded work-queue that guarantees
// FIFO order *per key* while allowing parallelism across shards.
//
// The note client uses a single key for all state mutations, which turns the
// executor into one serial dispatch loop: mutations are applied one at a time,
// in submission order, on the worker goroutine.
package shardqueue

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

type queuedJob struct {
	ctx  context.Context
	key  string
	job  Job
	done chan error // buffered(1); nil for fire-and-forget submissions
}

// ShardExecutor executes Jobs on worker goroutines partitioned by a stable hash
// of the key. FIFO ordering is preserved within a shard; jobs with different
// keys may run in parallel.
type ShardExecutor struct {
	cfg    Config
	queues []chan queuedJob // len == cfg.Shards

	// stopping is closed first so pending senders give up; mu then excludes
	// in-flight sends before done is closed and workers drain.
	stopping chan struct{}
	mu       sync.RWMutex
	done     chan struct{} // closed in Stop()
	closed   uint32        // 0 → running, 1 → closed

	wg sync.WaitGroup
}

// NewShardExecutor constructs the executor and starts its shard workers.
func NewShardExecutor(cfg Config) *ShardExecutor {
	// Apply zero-value defaults.
	if cfg.Shards <= 0 {
		cfg.Shards = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 128
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = time.Second
	}

	p := &ShardExecutor{
		cfg:      cfg,
		queues:   make([]chan queuedJob, cfg.Shards),
		stopping: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for i := 0; i < cfg.Shards; i++ {
		ch := make(chan queuedJob, cfg.QueueSize)
		p.queues[i] = ch
		p.wg.Add(1)
		go p.runWorker(i, ch)
	}
	return p
}

// Submit enqueues job for the shard derived from key.
//
//   - Returns nil on success.
//   - Returns ErrExecutorClosed if the executor is stopped.
//   - Returns ErrQueueFull (wrapped in *QueueFullError) if the shard is full
//     after EnqueueTimeout elapses.
//   - Returns ctx.Err() if the caller-provided context is cancelled first.
func (p *ShardExecutor) Submit(ctx context.Context, key string, job Job) error {
	return p.enqueue(ctx, queuedJob{ctx: ctx, key: key, job: job})
}

// Run enqueues job and blocks until it has executed, returning the job's error.
//
// The job runs under a context detached from ctx's cancellation: once accepted
// it is always applied, and Run waits for it even if ctx ends meanwhile. ctx
// only bounds the wait for queue space.
func (p *ShardExecutor) Run(ctx context.Context, key string, job Job) error {
	done := make(chan error, 1)
	qj := queuedJob{ctx: context.WithoutCancel(ctx), key: key, job: job, done: done}
	if err := p.enqueue(ctx, qj); err != nil {
		return err
	}
	return <-done
}

// Barrier enqueues a no-op job on the shard for key and waits until it runs,
// ensuring all previously submitted jobs for that key have completed.
func (p *ShardExecutor) Barrier(ctx context.Context, key string) error {
	done := make(chan struct{})
	j := JobFunc(func(context.Context) error {
		close(done)
		return nil
	})
	if err := p.Submit(ctx, key, j); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Stop signals every worker to finish draining its current queue, waits for
// them to terminate, and then returns. It is idempotent and safe for
// concurrent use.
func (p *ShardExecutor) Stop() {
	if !atomic.CompareAndSwapUint32(&p.closed, 0, 1) {
		return // already closed
	}

	log.Debug().Int("shards", p.cfg.Shards).Msg("shardqueue: stopping executor")

	close(p.stopping)
	p.mu.Lock()
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()

	log.Debug().Msg("shardqueue: executor stopped, all queues drained")
}

// Close lets ShardExecutor satisfy io.Closer.
func (p *ShardExecutor) Close() error {
	p.Stop()
	return nil
}

// ------------------------- internals -------------------------

func (p *ShardExecutor) enqueue(ctx context.Context, qj queuedJob) error {
	// Fast check to avoid accepting work after Stop().
	if atomic.LoadUint32(&p.closed) == 1 {
		return ErrExecutorClosed
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	select {
	case <-p.stopping:
		return ErrExecutorClosed
	default:
	}

	shard := p.shardFor(qj.key)
	ch := p.queues[shard]

	timer := time.NewTimer(p.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- qj:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil

	case <-p.stopping: // Stop() may be called while waiting for space
		return ErrExecutorClosed

	case <-ctx.Done():
		return ctx.Err()

	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{
			Shard:    shard,
			Length:   len(ch),
			Capacity: cap(ch),
		}
	}
}

func (p *ShardExecutor) runWorker(idx int, ch <-chan queuedJob) {
	defer p.wg.Done()

	label := labelFor(idx)

	for {
		select {
		case qj := <-ch:
			p.execute(label, qj)
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-p.done:
			// Drain remaining jobs, preserving FIFO, then exit.
			drained := 0
			for {
				select {
				case qj := <-ch:
					p.execute(label, qj)
					drained++
				default:
					if drained > 0 {
						log.Debug().Int("worker", idx).Int("drained", drained).Msg("shardqueue: drained remaining jobs")
					}
					queueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		}
	}
}

// execute runs one job, recovering panics so a single bad job cannot stop the shard.
func (p *ShardExecutor) execute(label string, qj queuedJob) {
	if qj.job == nil {
		if qj.done != nil {
			qj.done <- nil
		}
		return
	}

	var err error
	// Honour caller context so a cancelled job doesn't stall the shard.
	if cerr := qj.ctx.Err(); cerr != nil {
		err = cerr
	} else {
		start := time.Now()
		err = p.runJob(qj)
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	}

	if err != nil {
		jobFailuresTotal.WithLabelValues(label).Inc()
		p.safeHandleError(err)
	}
	if qj.done != nil {
		qj.done <- err
	}
}

func (p *ShardExecutor) runJob(qj queuedJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("key", qj.key).Str("panic", fmt.Sprint(r)).Msg("shardqueue: job panic")
			err = &PanicError{Key: qj.key, Value: r}
		}
	}()
	return qj.job.Run(qj.ctx)
}

func (p *ShardExecutor) safeHandleError(err error) {
	if err == nil || p.cfg.ErrorHandler == nil {
		return
	}
	func() {
		// Guard against panics in the user-supplied handler.
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("panic", fmt.Sprint(r)).Msg("shardqueue: error handler panic")
			}
		}()
		p.cfg.ErrorHandler(err)
	}()
}

func (p *ShardExecutor) shardFor(key string) int {
	h := fnv.New32a() // fast and sufficient at our scale
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(p.cfg.Shards))
}
