// Package workers provides a bounded worker pool for concurrent probe
// execution in netsweep. It fans tasks out across a fixed number of
// workers, guarantees exactly one result per submitted task, and supports
// cooperative cancellation that discards late results.
package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avrost/netsweep/internal/errors"
	"github.com/avrost/netsweep/internal/logging"
	"github.com/avrost/netsweep/internal/metrics"
)

// Task is a unit of probe work. Run must always return a value: probe
// failures are encoded in R, never as task failures, so the pool can
// guarantee one result per task.
type Task[R any] struct {
	// Index is the submission index, used by the aggregator to restore
	// deterministic ordering after unordered completion.
	Index int
	// Label identifies the target for logging and metrics.
	Label string
	// Kind is the task type for metrics ("host_probe", "port_probe").
	Kind string
	// Run executes the probe. It must honor ctx cancellation and its own
	// timeout discipline; it never blocks indefinitely.
	Run func(ctx context.Context) R
}

// Result is the completion record for a single task.
type Result[R any] struct {
	Index    int
	Label    string
	Value    R
	Duration time.Duration
}

// Config holds configuration for the worker pool.
type Config struct {
	// Size is the number of worker goroutines to create.
	Size int
	// QueueSize is the maximum number of tasks that can be queued.
	QueueSize int
	// ShutdownTimeout is the maximum time to wait for workers to finish.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a default worker pool configuration.
func DefaultConfig() Config {
	return Config{
		Size:            10,
		QueueSize:       256,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Stats holds pool accounting counters.
type Stats struct {
	Submitted int64
	Completed int64
	Discarded int64
}

// Pool manages a fixed set of worker goroutines executing probe tasks.
type Pool[R any] struct {
	config  Config
	tasks   chan Task[R]
	results chan Result[R]
	workers int

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	startOnce sync.Once
	closeOnce sync.Once

	stopped int32 // atomic: results produced after Stop are discarded
	sealed  int32 // atomic: no further submissions accepted

	submitted int64
	completed int64
	discarded int64
}

// New creates a new worker pool with the given configuration.
func New[R any](config Config) *Pool[R] {
	if config.Size <= 0 {
		config.Size = DefaultConfig().Size
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultConfig().QueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool[R]{
		config:  config,
		tasks:   make(chan Task[R], config.QueueSize),
		results: make(chan Result[R], config.QueueSize),
		workers: config.Size,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker goroutines.
func (p *Pool[R]) Start() {
	p.startOnce.Do(func() {
		logging.Debug("Starting worker pool",
			"worker_count", p.workers,
			"queue_size", p.config.QueueSize)

		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.run(i)
		}

		go func() {
			p.wg.Wait()
			close(p.results)
		}()

		metrics.Gauge(metrics.MetricPoolSize, float64(p.workers), metrics.Labels{
			metrics.LabelComponent: "workers",
		})
		metrics.GetGlobalMetrics().SetPoolWorkers(p.workers)
	})
}

// Submit adds a task to the pool queue. It never blocks: a full queue is a
// resource limit violation reported as a pool exhaustion error.
func (p *Pool[R]) Submit(task Task[R]) error {
	if atomic.LoadInt32(&p.sealed) == 1 {
		return errors.NewScanError(errors.CodePoolExhaustion, "worker pool is closed")
	}

	select {
	case p.tasks <- task:
		atomic.AddInt64(&p.submitted, 1)
		metrics.Counter(metrics.MetricTasksSubmitted, metrics.Labels{"kind": task.Kind})
		return nil
	case <-p.ctx.Done():
		return errors.NewScanError(errors.CodePoolExhaustion, "worker pool is shutting down")
	default:
		return errors.NewScanError(errors.CodePoolExhaustion, "task queue is full")
	}
}

// Close seals the pool: no further submissions are accepted and workers
// exit once the queue drains. The results channel closes after the last
// result is delivered.
func (p *Pool[R]) Close() {
	if !atomic.CompareAndSwapInt32(&p.sealed, 0, 1) {
		return
	}
	p.closeOnce.Do(func() {
		close(p.tasks)
	})
}

// Stop requests cooperative cancellation. New dispatch halts immediately;
// already-running probes finish or time out but their results are
// discarded. Stop implies Close.
func (p *Pool[R]) Stop() {
	atomic.StoreInt32(&p.stopped, 1)
	p.Close()
	p.cancel()
	logging.Debug("Worker pool stop requested")
}

// Stopped reports whether cancellation was requested.
func (p *Pool[R]) Stopped() bool {
	return atomic.LoadInt32(&p.stopped) == 1
}

// Results returns the completion stream. The channel closes once every
// submitted task has either produced a result or been discarded after
// cancellation.
func (p *Pool[R]) Results() <-chan Result[R] {
	return p.results
}

// Wait blocks until all workers have exited.
func (p *Pool[R]) Wait() {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	timeout := p.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ShutdownTimeout
	}

	select {
	case <-done:
	case <-time.After(timeout):
		logging.Warn("Worker pool shutdown timeout, forcing termination")
		p.cancel()
		<-done
	}
}

// GetStats returns a snapshot of pool accounting counters.
func (p *Pool[R]) GetStats() Stats {
	return Stats{
		Submitted: atomic.LoadInt64(&p.submitted),
		Completed: atomic.LoadInt64(&p.completed),
		Discarded: atomic.LoadInt64(&p.discarded),
	}
}

// run executes the worker loop.
func (p *Pool[R]) run(id int) {
	defer p.wg.Done()

	logging.Debug("Worker started", "worker_id", id)
	defer logging.Debug("Worker stopped", "worker_id", id)

	for {
		select {
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			if atomic.LoadInt32(&p.stopped) == 1 {
				// Cancellation halts dispatch of queued tasks.
				p.discard(task)
				continue
			}
			p.execute(task)

		case <-p.ctx.Done():
			p.drain()
			return
		}
	}
}

// execute runs a single task and delivers its result unless the pool was
// stopped while the probe was in flight.
func (p *Pool[R]) execute(task Task[R]) {
	start := time.Now()
	value := task.Run(p.ctx)
	duration := time.Since(start)

	if atomic.LoadInt32(&p.stopped) == 1 {
		p.discard(task)
		return
	}

	result := Result[R]{
		Index:    task.Index,
		Label:    task.Label,
		Value:    value,
		Duration: duration,
	}

	select {
	case p.results <- result:
		atomic.AddInt64(&p.completed, 1)
		metrics.Counter(metrics.MetricTasksCompleted, metrics.Labels{"kind": task.Kind})
		metrics.GetGlobalMetrics().IncrementTasksCompleted(task.Kind)
	case <-p.ctx.Done():
		p.discard(task)
	}
}

// discard accounts for a task whose result is dropped after cancellation.
func (p *Pool[R]) discard(task Task[R]) {
	atomic.AddInt64(&p.discarded, 1)
	metrics.Counter(metrics.MetricTasksDiscarded, metrics.Labels{"kind": task.Kind})
	metrics.GetGlobalMetrics().IncrementTasksDiscarded(task.Kind)
	logging.DebugProbe("Probe result discarded after cancellation", task.Label, "kind", task.Kind)
}

// drain discards any tasks still queued when the context is canceled so the
// accounting invariant (submitted == completed + discarded) holds.
func (p *Pool[R]) drain() {
	for {
		select {
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			p.discard(task)
		default:
			return
		}
	}
}
