// Package perf provides a bounded worker pool for running independent
// entities concurrently
package perf

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

const (
	// defaultQueueMultiplier is the multiplier for task queue size relative to maxWorkers
	defaultQueueMultiplier = 2
)

// ErrPoolStopped is returned when submitting to a stopped pool.
var ErrPoolStopped = fmt.Errorf("worker pool is stopped")

// WorkerPool manages a pool of goroutines for concurrent task execution
type WorkerPool struct {
	maxWorkers int
	taskQueue  chan func()
	wg         sync.WaitGroup
	mu         sync.RWMutex
	stopped    atomic.Bool
	activeJobs atomic.Int32
}

// NewWorkerPool creates a new worker pool with the specified maximum number of workers
func NewWorkerPool(maxWorkers int) (*WorkerPool, error) {
	if maxWorkers <= 0 {
		return nil, fmt.Errorf("maxWorkers must be positive, got %d", maxWorkers)
	}
	return &WorkerPool{
		maxWorkers: maxWorkers,
		taskQueue:  make(chan func(), maxWorkers*defaultQueueMultiplier),
	}, nil
}

// Start starts the worker pool
func (p *WorkerPool) Start() {
	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker runs queued tasks until the queue is closed
func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for task := range p.taskQueue {
		p.activeJobs.Add(1)
		task()
		p.activeJobs.Add(-1)
	}
}

// Submit queues a task, blocking while the queue is full. It fails when
// ctx is done first or the pool is stopped.
func (p *WorkerPool) Submit(ctx context.Context, task func()) error {
	if task == nil {
		return fmt.Errorf("nil task")
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped.Load() {
		return ErrPoolStopped
	}
	select {
	case p.taskQueue <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop closes the queue and waits for every queued task to finish.
// Safe to call multiple times - subsequent calls are no-ops
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if !p.stopped.CompareAndSwap(false, true) {
		p.mu.Unlock()
		return
	}
	close(p.taskQueue)
	p.mu.Unlock()
	p.wg.Wait()
}

// ActiveJobs returns the number of currently active jobs
func (p *WorkerPool) ActiveJobs() int {
	return int(p.activeJobs.Load())
}

// QueueSize returns the current size of the task queue
func (p *WorkerPool) QueueSize() int {
	return len(p.taskQueue)
}

// Batch runs every task on the pool and waits for all of them. The result
// holds one error per task, in task order. A panicking task is reported as
// an error. Tasks not yet queued when ctx is done get ctx's error and are
// never run.
func (p *WorkerPool) Batch(ctx context.Context, tasks []func(context.Context) error) []error {
	errs := make([]error, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		i, task := i, task
		wg.Add(1)
		err := p.Submit(ctx, func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("task %d panic: %v", i, r)
				}
			}()
			errs[i] = task(ctx)
		})
		if err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()
	return errs
}
