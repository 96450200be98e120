package worker

import (
	"context"
	"sync"
)

// Job is a unit of work producing a value of type T
type Job[T any] func(ctx context.Context) T

type indexedJob[T any] struct {
	index int
	job   Job[T]
}

// Pool runs jobs on a fixed number of workers. Results are kept in
// submission order regardless of completion order.
type Pool[T any] struct {
	workers    int
	jobQueue   chan indexedJob[T]
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc

	mu        sync.Mutex
	results   []T
	submitted int
	closeOnce sync.Once
}

// NewPool creates a pool bound to ctx. Cancelling ctx stops dispatch;
// jobs already running see the cancelled context.
func NewPool[T any](ctx context.Context, workers int) *Pool[T] {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool[T]{
		workers:    workers,
		jobQueue:   make(chan indexedJob[T], workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the workers
func (p *Pool[T]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case ij, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := ij.job(p.ctx)
			p.mu.Lock()
			p.results[ij.index] = result
			p.mu.Unlock()
		}
	}
}

// Submit queues a job. It reports false when the pool was cancelled
// before the job could be queued.
func (p *Pool[T]) Submit(job Job[T]) bool {
	if p.ctx.Err() != nil {
		return false
	}

	p.mu.Lock()
	index := p.submitted
	p.submitted++
	var zero T
	p.results = append(p.results, zero)
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- indexedJob[T]{index: index, job: job}:
		return true
	}
}

// Wait closes the queue, waits for the workers and returns one result per
// submitted job. Jobs that never ran leave the zero value.
func (p *Pool[T]) Wait() []T {
	p.closeOnce.Do(func() { close(p.jobQueue) })
	p.wg.Wait()
	p.cancelFunc()

	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]T(nil), p.results...)
}
