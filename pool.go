package poissonblend

import (
	"log"
	"sync"
)

// Pool runs submitted jobs on a fixed set of worker goroutines. Submission never blocks.
type Pool struct {
	mu     sync.Mutex
	jobs   chan func()
	closed bool
	wg     sync.WaitGroup
}

// NewPool starts workers goroutines with room for queue pending jobs.
func NewPool(workers, queue int) *Pool {
	workers = max(1, workers)
	queue = max(NumChannels, queue)
	p := &Pool{jobs: make(chan func(), queue)}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

// NewPoolFromOptions sizes the pool from opt.Workers and opt.QueueSize.
func NewPoolFromOptions(opt Options) *Pool {
	return NewPool(opt.Workers, opt.QueueSize)
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.run(job)
	}
}

func (p *Pool) run(job func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("poissonblend: job panicked: %v", r)
		}
	}()
	job()
}

// Submit queues a single job.
func (p *Pool) Submit(job func()) error {
	return p.SubmitAll(job)
}

// SubmitAll queues every job or none of them. It fails with ErrQueueFull when the queue
// cannot hold the whole batch.
func (p *Pool) SubmitAll(jobs ...func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	if cap(p.jobs)-len(p.jobs) < len(jobs) {
		return ErrQueueFull
	}
	// Workers only drain the queue, so the free capacity checked above cannot shrink.
	for _, job := range jobs {
		p.jobs <- job
	}
	return nil
}

// Close stops accepting jobs, runs the queued ones and waits for the workers to exit.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()
	p.wg.Wait()
}
