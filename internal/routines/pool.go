// Package routines provides a simple goroutine pool with a fixed number of
// workers.
package routines

import "sync"

// Pool executes queued work functions with a fixed number of goroutines.
type Pool struct {
	queue  chan func()
	wg     sync.WaitGroup
	closed bool
	mu     sync.Mutex
}

// NewPool starts a pool with workerCount goroutines.
func NewPool(workerCount uint) *Pool {
	p := Pool{
		queue: make(chan func()),
	}

	for i := uint(0); i < workerCount; i++ {
		p.wg.Go(func() {
			for work := range p.queue {
				work()
			}
		})
	}

	return &p
}

// Queue schedules work for execution.
// Calling Queue after Wait() was called panics.
func (p *Pool) Queue(work func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		panic("Queue() called after Wait()")
	}

	p.queue <- work
}

// Wait blocks until all queued work was processed and terminates the
// goroutines of the pool.
// The pool can not be reused afterwards.
func (p *Pool) Wait() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	p.wg.Wait()
}
