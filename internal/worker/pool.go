// Package worker provides a small bounded worker pool with a run-inline
// saturation policy: there is no task queue, so when every slot is busy the
// submitting goroutine executes the task itself. Summary requests degrade in
// latency instead of being dropped or queued without bound.
package worker

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Submit after Close has been called.
var ErrClosed = errors.New("worker pool closed")

// Pool is a fixed-capacity worker pool. The zero value is not usable; use New.
type Pool struct {
	slots chan struct{}

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New creates a pool with the given number of slots (minimum 1).
func New(capacity int) *Pool {
	if capacity < 1 {
		capacity = 1
	}
	return &Pool{slots: make(chan struct{}, capacity)}
}

// Submit runs the task on a pool goroutine when a slot is free, or inline on
// the calling goroutine when the pool is saturated. It returns ErrClosed
// once the pool is shut down; tasks themselves are never rejected otherwise.
func (p *Pool) Submit(task func()) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.wg.Add(1)
	p.mu.Unlock()

	select {
	case p.slots <- struct{}{}:
		go func() {
			defer p.wg.Done()
			defer func() { <-p.slots }()
			task()
		}()
	default:
		defer p.wg.Done()
		task()
	}
	return nil
}

// Close stops accepting tasks and waits for in-flight ones to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
}
