package utils

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
)

var ErrResourceBusy = errors.New("resource busy, try again")

// Throttler bounds the number of callers using a resource at the same time.
// Callers beyond the budget wait in a queue of bounded length.
type Throttler[T any] struct {
	resource *T
	sem      chan struct{}
	queue    atomic.Int32

	maxQueueLen int32
}

func NewThrottler[T any](concurrencyBudget uint, resource *T) *Throttler[T] {
	return &Throttler[T]{
		resource:    resource,
		sem:         make(chan struct{}, concurrencyBudget),
		maxQueueLen: math.MaxInt32,
	}
}

// WithMaxQueueLen sets the maximum length the queue can grow to
func (t *Throttler[T]) WithMaxQueueLen(maxQueueLen int32) *Throttler[T] {
	t.maxQueueLen = maxQueueLen
	return t
}

// Do runs doer with the resource once a slot is free. It fails with
// ErrResourceBusy when the queue is full, or with the context error when ctx
// is done before a slot frees up.
func (t *Throttler[T]) Do(ctx context.Context, doer func(resource *T) error) error {
	if t.queue.Add(1) > t.maxQueueLen {
		t.queue.Add(-1)
		return ErrResourceBusy
	}

	select {
	case t.sem <- struct{}{}:
		t.queue.Add(-1)
	case <-ctx.Done():
		t.queue.Add(-1)
		return ctx.Err()
	}
	defer func() {
		<-t.sem
	}()
	return doer(t.resource)
}

// QueueLen returns the number of Do calls waiting for a slot
func (t *Throttler[T]) QueueLen() int {
	return int(t.queue.Load())
}

// JobsRunning returns the number of Do calls holding a slot
func (t *Throttler[T]) JobsRunning() int {
	return len(t.sem)
}
