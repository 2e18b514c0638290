package capture

import "context"

// Pool is a fixed-size pool of capture resources. Acquire blocks until a
// resource frees up or the context is done; it never spins. The channel is
// the free-list, so mutual exclusion on handout comes for free.
type Pool[T any] struct {
	resources chan T
	size      int
}

// NewPool builds a pool owning the given resources. The pool never grows:
// when all resources are out, callers wait.
func NewPool[T any](resources []T) *Pool[T] {
	p := &Pool[T]{
		resources: make(chan T, len(resources)),
		size:      len(resources),
	}
	for _, r := range resources {
		p.resources <- r
	}
	return p
}

// Acquire hands out a free resource, blocking until one is available.
func (p *Pool[T]) Acquire(ctx context.Context) (T, error) {
	select {
	case r := <-p.resources:
		return r, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Release returns a resource to the pool. Releasing into a full pool means
// something was released twice, which is a programming error.
func (p *Pool[T]) Release(r T) {
	select {
	case p.resources <- r:
	default:
		panic("capture: release into a full pool")
	}
}

// Size returns the fixed capacity of the pool.
func (p *Pool[T]) Size() int {
	return p.size
}

// Idle returns how many resources are currently free.
func (p *Pool[T]) Idle() int {
	return len(p.resources)
}
