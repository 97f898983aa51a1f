// Package chain implements ordered, append-only interceptor chains.
//
// A chain is run as a strict left-to-right fold: each interceptor receives
// the previous output, one at a time, and the first error stops the run.
package chain

import (
	"context"
	"sync"
)

// Func transforms a value. Returning the zero value with a nil error keeps
// the input unchanged.
type Func[T comparable] func(ctx context.Context, v T) (T, error)

// Chain is an ordered sequence of Func. The zero value is ready to use and
// safe for concurrent Append and Run.
type Chain[T comparable] struct {
	mu  sync.RWMutex
	fns []Func[T]
}

// Append adds fn at the end of the chain. A nil fn is ignored.
func (c *Chain[T]) Append(fn Func[T]) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.fns = append(c.fns, fn)
	c.mu.Unlock()
}

// Len returns the number of interceptors.
func (c *Chain[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.fns)
}

// Snapshot returns a copy of the current interceptors.
func (c *Chain[T]) Snapshot() []Func[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Func[T](nil), c.fns...)
}

// Run folds v through the interceptors present when Run is called.
// The first error is returned as is, together with the last good value.
func (c *Chain[T]) Run(ctx context.Context, v T) (T, error) {
	var zero T
	for _, fn := range c.Snapshot() {
		out, err := fn(ctx, v)
		if err != nil {
			return v, err
		}
		if out != zero {
			v = out
		}
	}
	return v, nil
}
