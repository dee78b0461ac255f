/*
Package synchronized provides cells that share a single value between
goroutines behind an exclusive mutex gate. The gate guards no payload of its
own; it exists purely for mutual exclusion around the wrapped value.

Access is closure-scoped only. With and WithMut acquire the gate, run the
caller's function against the value, and release on every exit path,
including a panic inside the function. No guard object is ever returned, so
the gate cannot be held across a suspension point by accident, which is the
usual way callers in cooperatively scheduled code end up deadlocked or
inverted in priority.

A panic while the gate is held poisons the cell: every later acquisition
returns ErrPoisoned instead of running the closure, because the value may
have been left mid-update. The WithPoisonClearing() option selects the
other policy, where a panic releases the gate and leaves the cell usable.

Example of a counter shared by 10 goroutines:

	c, err := synchronized.New(0)
	if err != nil {
		// Handle error
	}

	wg := sync.WaitGroup{}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.WithMut(ctx, func(v *int) error {
				*v++
				return nil
			})
		}()
	}
	wg.Wait()

The Unchecked type has the same closure-scoped surface with no gate at all,
for callers whose own synchronization already serializes every access.
*/
package synchronized

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gostdlib/internals/otel/span"
	"github.com/johnsiilver/calloptions"

	"github.com/drewcrawford/send-cells/cells"
)

// ErrPoisoned is returned by With and WithMut after a closure panicked
// while the gate was held. The wrapped value may be mid-update, so the cell
// refuses further access. Test with errors.Is.
var ErrPoisoned = errors.New("cells: synchronized.Cell poisoned by a panic while the gate was held")

var _ cells.Shareable = &Cell[int]{}

// Cell owns a value and the mutex gate that serializes access to it. A Cell
// must not be copied after first use; construct with New and pass the
// pointer around.
type Cell[T any] struct {
	noCopy noCopy

	mu          sync.Mutex
	poisoned    bool
	clearPoison bool
	v           T
}

// New returns a Cell owning v with a fresh gate.
func New[T any](v T, options ...Option) (*Cell[T], error) {
	opts := cellOptions{}
	if err := calloptions.ApplyOptions(&opts, options); err != nil {
		return nil, err
	}

	return &Cell[T]{v: v, clearPoison: opts.clearPoison}, nil
}

// With acquires the gate, calls f with the wrapped value, releases the gate
// and returns f's error. Acquisition blocks while another goroutine holds
// the gate; that contention is ordinary blocking, not an error. If ctx is
// already cancelled With returns ctx.Err() without acquiring. If the cell
// is poisoned With returns ErrPoisoned without calling f.
//
// f must not retain the value past its return if T has pointer-like
// interior: the gate is released the moment With returns.
func (c *Cell[T]) With(ctx context.Context, f func(v T) error) error {
	if err := c.acquire(ctx); err != nil {
		return err
	}
	defer c.release()
	return f(c.v)
}

// WithMut is With with a mutable view: f receives a pointer to the wrapped
// value and may modify it in place.
func (c *Cell[T]) WithMut(ctx context.Context, f func(v *T) error) error {
	if err := c.acquire(ctx); err != nil {
		return err
	}
	defer c.release()
	return f(&c.v)
}

// Take consumes the cell and returns the wrapped value without locking.
// The consuming move is the caller's guarantee of unique ownership: no
// other goroutine may hold a reference to the cell when Take is called,
// and the cell must not be used afterwards.
func (c *Cell[T]) Take() T {
	v := c.v
	var zero T
	c.v = zero
	return v
}

// Shareable implements cells.Shareable. The gate is what makes the promise
// true.
func (*Cell[T]) Shareable() {}

// acquire takes the gate, reporting blocked acquisitions to the current
// span, and surfaces poisoning. On a non-nil return the gate is not held.
func (c *Cell[T]) acquire(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if !c.mu.TryLock() {
		now := time.Now()
		c.mu.Lock()
		c.blockEvent(span.Get(ctx), now)
	}

	if c.poisoned {
		if !c.clearPoison {
			c.mu.Unlock()
			return ErrPoisoned
		}
		c.poisoned = false
	}
	return nil
}

// release drops the gate. If the closure panicked, the cell is poisoned
// (unless the clearing policy was selected) and the panic continues after
// the gate is released.
func (c *Cell[T]) release() {
	if r := recover(); r != nil {
		if !c.clearPoison {
			c.poisoned = true
		}
		c.mu.Unlock()
		panic(r)
	}
	c.mu.Unlock()
}

func (c *Cell[T]) blockEvent(spanner span.Span, t time.Time) {
	if !spanner.Span.IsRecording() {
		return
	}
	spanner.Event(
		"Cell gate blocked",
		"pkg", "github.com/drewcrawford/send-cells/cells/synchronized",
		"wait_ns", time.Since(t),
	)
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
