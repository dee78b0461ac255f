/*
Package affinity provides cells bound to the goroutine that created them.
A Cell may be moved between goroutines freely, stored in shared structures,
or sent down channels, but every checked operation verifies that it is
running on the origin goroutine and panics with a *cells.AffinityError if it
is not. This makes a value that is only safe on one goroutine transferable
in the type-shape sense while keeping the single-goroutine rule enforced.

Example:

	c, err := affinity.New(mustStayHere)
	if err != nil {
		// Handle error
	}

	go func() {
		c.Get() // Panics: wrong goroutine.
	}()

	c.Get() // Fine.

The Unchecked type has the same shape with no stored id and no checks, for
callers that can prove the goroutine discipline some other way.
*/
package affinity

import (
	"fmt"
	"io"

	"github.com/johnsiilver/calloptions"

	"github.com/drewcrawford/send-cells/cells"
	"github.com/drewcrawford/send-cells/cells/internal/goid"
)

var _ cells.Transferable = &Cell[int]{}
var _ io.Closer = &Cell[int]{}

// Cell owns a value plus the id of the goroutine that created it. Checked
// operations delegate to an inner Unchecked cell after verifying the
// calling goroutine, so the checked and unchecked paths observe the value
// identically.
type Cell[T any] struct {
	inner Unchecked[T]
	id    goid.ID

	teardown func(T) error
	taken    bool
}

// New returns a Cell owning v, bound to the calling goroutine.
func New[T any](v T, options ...Option) (*Cell[T], error) {
	opts := cellOptions[T]{}
	if err := calloptions.ApplyOptions(&opts, options); err != nil {
		return nil, err
	}

	return &Cell[T]{
		inner:    Unchecked[T]{v: v},
		id:       goid.Current(),
		teardown: opts.teardown,
	}, nil
}

// Derive returns a new Cell owning v that inherits c's goroutine binding
// instead of capturing the calling goroutine's. This builds related cells
// (a duplicate, a transformed value) without re-deriving the identity. The
// caller must guarantee v is safe to use under the inherited binding, since
// Derive itself performs no check.
func Derive[T, U any](c *Cell[T], v U) *Cell[U] {
	return &Cell[U]{
		inner: Unchecked[U]{v: v},
		id:    c.id,
	}
}

// Get returns a pointer to the wrapped value for reading or writing.
// It panics with a *cells.AffinityError if called from a goroutine other
// than the one the cell is bound to.
func (c *Cell[T]) Get() *T {
	c.check("access")
	return c.GetUnchecked()
}

// GetUnchecked is Get without the goroutine check. The caller must
// guarantee the access is safe.
func (c *Cell[T]) GetUnchecked() *T {
	c.alive()
	return c.inner.Get()
}

// Set replaces the wrapped value. It panics with a *cells.AffinityError if
// called from the wrong goroutine.
func (c *Cell[T]) Set(v T) {
	c.check("write")
	c.SetUnchecked(v)
}

// SetUnchecked is Set without the goroutine check.
func (c *Cell[T]) SetUnchecked(v T) {
	c.alive()
	c.inner.Set(v)
}

// Take consumes the cell and returns the wrapped value. Every operation on
// the cell after Take panics, except Close which becomes a no-op. Take
// panics with a *cells.AffinityError if called from the wrong goroutine.
func (c *Cell[T]) Take() T {
	c.check("consume")
	return c.TakeUnchecked()
}

// TakeUnchecked is Take without the goroutine check.
func (c *Cell[T]) TakeUnchecked() T {
	c.alive()
	c.taken = true
	return c.inner.Take()
}

// Duplicate returns an independent Cell holding a copy of the wrapped value
// and sharing c's goroutine binding. This is only sound for values whose
// duplication is a plain copy with no shared interior state: numbers,
// strings, small value structs. Duplicating a value that shares state with
// its copies puts that state on two cells with one binding, which is the
// caller's contract to avoid.
func (c *Cell[T]) Duplicate() *Cell[T] {
	return Derive(c, *c.GetUnchecked())
}

// Close tears the cell down. If the wrapped value has non-trivial teardown,
// because a WithTeardown option was supplied or because T implements
// io.Closer, Close first verifies the calling goroutine, panicking with a
// *cells.AffinityError before any teardown runs on a mismatch. A value with
// trivial teardown is discarded with no check at all: there is nothing
// unsafe to tear down, so there is no reason to pay for verification.
// Close after Take, or a second Close, is a no-op.
func (c *Cell[T]) Close() error {
	if c.taken {
		return nil
	}

	closer, ok := any(c.inner.v).(io.Closer)
	if c.teardown == nil && !ok {
		c.taken = true
		return nil
	}

	c.check("teardown")
	v := c.TakeUnchecked()
	if c.teardown != nil {
		return c.teardown(v)
	}
	return closer.Close()
}

// String implements fmt.Stringer by formatting the wrapped value. It routes
// through the checked accessor and inherits its panic contract.
func (c *Cell[T]) String() string {
	return fmt.Sprintf("%v", *c.Get())
}

// Transferable implements cells.Transferable. The runtime checks are what
// make the promise true.
func (*Cell[T]) Transferable() {}

// check panics with a *cells.AffinityError if the calling goroutine is not
// the one the cell is bound to. It runs before the wrapped value is touched.
func (c *Cell[T]) check(op string) {
	id := goid.Current()
	if id == c.id {
		return
	}
	panic(&cells.AffinityError{
		Type:    fmt.Sprintf("%T", c.inner.v),
		Op:      op,
		Created: int64(c.id),
		Current: int64(id),
	})
}

// alive panics if the cell was already consumed.
func (c *Cell[T]) alive() {
	if c.taken {
		panic(fmt.Sprintf("cells: affinity.Cell[%T] used after Take", c.inner.v))
	}
}
