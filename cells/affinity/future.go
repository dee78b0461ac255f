package affinity

import (
	"context"
	"fmt"

	"github.com/gostdlib/internals/otel/span"

	"github.com/drewcrawford/send-cells/cells"
	"github.com/drewcrawford/send-cells/cells/internal/goid"
)

var _ cells.Future[int] = &Future[int]{}
var _ cells.Future[int] = &UncheckedFuture[int]{}
var _ cells.Transferable = &Future[int]{}
var _ cells.Transferable = &UncheckedFuture[int]{}

// Future adapts an in-progress computation so that advancing it is bound to
// one goroutine. The Future value itself can be relocated anywhere, handed
// to a scheduler, or stored in shared structures without restriction; only
// Poll is checked. A Poll from the wrong goroutine panics with a
// *cells.AffinityError before the wrapped computation is touched.
type Future[T any] struct {
	inner cells.Future[T]
	id    goid.ID
}

// NewFuture returns a Future wrapping f, bound to the calling goroutine.
func NewFuture[T any](f cells.Future[T]) *Future[T] {
	return &Future[T]{inner: f, id: goid.Current()}
}

// IntoFuture consumes c and returns a Future carrying c's goroutine
// binding, not the calling goroutine's. The consumption itself is not
// checked: moving the computation out of the cell is a relocation, and
// relocation is always allowed.
func IntoFuture[T any](c *Cell[cells.Future[T]]) *Future[T] {
	id := c.id
	return &Future[T]{inner: c.TakeUnchecked(), id: id}
}

// Poll advances the wrapped computation and returns its outcome unchanged.
// It panics with a *cells.AffinityError if called from a goroutine other
// than the bound one, before the computation is touched.
func (f *Future[T]) Poll(ctx context.Context) (T, bool) {
	id := goid.Current()
	if id != f.id {
		panic(&cells.AffinityError{
			Type:    fmt.Sprintf("%T", f.inner),
			Op:      "poll",
			Created: int64(f.id),
			Current: int64(id),
		})
	}

	f.pollEvent(span.Get(ctx))
	return f.inner.Poll(ctx)
}

// pollEvent logs the poll to the current span, if there is one recording.
func (f *Future[T]) pollEvent(spanner span.Span) {
	if !spanner.Span.IsRecording() {
		return
	}
	spanner.Event(
		"Future.Poll() called",
		"pkg", "github.com/drewcrawford/send-cells/cells/affinity",
		"goroutine", int64(f.id),
	)
}

// Transferable implements cells.Transferable.
func (*Future[T]) Transferable() {}

// UncheckedFuture is Future with no stored id and no checks: a transparent
// wrapper holding nothing but the computation. The caller must guarantee
// that Poll only ever runs where the computation is safe to advance.
type UncheckedFuture[T any] struct {
	inner cells.Future[T]
}

// NewUncheckedFuture returns an UncheckedFuture wrapping f.
func NewUncheckedFuture[T any](f cells.Future[T]) *UncheckedFuture[T] {
	return &UncheckedFuture[T]{inner: f}
}

// IntoUncheckedFuture consumes u and returns its computation as an
// UncheckedFuture.
func IntoUncheckedFuture[T any](u *Unchecked[cells.Future[T]]) *UncheckedFuture[T] {
	return &UncheckedFuture[T]{inner: u.Take()}
}

// Poll advances the wrapped computation with no checks of any kind.
func (f *UncheckedFuture[T]) Poll(ctx context.Context) (T, bool) {
	return f.inner.Poll(ctx)
}

// Transferable implements cells.Transferable. The caller's verification is
// what makes the promise true.
func (*UncheckedFuture[T]) Transferable() {}
