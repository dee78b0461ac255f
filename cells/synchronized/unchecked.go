package synchronized

import (
	"context"

	"github.com/drewcrawford/send-cells/cells"
)

var _ cells.Shareable = &Unchecked[int]{}

// Unchecked has Cell's closure-scoped surface with no gate: With and
// WithMut call f directly against the value. The caller's own external
// synchronization substitutes for the lock, and nothing here detects its
// absence. Use Cell unless the check cost has been measured and matters.
type Unchecked[T any] struct {
	v T
}

// NewUnchecked returns an Unchecked cell owning v.
func NewUnchecked[T any](v T) *Unchecked[T] {
	return &Unchecked[T]{v: v}
}

// With calls f with the wrapped value and returns f's error. No gate is
// acquired and ctx is not consulted; the signature matches Cell.With so the
// two are interchangeable at call sites.
func (u *Unchecked[T]) With(ctx context.Context, f func(v T) error) error {
	return f(u.v)
}

// WithMut calls f with a pointer to the wrapped value and returns f's
// error.
func (u *Unchecked[T]) WithMut(ctx context.Context, f func(v *T) error) error {
	return f(&u.v)
}

// Take consumes the cell and returns the wrapped value. The cell must not
// be used afterwards.
func (u *Unchecked[T]) Take() T {
	v := u.v
	var zero T
	u.v = zero
	return v
}

// Shareable implements cells.Shareable. The caller's synchronization is
// what makes the promise true.
func (*Unchecked[T]) Shareable() {}
