package affinity

import (
	"github.com/drewcrawford/send-cells/cells"
)

var _ cells.Transferable = &Unchecked[int]{}

// Unchecked owns a value and nothing else. It is the zero-overhead form of
// Cell: no goroutine id is stored and no operation performs any check, so
// the caller must independently guarantee that every access happens on a
// goroutine where the value is safe to touch. Misuse is not detected.
type Unchecked[T any] struct {
	v T
}

// NewUnchecked returns an Unchecked cell owning v.
func NewUnchecked[T any](v T) *Unchecked[T] {
	return &Unchecked[T]{v: v}
}

// Get returns a pointer to the wrapped value for reading or writing.
func (u *Unchecked[T]) Get() *T {
	return &u.v
}

// Set replaces the wrapped value.
func (u *Unchecked[T]) Set(v T) {
	u.v = v
}

// Take returns the wrapped value. The cell must not be used afterwards.
func (u *Unchecked[T]) Take() T {
	v := u.v
	var zero T
	u.v = zero
	return v
}

// Transferable implements cells.Transferable. The caller's verification is
// what makes the promise true.
func (*Unchecked[T]) Transferable() {}
