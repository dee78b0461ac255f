package affinity

import (
	"fmt"

	"github.com/johnsiilver/calloptions"
)

// Option is an option for New().
type Option interface {
	affinity()
}

type cellOptions[T any] struct {
	teardown func(T) error
}

// WithTeardown registers f as the wrapped value's teardown, run by Close().
// Registering a teardown marks the value as having non-trivial teardown,
// which makes Close() verify the calling goroutine before running it. The
// type parameter must match the cell's; a mismatch is reported by New().
// This can be used as a:
// - Option
func WithTeardown[T any](f func(T) error) interface {
	Option
	calloptions.CallOption
} {
	return struct {
		Option
		calloptions.CallOption
	}{
		CallOption: calloptions.New(
			func(a any) error {
				t, ok := a.(*cellOptions[T])
				if !ok {
					return fmt.Errorf("WithTeardown's type parameter does not match the cell's value type")
				}
				t.teardown = f
				return nil
			},
		),
	}
}
