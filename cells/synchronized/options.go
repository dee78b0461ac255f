package synchronized

import (
	"fmt"

	"github.com/johnsiilver/calloptions"
)

// Option is an option for New().
type Option interface {
	synchronized()
}

type cellOptions struct {
	clearPoison bool
}

// WithPoisonClearing selects the poison policy where a panic inside a
// closure releases the gate and leaves the cell usable, instead of marking
// it poisoned. Only choose this when the wrapped value cannot be observed
// mid-update after a panic. This can be used as a:
// - Option
func WithPoisonClearing() interface {
	Option
	calloptions.CallOption
} {
	return struct {
		Option
		calloptions.CallOption
	}{
		CallOption: calloptions.New(
			func(a any) error {
				t, ok := a.(*cellOptions)
				if !ok {
					return fmt.Errorf("WithPoisonClearing can only be used with synchronized.New")
				}
				t.clearPoison = true
				return nil
			},
		),
	}
}
