/*
Package cells provides the shared contracts for the cell wrapper packages in
sub-directories. Implementations are in sub-directories and can be used
directly without using this package.

A cell wraps a value whose safe concurrent use normally depends on "only ever
touched by one goroutine" or "needs external synchronization", so the value
can be moved across or shared across goroutines without rewriting the value's
own type. There are two families:

  - affinity: cells bound to the goroutine that created them. The cell itself
    may be moved anywhere, but every checked operation verifies it is running
    on the origin goroutine and panics with a *AffinityError if it is not.

  - synchronized: cells that own a mutex gate and only expose the value
    inside a caller-supplied closure, so the gate can never be held across a
    suspension point.

Both families come in a checked and an unchecked form. The unchecked forms
perform no verification at all and exist for callers that can prove safety
some other way (a platform callback contract, an outer lock) and cannot
afford the check.

Example of moving a goroutine-bound value through other goroutines and back:

	c, _ := affinity.New(conn)

	results := make(chan *affinity.Cell[*Conn], 1)
	go func() {
		// The cell can travel through this goroutine freely, as long as
		// nothing here looks inside it.
		results <- c
	}()

	back := <-results
	back.Get() // Same goroutine that called New, so this is fine.

Example of sharing a single counter between goroutines:

	c, _ := synchronized.New(0)

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
*/
package cells

import (
	"context"
	"fmt"
)

// Future is an in-progress computation advanced incrementally by Poll.
// Poll returns the zero value of T and false while the computation is
// pending, and the result and true once it is ready. A Future carries any
// failure inside T; make T a result struct if the computation can fail.
// Once Poll has returned true, further calls to Poll are undefined.
type Future[T any] interface {
	Poll(ctx context.Context) (T, bool)
}

// Transferable marks a type whose values may be moved between goroutines
// even though the wrapped value could not be on its own. This is a contract,
// not a capability the compiler can verify: the wrapper supplies it either
// by runtime checks or by a caller promise.
type Transferable interface {
	Transferable()
}

// Shareable marks a type whose values may be used from several goroutines
// at once even though the wrapped value could not be on its own.
type Shareable interface {
	Shareable()
}

// AffinityError is the panic payload delivered when a checked operation on
// an affinity-bound wrapper runs on the wrong goroutine. It is always
// delivered by panic and never returned: touching a goroutine-bound value
// from elsewhere is a programming error that the wrapper exists to prevent,
// so there is nothing to recover to.
type AffinityError struct {
	// Type is the type of the wrapped value, as rendered by %T.
	Type string
	// Op is the operation that was attempted (access, write, consume, ...).
	Op string
	// Created is the id of the goroutine the wrapper is bound to.
	Created int64
	// Current is the id of the goroutine that attempted Op.
	Current int64
}

// Error implements error.
func (e *AffinityError) Error() string {
	return fmt.Sprintf(
		"cells: %s of %s from goroutine %d, but it is bound to goroutine %d",
		e.Op, e.Type, e.Current, e.Created,
	)
}
