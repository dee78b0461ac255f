// Package goid identifies the currently executing goroutine. An ID is stable
// for the goroutine's lifetime and never identifies two live goroutines at
// once, which is all the cell packages need: they compare, they never
// enumerate.
package goid

import "runtime"

// ID is the identity of one goroutine. IDs compare with ==.
type ID int64

// None is the identity reported when the runtime's stack header cannot be
// identified. Every goroutine reports it consistently in that situation, so
// affinity checks degrade to no-ops instead of false positives.
const None ID = 0

// Current returns the ID of the calling goroutine.
//
// The runtime does not expose goroutine ids, so this parses the first line
// of the goroutine's stack trace, which has the fixed form
// "goroutine N [running]:". The buffer is stack allocated and only large
// enough for that first line, keeping the call allocation free.
func Current() ID {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parse(buf[:n])
}

// parse extracts the goroutine id from a stack trace header. It returns None
// if the header does not have the expected shape.
func parse(b []byte) ID {
	const prefix = "goroutine "
	if len(b) <= len(prefix) || string(b[:len(prefix)]) != prefix {
		return None
	}

	var id int64
	for _, c := range b[len(prefix):] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return ID(id)
}
