package goid

import (
	"sync"
	"testing"
)

func TestCurrentStable(t *testing.T) {
	first := Current()
	if first == None {
		t.Fatalf("TestCurrentStable: Current() returned None on a normal runtime")
	}
	for i := 0; i < 100; i++ {
		if got := Current(); got != first {
			t.Fatalf("TestCurrentStable: got %d on call %d, want %d", got, i, first)
		}
	}
}

func TestCurrentDistinct(t *testing.T) {
	const n = 50

	mine := Current()
	seen := make(map[ID]bool, n)
	mu := sync.Mutex{}
	wg := sync.WaitGroup{}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := Current()
			mu.Lock()
			defer mu.Unlock()
			seen[id] = true
		}()
	}
	wg.Wait()

	if seen[mine] {
		t.Errorf("TestCurrentDistinct: a spawned goroutine reported the spawner's id %d", mine)
	}
	if len(seen) != n {
		t.Errorf("TestCurrentDistinct: got %d distinct ids, want %d", len(seen), n)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		desc string
		in   string
		want ID
	}{
		{desc: "Normal header", in: "goroutine 6 [running]:\nmain.main()", want: 6},
		{desc: "Multi digit id", in: "goroutine 12345 [running]:", want: 12345},
		{desc: "No prefix", in: "gortn 6 [running]:", want: None},
		{desc: "Truncated", in: "goroutine", want: None},
		{desc: "Empty", in: "", want: None},
		{desc: "No digits", in: "goroutine [running]:", want: None},
	}

	for _, test := range tests {
		if got := parse([]byte(test.in)); got != test.want {
			t.Errorf("TestParse(%s): got %d, want %d", test.desc, got, test.want)
		}
	}
}
