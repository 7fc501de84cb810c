package lockfree_test

import (
	"sync"
	"testing"
	"time"

	"github.com/notorious-go/sync/backoff"
	"github.com/notorious-go/sync/stack"
	"github.com/notorious-go/sync/stack/lockfree"
	"github.com/notorious-go/sync/stack/stacktest"
)

func TestConformance(t *testing.T) {
	stacktest.Test(t, func(int) stack.Stack[int] {
		return new(lockfree.Stack[int])
	})
}

func TestConformanceWithBackoff(t *testing.T) {
	stacktest.Test(t, func(int) stack.Stack[int] {
		s := new(lockfree.Stack[int])
		s.SetBackoff(backoff.NewExponential(time.Microsecond, 16*time.Microsecond))
		return s
	})
}

func TestEmptyPopIsImmediate(t *testing.T) {
	var s lockfree.Stack[string]
	done := make(chan struct{})
	go func() {
		defer close(done)
		if v, ok := s.Pop(); ok {
			t.Errorf("Pop() = %q, true; want false", v)
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Pop() on an empty stack did not return")
	}
}

func TestLenAndEmpty(t *testing.T) {
	var s lockfree.Stack[int]
	if !s.Empty() || s.Len() != 0 {
		t.Fatalf("new stack: Empty() = %v, Len() = %v; want true, 0", s.Empty(), s.Len())
	}
	for i := range 5 {
		s.Push(i)
	}
	if s.Empty() || s.Len() != 5 {
		t.Errorf("after 5 pushes: Empty() = %v, Len() = %v; want false, 5", s.Empty(), s.Len())
	}
	for range 5 {
		s.Pop()
	}
	// Quiescent: the advisory size agrees with the list again.
	if !s.Empty() || s.Len() != 0 {
		t.Errorf("after draining: Empty() = %v, Len() = %v; want true, 0", s.Empty(), s.Len())
	}
	if got := s.String(); got != "lockfree.Stack(len=0)" {
		t.Errorf("String() = %q", got)
	}
}

func TestConcurrentProducersConsumers(t *testing.T) {
	// Producers and consumers run at the same time, so consumers do observe an
	// empty stack and must keep polling until every value has arrived.
	const (
		producers   = 4
		consumers   = 4
		perProducer = 2000
		total       = producers * perProducer
	)
	var s lockfree.Stack[int]
	seen := make([]int32, total)
	var remaining sync.WaitGroup
	remaining.Add(total)

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perProducer {
				s.Push(p*perProducer + i)
			}
		}()
	}
	done := make(chan struct{})
	for range consumers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if v, ok := s.Pop(); ok {
					seen[v]++
					remaining.Done()
				}
			}
		}()
	}
	remaining.Wait()
	close(done)
	wg.Wait()

	for v, n := range seen {
		if n != 1 {
			t.Errorf("value %v popped %v times, want 1", v, n)
		}
	}
	if _, ok := s.Pop(); ok {
		t.Error("Pop() after draining reported a value")
	}
}
