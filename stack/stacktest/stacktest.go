// Package stacktest provides a conformance suite for implementations of
// [stack.Stack]. Every implementation in this module runs the same suite, which
// is what makes them interchangeable.
//
// # Overview
//
// The primary function [Test] runs every check against fresh stacks obtained
// from a constructor:
//
//	func TestConformance(t *testing.T) {
//		stacktest.Test(t, func(capacity int) stack.Stack[int] {
//			return mystack.New[int](capacity)
//		})
//	}
//
// The constructor receives the capacity the check needs to run without
// blocking on a full stack. Unbounded implementations ignore it.
//
// The individual checks ([LIFO], [Empty], [Alternating] and [Concurrent]) are
// exported for tests that need them with other parameters.
//
// # Blocking Implementations
//
// The checks need to observe an empty stack without hanging. Implementations
// whose Pop blocks on an empty stack must therefore also provide a
// non-blocking TryPop method with the same signature as Pop; the suite uses it
// whenever it is available.
package stacktest

import (
	"slices"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/notorious-go/sync/stack"
)

// Parameters of the concurrent checks run by Test.
const (
	Goroutines   = 8
	PerGoroutine = 1000
)

// Test runs all checks of the suite, each as a subtest with a fresh stack.
func Test(t *testing.T, newStack func(capacity int) stack.Stack[int]) {
	t.Helper()

	t.Run("LIFO", func(t *testing.T) {
		LIFO(t, newStack(16), 16)
	})
	t.Run("Empty", func(t *testing.T) {
		Empty(t, newStack(1))
	})
	t.Run("ZeroValuePayload", func(t *testing.T) {
		s := newStack(1)
		s.Push(0)
		if v, ok := tryPop(s); !ok || v != 0 {
			t.Errorf("Pop() = %v, %v; want 0, true", v, ok)
		}
		Empty(t, s)
	})
	t.Run("Alternating", func(t *testing.T) {
		Alternating(t, newStack(Goroutines), Goroutines, PerGoroutine)
	})
	t.Run("Concurrent", func(t *testing.T) {
		Concurrent(t, newStack(Goroutines*PerGoroutine), Goroutines, PerGoroutine)
	})
}

// LIFO pushes the values 0 through n-1 from a single goroutine and verifies
// that they are popped in reverse order, after which the stack is empty.
func LIFO(t *testing.T, s stack.Stack[int], n int) {
	t.Helper()

	for i := range n {
		s.Push(i)
	}
	for i := n - 1; i >= 0; i-- {
		v, ok := tryPop(s)
		if !ok {
			t.Fatalf("Pop() reported empty, want %v", i)
		}
		if v != i {
			t.Errorf("Pop() = %v, want %v", v, i)
		}
	}
	Empty(t, s)
}

// Empty verifies that popping an empty stack reports no value, and that doing
// so repeatedly leaves the stack usable.
func Empty(t *testing.T, s stack.Stack[int]) {
	t.Helper()

	for range 3 {
		if v, ok := tryPop(s); ok {
			t.Fatalf("Pop() on empty stack = %v, true; want false", v)
		}
	}
	// Popping an empty stack must not have corrupted it.
	s.Push(42)
	if v, ok := tryPop(s); !ok || v != 42 {
		t.Errorf("Pop() after empty pops = %v, %v; want 42, true", v, ok)
	}
	if v, ok := tryPop(s); ok {
		t.Errorf("Pop() on drained stack = %v, true; want false", v)
	}
}

// Alternating spawns the given number of goroutines, each of which pushes a
// value and pops one straight away, rounds times. Since every goroutine pops
// only after it has pushed, no pop may find the stack empty. The stack must be
// empty once all goroutines are done.
func Alternating(t *testing.T, s stack.Stack[int], goroutines, rounds int) {
	t.Helper()

	var wg sync.WaitGroup
	for g := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rounds {
				s.Push(g*rounds + i)
				if _, ok := s.Pop(); !ok {
					t.Errorf("goroutine %v: Pop() reported empty after its own Push", g)
					return
				}
			}
		}()
	}
	wg.Wait()
	Empty(t, s)
}

// Concurrent spawns the given number of goroutines, each of which pushes
// perGoroutine globally unique values and then pops perGoroutine values. It
// verifies that the values popped across all goroutines are exactly the values
// pushed, with none lost or duplicated, and that the stack is empty afterwards.
//
// The stack must be able to hold goroutines*perGoroutine values, otherwise the
// goroutines may all block pushing to a full stack.
func Concurrent(t *testing.T, s stack.Stack[int], goroutines, perGoroutine int) {
	t.Helper()

	popped := make([][]int, goroutines)
	var wg sync.WaitGroup
	for g := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			base := g * perGoroutine
			for i := range perGoroutine {
				s.Push(base + i)
			}
			// A goroutine never pops more than it pushed, so the stack cannot be
			// empty while this goroutine still has values to pop.
			values := make([]int, 0, perGoroutine)
			for range perGoroutine {
				v, ok := s.Pop()
				if !ok {
					t.Errorf("goroutine %v: Pop() reported empty with values outstanding", g)
					break
				}
				values = append(values, v)
			}
			popped[g] = values
		}()
	}
	wg.Wait()

	got := slices.Concat(popped...)
	slices.Sort(got)
	want := make([]int, goroutines*perGoroutine)
	for i := range want {
		want[i] = i
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("popped values differ from pushed values (-pushed +popped):\n%s", diff)
	}
	Empty(t, s)
}

// A tryPopper is implemented by stacks whose Pop blocks on an empty stack.
type tryPopper interface {
	TryPop() (int, bool)
}

// Pops without blocking, preferring TryPop where the stack provides it.
func tryPop(s stack.Stack[int]) (int, bool) {
	if tp, ok := s.(tryPopper); ok {
		return tp.TryPop()
	}
	return s.Pop()
}
