package blocking

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/notorious-go/sync/stack"
)

var _ stack.Stack[int] = (*Stack[int])(nil)

// The initial allocation of a stack's storage never exceeds this many values,
// so that a generous capacity does not cost memory up front.
const maxPrealloc = 1024

// Stack is a LIFO collection holding at most a fixed number of values.
//
// A Stack must be created with New. It is safe for concurrent use and must not
// be copied after first use.
type Stack[T any] struct {
	mu sync.Mutex
	// notEmpty is signalled after every push, waking blocked poppers.
	notEmpty sync.Cond
	// notFull is signalled after every pop, waking blocked pushers. With zero
	// capacity it is also signalled when a popper starts waiting.
	notFull sync.Cond

	// The top of the stack is the end of the slice. Guarded by mu.
	items    []T
	capacity int
	// The number of poppers currently waiting on notEmpty. Guarded by mu.
	waiting int

	// size mirrors len(items) for lock-free inspection. It is advisory only.
	size atomic.Int64
}

// New returns an empty stack that holds at most capacity values. A capacity of
// zero makes every Push a hand-off to a waiting Pop. New panics if capacity is
// negative.
func New[T any](capacity int) *Stack[T] {
	if capacity < 0 {
		panic(fmt.Errorf("blocking: negative capacity %v", capacity))
	}
	s := &Stack[T]{
		items:    make([]T, 0, min(capacity, maxPrealloc)),
		capacity: capacity,
	}
	s.notEmpty.L = &s.mu
	s.notFull.L = &s.mu
	return s
}

// Push places value on top of the stack, blocking while the stack is full.
func (s *Stack[T]) Push(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.full() {
		s.notFull.Wait()
	}
	s.push(value)
}

// TryPush places value on top of the stack if there is room for it, and
// reports whether it did. It never blocks.
func (s *Stack[T]) TryPush(value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full() {
		return false
	}
	s.push(value)
	return true
}

// Pop removes and returns the most recently pushed value, blocking while the
// stack is empty. Its boolean result is always true; it exists to satisfy
// [stack.Stack].
func (s *Stack[T]) Pop() (value T, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		s.waiting++
		if s.capacity == 0 {
			// A waiting popper is what makes room on a zero-capacity stack.
			s.notFull.Broadcast()
		}
		for len(s.items) == 0 {
			s.notEmpty.Wait()
		}
		s.waiting--
	}
	return s.pop(), true
}

// TryPop removes and returns the most recently pushed value if there is one.
// It never blocks, and reports false when the stack is empty.
func (s *Stack[T]) TryPop() (value T, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return value, false
	}
	return s.pop(), true
}

// full reports whether a push must wait. The caller must hold mu.
//
// A zero-capacity stack admits one value per waiting popper that has not been
// served yet. Each such value is claimed either by the waiting popper or by a
// popper arriving in the meantime, in which case the waiting popper remains
// counted and keeps the slot open.
func (s *Stack[T]) full() bool {
	limit := s.capacity
	if limit == 0 {
		limit = s.waiting
	}
	return len(s.items) >= limit
}

// push appends value and wakes poppers. The caller must hold mu.
func (s *Stack[T]) push(value T) {
	s.items = append(s.items, value)
	s.size.Add(1)
	s.notEmpty.Broadcast()
}

// pop removes the top value and wakes pushers. The caller must hold mu and the
// stack must not be empty.
func (s *Stack[T]) pop() T {
	last := len(s.items) - 1
	value := s.items[last]
	var zero T
	s.items[last] = zero
	s.items = s.items[:last]
	s.size.Add(-1)
	s.notFull.Broadcast()
	return value
}

// Len returns the number of values on the stack without acquiring its lock.
// The result is advisory and may be stale by the time it is used; it must not
// stand in for the checks Push and Pop make under the lock.
func (s *Stack[T]) Len() int {
	return int(s.size.Load())
}

// Cap returns the capacity the stack was created with.
func (s *Stack[T]) Cap() int {
	return s.capacity
}

// String returns a human-readable representation of the stack's state in the
// form "blocking.Stack(len/cap)".
func (s *Stack[T]) String() string {
	return fmt.Sprintf("blocking.Stack(%v/%v)", s.Len(), s.Cap())
}
