package lockfree

import (
	"fmt"
	"sync/atomic"

	"github.com/notorious-go/sync/backoff"
	"github.com/notorious-go/sync/stack"
)

var _ stack.Stack[int] = (*Stack[int])(nil)

// A node holds one pushed value and links to the node pushed before it.
//
// A node is immutable once published by a successful swap of the head, except
// for its value, which the popping goroutine clears after taking ownership.
type node[T any] struct {
	value T
	next  *node[T]
}

// Stack is an unbounded lock-free LIFO collection. Push and Pop never block.
//
// The zero-value Stack is empty and ready to use. Stack is safe for concurrent
// use and must not be copied after first use.
type Stack[T any] struct {
	// head is the most recently pushed node, or nil when the stack is empty. It is
	// the only shared mutable state of the stack.
	head atomic.Pointer[node[T]]
	// size is advisory. It is updated after the head and may briefly disagree
	// with the linked list; it must never be used to decide emptiness.
	size atomic.Int64
	// backoff is consulted after a failed swap when set.
	backoff *backoff.Exponential
}

// SetBackoff makes the stack sleep for the shared delay b after every failed
// swap of the head. A nil b restores immediate retries.
//
// SetBackoff must not be called while any goroutine is using the stack.
func (s *Stack[T]) SetBackoff(b *backoff.Exponential) {
	s.backoff = b
}

// Push places value on top of the stack. It always succeeds and returns once
// the value is linked in.
func (s *Stack[T]) Push(value T) {
	n := &node[T]{value: value}
	for {
		head := s.head.Load()
		n.next = head
		// Linearization point of Push: the node and everything it links to become
		// visible to any goroutine that later loads the head.
		if s.head.CompareAndSwap(head, n) {
			s.size.Add(1)
			return
		}
		s.retry()
	}
}

// Pop removes and returns the most recently pushed value. It returns
// immediately with ok set to false when the stack is empty.
func (s *Stack[T]) Pop() (value T, ok bool) {
	for {
		head := s.head.Load()
		if head == nil {
			// Linearization point of observing the stack empty.
			return value, false
		}
		// The node may be unlinked concurrently, but it cannot be reclaimed while
		// this goroutine references it, so its next field is safe to read.
		next := head.next
		if s.head.CompareAndSwap(head, next) {
			s.size.Add(-1)
			value = head.value
			// Only the winning goroutine reads the value, so clearing it cannot race.
			// It releases the payload to the collector even while stale readers
			// still hold the node.
			var zero T
			head.value = zero
			return value, true
		}
		s.retry()
	}
}

func (s *Stack[T]) retry() {
	if s.backoff != nil {
		s.backoff.Wait()
	}
}

// Len returns the number of values on the stack as last recorded. The result
// is advisory: under concurrent use it may lag behind or run ahead of the
// actual contents, and may even be transiently negative.
func (s *Stack[T]) Len() int {
	return int(s.size.Load())
}

// Empty reports whether the stack held no values at the instant of the call.
// Unlike Len, it reads the head itself.
func (s *Stack[T]) Empty() bool {
	return s.head.Load() == nil
}

// String returns a human-readable representation of the stack's state.
func (s *Stack[T]) String() string {
	return fmt.Sprintf("lockfree.Stack(len=%v)", s.Len())
}
