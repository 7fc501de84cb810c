package contention

import (
	"github.com/golang-design/lockfree"

	"github.com/notorious-go/sync/stack"
)

var _ stack.Stack[int] = ReferenceStack[int]{}

// ReferenceStack adapts the Treiber stack of github.com/golang-design/lockfree
// to stack.Stack, as an independent implementation to compare against.
//
// The underlying stack signals emptiness by returning nil, so a ReferenceStack
// cannot hold values that are themselves nil interfaces.
type ReferenceStack[T any] struct {
	s *lockfree.Stack
}

// NewReferenceStack returns an empty ReferenceStack.
func NewReferenceStack[T any]() ReferenceStack[T] {
	return ReferenceStack[T]{s: lockfree.NewStack()}
}

func (r ReferenceStack[T]) Push(value T) {
	r.s.Push(value)
}

func (r ReferenceStack[T]) Pop() (value T, ok bool) {
	v := r.s.Pop()
	if v == nil {
		return value, false
	}
	return v.(T), true
}
