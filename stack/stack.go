package stack

// Stack is a last-in-first-out collection that is safe for concurrent use.
//
// Whether Push and Pop may suspend the calling goroutine is up to the
// implementation; consult its documentation. No implementation in this module
// supports cancellation of a suspended call. Callers that need a bounded wait
// must build it around the stack.
type Stack[T any] interface {
	// Push places value on top of the stack. It returns only after the value is
	// visible to subsequent calls to Pop.
	Push(value T)

	// Pop removes and returns the most recently pushed value that has not yet
	// been removed. The boolean result is false when no value was removed; in
	// that case the returned value is the zero value of T.
	//
	// Each pushed value is returned by at most one call to Pop.
	Pop() (value T, ok bool)
}
