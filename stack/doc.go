// Package stack defines the contract shared by the concurrent LIFO collections
// in this module. Implementations live in sub-packages, each making a
// different trade-off between blocking and progress:
//
//   - lockfree: An unbounded Treiber stack whose head is advanced only by
//     compare-and-swap. Push and Pop never block, though they may retry under
//     contention.
//   - blocking: A capacity-bounded stack guarded by a mutex and two condition
//     variables. Push blocks while the stack is full and Pop blocks while it
//     is empty.
//
// # The Stack Interface
//
// The [Stack] interface is the common denominator of both variants, which lets
// callers swap one for the other and lets a single conformance suite (see the
// stacktest package) exercise every implementation:
//
//	var s stack.Stack[int] = new(lockfree.Stack[int])
//	s.Push(1)
//	s.Push(2)
//	v, ok := s.Pop() // 2, true
//
// Pop reports presence with its second result rather than a sentinel value,
// so the zero value of T remains a valid payload.
//
// # Ordering Guarantees
//
// For a sequence of pushes issued without interleaving pops, pops return the
// values in reverse order. Under concurrency the guarantee weakens to: every
// pushed value is popped at most once, and no value is lost or duplicated.
//
// # Choosing an Implementation
//
// Use the lockfree package when producers must never wait and memory is not a
// concern. Use the blocking package when producers must be throttled by
// consumers (backpressure), or when consumers should sleep rather than poll
// while the stack is empty.
package stack
