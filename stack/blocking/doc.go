// Package blocking provides a capacity-bounded stack that suspends callers
// instead of failing when it cannot proceed.
//
// Push blocks while the stack is full and Pop blocks while it is empty. A
// blocked goroutine sleeps on a condition variable rather than polling: it
// releases the stack's mutex atomically with starting to wait and reacquires it
// atomically with waking, so no state change can slip between checking the
// predicate and going to sleep. Every mutation wakes all goroutines waiting on
// the opposite predicate, and each of them rechecks it; there is no FIFO
// fairness among waiters, only the guarantee that a waiter gets a chance to
// proceed whenever its predicate becomes true.
//
// If the predicate never changes, the call blocks forever. There is no timeout
// or cancellation variant; TryPush and TryPop are non-blocking probes for
// callers that would rather not wait at all.
//
// # Zero Capacity
//
// A stack with capacity zero stores nothing on its own. A Push proceeds only
// when a Pop is already waiting for it, which turns every Push into a direct
// hand-off to a waiting consumer. Pairing pushes with pops from other
// goroutines never deadlocks, in whichever order they arrive.
//
// A handed-off value sits in the stack from the moment Push deposits it until
// the woken Pop takes it. In that window Len and String report up to one value
// per waiting popper, so Len can exceed Cap on a zero-capacity stack. For any
// other capacity Len never exceeds Cap.
package blocking
