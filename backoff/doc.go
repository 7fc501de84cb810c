// Package backoff provides a contention-adaptive delay and an atomic counter
// built on top of it.
//
// # Shared Delay
//
// An [Exponential] is a single delay shared by every goroutine that consults
// it. Each observed contention event doubles the delay until it reaches a
// ceiling, and the delay never shrinks. Because the state is shared rather than
// kept per call or per goroutine, the delay reflects the contention history of
// the whole process: a goroutine arriving late to a hot spot starts with the
// delay its predecessors have already grown.
//
// The lifecycle of the delay is that of its owner. A [Counter] creates its
// delay when it is created, every caller reads and grows it, and it is
// discarded with the counter.
//
// # Counter
//
// A [Counter] is an atomic integer whose increment is a single
// compare-and-swap attempt. When the attempt loses a race, the caller sleeps
// for the current shared delay, the delay grows, and the increment is reported
// as missed:
//
//	c := backoff.NewCounter(0)
//	if !c.Increment() {
//	    // Lost a race; the value was not changed.
//	}
//
// A missed increment is not retried. Callers that need every increment to
// land use IncrementRetry, which repeats the attempt until it commits:
//
//	c.IncrementRetry()
//
// Under contention the two produce different totals: N goroutines calling
// Increment M times may end below initial+N*M, while IncrementRetry always
// reaches it.
package backoff
