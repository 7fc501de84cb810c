package backoff

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Counter is an atomic integer that sleeps for a shared, growing delay whenever
// an increment loses a race with another goroutine.
//
// The zero-value Counter starts at zero with the default delay. Counter is safe
// for concurrent use and must not be copied after first use.
type Counter struct {
	value     atomic.Int64
	backoff   Exponential
	contended atomic.Uint64
}

// NewCounter returns a counter seeded with initial.
func NewCounter(initial int64) *Counter {
	c := new(Counter)
	c.value.Store(initial)
	return c
}

// SetBackoff replaces the default delay bounds. It panics if unit is not
// positive or ceiling is below unit.
//
// SetBackoff must not be called while any goroutine is using the counter.
func (c *Counter) SetBackoff(unit, ceiling time.Duration) {
	c.backoff.init(unit, ceiling)
}

// Increment makes a single attempt to add one to the counter and reports
// whether it committed.
//
// When the attempt fails because another goroutine changed the value first, the
// caller sleeps for the current shared delay, the delay grows, and Increment
// returns false without having changed the value. The increment is not retried.
func (c *Counter) Increment() bool {
	cur := c.value.Load()
	if c.value.CompareAndSwap(cur, cur+1) {
		return true
	}
	c.contended.Add(1)
	c.backoff.Wait()
	return false
}

// IncrementRetry adds one to the counter, repeating the attempt made by
// Increment until it commits. It returns the number of attempts made, which is
// at least one.
func (c *Counter) IncrementRetry() (attempts int) {
	for attempts = 1; !c.Increment(); attempts++ {
	}
	return attempts
}

// Get returns the current value.
func (c *Counter) Get() int64 {
	return c.value.Load()
}

// Delay returns the current shared delay.
func (c *Counter) Delay() time.Duration {
	return c.backoff.Delay()
}

// Ceiling returns the largest delay the counter will ever sleep for.
func (c *Counter) Ceiling() time.Duration {
	return c.backoff.Ceiling()
}

// Contended returns the number of increments that lost a race so far.
func (c *Counter) Contended() uint64 {
	return c.contended.Load()
}

// String returns a human-readable representation of the counter's state.
func (c *Counter) String() string {
	return fmt.Sprintf("Counter(%v, delay=%v)", c.Get(), c.Delay())
}
