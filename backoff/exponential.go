package backoff

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Defaults applied by the zero-value Exponential.
const (
	DefaultUnit    = time.Microsecond
	DefaultCeiling = 128 * time.Microsecond
)

// Exponential is a delay shared by all of its callers. It starts at a unit and
// doubles on every call to Grow until it reaches the ceiling, where it stays.
//
// The zero-value Exponential is ready to use with DefaultUnit and
// DefaultCeiling. Exponential is safe for concurrent use and must not be
// copied after first use.
type Exponential struct {
	unit    time.Duration
	ceiling time.Duration
	// The current delay in nanoseconds. Zero stands for the unit, which is what
	// makes the zero-value Exponential usable.
	delay atomic.Int64
}

// NewExponential returns a delay that starts at unit and grows up to ceiling.
// It panics if unit is not positive or ceiling is below unit.
func NewExponential(unit, ceiling time.Duration) *Exponential {
	e := new(Exponential)
	e.init(unit, ceiling)
	return e
}

func (e *Exponential) init(unit, ceiling time.Duration) {
	if unit <= 0 {
		panic(fmt.Errorf("backoff: non-positive unit %v", unit))
	}
	if ceiling < unit {
		panic(fmt.Errorf("backoff: ceiling %v is below unit %v", ceiling, unit))
	}
	e.unit = unit
	e.ceiling = ceiling
	e.delay.Store(int64(unit))
}

// Unit returns the initial delay.
func (e *Exponential) Unit() time.Duration {
	if e.unit == 0 {
		return DefaultUnit
	}
	return e.unit
}

// Ceiling returns the largest delay Grow will ever produce.
func (e *Exponential) Ceiling() time.Duration {
	if e.ceiling == 0 {
		return DefaultCeiling
	}
	return e.ceiling
}

// Delay returns the current delay.
func (e *Exponential) Delay() time.Duration {
	return e.current(e.delay.Load())
}

func (e *Exponential) current(stored int64) time.Duration {
	if stored == 0 {
		return e.Unit()
	}
	return time.Duration(stored)
}

// Grow records one contention event by doubling the delay, clamped to the
// ceiling, and returns the resulting delay.
//
// Concurrent calls may race to grow the same observed delay; only one of them
// doubles it, and the others observe the winner's result and double that
// instead. The delay therefore never exceeds the ceiling.
func (e *Exponential) Grow() time.Duration {
	ceiling := e.Ceiling()
	for {
		stored := e.delay.Load()
		cur := e.current(stored)
		if cur >= ceiling {
			return cur
		}
		next := min(2*cur, ceiling)
		if e.delay.CompareAndSwap(stored, int64(next)) {
			return next
		}
	}
}

// Wait sleeps for the current delay and then grows it.
func (e *Exponential) Wait() {
	time.Sleep(e.Delay())
	e.Grow()
}

// String returns a human-readable representation of the delay's state.
func (e *Exponential) String() string {
	return fmt.Sprintf("Exponential(%v/%v)", e.Delay(), e.Ceiling())
}
