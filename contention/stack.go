package contention

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/notorious-go/sync/backoff"
	"github.com/notorious-go/sync/stack"
	"github.com/notorious-go/sync/stack/blocking"
	"github.com/notorious-go/sync/stack/lockfree"
)

// StackReport is the outcome of a stack workload.
type StackReport struct {
	Impl       StackImpl
	Goroutines int
	Operations int

	Pushed int
	Popped int
	// Duplicates counts values popped more than once, and Missing counts values
	// pushed but never popped, including any left behind on the stack.
	Duplicates int
	Missing    int
	Elapsed    time.Duration
}

func (r StackReport) String() string {
	return fmt.Sprintf("stack(%s) %dx%d: pushed=%d popped=%d duplicates=%d missing=%d elapsed=%v",
		r.Impl, r.Goroutines, r.Operations, r.Pushed, r.Popped, r.Duplicates, r.Missing, r.Elapsed)
}

// NewStack returns an empty stack of the implementation selected by cfg. It
// panics if cfg names an unknown implementation; validate cfg first.
func NewStack[T any](cfg Config) stack.Stack[T] {
	switch cfg.Stack.Impl {
	case LockFree:
		s := new(lockfree.Stack[T])
		if cfg.Stack.Backoff {
			s.SetBackoff(backoff.NewExponential(cfg.Counter.Unit, cfg.Counter.Ceiling))
		}
		return s
	case Blocking:
		return blocking.New[T](cfg.capacity())
	case Reference:
		return NewReferenceStack[T]()
	}
	panic(fmt.Errorf("contention: unknown stack implementation %q", cfg.Stack.Impl))
}

// RunStack has each of cfg.Goroutines goroutines push cfg.Operations unique
// values onto a fresh stack and then pop cfg.Operations values. It verifies
// that every value pushed was popped exactly once, returning an error wrapping
// ErrIntegrity otherwise.
//
// Cancelling ctx stops the goroutines between operations; the partial report
// is returned unverified along with the context's error.
func RunStack(ctx context.Context, cfg Config, log logrus.FieldLogger) (StackReport, error) {
	if err := cfg.Validate(); err != nil {
		return StackReport{}, err
	}
	log = orDiscard(log).WithFields(logrus.Fields{
		"workload":   "stack",
		"impl":       cfg.Stack.Impl,
		"goroutines": cfg.Goroutines,
		"operations": cfg.Operations,
	})

	s := NewStack[int](cfg)
	pushed := make([]int, cfg.Goroutines)
	popped := make([][]int, cfg.Goroutines)

	log.Debug("Starting workload")
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Goroutines)
	for id := range cfg.Goroutines {
		g.Go(func() error {
			base := id * cfg.Operations
			for i := range cfg.Operations {
				if err := ctx.Err(); err != nil {
					return err
				}
				s.Push(base + i)
				pushed[id]++
			}
			values := make([]int, 0, cfg.Operations)
			defer func() { popped[id] = values }()
			for range cfg.Operations {
				if err := ctx.Err(); err != nil {
					return err
				}
				// This goroutine has pushed more than it popped, so the stack cannot
				// be empty here unless it lost a value.
				v, ok := s.Pop()
				if !ok {
					return fmt.Errorf("%w: goroutine %v found the stack empty with values outstanding", ErrIntegrity, id)
				}
				values = append(values, v)
			}
			return nil
		})
	}
	err := g.Wait()

	r := StackReport{
		Impl:       cfg.Stack.Impl,
		Goroutines: cfg.Goroutines,
		Operations: cfg.Operations,
		Elapsed:    time.Since(start),
	}
	for id := range cfg.Goroutines {
		r.Pushed += pushed[id]
		r.Popped += len(popped[id])
	}
	if err != nil && !errors.Is(err, ErrIntegrity) {
		return r, fmt.Errorf("contention: stack workload: %w", err)
	}

	counts := make([]int, cfg.total())
	for _, values := range popped {
		for _, v := range values {
			counts[v]++
		}
	}
	// Values still on the stack were pushed but never popped, and count as
	// missing along with any the stack lost.
	for id := range cfg.Goroutines {
		base := id * cfg.Operations
		for _, n := range counts[base : base+pushed[id]] {
			switch {
			case n == 0:
				r.Missing++
			case n > 1:
				r.Duplicates += n - 1
			}
		}
	}

	log.WithFields(logrus.Fields{
		"pushed":     r.Pushed,
		"popped":     r.Popped,
		"duplicates": r.Duplicates,
		"missing":    r.Missing,
		"elapsed":    r.Elapsed,
	}).Info("Finished workload")

	if err != nil {
		return r, fmt.Errorf("contention: stack workload: %w", err)
	}
	if r.Duplicates != 0 || r.Missing != 0 {
		return r, fmt.Errorf("%w: %v duplicated and %v missing values", ErrIntegrity, r.Duplicates, r.Missing)
	}
	return r, nil
}
