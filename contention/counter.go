package contention

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/notorious-go/sync/backoff"
)

// CounterReport is the outcome of a counter workload.
type CounterReport struct {
	Mode       CounterMode
	Goroutines int
	Operations int

	Initial  int64
	Final    int64
	Expected int64
	// Missed is the number of increments that did not land. It is always zero in
	// Retry mode.
	Missed int64
	// Attempts counts every compare-and-swap made, successful or not.
	Attempts int64
	// Contended counts the attempts that lost a race.
	Contended uint64
	// Delay is the shared delay when the workload finished.
	Delay   time.Duration
	Elapsed time.Duration
}

func (r CounterReport) String() string {
	return fmt.Sprintf("counter(%s) %dx%d: final=%d expected=%d missed=%d attempts=%d contended=%d delay=%v elapsed=%v",
		r.Mode, r.Goroutines, r.Operations, r.Final, r.Expected, r.Missed, r.Attempts, r.Contended, r.Delay, r.Elapsed)
}

// RunCounter increments a fresh counter cfg.Operations times from each of
// cfg.Goroutines goroutines and reports the outcome.
//
// In Retry mode the final value must equal the initial value plus every
// increment; RunCounter returns an error wrapping ErrIntegrity otherwise. In
// Single mode missed increments are expected and only reported.
//
// Cancelling ctx stops the goroutines between increments.
func RunCounter(ctx context.Context, cfg Config, log logrus.FieldLogger) (CounterReport, error) {
	if err := cfg.Validate(); err != nil {
		return CounterReport{}, err
	}
	log = orDiscard(log).WithFields(logrus.Fields{
		"workload":   "counter",
		"mode":       cfg.Counter.Mode,
		"goroutines": cfg.Goroutines,
		"operations": cfg.Operations,
	})

	c := backoff.NewCounter(cfg.Counter.Initial)
	c.SetBackoff(cfg.Counter.Unit, cfg.Counter.Ceiling)

	var attempts atomic.Int64
	log.Debug("Starting workload")
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Goroutines)
	for range cfg.Goroutines {
		g.Go(func() error {
			for range cfg.Operations {
				if err := ctx.Err(); err != nil {
					return err
				}
				if cfg.Counter.Mode == Retry {
					attempts.Add(int64(c.IncrementRetry()))
				} else {
					c.Increment()
					attempts.Add(1)
				}
			}
			return nil
		})
	}
	err := g.Wait()

	r := CounterReport{
		Mode:       cfg.Counter.Mode,
		Goroutines: cfg.Goroutines,
		Operations: cfg.Operations,
		Initial:    cfg.Counter.Initial,
		Final:      c.Get(),
		Expected:   cfg.Counter.Initial + int64(cfg.total()),
		Attempts:   attempts.Load(),
		Contended:  c.Contended(),
		Delay:      c.Delay(),
		Elapsed:    time.Since(start),
	}
	r.Missed = r.Expected - r.Final
	if err != nil {
		return r, fmt.Errorf("contention: counter workload: %w", err)
	}
	log.WithFields(logrus.Fields{
		"final":     r.Final,
		"missed":    r.Missed,
		"contended": r.Contended,
		"delay":     r.Delay,
		"elapsed":   r.Elapsed,
	}).Info("Finished workload")

	if r.Mode == Retry && r.Missed != 0 {
		return r, fmt.Errorf("%w: counter reached %v, want %v", ErrIntegrity, r.Final, r.Expected)
	}
	return r, nil
}
