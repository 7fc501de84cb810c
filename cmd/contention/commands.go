package main

import (
	"errors"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/notorious-go/sync/contention"
)

// options holds the flags shared by every subcommand. Flags override the
// values of the config file only when set explicitly.
type options struct {
	configPath string
	logLevel   string
	goroutines int
	operations int

	mode     string
	initial  int64
	unit     time.Duration
	ceiling  time.Duration
	impl     string
	capacity int
	backoff  bool
}

func newRootCmd(log *logrus.Logger) *cobra.Command {
	opts := new(options)
	defaults := contention.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "contention",
		Short: "Runs contention workloads against counters and stacks",
		Long: `Runs workloads that hammer the backoff counter and the concurrent stacks
from many goroutines and reports lost increments, lost values and duplicates.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML file describing the workload")
	flags.StringVar(&opts.logLevel, "log-level", "warning", "log level (debug, info, warning, error)")
	flags.IntVarP(&opts.goroutines, "goroutines", "g", defaults.Goroutines, "number of concurrent goroutines")
	flags.IntVarP(&opts.operations, "operations", "n", defaults.Operations, "operations per goroutine")
	flags.StringVar(&opts.mode, "mode", string(defaults.Counter.Mode), "counter mode (single, retry)")
	flags.Int64Var(&opts.initial, "initial", defaults.Counter.Initial, "initial counter value")
	flags.DurationVar(&opts.unit, "unit", defaults.Counter.Unit, "initial backoff delay")
	flags.DurationVar(&opts.ceiling, "ceiling", defaults.Counter.Ceiling, "largest backoff delay")
	flags.StringVar(&opts.impl, "impl", string(defaults.Stack.Impl), "stack implementation (lockfree, blocking, reference)")
	flags.IntVar(&opts.capacity, "capacity", defaults.Stack.Capacity, "blocking stack capacity (0 fits the workload)")
	flags.BoolVar(&opts.backoff, "backoff", defaults.Stack.Backoff, "back off after failed swaps on the lock-free stack")

	cmd.AddCommand(counterCmd(opts, log), stackCmd(opts, log), compareCmd(opts, log))
	return cmd
}

func counterCmd(opts *options, log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "counter",
		Short: "Increment a backoff counter from many goroutines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			r, err := contention.RunCounter(cmd.Context(), cfg, log)
			printCounter(cmd.OutOrStdout(), r, err)
			return err
		},
	}
}

func stackCmd(opts *options, log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "stack",
		Short: "Push and pop unique values from many goroutines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			r, err := contention.RunStack(cmd.Context(), cfg, log)
			printStack(cmd.OutOrStdout(), r, err)
			return err
		},
	}
}

func compareCmd(opts *options, log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Run the counter in every mode and the workload on every stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			var errs []error
			for _, mode := range []contention.CounterMode{contention.Single, contention.Retry} {
				cfg.Counter.Mode = mode
				r, err := contention.RunCounter(cmd.Context(), cfg, log)
				printCounter(cmd.OutOrStdout(), r, err)
				errs = append(errs, err)
			}
			for _, impl := range []contention.StackImpl{contention.LockFree, contention.Blocking, contention.Reference} {
				cfg.Stack.Impl = impl
				r, err := contention.RunStack(cmd.Context(), cfg, log)
				printStack(cmd.OutOrStdout(), r, err)
				errs = append(errs, err)
			}
			return errors.Join(errs...)
		},
	}
}

// load builds the workload config from the config file, if any, and the flags
// set on the command line.
func (o *options) load(cmd *cobra.Command) (contention.Config, error) {
	cfg := contention.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = contention.LoadConfig(o.configPath); err != nil {
			return cfg, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("goroutines") {
		cfg.Goroutines = o.goroutines
	}
	if flags.Changed("operations") {
		cfg.Operations = o.operations
	}
	if flags.Changed("mode") {
		cfg.Counter.Mode = contention.CounterMode(o.mode)
	}
	if flags.Changed("initial") {
		cfg.Counter.Initial = o.initial
	}
	if flags.Changed("unit") {
		cfg.Counter.Unit = o.unit
	}
	if flags.Changed("ceiling") {
		cfg.Counter.Ceiling = o.ceiling
	}
	if flags.Changed("impl") {
		cfg.Stack.Impl = contention.StackImpl(o.impl)
	}
	if flags.Changed("capacity") {
		cfg.Stack.Capacity = o.capacity
	}
	if flags.Changed("backoff") {
		cfg.Stack.Backoff = o.backoff
	}
	return cfg, cfg.Validate()
}

func printCounter(w io.Writer, r contention.CounterReport, err error) {
	switch {
	case err != nil:
		color.New(color.FgRed).Fprintf(w, "FAIL %v: %v\n", r, err)
	case r.Missed != 0:
		// Missed increments are the expected outcome of single attempts.
		color.New(color.FgYellow).Fprintf(w, "MISS %v\n", r)
	default:
		color.New(color.FgGreen).Fprintf(w, "PASS %v\n", r)
	}
}

func printStack(w io.Writer, r contention.StackReport, err error) {
	if err != nil {
		color.New(color.FgRed).Fprintf(w, "FAIL %v: %v\n", r, err)
		return
	}
	color.New(color.FgGreen).Fprintf(w, "PASS %v\n", r)
}
