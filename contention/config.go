package contention

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/notorious-go/sync/backoff"
)

var (
	// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
	ErrInvalidConfig = errors.New("contention: invalid config")
	// ErrIntegrity is wrapped by the errors of workloads whose results break a
	// guarantee of the primitive under test.
	ErrIntegrity = errors.New("contention: integrity violation")
)

// CounterMode selects how the counter workload increments.
type CounterMode string

const (
	// Single makes one attempt per increment and accepts that it may miss.
	Single CounterMode = "single"
	// Retry repeats every increment until it commits.
	Retry CounterMode = "retry"
)

// StackImpl selects the stack the stack workload runs against.
type StackImpl string

const (
	// LockFree is the Treiber stack of package lockfree.
	LockFree StackImpl = "lockfree"
	// Blocking is the bounded stack of package blocking.
	Blocking StackImpl = "blocking"
	// Reference is the Treiber stack of github.com/golang-design/lockfree.
	Reference StackImpl = "reference"
)

// Config describes the workloads. The zero Config is not valid; start from
// DefaultConfig.
type Config struct {
	// Goroutines is the number of goroutines running concurrently.
	Goroutines int `yaml:"goroutines"`
	// Operations is the number of increments, or of pushes and of pops, made by
	// each goroutine.
	Operations int           `yaml:"operations"`
	Counter    CounterConfig `yaml:"counter"`
	Stack      StackConfig   `yaml:"stack"`
}

// CounterConfig describes the counter workload.
type CounterConfig struct {
	Initial int64       `yaml:"initial"`
	Mode    CounterMode `yaml:"mode"`
	// Unit and Ceiling bound the shared delay. The lock-free stack uses them too
	// when its backoff is enabled.
	Unit    time.Duration `yaml:"unit"`
	Ceiling time.Duration `yaml:"ceiling"`
}

// StackConfig describes the stack workload.
type StackConfig struct {
	Impl StackImpl `yaml:"impl"`
	// Capacity of the blocking stack. Zero sizes it to hold every value of the
	// workload; anything smaller could leave all goroutines blocked pushing.
	Capacity int `yaml:"capacity"`
	// Backoff makes the lock-free stack sleep after a failed swap.
	Backoff bool `yaml:"backoff"`
}

// DefaultConfig returns the classic backoff experiment:
// 16 goroutines making 10,000 operations each.
func DefaultConfig() Config {
	return Config{
		Goroutines: 16,
		Operations: 10_000,
		Counter: CounterConfig{
			Mode:    Retry,
			Unit:    backoff.DefaultUnit,
			Ceiling: backoff.DefaultCeiling,
		},
		Stack: StackConfig{
			Impl: LockFree,
		},
	}
}

// LoadConfig reads a YAML config from path. Fields missing from the file keep
// their DefaultConfig values, while unknown fields are rejected. The result is
// validated.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("contention: read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("contention: parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first problem found with the config.
func (c Config) Validate() error {
	switch {
	case c.Goroutines < 1:
		return fmt.Errorf("%w: goroutines must be positive, got %v", ErrInvalidConfig, c.Goroutines)
	case c.Operations < 1:
		return fmt.Errorf("%w: operations must be positive, got %v", ErrInvalidConfig, c.Operations)
	case c.Operations > math.MaxInt/c.Goroutines:
		return fmt.Errorf("%w: %v goroutines making %v operations each overflows int",
			ErrInvalidConfig, c.Goroutines, c.Operations)
	case c.Counter.Mode != Single && c.Counter.Mode != Retry:
		return fmt.Errorf("%w: unknown counter mode %q", ErrInvalidConfig, c.Counter.Mode)
	case c.Counter.Unit <= 0:
		return fmt.Errorf("%w: backoff unit must be positive, got %v", ErrInvalidConfig, c.Counter.Unit)
	case c.Counter.Ceiling < c.Counter.Unit:
		return fmt.Errorf("%w: backoff ceiling %v is below unit %v", ErrInvalidConfig, c.Counter.Ceiling, c.Counter.Unit)
	case c.Stack.Impl != LockFree && c.Stack.Impl != Blocking && c.Stack.Impl != Reference:
		return fmt.Errorf("%w: unknown stack implementation %q", ErrInvalidConfig, c.Stack.Impl)
	case c.Stack.Capacity < 0:
		return fmt.Errorf("%w: negative stack capacity %v", ErrInvalidConfig, c.Stack.Capacity)
	case c.Stack.Capacity != 0 && c.Stack.Capacity < c.total():
		return fmt.Errorf("%w: stack capacity %v cannot hold the %v values of the workload",
			ErrInvalidConfig, c.Stack.Capacity, c.total())
	}
	return nil
}

// The number of values pushed, or increments made, across all goroutines.
func (c Config) total() int {
	return c.Goroutines * c.Operations
}

func (c Config) capacity() int {
	if c.Stack.Capacity == 0 {
		return c.total()
	}
	return c.Stack.Capacity
}
