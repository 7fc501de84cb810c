package contention_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/notorious-go/sync/contention"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contention.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigIsValid(test *testing.T) {
	t := NewWithT(test)
	cfg := contention.DefaultConfig()
	t.Expect(cfg.Validate()).To(Succeed())
	t.Expect(cfg.Goroutines).To(Equal(16))
	t.Expect(cfg.Operations).To(Equal(10_000))
	t.Expect(cfg.Counter.Ceiling).To(Equal(128 * time.Microsecond))
}

func TestLoadConfig(test *testing.T) {
	t := NewWithT(test)
	path := writeConfig(test, `
goroutines: 4
operations: 250
counter:
  initial: 10
  mode: single
  unit: 2us
  ceiling: 1ms
stack:
  impl: blocking
  capacity: 1000
`)
	cfg, err := contention.LoadConfig(path)
	t.Expect(err).ToNot(HaveOccurred())
	t.Expect(cfg.Goroutines).To(Equal(4))
	t.Expect(cfg.Operations).To(Equal(250))
	t.Expect(cfg.Counter.Initial).To(BeEquivalentTo(10))
	t.Expect(cfg.Counter.Mode).To(Equal(contention.Single))
	t.Expect(cfg.Counter.Unit).To(Equal(2 * time.Microsecond))
	t.Expect(cfg.Counter.Ceiling).To(Equal(time.Millisecond))
	t.Expect(cfg.Stack.Impl).To(Equal(contention.Blocking))
	t.Expect(cfg.Stack.Capacity).To(Equal(1000))
}

func TestLoadConfigKeepsDefaults(test *testing.T) {
	t := NewWithT(test)
	cfg, err := contention.LoadConfig(writeConfig(test, "goroutines: 2\n"))
	t.Expect(err).ToNot(HaveOccurred())
	want := contention.DefaultConfig()
	want.Goroutines = 2
	t.Expect(cfg).To(Equal(want))

	cfg, err = contention.LoadConfig(writeConfig(test, ""))
	t.Expect(err).ToNot(HaveOccurred())
	t.Expect(cfg).To(Equal(contention.DefaultConfig()))
}

func TestLoadConfigErrors(test *testing.T) {
	t := NewWithT(test)

	_, err := contention.LoadConfig(filepath.Join(test.TempDir(), "missing.yaml"))
	t.Expect(err).To(MatchError(ContainSubstring("read config")))

	_, err = contention.LoadConfig(writeConfig(test, "goroutinez: 2\n"))
	t.Expect(err).To(MatchError(ContainSubstring("goroutinez")))

	_, err = contention.LoadConfig(writeConfig(test, "counter:\n  unit: fast\n"))
	t.Expect(err).To(HaveOccurred())

	_, err = contention.LoadConfig(writeConfig(test, "operations: 0\n"))
	t.Expect(err).To(MatchError(contention.ErrInvalidConfig))
}

func TestValidate(test *testing.T) {
	tests := []struct {
		name   string
		modify func(*contention.Config)
		substr string
	}{
		{"NoGoroutines", func(c *contention.Config) { c.Goroutines = 0 }, "goroutines"},
		{"NoOperations", func(c *contention.Config) { c.Operations = -1 }, "operations"},
		{"WorkloadOverflows", func(c *contention.Config) {
			c.Goroutines = 2
			c.Operations = math.MaxInt/2 + 1
			c.Stack.Impl = contention.Blocking
		}, "overflows"},
		{"UnknownMode", func(c *contention.Config) { c.Counter.Mode = "sometimes" }, "counter mode"},
		{"ZeroUnit", func(c *contention.Config) { c.Counter.Unit = 0 }, "unit"},
		{"CeilingBelowUnit", func(c *contention.Config) { c.Counter.Ceiling = time.Nanosecond }, "ceiling"},
		{"UnknownImpl", func(c *contention.Config) { c.Stack.Impl = "spaghetti" }, "stack implementation"},
		{"NegativeCapacity", func(c *contention.Config) { c.Stack.Capacity = -1 }, "negative"},
		{"SmallCapacity", func(c *contention.Config) { c.Stack.Capacity = 10 }, "cannot hold"},
	}
	for _, tt := range tests {
		test.Run(tt.name, func(test *testing.T) {
			t := NewWithT(test)
			cfg := contention.DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			t.Expect(err).To(MatchError(contention.ErrInvalidConfig))
			t.Expect(err).To(MatchError(ContainSubstring(tt.substr)))
		})
	}
}
