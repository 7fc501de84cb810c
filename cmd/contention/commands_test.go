package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	log := logrus.New()
	log.SetOutput(io.Discard)

	var out bytes.Buffer
	cmd := newRootCmd(log)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestCounterCommand(t *testing.T) {
	out, err := execute(t, "counter", "-g", "4", "-n", "100", "--initial", "5")
	if err != nil {
		t.Fatalf("counter: %v\n%s", err, out)
	}
	if !strings.Contains(out, "PASS counter(retry) 4x100: final=405 expected=405 missed=0") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestStackCommand(t *testing.T) {
	for _, impl := range []string{"lockfree", "blocking", "reference"} {
		t.Run(impl, func(t *testing.T) {
			out, err := execute(t, "stack", "--impl", impl, "-g", "4", "-n", "100")
			if err != nil {
				t.Fatalf("stack: %v\n%s", err, out)
			}
			if !strings.HasPrefix(out, "PASS stack("+impl+") 4x100: pushed=400 popped=400 duplicates=0 missing=0") {
				t.Errorf("unexpected output:\n%s", out)
			}
		})
	}
}

func TestCompareCommand(t *testing.T) {
	out, err := execute(t, "compare", "-g", "2", "-n", "50")
	if err != nil {
		t.Fatalf("compare: %v\n%s", err, out)
	}
	if lines := strings.Count(out, "\n"); lines != 5 {
		t.Errorf("compare printed %v lines, want 5:\n%s", lines, out)
	}
}

func TestConfigFileWithOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contention.yaml")
	config := "goroutines: 3\noperations: 20\nstack:\n  impl: blocking\n"
	if err := os.WriteFile(path, []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "stack", "--config", path, "-n", "10")
	if err != nil {
		t.Fatalf("stack: %v\n%s", err, out)
	}
	if !strings.Contains(out, "stack(blocking) 3x10") {
		t.Errorf("flags did not override the config file:\n%s", out)
	}
}

func TestInvalidFlags(t *testing.T) {
	if _, err := execute(t, "counter", "--mode", "sometimes"); err == nil {
		t.Error("counter --mode sometimes succeeded")
	}
	if _, err := execute(t, "stack", "--log-level", "chatty"); err == nil {
		t.Error("stack --log-level chatty succeeded")
	}
}

func TestRunExitCode(t *testing.T) {
	color.NoColor = true
	args := os.Args
	t.Cleanup(func() { os.Args = args })

	os.Args = []string{"contention", "counter", "-g", "2", "-n", "10", "--log-level", "error"}
	if got := run(); got != 0 {
		t.Errorf("run() = %v for a valid workload, want 0", got)
	}
	os.Args = []string{"contention", "counter", "--mode", "sometimes"}
	if got := run(); got != 1 {
		t.Errorf("run() = %v for an invalid mode, want 1", got)
	}
}
