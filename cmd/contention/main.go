// Command contention runs the contention workloads of this module from the
// command line and prints a verdict for each.
//
//	contention counter --mode single --goroutines 16 --operations 10000
//	contention stack --impl blocking
//	contention compare --config contention.yaml
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run())
}

// run executes the command tree and returns the process exit code, letting its
// deferred calls complete before main exits.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := logrus.New()
	if err := newRootCmd(log).ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
