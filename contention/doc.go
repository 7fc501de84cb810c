// Package contention runs workloads that hammer the primitives of this module
// from many goroutines at once and reports how they behaved.
//
// Two workloads are provided:
//
//   - [RunCounter] increments a [backoff.Counter] from every goroutine, either
//     with single attempts that may miss under contention or with retries
//     that always land. The report shows how many increments were lost, how
//     many attempts were contended, and how far the shared delay grew.
//   - [RunStack] has every goroutine push a block of unique values onto a
//     stack and then pop as many, and verifies that the values popped are
//     exactly the values pushed.
//
// Both workloads are described by a [Config], which can be loaded from a YAML
// file:
//
//	goroutines: 16
//	operations: 10000
//	counter:
//	  initial: 0
//	  mode: retry
//	  unit: 1us
//	  ceiling: 128us
//	stack:
//	  impl: lockfree
//	  backoff: false
//
// The stack workload can target the lock-free stack, the bounded blocking
// stack, or a reference Treiber stack from github.com/golang-design/lockfree,
// which gives an independent baseline for comparison.
package contention
