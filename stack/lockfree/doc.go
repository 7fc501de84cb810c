// Package lockfree provides an unbounded stack whose head pointer is only ever
// changed by compare-and-swap, known as a Treiber stack.
//
// # Algorithm
//
// The stack is a singly linked list reachable from an atomic head pointer.
//
// Push allocates a node, points its next field at the observed head and
// attempts to swap the head from the observed node to the new one. If another
// goroutine changed the head in between, the swap fails and Push retries with
// the freshly observed head.
//
// Pop loads the head, returns immediately if it is nil, and otherwise attempts
// to swap the head from the observed node to its successor. Exactly one Pop can
// succeed per distinct head, and the goroutine whose swap succeeds becomes the
// sole owner of the unlinked node and its value. This is the basis for the
// guarantee that no value is returned twice or lost.
//
// Both loops are lock-free but not starvation-free: an individual goroutine may
// retry indefinitely under pathological contention, while the stack as a whole
// always makes progress.
//
// # Memory Ordering
//
// The operations of sync/atomic are sequentially consistent, which is stronger
// than the acquire/release pairing the algorithm needs. A successful swap in
// Push publishes the node together with its next field, and any later load of
// the head that observes that node also observes the write of the payload and
// of every write that preceded the Push.
//
// # Reclamation
//
// Reading the next field of a node that another goroutine has just unlinked is
// the classic hazard of this algorithm: with manual memory management the node
// could already be freed (use-after-free), or freed and reallocated at the same
// address so that a stale swap succeeds (the ABA problem).
//
// This package relies on the garbage collector as its reclamation scheme. An
// unlinked node remains allocated for as long as any goroutine still holds a
// pointer to it, so a racing Pop reads a stale but valid next field and its
// swap then fails because the head has moved. For the same reason the address
// of a node cannot be reused while a stale pointer to it exists, which rules
// out ABA on the head. Nodes are deliberately never recycled through a free
// list or sync.Pool, since recycling would reintroduce ABA.
//
// # Backoff
//
// Retries need no delay in the common case. Callers expecting heavy contention
// may attach a shared delay with SetBackoff; a failed swap then sleeps for the
// delay before retrying. This changes timing only, never results.
package lockfree
