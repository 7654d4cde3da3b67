package graph

import (
	"fmt"
	"hash/fnv"
	"sync"
)

const pairLockStripes = 64

// pairLocks serializes edge mutations per unordered user pair. The
// toggle path reads edge existence and counters before writing; without
// this lock two concurrent toggles on the same pair can interleave
// their read and write steps and leave the counters disagreeing with
// the edge state.
type pairLocks struct {
	stripes [pairLockStripes]sync.Mutex
}

// Lock acquires the stripe for the unordered pair (a, b) and returns
// the unlock function.
func (l *pairLocks) Lock(a, b int64) func() {
	if a > b {
		a, b = b, a
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%d", a, b)
	m := &l.stripes[h.Sum64()%pairLockStripes]
	m.Lock()
	return m.Unlock
}
