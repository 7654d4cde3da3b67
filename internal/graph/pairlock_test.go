package graph

import (
	"sync"
	"testing"
)

func TestPairLocks_UnorderedPairSharesStripe(t *testing.T) {
	var locks pairLocks

	unlock := locks.Lock(1, 2)
	acquired := make(chan struct{})
	go func() {
		// (2, 1) canonicalizes to the same stripe as (1, 2), so this
		// blocks until the first holder releases
		u := locks.Lock(2, 1)
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("reversed pair acquired the lock while it was held")
	default:
	}

	unlock()
	<-acquired
}

func TestPairLocks_Mutex(t *testing.T) {
	var locks pairLocks
	var counter int
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(7, 8)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
}
