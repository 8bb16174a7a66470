package sync

import (
	"context"
	"sync"
)

// DynamicSemaphore is a weighted semaphore whose capacity can change at runtime.
type DynamicSemaphore struct {
	capacity uint
	count    uint

	mu   sync.RWMutex
	cond *sync.Cond
}

// NewDynamicSemaphore creates a new DynamicSemaphore with the specified initial size.
func NewDynamicSemaphore(initialCapacity uint) *DynamicSemaphore {
	ds := &DynamicSemaphore{
		capacity: initialCapacity,
	}
	ds.cond = sync.NewCond(&ds.mu)
	return ds
}

// Acquire tries to acquire a semaphore slot, blocking until one becomes available.
func (ds *DynamicSemaphore) Acquire() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	for !ds.fits(1) {
		ds.cond.Wait()
	}
	ds.count++
}

// AcquireN acquires n units, blocking until they fit or ctx is done.
// A request larger than the capacity is admitted once the semaphore is empty,
// so oversized requests never wait forever.
func (ds *DynamicSemaphore) AcquireN(ctx context.Context, n uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// cond.Wait cannot select on ctx, so wake every waiter when it is done.
	stop := context.AfterFunc(ctx, func() {
		ds.mu.Lock()
		ds.cond.Broadcast()
		ds.mu.Unlock()
	})
	defer stop()

	ds.mu.Lock()
	defer ds.mu.Unlock()

	for !ds.fits(n) {
		if err := ctx.Err(); err != nil {
			return err
		}
		ds.cond.Wait()
	}
	ds.count += n
	return nil
}

// TryAcquireN acquires n units without blocking and reports whether it did.
func (ds *DynamicSemaphore) TryAcquireN(n uint) bool {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if !ds.fits(n) {
		return false
	}
	ds.count += n
	return true
}

func (ds *DynamicSemaphore) fits(n uint) bool {
	return ds.count == 0 || ds.count+n <= ds.capacity
}

// Release releases a semaphore slot, signaling any waiting goroutines.
func (ds *DynamicSemaphore) Release() {
	ds.ReleaseN(1)
}

// ReleaseN releases n units. Releasing more than is held empties the semaphore.
func (ds *DynamicSemaphore) ReleaseN(n uint) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.count == 0 {
		return
	}
	if n > ds.count {
		n = ds.count
	}
	ds.count -= n
	ds.cond.Broadcast()
}

// Set sets the maximum size of the semaphore.
func (ds *DynamicSemaphore) Set(capacity uint) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.capacity = capacity
	ds.cond.Broadcast()
}

func (ds *DynamicSemaphore) Capacity() uint {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	return ds.capacity
}

func (ds *DynamicSemaphore) Count() uint {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	return ds.count
}
