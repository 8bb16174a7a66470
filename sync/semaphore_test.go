package sync_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imishinist/go-through/sync"
)

var (
	BlockTimeout = 100 * time.Millisecond
)

func isBlocked(done chan struct{}) bool {
	select {
	case <-done:
		return false
	case <-time.After(BlockTimeout):
		return true
	}
}

func TestDynamicSemaphore(t *testing.T) {
	t.Run("has capacity", func(t *testing.T) {
		t.Run("Acquire", func(t *testing.T) {
			sem := sync.NewDynamicSemaphore(3)
			done := make(chan struct{})
			go func() {
				sem.Acquire()
				close(done)
			}()
			if isBlocked(done) {
				t.Errorf("Acquire() should not be blocked when there is capacity")
			}
			assert.Equal(t, uint(3), sem.Capacity(), "capacity should be 3")
			assert.Equal(t, uint(1), sem.Count(), "count should be 1")
		})

		t.Run("Set 3 to 2 (decrease)", func(t *testing.T) {
			sem := sync.NewDynamicSemaphore(3)
			sem.Set(2)
			assert.Equal(t, uint(2), sem.Capacity(), "capacity should be 2")
			assert.Equal(t, uint(0), sem.Count(), "count should be 0")
		})
	})

	t.Run("no capacity", func(t *testing.T) {
		t.Run("Acquire blocks until Release", func(t *testing.T) {
			sem := sync.NewDynamicSemaphore(3)
			for i := 0; i < 3; i++ {
				sem.Acquire()
			}
			done := make(chan struct{})
			go func() {
				sem.Acquire()
				close(done)
			}()
			if !isBlocked(done) {
				t.Fatalf("Acquire() should be blocked when there is no capacity")
			}
			assert.Equal(t, uint(3), sem.Count(), "count should be 3")

			sem.Release()
			if isBlocked(done) {
				t.Fatalf("Acquire() should be unblocked by Release()")
			}
			assert.Equal(t, uint(3), sem.Count(), "count should be 3")
		})

		t.Run("Set 3 to 4 (increase) unblocks", func(t *testing.T) {
			sem := sync.NewDynamicSemaphore(3)
			for i := 0; i < 3; i++ {
				sem.Acquire()
			}
			done := make(chan struct{})
			go func() {
				sem.Acquire()
				close(done)
			}()
			if !isBlocked(done) {
				t.Fatalf("Acquire() should be blocked when there is no capacity")
			}

			sem.Set(4)
			if isBlocked(done) {
				t.Fatalf("Acquire() should be unblocked by Set()")
			}
			assert.Equal(t, uint(4), sem.Capacity(), "capacity should be 4")
			assert.Equal(t, uint(4), sem.Count(), "count should be 4")
		})
	})
}

func TestDynamicSemaphoreWeighted(t *testing.T) {
	t.Run("oversized request is admitted when empty", func(t *testing.T) {
		sem := sync.NewDynamicSemaphore(4)
		require.NoError(t, sem.AcquireN(context.Background(), 10))
		assert.Equal(t, uint(10), sem.Count())
		assert.False(t, sem.TryAcquireN(1))

		sem.ReleaseN(10)
		assert.Equal(t, uint(0), sem.Count())
	})

	t.Run("waits for enough units", func(t *testing.T) {
		sem := sync.NewDynamicSemaphore(4)
		require.True(t, sem.TryAcquireN(3))

		done := make(chan struct{})
		go func() {
			_ = sem.AcquireN(context.Background(), 2)
			close(done)
		}()
		if !isBlocked(done) {
			t.Fatalf("AcquireN() should wait for 2 free units")
		}

		sem.ReleaseN(1)
		if isBlocked(done) {
			t.Fatalf("AcquireN() should be unblocked once 2 units are free")
		}
		assert.Equal(t, uint(4), sem.Count())
	})

	t.Run("context cancellation", func(t *testing.T) {
		sem := sync.NewDynamicSemaphore(1)
		sem.Acquire()

		ctx, cancel := context.WithCancel(context.Background())
		errc := make(chan error, 1)
		go func() {
			errc <- sem.AcquireN(ctx, 1)
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-errc:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("AcquireN() should return after cancellation")
		}
		assert.Equal(t, uint(1), sem.Count())
	})

	t.Run("already cancelled", func(t *testing.T) {
		sem := sync.NewDynamicSemaphore(1)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, sem.AcquireN(ctx, 1), context.Canceled)
		assert.Equal(t, uint(0), sem.Count())
	})

	t.Run("over release is clamped", func(t *testing.T) {
		sem := sync.NewDynamicSemaphore(2)
		sem.Acquire()
		sem.ReleaseN(5)
		assert.Equal(t, uint(0), sem.Count())
		sem.Release()
		assert.Equal(t, uint(0), sem.Count())
	})
}
