package through_test

import (
	"context"
	"testing"
	"time"

	through "github.com/imishinist/go-through"
)

// feed writes items and ends in. It runs on its own goroutine, so failures
// are reported with Errorf.
func feed(t *testing.T, in through.Input, items ...any) {
	t.Helper()
	for _, item := range items {
		if err := in.Write(context.Background(), item); err != nil {
			t.Errorf("Write(%v) = %v", item, err)
			return
		}
	}
	if err := in.End(); err != nil {
		t.Errorf("End() = %v", err)
	}
}

func readAll(ch <-chan any) []any {
	var result []any
	for v := range ch {
		result = append(result, v)
	}
	return result
}

func waitDone(t *testing.T, u *through.DestroyableTransform) {
	t.Helper()
	select {
	case <-u.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("unit did not close")
	}
}
