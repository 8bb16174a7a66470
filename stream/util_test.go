package stream_test

import (
	"context"
	"testing"
	"time"

	"github.com/imishinist/go-through/stream"
)

func writeAll(t *testing.T, tr *stream.Transform, items ...any) {
	t.Helper()
	for _, item := range items {
		if err := tr.Write(context.Background(), item); err != nil {
			t.Fatalf("Write(%v) = %v", item, err)
		}
	}
}

func readAll(ch <-chan any) []any {
	var result []any
	for v := range ch {
		result = append(result, v)
	}
	return result
}

// closed returns a channel closed on the stream's first close event.
func closed(tr *stream.Transform) <-chan struct{} {
	done := make(chan struct{})
	tr.Once(stream.EventClose, func(...any) { close(done) })
	return done
}

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
}
