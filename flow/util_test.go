package flow_test

import (
	"testing"
	"time"

	through "github.com/imishinist/go-through"
	ext "github.com/imishinist/go-through/extension"
)

func ingestSlice[T any](in chan any, items []T) {
	for _, item := range items {
		in <- item
	}
}

func readSlice[T any](ch <-chan any) []T {
	var result []T
	for e := range ch {
		result = append(result, e.(T))
	}
	return result
}

func waitDone(t *testing.T, u *through.DestroyableTransform) {
	t.Helper()
	select {
	case <-u.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("stage did not close")
	}
}

// run pipes inputs through stage and returns everything it pushed.
func run[R, T any](t *testing.T, stage *through.DestroyableTransform, inputs []T) ([]R, error) {
	t.Helper()

	out := make(chan any, 16)
	errc := make(chan error, 1)
	go func() {
		errc <- ext.NewSliceSource(inputs).Via(stage).To(ext.NewChanSink(out))
	}()

	outputs := readSlice[R](out)
	err := <-errc
	waitDone(t, stage)
	return outputs, err
}
