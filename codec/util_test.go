package codec_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	through "github.com/imishinist/go-through"
	ext "github.com/imishinist/go-through/extension"
)

// collect writes inputs to u and returns its output and final error.
func collect[T any](t *testing.T, u *through.DestroyableTransform, inputs []T) ([]any, error) {
	t.Helper()

	out := make(chan any, 64)
	errc := make(chan error, 1)
	go func() {
		errc <- through.Pipeline(context.Background(), ext.NewSliceSource(inputs), u, ext.NewChanSink(out))
	}()

	var got []any
	for v := range out {
		got = append(got, v)
	}
	err := <-errc
	require.True(t, u.Destroyed())
	return got, err
}
