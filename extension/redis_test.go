package extension_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	through "github.com/imishinist/go-through"
	ext "github.com/imishinist/go-through/extension"
	"github.com/imishinist/go-through/flow"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisListSink(t *testing.T) {
	mr, client := newRedis(t)

	double := flow.NewMap[int, int]("redis-double", func(e int) int { return e * 2 })
	err := ext.NewSliceSource([]int{1, 2, 3}).Via(double).To(ext.NewRedisListSink(client, "out"))
	require.NoError(t, err)

	got, err := mr.List("out")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4", "6"}, got)
}

func TestRedisListSource(t *testing.T) {
	t.Run("stop when empty", func(t *testing.T) {
		mr, client := newRedis(t)
		for _, v := range []string{"a", "b", "c"} {
			_, err := mr.Push("in", v)
			require.NoError(t, err)
		}

		src := ext.NewRedisListSource(context.Background(), client, ext.RedisListSourceConfig{
			Key:           "in",
			StopWhenEmpty: true,
		})
		out := make(chan any, 3)
		require.NoError(t, through.Pump(context.Background(), src, ext.NewChanSink(out)))

		var got []any
		for v := range out {
			got = append(got, v)
		}
		assert.Equal(t, []any{"a", "b", "c"}, got)
		assert.NoError(t, src.Err())
	})

	t.Run("polls until the context is done", func(t *testing.T) {
		mr, client := newRedis(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		src := ext.NewRedisListSource(ctx, client, ext.RedisListSourceConfig{
			Key:          "in",
			PollInterval: 5 * time.Millisecond,
		})
		_, err := mr.Push("in", "late")
		require.NoError(t, err)

		select {
		case v := <-src.Out():
			assert.Equal(t, "late", v)
		case <-time.After(2 * time.Second):
			t.Fatal("no value received")
		}

		cancel()
		for range src.Out() {
		}
		assert.NoError(t, src.Err())
	})

	t.Run("connection error is reported", func(t *testing.T) {
		mr, client := newRedis(t)
		mr.Close()

		src := ext.NewRedisListSource(context.Background(), client, ext.RedisListSourceConfig{Key: "in"})
		sink := ext.NewIgnoreSink()
		err := through.Pump(context.Background(), src, sink)
		assert.Error(t, err)
		assert.Error(t, src.Err())
	})
}
