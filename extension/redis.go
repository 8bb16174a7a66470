package extension

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	through "github.com/imishinist/go-through"
	"github.com/imishinist/go-through/flow"
	"github.com/imishinist/go-through/stream"
)

// RedisListSink appends every written chunk to a Redis list with RPUSH.
// Chunks must be types go-redis can send as an argument.
type RedisListSink struct {
	client redis.Cmdable
	key    string

	mu    sync.RWMutex
	ended bool
}

var _ through.Sink = (*RedisListSink)(nil)

func NewRedisListSink(client redis.Cmdable, key string) *RedisListSink {
	return &RedisListSink{client: client, key: key}
}

func (s *RedisListSink) Write(ctx context.Context, chunk any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ended {
		return stream.ErrWriteAfterEnd
	}
	if err := s.client.RPush(ctx, s.key, chunk).Err(); err != nil {
		return fmt.Errorf("extension: rpush %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisListSink) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ended = true
	return nil
}

type RedisListSourceConfig struct {
	Key string

	// PollInterval is the wait after the list was found empty. Defaults to 100ms.
	PollInterval time.Duration

	// StopWhenEmpty ends the source the first time the list is empty.
	StopWhenEmpty bool
}

// RedisListSource pops string values from the head of a Redis list until ctx
// is done, or the list is empty and StopWhenEmpty is set.
type RedisListSource struct {
	client redis.Cmdable
	config RedisListSourceConfig

	out chan any

	mu  sync.Mutex
	err error
}

var _ through.Source = (*RedisListSource)(nil)

func NewRedisListSource(ctx context.Context, client redis.Cmdable, config RedisListSourceConfig) *RedisListSource {
	if config.PollInterval <= 0 {
		config.PollInterval = 100 * time.Millisecond
	}
	s := &RedisListSource{
		client: client,
		config: config,
		out:    make(chan any),
	}
	go s.receive(ctx)
	return s
}

func (s *RedisListSource) receive(ctx context.Context) {
	defer close(s.out)

	for {
		v, err := s.client.LPop(ctx, s.config.Key).Result()
		switch {
		case errors.Is(err, redis.Nil):
			if s.config.StopWhenEmpty {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.config.PollInterval):
			}
			continue
		case err != nil:
			if ctx.Err() == nil {
				s.setErr(fmt.Errorf("extension: lpop %s: %w", s.config.Key, err))
			}
			return
		}

		select {
		case <-ctx.Done():
			return
		case s.out <- v:
		}
	}
}

func (s *RedisListSource) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err
}

// Err returns the error that stopped the source, if any.
func (s *RedisListSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

func (s *RedisListSource) Out() <-chan any {
	return s.out
}

func (s *RedisListSource) Via(operator through.Flow) through.Flow {
	flow.DoStream(s, operator)
	return operator
}
