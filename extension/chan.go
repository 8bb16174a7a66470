package extension

import (
	"context"
	"sync"

	through "github.com/imishinist/go-through"
	"github.com/imishinist/go-through/flow"
	"github.com/imishinist/go-through/stream"
)

// ChanSource reads from a channel. The source ends when the channel is closed.
type ChanSource struct {
	in chan any
}

var _ through.Source = (*ChanSource)(nil)

func NewChanSource(in chan any) *ChanSource {
	return &ChanSource{in}
}

// NewSliceSource returns a source that emits items in order and ends.
func NewSliceSource[T any](items []T) *ChanSource {
	in := make(chan any, len(items))
	for _, item := range items {
		in <- item
	}
	close(in)
	return &ChanSource{in}
}

func (cs *ChanSource) Via(operator through.Flow) through.Flow {
	flow.DoStream(cs, operator)
	return operator
}

func (cs *ChanSource) Out() <-chan any {
	return cs.in
}

// ChanSink sends every written chunk to Out and closes it on End.
type ChanSink struct {
	Out chan any

	mu    sync.RWMutex
	ended bool
}

var _ through.Sink = (*ChanSink)(nil)

func NewChanSink(out chan any) *ChanSink {
	return &ChanSink{Out: out}
}

func (cs *ChanSink) Write(ctx context.Context, chunk any) error {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	if cs.ended {
		return stream.ErrWriteAfterEnd
	}
	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	case cs.Out <- chunk:
		return nil
	}
}

func (cs *ChanSink) End() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if !cs.ended {
		cs.ended = true
		close(cs.Out)
	}
	return nil
}
