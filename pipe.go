package through

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/imishinist/go-through/stream"
)

// ErrNotOutput is returned by Pipeline when a stage other than the last one
// has no readable end.
var ErrNotOutput = errors.New("through: stage is not readable")

// ErrNoStages is returned by Pipeline when it is called without stages.
var ErrNoStages = errors.New("through: pipeline has no stages")

type errReporter interface {
	Err() error
}

type doner interface {
	Done() <-chan struct{}
}

type finisher interface {
	Destroyed() bool
	Finished() bool
}

// Via pipes the unit's output into flow in the background and returns flow.
func (d *DestroyableTransform) Via(flow Flow) Flow {
	go func() {
		if err := Pump(context.Background(), d, flow); err != nil {
			d.logger.Debug("through: pipe stopped", "id", d.id, "error", err)
		}
	}()
	return flow
}

// To pipes the unit's output into sink and returns once the output is drained.
func (d *DestroyableTransform) To(sink Sink) error {
	return Pump(context.Background(), d, sink)
}

// Pump writes every item of src to dst and then ends dst.
//
// If src was destroyed with an error, dst is destroyed with the same error
// instead of being ended. If src was destroyed without an error before it
// finished, dst is destroyed with stream.ErrDestroyed and so is the result.
// If a write fails or dst closes, src is destroyed. If ctx is done first,
// both ends are destroyed with its cause.
func Pump(ctx context.Context, src Output, dst Input) error {
	out := src.Out()
	var closed <-chan struct{}
	if d, ok := dst.(doner); ok {
		closed = d.Done()
	}
	for {
		select {
		case <-closed:
			destroy(src, nil)
			return fmt.Errorf("through: pump: %w", stream.ErrDestroyed)
		case <-ctx.Done():
			err := context.Cause(ctx)
			destroy(src, err)
			if !destroy(dst, err) {
				_ = dst.End()
			}
			return err
		case v, ok := <-out:
			if !ok {
				return finishPump(src, dst)
			}
			if err := dst.Write(ctx, v); err != nil {
				if errors.Is(err, stream.ErrDestroyed) {
					destroy(src, nil)
				} else {
					destroy(src, err)
				}
				return fmt.Errorf("through: pump: %w", err)
			}
		}
	}
}

func finishPump(src Output, dst Input) error {
	if r, ok := src.(errReporter); ok {
		if err := r.Err(); err != nil {
			if !destroy(dst, err) {
				_ = dst.End()
			}
			return err
		}
	}
	if f, ok := src.(finisher); ok && f.Destroyed() && !f.Finished() {
		if !destroy(dst, stream.ErrDestroyed) {
			_ = dst.End()
		}
		return fmt.Errorf("through: pump: source %w before it finished", stream.ErrDestroyed)
	}
	return dst.End()
}

// destroy destroys s when it is destroyable and reports whether it was.
func destroy(s any, err error) bool {
	d, ok := s.(Destroyer)
	if ok {
		d.Destroy(err)
	}
	return ok
}

// Pipeline pipes src through every stage in order. Every stage but the last
// must be readable. On the first failure, or when ctx is done, every
// destroyable stream of the pipeline is destroyed with that error.
// Pipeline returns after every unit closed. A run cut short by destroying a
// unit without an error returns an error wrapping stream.ErrDestroyed.
func Pipeline(ctx context.Context, src Output, stages ...Input) error {
	if len(stages) == 0 {
		return ErrNoStages
	}
	for i, st := range stages[:max(len(stages)-1, 0)] {
		if _, ok := st.(Output); !ok {
			return fmt.Errorf("%w: stage %d (%T)", ErrNotOutput, i, st)
		}
	}

	all := make([]any, 0, len(stages)+1)
	all = append(all, src)
	for _, st := range stages {
		all = append(all, st)
	}
	destroyAll := func(err error) {
		for _, s := range all {
			destroy(s, err)
		}
	}

	stop := context.AfterFunc(ctx, func() { destroyAll(context.Cause(ctx)) })
	defer stop()

	var g errgroup.Group
	prev := src
	for _, st := range stages {
		from, to := prev, st
		g.Go(func() error {
			err := Pump(ctx, from, to)
			// A write into a destroyed stage already cascaded upstream,
			// and the stage's own error flows downstream.
			if err != nil && !errors.Is(err, stream.ErrDestroyed) {
				destroyAll(err)
			}
			return err
		})
		if o, ok := st.(Output); ok {
			prev = o
		}
	}
	pumpErr := g.Wait()

	for _, s := range all {
		if d, ok := s.(doner); ok {
			<-d.Done()
		}
	}
	for _, s := range all {
		if r, ok := s.(errReporter); ok {
			if err := r.Err(); err != nil {
				return err
			}
		}
	}
	return pumpErr
}
