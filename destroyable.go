package through

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/imishinist/go-through/stream"
)

// DestroyableTransform is a transform unit whose Destroy runs its side
// effects once, on the unit's task queue.
type DestroyableTransform struct {
	*stream.Transform

	id       string
	config   Config
	teardown TeardownFunc
	logger   *slog.Logger

	destroyed atomic.Bool
	mu        sync.Mutex
	err       error
	done      chan struct{}
}

var _ Flow = (*DestroyableTransform)(nil)

// New creates a unit from resolved parameters.
func New(p Params) *DestroyableTransform {
	cfg := p.Config.withDefaults()
	t := stream.New(cfg.options())

	d := &DestroyableTransform{
		Transform: t,
		id:        uuid.NewString(),
		config:    cfg,
		teardown:  p.Teardown,
		logger:    t.Options().Logger,
		done:      make(chan struct{}),
	}

	transform := p.Transform
	if transform == nil {
		transform = identity
	}
	t.SetTransform(transform)
	if p.Flush != nil {
		t.SetFlush(p.Flush)
	}
	t.SetDestroyer(d.Destroy)

	activeGauge.WithLabelValues(cfg.Name).Inc()
	d.logger.Debug("through: created", "id", d.id, "name", cfg.Name, "mode", cfg.Mode, "high_water_mark", cfg.HighWaterMark)
	return d
}

// ID returns the unit's unique id.
func (d *DestroyableTransform) ID() string {
	return d.id
}

// Config returns the configuration merged with the defaults.
func (d *DestroyableTransform) Config() Config {
	return d.config
}

// Destroy tears the unit down. Only the first call has an effect: it stops
// processing, then on the next tick emits error (when err is non-nil) and
// close, or hands err to the teardown function when there is one.
func (d *DestroyableTransform) Destroy(err error) {
	if !d.destroyed.CompareAndSwap(false, true) {
		return
	}

	d.mu.Lock()
	d.err = err
	d.mu.Unlock()

	d.Cancel()
	destroyedCounter.WithLabelValues(d.config.Name, destroyReason(err)).Inc()
	d.logger.Debug("through: destroy", "id", d.id, "name", d.config.Name, "error", err)

	d.NextTick(func() {
		if d.teardown == nil {
			d.finish(err)
			return
		}
		var once sync.Once
		done := func(terr error) {
			once.Do(func() {
				d.NextTick(func() { d.finish(terr) })
			})
		}
		if perr := runTeardown(d.teardown, err, done); perr != nil {
			done(perr)
		}
	})
}

// runTeardown calls fn and turns a panic into an error.
func runTeardown(fn TeardownFunc, err error, done func(error)) (perr error) {
	defer func() {
		if r := recover(); r != nil {
			perr = fmt.Errorf("through: panic in teardown: %v", r)
		}
	}()
	fn(err, done)
	return nil
}

func (d *DestroyableTransform) finish(err error) {
	if err != nil {
		d.Emit(stream.EventError, err)
	}
	d.Emit(stream.EventClose)
	activeGauge.WithLabelValues(d.config.Name).Dec()
	close(d.done)
}

// Destroyed reports whether Destroy was called.
func (d *DestroyableTransform) Destroyed() bool {
	return d.destroyed.Load()
}

// Err returns the error the unit was destroyed with.
func (d *DestroyableTransform) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.err
}

// Done is closed after the close event was emitted.
func (d *DestroyableTransform) Done() <-chan struct{} {
	return d.done
}
