package stream

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	ssync "github.com/imishinist/go-through/sync"
)

// Callback completes a transform or flush step. A non-nil err destroys the
// stream with it; every non-nil value of out is pushed to the readable end.
type Callback func(err error, out ...any)

// TransformFunc is called once per written chunk and must eventually call next.
type TransformFunc func(chunk any, encoding string, next Callback)

// FlushFunc is called once after the last chunk was transformed.
type FlushFunc func(next Callback)

// DefaultHighWaterMark is used when Options.HighWaterMark is not positive.
const DefaultHighWaterMark = 16

// Options configures a Transform.
type Options struct {
	// ObjectMode treats every chunk as one opaque item. Otherwise chunks are
	// bytes and the high-water mark counts bytes.
	ObjectMode bool

	// HighWaterMark is the writable load at which Write starts to block.
	HighWaterMark int

	// Name labels metrics and log records.
	Name string

	// Encoding renders byte output as a string: "utf8", "hex" or "base64".
	Encoding string

	Logger *slog.Logger
}

type pending struct {
	chunk  any
	weight uint
}

type result struct {
	err error
	out []any
}

// Transform is a duplex stream: chunks written to it are passed through a
// TransformFunc and the results are read from Out.
//
// The processing goroutine starts on the first Write or End. Transform,
// flush and destroyer must be set before that.
type Transform struct {
	*Emitter

	opts   Options
	logger *slog.Logger
	queue  *Queue

	transform TransformFunc
	flush     FlushFunc
	destroyer func(error)

	in  chan pending
	out chan any
	sem *ssync.DynamicSemaphore

	mu       sync.RWMutex
	ended    bool
	finished atomic.Bool

	ctx       context.Context
	cancel    context.CancelFunc
	startOnce sync.Once
}

// New creates a Transform that passes chunks through unchanged until a
// TransformFunc is set.
func New(opts Options) *Transform {
	if opts.HighWaterMark <= 0 {
		opts.HighWaterMark = DefaultHighWaterMark
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	queue := &Queue{}
	ctx, cancel := context.WithCancel(context.Background())
	t := &Transform{
		Emitter: NewEmitter(queue, opts.Logger, EventError, EventClose),
		opts:    opts,
		logger:  opts.Logger,
		queue:   queue,
		in:      make(chan pending, opts.HighWaterMark),
		out:     make(chan any, opts.HighWaterMark),
		sem:     ssync.NewDynamicSemaphore(uint(opts.HighWaterMark)),
		ctx:     ctx,
		cancel:  cancel,
	}
	t.transform = func(chunk any, _ string, next Callback) { next(nil, chunk) }
	t.destroyer = t.destroy
	return t
}

// SetTransform sets the per-chunk function. A nil fn is ignored.
func (t *Transform) SetTransform(fn TransformFunc) {
	if fn != nil {
		t.transform = fn
	}
}

// SetFlush sets the end-of-stream function.
func (t *Transform) SetFlush(fn FlushFunc) {
	t.flush = fn
}

// SetDestroyer replaces the function the stream calls when a step fails or
// when it ended cleanly. A nil fn restores the default.
func (t *Transform) SetDestroyer(fn func(err error)) {
	if fn == nil {
		fn = t.destroy
	}
	t.destroyer = fn
}

// destroy cancels the stream and emits synchronously every time it is called.
func (t *Transform) destroy(err error) {
	t.Cancel()
	if err != nil {
		t.Emit(EventError, err)
	}
	t.Emit(EventClose)
}

// Options returns the options the stream was created with.
func (t *Transform) Options() Options {
	return t.opts
}

// NextTick posts fn to the stream's task queue.
func (t *Transform) NextTick(fn func()) {
	t.queue.Post(fn)
}

// Out returns the readable end. It is closed after the last push, or when
// the stream is cancelled.
func (t *Transform) Out() <-chan any {
	return t.out
}

// WritableLength returns the load written but not yet transformed.
func (t *Transform) WritableLength() uint {
	return t.sem.Count()
}

// ReadableLength returns the number of pushed items not yet read.
func (t *Transform) ReadableLength() int {
	return len(t.out)
}

// Finished reports whether the readable end was closed after every chunk
// and the flush were pushed. It is false for a cancelled stream.
func (t *Transform) Finished() bool {
	return t.finished.Load()
}

// Cancelled reports whether Cancel was called.
func (t *Transform) Cancelled() bool {
	return t.ctx.Err() != nil
}

// Cancel stops processing and closes the readable end. A step that is in
// flight is not interrupted, its result is dropped.
func (t *Transform) Cancel() {
	t.cancel()
	t.startOnce.Do(func() { close(t.out) })
}

// Write queues chunk for the transform, blocking while the writable load is
// at the high-water mark.
func (t *Transform) Write(ctx context.Context, chunk any) error {
	chunk, weight, err := t.admit(chunk)
	if err != nil {
		return err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.ended {
		return ErrWriteAfterEnd
	}
	if t.Cancelled() {
		return ErrDestroyed
	}
	t.start()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(t.ctx, cancel)
	defer stop()

	if err := t.sem.AcquireN(ctx, weight); err != nil {
		if t.Cancelled() {
			return ErrDestroyed
		}
		return err
	}
	// in holds at most HighWaterMark chunks because every queued chunk
	// holds at least one unit of the semaphore.
	t.in <- pending{chunk: chunk, weight: weight}
	itemsCounter.WithLabelValues(t.opts.Name, "in").Inc()
	bufferedGauge.WithLabelValues(t.opts.Name).Add(float64(weight))
	return nil
}

// End closes the writable end. Chunks already written are still transformed,
// then the flush function runs and the readable end is closed.
func (t *Transform) End() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return nil
	}
	if t.Cancelled() {
		return ErrDestroyed
	}
	t.ended = true
	t.start()
	close(t.in)
	return nil
}

func (t *Transform) start() {
	t.startOnce.Do(func() { go t.run() })
}

func (t *Transform) run() {
	finished := false
	defer func() {
		if finished {
			t.finished.Store(true)
		}
		close(t.out)
		if finished {
			t.Emit(EventEnd)
			t.destroyer(nil)
		}
	}()

	for {
		select {
		case <-t.ctx.Done():
			return
		case p, ok := <-t.in:
			if !ok {
				if !t.runFlush() {
					return
				}
				t.Emit(EventFinish)
				finished = true
				return
			}
			ok = t.step(func(next Callback) {
				t.transform(p.chunk, t.encodingHint(), next)
			})
			t.sem.ReleaseN(p.weight)
			bufferedGauge.WithLabelValues(t.opts.Name).Sub(float64(p.weight))
			if !ok {
				return
			}
		}
	}
}

func (t *Transform) runFlush() bool {
	if t.flush == nil {
		return true
	}
	return t.step(func(next Callback) { t.flush(next) })
}

// step calls fn with a one-shot callback, waits for it and pushes the output.
func (t *Transform) step(fn func(next Callback)) bool {
	done := make(chan result, 1)
	var called atomic.Bool
	next := func(err error, out ...any) {
		if !called.CompareAndSwap(false, true) {
			t.destroyer(ErrMultipleCallback)
			return
		}
		done <- result{err: err, out: out}
	}

	if err := invoke(fn, next); err != nil {
		t.destroyer(err)
		return false
	}

	var r result
	select {
	case <-t.ctx.Done():
		return false
	case r = <-done:
	}
	if t.Cancelled() {
		return false
	}
	if r.err != nil {
		t.destroyer(r.err)
		return false
	}
	return t.push(r.out)
}

func invoke(fn func(next Callback), next Callback) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stream: panic in transform: %v", r)
		}
	}()
	fn(next)
	return nil
}

func (t *Transform) push(out []any) bool {
	for _, v := range out {
		if v == nil {
			continue
		}
		if t.Cancelled() {
			return false
		}
		select {
		case <-t.ctx.Done():
			return false
		case t.out <- t.render(v):
			itemsCounter.WithLabelValues(t.opts.Name, "out").Inc()
		}
	}
	return true
}
