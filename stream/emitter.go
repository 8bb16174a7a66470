package stream

import (
	"log/slog"
	"sync"
)

// Event names a notification emitted by a stream.
type Event string

const (
	// EventError carries the error a stream was destroyed with.
	EventError Event = "error"
	// EventClose is emitted once a stream and its resources are released.
	EventClose Event = "close"
	// EventFinish is emitted after the writable end was ended and flushed.
	EventFinish Event = "finish"
	// EventEnd is emitted after the readable end was closed.
	EventEnd Event = "end"
)

// Listener receives the arguments an event was emitted with.
type Listener func(args ...any)

type listener struct {
	fn   Listener
	once bool
}

// Emitter dispatches events to listeners synchronously.
//
// Latched events stay fired: a listener added after a latched event was
// emitted is called once with the original arguments, posted to the queue.
type Emitter struct {
	mu        sync.Mutex
	listeners map[Event][]*listener
	latched   map[Event]bool
	fired     map[Event][]any

	queue  *Queue
	logger *slog.Logger
}

// NewEmitter creates an Emitter posting late latched deliveries to queue.
func NewEmitter(queue *Queue, logger *slog.Logger, latched ...Event) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Emitter{
		listeners: make(map[Event][]*listener),
		latched:   make(map[Event]bool, len(latched)),
		fired:     make(map[Event][]any),
		queue:     queue,
		logger:    logger,
	}
	for _, ev := range latched {
		e.latched[ev] = true
	}
	return e
}

// On adds fn as a listener for ev.
func (e *Emitter) On(ev Event, fn Listener) {
	e.add(ev, &listener{fn: fn})
}

// Once adds fn as a listener for ev that is removed after its first call.
func (e *Emitter) Once(ev Event, fn Listener) {
	e.add(ev, &listener{fn: fn, once: true})
}

func (e *Emitter) add(ev Event, l *listener) {
	if l.fn == nil {
		return
	}

	e.mu.Lock()
	if _, ok := e.fired[ev]; !ok && len(e.fired) > 0 {
		// A latched sequence is being emitted from the queue. Register after
		// it so late listeners see its events in order.
		e.mu.Unlock()
		e.queue.Post(func() { e.register(ev, l) })
		return
	}
	e.mu.Unlock()
	e.register(ev, l)
}

func (e *Emitter) register(ev Event, l *listener) {
	e.mu.Lock()
	if args, ok := e.fired[ev]; ok {
		e.mu.Unlock()
		e.queue.Post(func() { l.fn(args...) })
		return
	}
	e.listeners[ev] = append(e.listeners[ev], l)
	e.mu.Unlock()
}

// Emit calls every listener of ev in registration order and reports whether
// there was any. An error event without listeners is logged.
func (e *Emitter) Emit(ev Event, args ...any) bool {
	e.mu.Lock()
	current := e.listeners[ev]
	if e.latched[ev] {
		e.fired[ev] = args
		delete(e.listeners, ev)
	} else {
		kept := current[:0:0]
		for _, l := range current {
			if !l.once {
				kept = append(kept, l)
			}
		}
		e.listeners[ev] = kept
	}
	e.mu.Unlock()

	if len(current) == 0 {
		if ev == EventError {
			e.logger.Warn("unhandled error event", "args", args)
		}
		return false
	}
	for _, l := range current {
		l.fn(args...)
	}
	return true
}

// ListenerCount returns the number of listeners waiting for ev.
func (e *Emitter) ListenerCount(ev Event) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.listeners[ev])
}
