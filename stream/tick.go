package stream

import "sync"

// Queue runs posted tasks one at a time in the order they were posted,
// never on the stack of the goroutine that posted them.
// The draining goroutine only exists while tasks are pending.
type Queue struct {
	mu      sync.Mutex
	tasks   []func()
	running bool
}

// Post schedules fn to run after every previously posted task.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	q.mu.Unlock()

	go q.drain()
}

func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		fn := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		fn()
	}
}
