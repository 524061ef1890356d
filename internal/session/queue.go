package session

import "sync"

// TaskQueue holds work deferred until the current event has been handled.
// Owners call Drain once they are done mutating state.
type TaskQueue struct {
	mu    sync.Mutex
	tasks []func()
}

// Post appends fn to the queue. It never runs fn synchronously.
func (q *TaskQueue) Post(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()
}

// Len reports the number of pending tasks.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Drain runs pending tasks in FIFO order, including tasks posted while
// draining, and returns how many ran.
func (q *TaskQueue) Drain() int {
	ran := 0
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return ran
		}
		fn := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()
		fn()
		ran++
	}
}
