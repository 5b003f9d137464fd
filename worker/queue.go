package worker

import "github.com/google/uuid"

// ParseTask identifies one scene awaiting the describer.
type ParseTask struct {
	ScriptID uuid.UUID
	SceneID  uuid.UUID
}

// ParseQueue is a bounded multi-producer multi-consumer queue of parse
// tasks. Submit never blocks the producer; a full queue is the caller's
// signal to leave the scene pending for a later resubmission.
type ParseQueue struct {
	ch chan ParseTask
}

func NewParseQueue(capacity int) *ParseQueue {
	if capacity <= 0 {
		capacity = 64
	}
	return &ParseQueue{ch: make(chan ParseTask, capacity)}
}

// Submit offers a task without blocking. Returns false when the queue
// is full.
func (q *ParseQueue) Submit(task ParseTask) bool {
	select {
	case q.ch <- task:
		return true
	default:
		return false
	}
}

// Take blocks until a task is available or the queue is closed.
func (q *ParseQueue) Take() (ParseTask, bool) {
	task, ok := <-q.ch
	return task, ok
}

// Close stops the queue; workers drain what is buffered and exit.
func (q *ParseQueue) Close() {
	close(q.ch)
}

// Len reports the number of buffered tasks.
func (q *ParseQueue) Len() int {
	return len(q.ch)
}
