package ipc

// Submission pairs a request with the correlation id minted at submit time.
type Submission struct {
	ID      string
	Request Request
}

// Queue is an unbounded FIFO backlog of submissions. It is purely
// structural: no deduplication, no size bound, no locking. The channel owns
// the only instance and mutates it under its own lock.
type Queue struct {
	items []Submission
}

// Enqueue appends a submission to the tail.
func (q *Queue) Enqueue(sub Submission) {
	q.items = append(q.items, sub)
}

// DequeueNext removes and returns the head. The second return value is false
// when no submissions are pending.
func (q *Queue) DequeueNext() (Submission, bool) {
	if len(q.items) == 0 {
		return Submission{}, false
	}
	head := q.items[0]
	q.items[0] = Submission{}
	q.items = q.items[1:]
	return head, true
}

// Len reports the number of pending submissions.
func (q *Queue) Len() int { return len(q.items) }

// Clear drops every pending submission and returns how many were dropped.
func (q *Queue) Clear() int {
	dropped := len(q.items)
	q.items = nil
	return dropped
}
