package scheduler

import (
	"sort"
	"sync"

	"unified-thinking/internal/types"
)

// priorityQueue orders CognitiveJobs by (-priority, insertion_seq): highest
// priority first, insertion order breaking ties within the same priority
// (§4.4, §5). It is a plain mutex-guarded slice rather than a heap because
// the dual-track "splice" preemption (§4.4) is naturally expressed as
// drain-reinsert-resort over a slice.
type priorityQueue struct {
	mu      sync.Mutex
	jobs    []*types.CognitiveJob
	nextSeq uint64
	notify  chan struct{}
}

func newPriorityQueue() *priorityQueue {
	return &priorityQueue{notify: make(chan struct{}, 1)}
}

func (q *priorityQueue) sort() {
	sort.SliceStable(q.jobs, func(i, j int) bool {
		if q.jobs[i].Priority != q.jobs[j].Priority {
			return q.jobs[i].Priority > q.jobs[j].Priority
		}
		return q.jobs[i].InsertionSeq() < q.jobs[j].InsertionSeq()
	})
}

func (q *priorityQueue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Enqueue appends a job in priority order.
func (q *priorityQueue) Enqueue(job *types.CognitiveJob) {
	q.mu.Lock()
	q.nextSeq++
	job.SetInsertionSeq(q.nextSeq)
	q.jobs = append(q.jobs, job)
	q.sort()
	q.mu.Unlock()
	q.wake()
}

// EnqueueHead implements the dual-track splice: drain the queue, place job
// at the head, then re-enqueue everything sorted by descending priority
// (§4.4). Used for priority-10 user-directed exploration jobs so they are
// dispatched ahead of lower-priority autonomous work already queued; among
// jobs of equal priority, insertion order still decides, so the new job goes
// after any equal-priority job queued before it.
func (q *priorityQueue) EnqueueHead(job *types.CognitiveJob) {
	q.mu.Lock()
	q.nextSeq++
	job.SetInsertionSeq(q.nextSeq)
	drained := q.jobs
	q.jobs = append([]*types.CognitiveJob{job}, drained...)
	q.sort()
	q.mu.Unlock()
	q.wake()
}

// Dequeue pops the highest-priority job, or nil if the queue is empty.
func (q *priorityQueue) Dequeue() *types.CognitiveJob {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return nil
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job
}

// Len returns the current queue depth.
func (q *priorityQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}
