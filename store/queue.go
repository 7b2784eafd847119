package store

import (
	"context"
	"sync"

	"github.com/ozanturksever/reaktiv-go/action"
)

// priorityQueues is the store's dispatch buffer: two unbounded FIFO lanes,
// high and normal, with strict-priority draining (spec §4.3, invariant 6).
// pop always returns a queued high-priority action before any
// normal-priority one, no matter which arrived first.
type priorityQueues struct {
	mu     sync.Mutex
	cond   *sync.Cond
	high   []action.Envelope
	normal []action.Envelope
	closed bool
}

func newPriorityQueues() *priorityQueues {
	q := &priorityQueues{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push enqueues act on the lane matching its priority. Returns
// action.ErrStoreClosed once close has been called.
func (q *priorityQueues) push(act action.Envelope) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return action.ErrStoreClosed
	}
	if act.IsHighPriority() {
		q.high = append(q.high, act)
	} else {
		q.normal = append(q.normal, act)
	}
	q.cond.Signal()
	return nil
}

// len returns the combined depth of both lanes, used to surface
// queue-backlog warnings (config.Config.QueueWarnSize).
func (q *priorityQueues) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.high) + len(q.normal)
}

// pop blocks until an action is available, the queue is closed, or ctx is
// done, favoring the high lane whenever both are non-empty.
func (q *priorityQueues) pop(ctx context.Context) (action.Envelope, bool) {
	// A watcher goroutine turns ctx cancellation into a cond.Broadcast so
	// the wait loop below can observe it the same way cellSubscription's
	// Next does.
	if ctx.Done() != nil {
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			select {
			case <-ctx.Done():
				q.mu.Lock()
				q.cond.Broadcast()
				q.mu.Unlock()
			case <-stop:
			}
		}()
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.high) == 0 && len(q.normal) == 0 && !q.closed {
		if ctx.Err() != nil {
			return nil, false
		}
		q.cond.Wait()
	}
	if len(q.high) > 0 {
		v := q.high[0]
		q.high = q.high[1:]
		return v, true
	}
	if len(q.normal) > 0 {
		v := q.normal[0]
		q.normal = q.normal[1:]
		return v, true
	}
	return nil, false
}

// close marks the queues closed and wakes every blocked pop.
func (q *priorityQueues) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}
