package state

import (
	"errors"
	"sync"
)

// ErrLoopClosed is returned by Dispatch after the loop has been closed.
var ErrLoopClosed = errors.New("trcafe: dispatch loop closed")

// Loop is the serialized action queue. Every store mutation is a function
// dispatched onto the loop and executed by a single goroutine, so no two
// reducers ever run concurrently. Asynchronous work (network calls) runs
// off the loop and re-enters only via a dispatched resolution.
type Loop struct {
	queue chan func()

	// mu guards closed. Dispatch holds the read lock across its enqueue so
	// that Close cannot begin between the closed check and the send; every
	// accepted function is therefore enqueued before the drain starts and
	// is guaranteed to run.
	mu     sync.RWMutex
	closed bool

	done    chan struct{}
	drained chan struct{}
}

// NewLoop starts a new dispatch loop.
func NewLoop() *Loop {
	l := &Loop{
		queue:   make(chan func(), 64),
		done:    make(chan struct{}),
		drained: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.drained)
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-l.done:
			// Drain whatever was queued before close.
			for {
				select {
				case fn := <-l.queue:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Dispatch enqueues fn for serialized execution. It blocks if the queue is
// full and returns ErrLoopClosed if the loop has been closed. A nil return
// guarantees fn will execute, even if Close runs concurrently.
func (l *Loop) Dispatch(fn func()) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return ErrLoopClosed
	}
	l.queue <- fn
	return nil
}

// DispatchWait enqueues fn and blocks until it has executed.
// Useful for tests and for snapshot reads that must observe every
// previously dispatched mutation.
func (l *Loop) DispatchWait(fn func()) error {
	ran := make(chan struct{})
	if err := l.Dispatch(func() {
		fn()
		close(ran)
	}); err != nil {
		return err
	}
	<-ran
	return nil
}

// Close stops the loop after draining queued work. It is safe to call
// multiple times.
func (l *Loop) Close() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.done)
	}
	l.mu.Unlock()
	<-l.drained
}
