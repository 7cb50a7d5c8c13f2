// mailbox
package actor

import (
	"sync"

	"github.com/gammazero/deque"
)

// mailbox is an unbounded FIFO queue of messages. Putting a
// message never blocks, so an actor can send to any other
// actor from inside its message handler without risking a
// wait cycle. Messages from one sender are taken in the order
// they were put.
type mailbox struct {
	mu     sync.Mutex
	queue  *deque.Deque[ActorMsg]
	ready  chan struct{}
	closed bool
}

func newMailbox() *mailbox {
	return &mailbox{
		queue: deque.New[ActorMsg](),
		ready: make(chan struct{}, 1),
	}
}

// put a message in the mailbox; false if the mailbox is closed
func (mb *mailbox) put(msg ActorMsg) bool {
	mb.mu.Lock()
	if mb.closed {
		mb.mu.Unlock()
		return false
	}
	mb.queue.PushBack(msg)
	mb.mu.Unlock()

	select {
	case mb.ready <- struct{}{}:
	default:
	}
	return true
}

// take the next message, waiting if there is none. The
// second result is false once the mailbox has been closed.
func (mb *mailbox) take() (ActorMsg, bool) {
	for {
		mb.mu.Lock()
		if mb.closed {
			mb.mu.Unlock()
			return nil, false
		}
		if mb.queue.Len() > 0 {
			msg := mb.queue.PopFront()
			mb.mu.Unlock()
			return msg, true
		}
		mb.mu.Unlock()
		<-mb.ready
	}
}

// close the mailbox, dropping anything still queued
func (mb *mailbox) close() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	dropped := mb.queue.Len()
	mb.closed = true
	mb.queue.Clear()
	select {
	case mb.ready <- struct{}{}:
	default:
	}
	return dropped
}

// number of messages waiting
func (mb *mailbox) len() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.queue.Len()
}
