package model

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/math-battle/internal/game"
)

// eventQueue buffers backend events for the Bubble Tea loop. Producers never
// block: batches are queued and a single waiter is woken.
type eventQueue struct {
	mu      sync.Mutex
	seq     uint64
	batches []Batch
	ready   chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{ready: make(chan struct{}, 1)}
}

// push is the session listener.
func (q *eventQueue) push(events []game.Event, st game.State) {
	q.add(Batch{Events: events, State: st})
}

// pushError queues an error reported outside of a user action.
func (q *eventQueue) pushError(err error) {
	q.add(Batch{Err: err})
}

func (q *eventQueue) add(b Batch) {
	q.mu.Lock()
	q.seq++
	b.Seq = q.seq
	q.batches = append(q.batches, b)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// drain takes every queued batch.
func (q *eventQueue) drain() []Batch {
	q.mu.Lock()
	defer q.mu.Unlock()
	batches := q.batches
	q.batches = nil
	return batches
}

// wait returns a command that blocks until events arrive.
func (q *eventQueue) wait() tea.Cmd {
	return func() tea.Msg {
		<-q.ready
		return EventsMsg{Batches: q.drain()}
	}
}
