// Package eventbus decouples notification producers from observers (CLI
// --wait mode, dispatch accounting) with a small in-memory fanout.
package eventbus

import (
	"sync"
	"time"
)

// Topic names the lifecycle moment an event describes.
type Topic string

const (
	TopicCreated Topic = "notify.created"
	TopicShown   Topic = "notify.shown"
	TopicClicked Topic = "notify.clicked"
	TopicClosed  Topic = "notify.closed"
	TopicFailed  Topic = "notify.failed"

	TopicQueued  Topic = "dispatch.queued"
	TopicDeduped Topic = "dispatch.deduped"
	TopicDropped Topic = "dispatch.dropped"
	TopicSent    Topic = "dispatch.sent"
)

// Event is a lightweight signal. Publish never blocks; slow subscribers
// lose events rather than stalling the notification path.
type Event struct {
	Topic   Topic
	Time    time.Time
	Variant string
	Title   string
	Tag     string
	Err     string
}

type Bus interface {
	Publish(e Event)
	Subscribe(buffer int) (<-chan Event, func())
}

// New returns an in-memory bus. It owns no goroutines; delivery happens on
// the publisher's goroutine via non-blocking channel sends.
func New() Bus {
	return &memBus{subs: map[uint64]chan Event{}}
}

type memBus struct {
	mu   sync.RWMutex
	next uint64
	subs map[uint64]chan Event
}

func (b *memBus) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	// Sends happen under the read lock so Unsubscribe (which closes the
	// channel under the write lock) can never race a send.
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default: // subscriber is behind; drop
		}
	}
}

func (b *memBus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	b.next++
	id := b.next
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			close(ch)
			b.mu.Unlock()
		})
	}
	return ch, cancel
}
