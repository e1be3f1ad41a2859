package testutil

import (
	"sync"

	"github.com/dafibh/fortuna/ledger-backend/internal/websocket"
)

// PublishedEvent is one event captured by RecordingPublisher
type PublishedEvent struct {
	TenantID int32
	Event    websocket.Event
}

// RecordingPublisher is a websocket.EventPublisher that keeps every event
type RecordingPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

// Publish records the event
func (p *RecordingPublisher) Publish(tenantID int32, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, PublishedEvent{TenantID: tenantID, Event: event})
}

// Events returns a copy of the recorded events
func (p *RecordingPublisher) Events() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	copied := make([]PublishedEvent, len(p.events))
	copy(copied, p.events)
	return copied
}

// Types returns the combined type of each recorded event, in order
func (p *RecordingPublisher) Types() []string {
	events := p.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Event.Type
	}
	return types
}
