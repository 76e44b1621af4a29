package testutil

import (
	"sync"

	"github.com/dafibh/coinspot/coinspot-backend/internal/websocket"
)

// PublishedEvent is an event with the goal topic it was published to
type PublishedEvent struct {
	GoalID int32
	Event  websocket.Event
}

// MockEventPublisher records every published event
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// Publish records the event
func (m *MockEventPublisher) Publish(goalID int32, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{GoalID: goalID, Event: event})
}

// Types returns the type of every recorded event in publish order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.Event.Type)
	}
	return types
}
