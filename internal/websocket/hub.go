package websocket

import (
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// AllGoals is the topic of clients that follow every goal, and the goal ID of app-wide events
const AllGoals int32 = 0

var (
	// ErrClientClosed is returned when attempting to send to a closed client
	ErrClientClosed = errors.New("client is closed")
	// ErrClientNotRegistered is returned when changing the subscriptions of an unknown client
	ErrClientNotRegistered = errors.New("client is not registered")
)

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	// GoalID is the goal the client follows when it registers, AllGoals for every goal
	GoalID() int32
	Send(data []byte) error
	Close() error
}

// Hub routes events to clients by goal topic. A client can follow several goals.
// It is safe for concurrent use
type Hub struct {
	// topics maps goal ID to the clients following it, keyed by client ID
	topics map[int32]map[string]ClientInterface
	// following maps client ID to the goals it follows
	following map[string]map[int32]struct{}
	mu        sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		topics:    make(map[int32]map[string]ClientInterface),
		following: make(map[string]map[int32]struct{}),
	}
}

// Register adds a client to the hub following its initial goal
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.following[client.ID()]; !ok {
		h.following[client.ID()] = make(map[int32]struct{})
	}
	h.addLocked(client, client.GoalID())

	log.Debug().
		Int32("goal_id", client.GoalID()).
		Str("client_id", client.ID()).
		Msg("WebSocket client registered")
}

// Subscribe makes a registered client follow goalID as well
func (h *Hub) Subscribe(client ClientInterface, goalID int32) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.following[client.ID()]; !ok {
		return ErrClientNotRegistered
	}
	h.addLocked(client, goalID)
	return nil
}

// Unsubscribe stops a client following goalID. The client stays connected.
func (h *Hub) Unsubscribe(client ClientInterface, goalID int32) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.following[client.ID()]; !ok {
		return ErrClientNotRegistered
	}
	h.removeLocked(client.ID(), goalID)
	return nil
}

// Unregister removes a client from every topic it follows
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clientID := client.ID()
	goals, ok := h.following[clientID]
	if !ok {
		return
	}
	for goalID := range goals {
		h.removeLocked(clientID, goalID)
	}
	delete(h.following, clientID)

	log.Debug().Str("client_id", clientID).Msg("WebSocket client unregistered")
}

func (h *Hub) addLocked(client ClientInterface, goalID int32) {
	if h.topics[goalID] == nil {
		h.topics[goalID] = make(map[string]ClientInterface)
	}
	h.topics[goalID][client.ID()] = client
	h.following[client.ID()][goalID] = struct{}{}
}

func (h *Hub) removeLocked(clientID string, goalID int32) {
	if clients, ok := h.topics[goalID]; ok {
		delete(clients, clientID)
		if len(clients) == 0 {
			delete(h.topics, goalID)
		}
	}
	if goals, ok := h.following[clientID]; ok {
		delete(goals, goalID)
	}
}

// Subscriptions returns the goals a client follows in ascending order
func (h *Hub) Subscriptions(clientID string) []int32 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	goals := make([]int32, 0, len(h.following[clientID]))
	for goalID := range h.following[clientID] {
		goals = append(goals, goalID)
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i] < goals[j] })
	return goals
}

// Broadcast sends an event to the clients following goalID and to the clients following every goal.
// An AllGoals event reaches every connected client. Each client gets the event once.
func (h *Hub) Broadcast(goalID int32, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Int32("goal_id", goalID).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	recipients := h.recipients(goalID)
	for _, client := range recipients {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().
					Err(err).
					Int32("goal_id", goalID).
					Str("client_id", c.ID()).
					Msg("Failed to send to client")
			}
		}(client)
	}

	if len(recipients) > 0 {
		log.Debug().
			Int32("goal_id", goalID).
			Str("event_type", event.Type).
			Int("client_count", len(recipients)).
			Msg("Broadcast event")
	}
}

// recipients copies the matching clients so no lock is held while sending
func (h *Hub) recipients(goalID int32) []ClientInterface {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[string]ClientInterface)
	collect := func(clients map[string]ClientInterface) {
		for id, c := range clients {
			seen[id] = c
		}
	}

	if goalID == AllGoals {
		for _, clients := range h.topics {
			collect(clients)
		}
	} else {
		collect(h.topics[goalID])
		collect(h.topics[AllGoals])
	}

	out := make([]ClientInterface, 0, len(seen))
	for _, c := range seen {
		out = append(out, c)
	}
	return out
}

// ClientCount returns the number of clients following a goal topic
func (h *Hub) ClientCount(goalID int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[goalID])
}

// TotalClientCount returns the number of connected clients
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.following)
}
