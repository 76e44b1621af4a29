package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to the entity
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeUpdated   EventType = "updated"
	EventTypeDeleted   EventType = "deleted"
	EventTypeCompleted EventType = "completed"
	EventTypeAwarded   EventType = "awarded"
	EventTypeDue       EventType = "due"
	EventTypeRejected  EventType = "rejected"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeGoal         EntityType = "goal"
	EntityTypeLedgerEntry  EntityType = "ledger_entry"
	EntityTypeBadge        EntityType = "badge"
	EntityTypeReminder     EntityType = "reminder"
	EntityTypeSubscription EntityType = "subscription"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, goalId, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`             // Combined type e.g. "goal.updated"
	Entity    EntityType  `json:"entity"`           // Entity type e.g. "goal"
	GoalID    int32       `json:"goalId,omitempty"` // Goal the event belongs to, zero for app-wide events
	Payload   interface{} `json:"payload"`          // Full entity data
	Timestamp time.Time   `json:"timestamp"`        // Event timestamp
}

// NewEvent creates a new event with the given type, entity, goal and payload
func NewEvent(eventType EventType, entityType EntityType, goalID int32, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		GoalID:    goalID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// GoalCreated creates a goal.created event
func GoalCreated(goalID int32, payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeGoal, goalID, payload)
}

// GoalUpdated creates a goal.updated event
func GoalUpdated(goalID int32, payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeGoal, goalID, payload)
}

// GoalDeleted creates a goal.deleted event
func GoalDeleted(goalID int32, payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeGoal, goalID, payload)
}

// GoalCompleted creates a goal.completed event
func GoalCompleted(goalID int32, payload interface{}) Event {
	return NewEvent(EventTypeCompleted, EntityTypeGoal, goalID, payload)
}

// LedgerEntryCreated creates a ledger_entry.created event
func LedgerEntryCreated(goalID int32, payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeLedgerEntry, goalID, payload)
}

// LedgerEntryDeleted creates a ledger_entry.deleted event
func LedgerEntryDeleted(goalID int32, payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeLedgerEntry, goalID, payload)
}

// BadgeAwarded creates a badge.awarded event
func BadgeAwarded(payload interface{}) Event {
	return NewEvent(EventTypeAwarded, EntityTypeBadge, AllGoals, payload)
}

// ReminderDue creates a reminder.due event
func ReminderDue(payload interface{}) Event {
	return NewEvent(EventTypeDue, EntityTypeReminder, AllGoals, payload)
}

// SubscriptionUpdated creates a subscription.updated reply listing the goals the client now follows
func SubscriptionUpdated(goalID int32, following []int32) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSubscription, goalID, map[string]interface{}{"goalIds": following})
}

// SubscriptionRejected creates a subscription.rejected reply for a request that could not be applied
func SubscriptionRejected(reason string) Event {
	return NewEvent(EventTypeRejected, EntityTypeSubscription, AllGoals, map[string]string{"error": reason})
}
