package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeUpdated   EventType = "updated"
	EventTypeDeleted   EventType = "deleted"
	EventTypeGenerated EventType = "generated"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeReferenceRate EntityType = "reference_rate"
	EntityTypeRatePackage   EntityType = "rate_package"
	EntityTypeBank          EntityType = "bank"
	EntityTypeReport        EntityType = "report"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "reference_rate.updated"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "reference_rate"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ReferenceRateUpdated creates a reference_rate.updated event. Open
// calculator sessions re-resolve package rates when they receive it.
func ReferenceRateUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeReferenceRate, payload)
}

// RatePackageCreated creates a rate_package.created event
func RatePackageCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeRatePackage, payload)
}

// RatePackageUpdated creates a rate_package.updated event
func RatePackageUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeRatePackage, payload)
}

// RatePackageDeleted creates a rate_package.deleted event
func RatePackageDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeRatePackage, payload)
}

// BankUpdated creates a bank.updated event
func BankUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBank, payload)
}

// ReportGenerated creates a report.generated event
func ReportGenerated(payload interface{}) Event {
	return NewEvent(EventTypeGenerated, EntityTypeReport, payload)
}
