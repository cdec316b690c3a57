package websocket

import "github.com/google/uuid"

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	// Publish sends an event to all connected clients
	Publish(event Event)
	// PublishToUser sends an event to one user's connections
	PublishToUser(userID uuid.UUID, event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to all clients
func (h *Hub) Publish(event Event) {
	h.Broadcast(event)
}

// PublishToUser implements EventPublisher for a single user
func (h *Hub) PublishToUser(userID uuid.UUID, event Event) {
	h.BroadcastToUser(userID, event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(event Event) {}

// PublishToUser does nothing
func (n *NoOpPublisher) PublishToUser(userID uuid.UUID, event Event) {}
