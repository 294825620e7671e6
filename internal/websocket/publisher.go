package websocket

// EventPublisher defines the interface for publishing ledger events
type EventPublisher interface {
	// Publish sends an event to every subscriber of the specified workspace
	Publish(workspaceID int32, event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the workspace
func (h *Hub) Publish(workspaceID int32, event Event) {
	h.Broadcast(workspaceID, event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(workspaceID int32, event Event) {}

// MultiPublisher fans an event out to several publishers in order
type MultiPublisher []EventPublisher

// NewMultiPublisher drops nil publishers and returns the rest as one
func NewMultiPublisher(publishers ...EventPublisher) MultiPublisher {
	result := make(MultiPublisher, 0, len(publishers))
	for _, p := range publishers {
		if p != nil {
			result = append(result, p)
		}
	}
	return result
}

// Publish forwards the event to every publisher
func (m MultiPublisher) Publish(workspaceID int32, event Event) {
	for _, p := range m {
		p.Publish(workspaceID, event)
	}
}
