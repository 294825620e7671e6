package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

var ErrClientClosed = errors.New("client is closed")

// ClientInterface is what the hub needs from a connection
type ClientInterface interface {
	ID() string
	WorkspaceID() int32
	Wants(entity EntityType) bool
	Send(data []byte) error
	Close() error
}

// Hub fans ledger events out to the connections of each workspace.
// It is safe for concurrent use.
type Hub struct {
	mu      sync.RWMutex
	clients map[int32]map[string]ClientInterface // workspace -> client id -> client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int32]map[string]ClientInterface)}
}

func (h *Hub) Register(client ClientInterface) {
	ws := client.WorkspaceID()

	h.mu.Lock()
	if h.clients[ws] == nil {
		h.clients[ws] = make(map[string]ClientInterface)
	}
	h.clients[ws][client.ID()] = client
	count := len(h.clients[ws])
	h.mu.Unlock()

	log.Debug().
		Int32("workspace_id", ws).
		Str("client_id", client.ID()).
		Int("client_count", count).
		Msg("WebSocket client registered")
}

// Unregister is a no-op for clients the hub does not know
func (h *Hub) Unregister(client ClientInterface) {
	ws := client.WorkspaceID()

	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[ws]
	if _, ok := clients[client.ID()]; !ok {
		return
	}
	delete(clients, client.ID())
	if len(clients) == 0 {
		delete(h.clients, ws)
	}

	log.Debug().
		Int32("workspace_id", ws).
		Str("client_id", client.ID()).
		Msg("WebSocket client unregistered")
}

// Broadcast delivers event to every client of the workspace subscribed to the
// event's entity. Sends run asynchronously; a failed send is only logged.
func (h *Hub) Broadcast(workspaceID int32, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().Err(err).
			Int32("workspace_id", workspaceID).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	recipients := make([]ClientInterface, 0, len(h.clients[workspaceID]))
	for _, client := range h.clients[workspaceID] {
		if client.Wants(event.Entity) {
			recipients = append(recipients, client)
		}
	}
	h.mu.RUnlock()

	if len(recipients) == 0 {
		return
	}

	for _, client := range recipients {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().Err(err).
					Int32("workspace_id", workspaceID).
					Str("client_id", c.ID()).
					Msg("Failed to send to client")
			}
		}(client)
	}

	log.Debug().
		Int32("workspace_id", workspaceID).
		Str("event_type", event.Type).
		Int("client_count", len(recipients)).
		Msg("Broadcast event")
}

func (h *Hub) ClientCount(workspaceID int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[workspaceID])
}

func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

// Shutdown closes every connected client and empties the hub
func (h *Hub) Shutdown() {
	h.mu.Lock()
	all := h.clients
	h.clients = make(map[int32]map[string]ClientInterface)
	h.mu.Unlock()

	closed := 0
	for _, clients := range all {
		for _, client := range clients {
			if err := client.Close(); err != nil {
				log.Debug().Err(err).Str("client_id", client.ID()).Msg("Error closing WebSocket client")
			}
			closed++
		}
	}

	log.Info().Int("client_count", closed).Msg("WebSocket hub shut down")
}
