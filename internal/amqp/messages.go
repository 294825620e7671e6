package amqp

import (
	"encoding/json"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/websocket"
)

// LedgerMessage is the body published for every ledger event. Downstream
// consumers (recurring entry scheduler, notification dispatch) route on Type.
type LedgerMessage struct {
	WorkspaceID int32                `json:"workspaceId"`
	Type        string               `json:"type"`
	Entity      websocket.EntityType `json:"entity"`
	Payload     json.RawMessage      `json:"payload"`
	Timestamp   time.Time            `json:"timestamp"`
}

// NewLedgerMessage wraps an event for publishing
func NewLedgerMessage(workspaceID int32, event websocket.Event) (*LedgerMessage, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, err
	}
	return &LedgerMessage{
		WorkspaceID: workspaceID,
		Type:        event.Type,
		Entity:      event.Entity,
		Payload:     payload,
		Timestamp:   event.Timestamp,
	}, nil
}

// ToJSON converts the message to JSON bytes
func (m *LedgerMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerMessageFromJSON decodes a message body
func LedgerMessageFromJSON(data []byte) (*LedgerMessage, error) {
	var msg LedgerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
