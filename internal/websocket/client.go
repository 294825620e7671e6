package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second

	// pings go out before the peer's read deadline expires
	pingPeriod = (pongWait * 9) / 10

	// inbound frames only carry subscriptions
	maxMessageSize = 1024

	sendBuffer = 256
)

const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

// Subscription is the only frame clients send. Subscribe narrows delivery to
// the listed entities. An empty entity list in either action restores
// delivery of every entity.
type Subscription struct {
	Action   string       `json:"action"`
	Entities []EntityType `json:"entities"`
}

// Client is one browser connection on a workspace's ledger feed
type Client struct {
	id          string
	workspaceID int32
	conn        *websocket.Conn
	hub         *Hub
	send        chan []byte
	log         zerolog.Logger

	mu        sync.RWMutex
	closed    bool
	entities  map[EntityType]bool // nil means every entity
	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, workspaceID int32, hub *Hub) *Client {
	id := uuid.New().String()
	return &Client{
		id:          id,
		workspaceID: workspaceID,
		conn:        conn,
		hub:         hub,
		send:        make(chan []byte, sendBuffer),
		log: log.With().
			Str("client_id", id).
			Int32("workspace_id", workspaceID).
			Logger(),
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) WorkspaceID() int32 { return c.workspaceID }

// Wants reports whether events about entity should reach this client
func (c *Client) Wants(entity EntityType) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entities == nil || c.entities[entity]
}

// Send queues data without blocking. A full buffer counts as a dead client.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrClientClosed
	}
}

// Close is idempotent and safe from any goroutine
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		err = c.conn.Close()
	})
	return err
}

func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Apply updates the client's entity filter from a subscription frame
func (c *Client) Apply(sub Subscription) error {
	for _, entity := range sub.Entities {
		if !entity.IsValid() {
			return fmt.Errorf("unknown entity %q", entity)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch sub.Action {
	case ActionSubscribe:
		if len(sub.Entities) == 0 {
			c.entities = nil
			return nil
		}
		if c.entities == nil {
			c.entities = make(map[EntityType]bool, len(sub.Entities))
		}
		for _, entity := range sub.Entities {
			c.entities[entity] = true
		}
	case ActionUnsubscribe:
		if c.entities == nil {
			c.entities = make(map[EntityType]bool, len(allEntities))
			for _, entity := range allEntities {
				c.entities[entity] = true
			}
		}
		for _, entity := range sub.Entities {
			delete(c.entities, entity)
		}
		if len(sub.Entities) == 0 {
			c.entities = nil
		}
	default:
		return fmt.Errorf("unknown action %q", sub.Action)
	}
	return nil
}

// ReadPump handles subscription frames and pongs until the connection drops.
// Run it in its own goroutine; it unregisters the client on exit.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("WebSocket unexpected close")
			}
			return
		}

		var sub Subscription
		if err := json.Unmarshal(data, &sub); err != nil {
			c.log.Debug().Err(err).Msg("Ignoring malformed WebSocket frame")
			continue
		}
		if err := c.Apply(sub); err != nil {
			c.log.Debug().Err(err).Msg("Ignoring WebSocket subscription")
		}
	}
}

// WritePump drains the send buffer and keeps the connection alive with pings.
// Run it in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Warn().Err(err).Msg("WebSocket write error")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
