package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient records what the hub sends it
type fakeClient struct {
	id          string
	workspaceID int32
	only        map[EntityType]bool

	mu       sync.Mutex
	received []Event
	closed   bool
}

func newFakeClient(id string, workspaceID int32, only ...EntityType) *fakeClient {
	c := &fakeClient{id: id, workspaceID: workspaceID}
	if len(only) > 0 {
		c.only = make(map[EntityType]bool)
		for _, e := range only {
			c.only[e] = true
		}
	}
	return c
}

func (c *fakeClient) ID() string         { return c.id }
func (c *fakeClient) WorkspaceID() int32 { return c.workspaceID }

func (c *fakeClient) Wants(entity EntityType) bool {
	return c.only == nil || c.only[entity]
}

func (c *fakeClient) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return err
	}
	c.received = append(c.received, evt)
	return nil
}

func (c *fakeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeClient) events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.received...)
}

func eventuallyReceives(t *testing.T, c *fakeClient, n int) {
	t.Helper()
	assert.Eventually(t, func() bool { return len(c.events()) == n },
		time.Second, 5*time.Millisecond, "client %s expected %d events", c.id, n)
}

func TestHub_ClientCounts(t *testing.T) {
	hub := NewHub()
	treasurer := newFakeClient("treasurer", 1)
	pastor := newFakeClient("pastor", 1)
	other := newFakeClient("other-church", 2)

	hub.Register(treasurer)
	hub.Register(pastor)
	hub.Register(other)
	assert.Equal(t, 2, hub.ClientCount(1))
	assert.Equal(t, 1, hub.ClientCount(2))
	assert.Equal(t, 3, hub.TotalClientCount())

	hub.Unregister(pastor)
	hub.Unregister(other)
	assert.Equal(t, 1, hub.ClientCount(1))
	assert.Equal(t, 0, hub.ClientCount(2))

	require.NotPanics(t, func() { hub.Unregister(other) })
}

func TestHub_BroadcastStaysInWorkspace(t *testing.T) {
	hub := NewHub()
	a := newFakeClient("a", 1)
	b := newFakeClient("b", 1)
	outsider := newFakeClient("outsider", 2)
	hub.Register(a)
	hub.Register(b)
	hub.Register(outsider)

	hub.Broadcast(1, TransferCreated(map[string]interface{}{"id": 7}))

	eventuallyReceives(t, a, 1)
	eventuallyReceives(t, b, 1)
	assert.Equal(t, "transfer.created", a.events()[0].Type)

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, outsider.events())
}

func TestHub_BroadcastHonoursSubscriptions(t *testing.T) {
	hub := NewHub()
	balances := newFakeClient("balances", 1, EntityTypeAccount)
	everything := newFakeClient("everything", 1)
	hub.Register(balances)
	hub.Register(everything)

	hub.Broadcast(1, EntryCreated(map[string]interface{}{"id": 1}))
	hub.Broadcast(1, AccountBalanceChanged(map[string]interface{}{"id": 3}))

	eventuallyReceives(t, everything, 2)
	eventuallyReceives(t, balances, 1)
	assert.Equal(t, "account.balance_changed", balances.events()[0].Type)
}

func TestHub_BroadcastToEmptyWorkspace(t *testing.T) {
	hub := NewHub()
	require.NotPanics(t, func() {
		hub.Broadcast(999, EntryDeleted(map[string]interface{}{"id": 1}))
	})
}

func TestHub_ConcurrentRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	const n = 40

	clients := make([]*fakeClient, n)
	for i := range clients {
		clients[i] = newFakeClient(fmt.Sprintf("client-%d", i), int32(i%4))
	}

	var wg sync.WaitGroup
	for _, c := range clients {
		wg.Add(1)
		go func(c *fakeClient) {
			defer wg.Done()
			hub.Register(c)
		}(c)
	}
	wg.Wait()
	assert.Equal(t, n, hub.TotalClientCount())

	for i, c := range clients {
		wg.Add(2)
		go func(ws int32) {
			defer wg.Done()
			hub.Broadcast(ws, EntryStatusChanged(map[string]interface{}{"status": "confirmed"}))
		}(int32(i % 4))
		go func(c *fakeClient) {
			defer wg.Done()
			hub.Unregister(c)
		}(c)
	}
	wg.Wait()
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_Shutdown(t *testing.T) {
	hub := NewHub()
	a := newFakeClient("a", 1)
	b := newFakeClient("b", 2)
	hub.Register(a)
	hub.Register(b)

	hub.Shutdown()

	assert.True(t, a.isClosed())
	assert.True(t, b.isClosed())
	assert.Equal(t, 0, hub.TotalClientCount())
}
