package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Apply(t *testing.T) {
	c := &Client{}
	assert.True(t, c.Wants(EntityTypeEntry), "new clients receive every entity")

	require.NoError(t, c.Apply(Subscription{Action: ActionSubscribe, Entities: []EntityType{EntityTypeAccount}}))
	assert.True(t, c.Wants(EntityTypeAccount))
	assert.False(t, c.Wants(EntityTypeEntry))

	require.NoError(t, c.Apply(Subscription{Action: ActionSubscribe, Entities: []EntityType{EntityTypeTransfer}}))
	assert.True(t, c.Wants(EntityTypeAccount))
	assert.True(t, c.Wants(EntityTypeTransfer))

	require.NoError(t, c.Apply(Subscription{Action: ActionUnsubscribe, Entities: []EntityType{EntityTypeAccount}}))
	assert.False(t, c.Wants(EntityTypeAccount))
	assert.True(t, c.Wants(EntityTypeTransfer))

	require.NoError(t, c.Apply(Subscription{Action: ActionSubscribe}))
	assert.True(t, c.Wants(EntityTypeCategory))
}

func TestClient_ApplyUnsubscribeFromEverything(t *testing.T) {
	c := &Client{}

	require.NoError(t, c.Apply(Subscription{Action: ActionUnsubscribe, Entities: []EntityType{EntityTypeCategory, EntityTypeSubcategory}}))
	assert.False(t, c.Wants(EntityTypeCategory))
	assert.False(t, c.Wants(EntityTypeSubcategory))
	assert.True(t, c.Wants(EntityTypeEntry))

	require.NoError(t, c.Apply(Subscription{Action: ActionUnsubscribe}))
	assert.True(t, c.Wants(EntityTypeCategory))
}

func TestClient_ApplyRejectsUnknown(t *testing.T) {
	c := &Client{}

	assert.Error(t, c.Apply(Subscription{Action: "replace"}))
	assert.Error(t, c.Apply(Subscription{Action: ActionSubscribe, Entities: []EntityType{"budget"}}))
	assert.True(t, c.Wants(EntityTypeEntry), "rejected frames leave the filter untouched")
}

func TestClient_SendAfterClose(t *testing.T) {
	c := &Client{send: make(chan []byte, 1), closed: true}
	assert.ErrorIs(t, c.Send([]byte("{}")), ErrClientClosed)
}

func TestClient_SendFullBuffer(t *testing.T) {
	c := &Client{send: make(chan []byte, 1)}
	require.NoError(t, c.Send([]byte("1")))
	assert.ErrorIs(t, c.Send([]byte("2")), ErrClientClosed)
}
