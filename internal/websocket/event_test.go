package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":          1,
		"description": "Dízimo",
		"value":       "500.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeEntry, payload)
	after := time.Now()

	assert.Equal(t, "entry.created", evt.Type)
	assert.Equal(t, EntityTypeEntry, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_JSON_Serialization(t *testing.T) {
	fixedTime := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	payload := map[string]interface{}{
		"id":          float64(1),
		"description": "Oferta",
		"value":       "100.00",
	}

	evt := Event{
		Type:      "entry.created",
		Entity:    EntityTypeEntry,
		Payload:   payload,
		Timestamp: fixedTime,
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded Event
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, evt.Type, decoded.Type)
	assert.Equal(t, evt.Entity, decoded.Entity)
	assert.Equal(t, fixedTime.UTC(), decoded.Timestamp.UTC())

	decodedPayload, ok := decoded.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), decodedPayload["id"])
	assert.Equal(t, "Oferta", decodedPayload["description"])
	assert.Equal(t, "100.00", decodedPayload["value"])
}

func TestEvent_ToJSON(t *testing.T) {
	evt := AccountBalanceChanged(map[string]interface{}{"id": float64(42), "balance": "1300.00"})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "account.balance_changed", decoded["type"])
	assert.Equal(t, "account", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{"id": float64(1)}

	tests := []struct {
		name     string
		build    func(interface{}) Event
		expected string
		entity   EntityType
	}{
		{"EntryCreated", EntryCreated, "entry.created", EntityTypeEntry},
		{"EntryUpdated", EntryUpdated, "entry.updated", EntityTypeEntry},
		{"EntryStatusChanged", EntryStatusChanged, "entry.status_changed", EntityTypeEntry},
		{"EntryReceiptChanged", EntryReceiptChanged, "entry.receipt_changed", EntityTypeEntry},
		{"EntryDeleted", EntryDeleted, "entry.deleted", EntityTypeEntry},
		{"TransferCreated", TransferCreated, "transfer.created", EntityTypeTransfer},
		{"TransferDeleted", TransferDeleted, "transfer.deleted", EntityTypeTransfer},
		{"AccountCreated", AccountCreated, "account.created", EntityTypeAccount},
		{"AccountDeactivated", AccountDeactivated, "account.deactivated", EntityTypeAccount},
		{"CategoryDeactivated", CategoryDeactivated, "category.deactivated", EntityTypeCategory},
		{"SubcategoryCreated", SubcategoryCreated, "subcategory.created", EntityTypeSubcategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := tt.build(payload)
			assert.Equal(t, tt.expected, evt.Type)
			assert.Equal(t, tt.entity, evt.Entity)
			assert.Equal(t, payload, evt.Payload)
		})
	}
}
