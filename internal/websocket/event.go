package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated        EventType = "created"
	EventTypeUpdated        EventType = "updated"
	EventTypeDeleted        EventType = "deleted"
	EventTypeDeactivated    EventType = "deactivated"
	EventTypeReactivated    EventType = "reactivated"
	EventTypeStatusChanged  EventType = "status_changed"
	EventTypeBalanceChanged EventType = "balance_changed"
	EventTypeReceiptChanged EventType = "receipt_changed"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeEntry       EntityType = "entry"
	EntityTypeTransfer    EntityType = "transfer"
	EntityTypeAccount     EntityType = "account"
	EntityTypeCategory    EntityType = "category"
	EntityTypeSubcategory EntityType = "subcategory"
)

var allEntities = []EntityType{
	EntityTypeEntry,
	EntityTypeTransfer,
	EntityTypeAccount,
	EntityTypeCategory,
	EntityTypeSubcategory,
}

func (e EntityType) IsValid() bool {
	for _, entity := range allEntities {
		if e == entity {
			return true
		}
	}
	return false
}

// Event represents a ledger event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "entry.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "entry"
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

// EntryCreated creates an entry.created event
func EntryCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeEntry, payload)
}

// EntryUpdated creates an entry.updated event
func EntryUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeEntry, payload)
}

// EntryStatusChanged creates an entry.status_changed event
func EntryStatusChanged(payload interface{}) Event {
	return NewEvent(EventTypeStatusChanged, EntityTypeEntry, payload)
}

// EntryReceiptChanged creates an entry.receipt_changed event
func EntryReceiptChanged(payload interface{}) Event {
	return NewEvent(EventTypeReceiptChanged, EntityTypeEntry, payload)
}

// EntryDeleted creates an entry.deleted event
func EntryDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeEntry, payload)
}

// TransferCreated creates a transfer.created event
func TransferCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransfer, payload)
}

// TransferDeleted creates a transfer.deleted event
func TransferDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransfer, payload)
}

// AccountCreated creates an account.created event
func AccountCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeAccount, payload)
}

// AccountUpdated creates an account.updated event
func AccountUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeAccount, payload)
}

// AccountBalanceChanged creates an account.balance_changed event
func AccountBalanceChanged(payload interface{}) Event {
	return NewEvent(EventTypeBalanceChanged, EntityTypeAccount, payload)
}

// AccountDeactivated creates an account.deactivated event
func AccountDeactivated(payload interface{}) Event {
	return NewEvent(EventTypeDeactivated, EntityTypeAccount, payload)
}

// AccountReactivated creates an account.reactivated event
func AccountReactivated(payload interface{}) Event {
	return NewEvent(EventTypeReactivated, EntityTypeAccount, payload)
}

// AccountDeleted creates an account.deleted event
func AccountDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeAccount, payload)
}

// CategoryCreated creates a category.created event
func CategoryCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeCategory, payload)
}

// CategoryUpdated creates a category.updated event
func CategoryUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeCategory, payload)
}

// CategoryDeactivated creates a category.deactivated event
func CategoryDeactivated(payload interface{}) Event {
	return NewEvent(EventTypeDeactivated, EntityTypeCategory, payload)
}

// CategoryReactivated creates a category.reactivated event
func CategoryReactivated(payload interface{}) Event {
	return NewEvent(EventTypeReactivated, EntityTypeCategory, payload)
}

// CategoryDeleted creates a category.deleted event
func CategoryDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeCategory, payload)
}

// SubcategoryCreated creates a subcategory.created event
func SubcategoryCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeSubcategory, payload)
}

// SubcategoryUpdated creates a subcategory.updated event
func SubcategoryUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSubcategory, payload)
}

// SubcategoryDeactivated creates a subcategory.deactivated event
func SubcategoryDeactivated(payload interface{}) Event {
	return NewEvent(EventTypeDeactivated, EntityTypeSubcategory, payload)
}
