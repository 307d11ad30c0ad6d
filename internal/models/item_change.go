package models

import "time"

// Item change event types broadcast to connected clients
const (
	ChangeEventInsert = "INSERT"
	ChangeEventUpdate = "UPDATE"
	ChangeEventDelete = "DELETE"
)

// ItemChangeEvent is the payload fanned out over WebSocket whenever the
// shared list mutates. DELETE events carry only the item ID.
type ItemChangeEvent struct {
	EventType string       `json:"event_type"`
	Item      *GroceryItem `json:"item,omitempty"`
	ItemID    string       `json:"item_id"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// NewItemChangeEvent builds a change event for a mutated item
func NewItemChangeEvent(eventType string, item *GroceryItem) *ItemChangeEvent {
	event := &ItemChangeEvent{
		EventType:  eventType,
		ItemID:     item.ID.String(),
		OccurredAt: time.Now(),
	}
	if eventType != ChangeEventDelete {
		event.Item = item
	}
	return event
}
