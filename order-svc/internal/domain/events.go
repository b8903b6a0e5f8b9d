package domain

import "time"

type EventKind string

const (
	EventCartChanged      EventKind = "cart_changed"
	EventTableChanged     EventKind = "table_changed"
	EventOrderSubmitted   EventKind = "order_submitted"
	EventStatusChanged    EventKind = "status_changed"
	EventHistoryChanged   EventKind = "history_changed"
	EventProfileChanged   EventKind = "profile_changed"
	EventFavoritesChanged EventKind = "favorites_changed"
)

// Event is emitted by a session after each state change.
type Event struct {
	Kind    EventKind `json:"kind"`
	Status  Status    `json:"status"`
	OrderID string    `json:"order_id,omitempty"`
	Table   *Table    `json:"table,omitempty"`
	At      time.Time `json:"at"`
}

// OrderEvent is published to the change feed after a successful remote write.
type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"order_id"`
	TableNumber int       `json:"table_number"`
	Status      Status    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

const (
	OrderEventSaved         = "order_saved"
	OrderEventStatusUpdated = "order_status_updated"
)

type Notification struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}
