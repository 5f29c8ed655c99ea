// Package events defines the order event contracts and the outbox
// publisher that moves them to Kafka.
package events

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

type Event struct {
	EventID   string         `json:"event_id"`
	OrderID   string         `json:"order_id"`
	Type      string         `json:"type"`
	CreatedAt time.Time      `json:"created_at"`
	Payload   map[string]any `json:"payload"`
}

// Record is one outbox row. Rows are written in the same transaction
// as the state change they describe and published asynchronously.
type Record struct {
	ID        int64           `json:"id"`
	EventID   string          `json:"event_id"`
	Topic     string          `json:"topic"`
	Key       string          `json:"key"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at"`
}
