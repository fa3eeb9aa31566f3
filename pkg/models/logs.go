package models

import (
	"encoding/json"
	"time"
)

const (
	WebhookProcessed = "processed"
	WebhookIgnored   = "ignored"
	WebhookInvalid   = "invalid"
)

// StockHistory is an append-only record of every quantity change.
type StockHistory struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Delta         int       `json:"delta"`
	QuantityAfter int       `json:"quantity_after"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

// AuditLog is an append-only record of admin mutations.
type AuditLog struct {
	ID         string    `json:"id"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// WebhookLog records every inbound provider callback, valid or not.
type WebhookLog struct {
	ID         string          `json:"id"`
	Provider   string          `json:"provider"`
	EventType  string          `json:"event_type"`
	Payload    json.RawMessage `json:"payload"`
	Status     string          `json:"status"`
	ReceivedAt time.Time       `json:"received_at"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,max=200"`
}
