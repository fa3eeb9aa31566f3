package events

import "time"

const (
	OrderCreatedTopic     = "backoffice.order.created"
	PaymentCompletedTopic = "backoffice.payment.completed"
	ReviewSavedTopic      = "backoffice.review.saved"
	StockAdjustedTopic    = "backoffice.stock.adjusted"
)

// Topics lists everything the reactor subscribes to.
var Topics = []string{
	OrderCreatedTopic,
	PaymentCompletedTopic,
	ReviewSavedTopic,
	StockAdjustedTopic,
}

type OrderCreatedEvent struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
	EventTime time.Time `json:"event_time"`
}

type PaymentCompletedEvent struct {
	PaymentID   string    `json:"payment_id"`
	OrderID     string    `json:"order_id"`
	Amount      float64   `json:"amount"`
	CompletedAt time.Time `json:"completed_at"`
	EventTime   time.Time `json:"event_time"`
}

// ReviewSavedEvent fires on review create, approval and delete; the reactor
// recomputes the product rating on each.
type ReviewSavedEvent struct {
	ReviewID  string    `json:"review_id"`
	ProductID string    `json:"product_id"`
	Rating    int       `json:"rating"`
	Approved  bool      `json:"approved"`
	EventTime time.Time `json:"event_time"`
}

type StockAdjustedEvent struct {
	ProductID     string    `json:"product_id"`
	Delta         int       `json:"delta"`
	QuantityAfter int       `json:"quantity_after"`
	Reason        string    `json:"reason"`
	EventTime     time.Time `json:"event_time"`
}
