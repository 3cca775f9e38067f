// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// OrderPlacedEvent is published when a checkout commits. It carries enough
// information for downstream consumers to log, notify, or trigger analytics
// without querying the primary database.
type OrderPlacedEvent struct {
	OrderID     uint64           `json:"order_id"`
	UserID      uint64           `json:"user_id"`
	UserEmail   string           `json:"user_email"`
	Status      string           `json:"status"`
	TotalAmount float64          `json:"total_amount"`
	Items       []OrderPlacedRow `json:"items"`
	PlacedAt    string           `json:"placed_at"`
}

// OrderPlacedRow is one line of the order as it was priced at checkout.
type OrderPlacedRow struct {
	ProductID uint64  `json:"product_id"`
	Quantity  uint32  `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
