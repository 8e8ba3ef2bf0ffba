package models

import (
	"time"
)

// OrderEvent is the payload published on every order mutation. It is not
// persisted; delivery is best-effort and at-most-once.
type OrderEvent struct {
	EventID    string      `json:"event_id"`
	OrderID    uint        `json:"order_id"`
	CustomerID uint        `json:"customer_id"`
	ServiceID  uint        `json:"service_id"`
	Status     OrderStatus `json:"status"`
	Timestamp  time.Time   `json:"timestamp"`
	Message    string      `json:"message"`
}
