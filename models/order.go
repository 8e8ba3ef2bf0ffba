package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
// PENDING -> CONFIRMED -> IN_PROGRESS -> COMPLETED is the expected forward
// path, with CANCELLED reachable from any non-terminal state. The ledger does
// not enforce the graph; role-gated handlers decide which transitions to
// offer.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusInProgress OrderStatus = "IN_PROGRESS"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// AllOrderStatuses lists every status, used when building breakdowns that
// must cover each status even with a zero count
var AllOrderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

// ParseOrderStatus converts a string (e.g. a URL or body parameter) into an
// OrderStatus, rejecting unknown values
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	for _, known := range AllOrderStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// IsTerminal reports whether no further transitions are expected
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Order is the central entity of the marketplace. TotalPrice is a snapshot of
// the service price at creation time and never recomputed; CompletedAt is set
// exactly once, on the transition to COMPLETED.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CustomerID  uint            `gorm:"not null;index" json:"customer_id"`
	Customer    User            `gorm:"foreignKey:CustomerID" json:"-"`
	ServiceID   uint            `gorm:"not null;index" json:"service_id"`
	Service     Service         `gorm:"foreignKey:ServiceID" json:"-"`
	ProviderID  *uint           `gorm:"index" json:"provider_id,omitempty"`
	Provider    *User           `gorm:"foreignKey:ProviderID" json:"-"`
	ScheduledAt time.Time       `gorm:"not null" json:"scheduled_at"`
	Address     string          `json:"address"`
	Notes       string          `json:"notes"`
	Status      OrderStatus     `gorm:"not null;default:'PENDING'" json:"status"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_price"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
