package models

import (
	"time"
)

// Review is a customer's rating of a completed order. The unique index on
// OrderID enforces at most one review per order.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"uniqueIndex;not null" json:"order_id"`
	Order      Order     `gorm:"foreignKey:OrderID" json:"-"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	Customer   User      `gorm:"foreignKey:CustomerID" json:"-"`
	ProviderID *uint     `gorm:"index" json:"provider_id,omitempty"`
	Provider   *User     `gorm:"foreignKey:ProviderID" json:"-"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}
