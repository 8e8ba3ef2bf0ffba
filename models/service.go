package models

import (
	"github.com/shopspring/decimal"
)

// Service represents an offering in the catalog. Provider is optional: a
// service may be listed before anyone is assigned to fulfil it. Price is a
// pointer because a service without a determinable price cannot be ordered.
type Service struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	Name            string           `gorm:"not null" json:"name"`
	Description     string           `json:"description"`
	Price           *decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	DurationMinutes int              `json:"duration_minutes"`
	ImageKey        string           `json:"-"` // S3 object key, exposed via presigned URL
	CategoryID      uint             `gorm:"not null;index" json:"category_id"`
	Category        Category         `gorm:"foreignKey:CategoryID" json:"-"`
	ProviderID      *uint            `gorm:"index" json:"provider_id,omitempty"`
	Provider        *User            `gorm:"foreignKey:ProviderID" json:"-"`
	Active          bool             `gorm:"not null;default:true" json:"active"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}
