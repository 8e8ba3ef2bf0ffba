package models

// Category groups services in the catalog
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
