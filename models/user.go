package models

import (
	"time"
)

// Role identifies what a user is allowed to do in the marketplace
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)

// AllRoles lists every role, used when building breakdowns that must cover
// each role even with a zero count
var AllRoles = []Role{RoleCustomer, RoleProvider, RoleAdmin}

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// User represents an account in the system (customer, provider or admin)
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	FirstName string    `gorm:"not null" json:"first_name"`
	LastName  string    `gorm:"not null" json:"last_name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Role      Role      `gorm:"not null;default:'CUSTOMER'" json:"role"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// FullName returns the display name used in order and review projections
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
