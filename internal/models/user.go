package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin       = "admin"
	RoleSalesperson = "salesperson"
	RoleCustomer    = "customer"
)

// Account statuses
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null"`
	Name         string `gorm:"not null"`
	Phone        string `gorm:"uniqueIndex;not null"`
	Role         string `gorm:"default:'customer'"`
	Status       string `gorm:"default:'active'"`
	LastLoginAt  time.Time
	LastLoginIP  string
	TokenVersion int `gorm:"default:1"`

	// Salesperson counters. Incremented with atomic expressions inside
	// the same transaction as the status change they account for; the
	// stats service double-checks them with live queries.
	TotalQRsSold       int     `gorm:"default:0"`
	DigitalWalletCoins float64 `gorm:"default:0"`
}

func (u *User) IsSalesperson() bool {
	return u.Role == RoleSalesperson
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

type CreateUserInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,e164|numeric"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin salesperson customer"`
}
