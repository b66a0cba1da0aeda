package domain

import "time"

// UserStatus represents lifecycle states for a customer account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is a storefront customer who owns a cart and places orders.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor returns the explicit caller context for this customer.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: RoleCustomer}
}
