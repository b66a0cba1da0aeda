package domain

import "time"

// OrderChangeType captures what changed in a history entry.
type OrderChangeType string

const (
	ChangeTypePlaced  OrderChangeType = "PLACED"
	ChangeTypeStatus  OrderChangeType = "STATUS_CHANGE"
	ChangeTypePayment OrderChangeType = "PAYMENT_CHANGE"
	ChangeTypeRider   OrderChangeType = "RIDER_CHANGE"
)

// OrderHistory is an immutable audit trail entry.
type OrderHistory struct {
	ID          string
	OrderID     string
	ChangedByID *string
	ChangedRole *Role
	ChangeType  OrderChangeType
	OldValue    map[string]any
	NewValue    map[string]any
	CreatedAt   time.Time
}
