package repository

import (
	"time"

	orderdomain "etsy-scanner-backend/internal/order/domain"
)

// OrderRepository defines the interface for order persistence operations
type OrderRepository interface {
	// InsertIgnoreDuplicate inserts the record unless one with the same
	// (order_id, owner_email) already exists. Returns whether a row was
	// actually written; a concurrent duplicate resolves to false, not an error.
	InsertIgnoreDuplicate(order *orderdomain.OrderRecord) (bool, error)
	// ExistsByOrderID checks for an existing record with the same order id for the owner
	ExistsByOrderID(ownerEmail, orderID string) (bool, error)
	// NewestOrderDate returns the most recent persisted order date, or nil when the owner has no orders
	NewestOrderDate(ownerEmail string) (*time.Time, error)
	// OldestOrderDate returns the earliest persisted order date, or nil when the owner has no orders
	OldestOrderDate(ownerEmail string) (*time.Time, error)
	// FindByOwner returns the owner's orders newest-first with pagination; limit <= 0 means no limit
	FindByOwner(ownerEmail string, limit, offset int) ([]*orderdomain.OrderRecord, error)
	// CountByOwner returns the total number of stored orders for the owner
	CountByOwner(ownerEmail string) (int64, error)
}
