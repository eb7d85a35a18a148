package repository

import (
	"time"

	orderdomain "etsy-scanner-backend/internal/order/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderRepository implements OrderRepository using GORM
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new instance of orderRepository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// InsertIgnoreDuplicate relies on the composite unique index on
// (order_id, owner_email): the first writer wins and later attempts are
// silently ignored, so concurrent batch members never step on each other.
func (r *orderRepository) InsertIgnoreDuplicate(order *orderdomain.OrderRecord) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}, {Name: "owner_email"}},
		DoNothing: true,
	}).Create(order)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepository) ExistsByOrderID(ownerEmail, orderID string) (bool, error) {
	var order orderdomain.OrderRecord
	err := r.db.Where("owner_email = ? AND order_id = ?", ownerEmail, orderID).First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *orderRepository) NewestOrderDate(ownerEmail string) (*time.Time, error) {
	return r.boundaryOrderDate(ownerEmail, "order_date DESC")
}

func (r *orderRepository) OldestOrderDate(ownerEmail string) (*time.Time, error) {
	return r.boundaryOrderDate(ownerEmail, "order_date ASC")
}

func (r *orderRepository) boundaryOrderDate(ownerEmail, order string) (*time.Time, error) {
	var record orderdomain.OrderRecord
	err := r.db.Where("owner_email = ?", ownerEmail).Order(order).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record.OrderDate, nil
}

func (r *orderRepository) FindByOwner(ownerEmail string, limit, offset int) ([]*orderdomain.OrderRecord, error) {
	var orders []*orderdomain.OrderRecord
	query := r.db.Where("owner_email = ?", ownerEmail).Order("order_date DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Find(&orders).Error
	return orders, err
}

func (r *orderRepository) CountByOwner(ownerEmail string) (int64, error) {
	var total int64
	err := r.db.Model(&orderdomain.OrderRecord{}).Where("owner_email = ?", ownerEmail).Count(&total).Error
	return total, err
}
