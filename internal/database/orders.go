package database

import (
	"fmt"
	"time"

	"github.com/jinzhu/gorm"

	"efficiensa/internal/kitchen"
	"efficiensa/internal/models"
)

// OrderRepository stores kitchen orders and their items
type OrderRepository struct {
	db *gorm.DB
}

var _ kitchen.Repository = (*OrderRepository)(nil)

// NewOrderRepository creates a repository on the given handle
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create inserts an order together with its items
func (r *OrderRepository) Create(o *models.Order) error {
	return r.inTx(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:save_associations", false).Create(o).Error; err != nil {
			return err
		}
		for i := range o.Items {
			o.Items[i].OrderID = o.ID
			if err := tx.Create(&o.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Get loads one order with its items in display order
func (r *OrderRepository) Get(id string) (*models.Order, error) {
	var o models.Order
	err := r.db.Preload("Items", byPosition).Where("id = ?", id).First(&o).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, kitchen.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByStatus loads every order in one of the statuses, oldest first
func (r *OrderRepository) ListByStatus(statuses ...models.Status) ([]*models.Order, error) {
	orders := []*models.Order{}
	if len(statuses) == 0 {
		return orders, nil
	}
	err := r.db.Preload("Items", byPosition).
		Where("status IN (?)", statuses).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Save updates an order and its items
func (r *OrderRepository) Save(o *models.Order) error {
	return r.inTx(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:save_associations", false).Save(o).Error; err != nil {
			return err
		}
		for i := range o.Items {
			o.Items[i].OrderID = o.ID
			if err := tx.Save(&o.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteCompletedBefore removes completed orders finished before the cutoff
func (r *OrderRepository) DeleteCompletedBefore(cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.inTx(func(tx *gorm.DB) error {
		var ids []string
		err := tx.Model(&models.Order{}).
			Where("status = ? AND completed_at < ?", models.StatusCompleted, cutoff).
			Pluck("id", &ids).Error
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("order_id IN (?)", ids).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN (?)", ids).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

func (r *OrderRepository) inTx(fn func(tx *gorm.DB) error) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}
