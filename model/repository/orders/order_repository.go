package orders

import (
	"errors"

	"gorm.io/gorm"

	ordersEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/orders"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(o *ordersEntity.Order) error {
	return r.db.Create(o).Error
}

// FindByIDWithItems returns the order and its items, nil when absent.
func (r *OrderRepository) FindByIDWithItems(id uint) (*ordersEntity.Order, error) {
	var o ordersEntity.Order
	err := r.db.Preload("Items").First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns orders newest first, optionally filtered by status.
func (r *OrderRepository) List(status string, limit, offset int) ([]ordersEntity.Order, error) {
	q := r.db.Preload("Items").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	var out []ordersEntity.Order
	err := q.Find(&out).Error
	return out, err
}
