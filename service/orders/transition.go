package orders

import (
	"sort"

	"gorm.io/gorm"

	"github.com/jhkimon/crimson-erp-sub000/core/cache"
	ordersEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/orders"
	inventoryRepo "github.com/jhkimon/crimson-erp-sub000/model/repository/inventory"
)

// StockChange reports one item's stock effect within a transition.
type StockChange struct {
	VariantCode string `json:"variant_code"`
	Delta       int    `json:"delta"`
	Stock       int    `json:"stock"`
}

// TransitionResult is the outcome of one status transition.
type TransitionResult struct {
	Order        *ordersEntity.Order `json:"order"`
	StockChanges []StockChange       `json:"stock_changes"`
}

// Transition moves an order to newStatus and applies the stock effect of
// crossing the COMPLETED boundary to every item's variant. The whole
// transition is one transaction: either all item stock changes commit or
// none do.
//
// Entering COMPLETED adds item quantities to variant stock (goods
// received); leaving COMPLETED subtracts them and is rejected outright when
// any variant would go negative. Transitions that do not touch COMPLETED
// only write the status.
func Transition(db *gorm.DB, orderID uint, newStatus string) (*TransitionResult, error) {
	if !ordersEntity.ValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	result := &TransitionResult{StockChanges: []StockChange{}}
	err := db.Transaction(func(tx *gorm.DB) error {
		var order ordersEntity.Order
		err := tx.Preload("Items").First(&order, orderID).Error
		if err == gorm.ErrRecordNotFound {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if order.Status == newStatus {
			return ErrNoOpTransition
		}

		entering := newStatus == ordersEntity.StatusCompleted
		leaving := order.Status == ordersEntity.StatusCompleted

		if entering || leaving {
			changes, err := applyStockEffect(tx, order.Items, entering)
			if err != nil {
				return err
			}
			result.StockChanges = changes
		}

		order.Status = newStatus
		if err := tx.Model(&order).Update("status", newStatus).Error; err != nil {
			return err
		}
		result.Order = &order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.StockChanges) > 0 {
		cache.GetInstance().InvalidateTag("variants")
	}
	return result, nil
}

// applyStockEffect mutates each item's variant stock under row locks.
// Variants are locked in ID order so two overlapping transitions cannot
// deadlock each other.
func applyStockEffect(tx *gorm.DB, items []ordersEntity.OrderItem, receiving bool) ([]StockChange, error) {
	byVariant := make(map[uint]int, len(items))
	for _, item := range items {
		byVariant[item.VariantID] += item.Quantity
	}
	ids := make([]uint, 0, len(byVariant))
	for id := range byVariant {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	changes := make([]StockChange, 0, len(ids))
	for _, id := range ids {
		variant, err := inventoryRepo.LockByID(tx, id)
		if err != nil {
			return nil, err
		}

		qty := byVariant[id]
		delta := qty
		if !receiving {
			if variant.Stock < qty {
				return nil, &InsufficientStockError{
					VariantCode: variant.VariantCode,
					Required:    qty,
					Available:   variant.Stock,
				}
			}
			delta = -qty
		}

		variant.Stock += delta
		if err := tx.Model(variant).Update("stock", variant.Stock).Error; err != nil {
			return nil, err
		}
		changes = append(changes, StockChange{
			VariantCode: variant.VariantCode,
			Delta:       delta,
			Stock:       variant.Stock,
		})
	}
	return changes, nil
}
