package inventory

import "time"

// InventoryAdjustment is one manual stock correction. Rows are append-only:
// no update or delete path exists once a row is written (audit trail).
type InventoryAdjustment struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	VariantID uint      `gorm:"column:variant_id;not null;index:idx_adjustment_period" json:"variant_id"`
	Year      int       `gorm:"column:year;not null;index:idx_adjustment_period" json:"year"`
	Month     int       `gorm:"column:month;not null;index:idx_adjustment_period" json:"month"`
	Delta     int       `gorm:"column:delta;not null" json:"delta"`
	Reason    string    `gorm:"column:reason;type:varchar(255);not null" json:"reason"`
	CreatedBy string    `gorm:"column:created_by;type:varchar(64)" json:"created_by"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (InventoryAdjustment) TableName() string {
	return "inventory_adjustments"
}
