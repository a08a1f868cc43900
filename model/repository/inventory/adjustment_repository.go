package inventory

import (
	"database/sql"

	"gorm.io/gorm"

	inventoryEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/inventory"
)

type AdjustmentRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewAdjustmentRepository(db *gorm.DB) (*AdjustmentRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &AdjustmentRepository{db: db, sqlDB: sqlDB}, nil
}

// SumDeltas returns the ledger delta sum for (variant, year, month), 0 when
// no entries exist.
func (r *AdjustmentRepository) SumDeltas(variantID uint, year, month int) (int, error) {
	return SumAdjustmentDeltas(r.db, variantID, year, month)
}

// ListByPeriod returns all ledger entries for a period, newest first.
func (r *AdjustmentRepository) ListByPeriod(year, month int) ([]inventoryEntity.InventoryAdjustment, error) {
	var rows []inventoryEntity.InventoryAdjustment
	err := r.db.Where("year = ? AND month = ?", year, month).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// ListByVariant returns a variant's ledger entries for a period, newest first.
func (r *AdjustmentRepository) ListByVariant(variantID uint, year, month int) ([]inventoryEntity.InventoryAdjustment, error) {
	var rows []inventoryEntity.InventoryAdjustment
	err := r.db.Where("variant_id = ? AND year = ? AND month = ?", variantID, year, month).
		Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// SumAdjustmentDeltas is the tx-scoped form of SumDeltas.
func SumAdjustmentDeltas(tx *gorm.DB, variantID uint, year, month int) (int, error) {
	var total int
	err := tx.Raw(
		`SELECT COALESCE(SUM(delta), 0) FROM inventory_adjustments WHERE variant_id = ? AND year = ? AND month = ?`,
		variantID, year, month,
	).Scan(&total).Error
	return total, err
}

// SumAdjustmentDeltasByPeriod returns variant_id -> delta sum for a whole
// period in one query. Used by rollover seeding and sheet export.
func SumAdjustmentDeltasByPeriod(tx *gorm.DB, year, month int) (map[uint]int, error) {
	rows, err := tx.Raw(
		`SELECT variant_id, COALESCE(SUM(delta), 0) AS total FROM inventory_adjustments WHERE year = ? AND month = ? GROUP BY variant_id`,
		year, month,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uint]int)
	for rows.Next() {
		var variantID uint
		var total int
		if err := rows.Scan(&variantID, &total); err != nil {
			continue
		}
		result[variantID] = total
	}
	return result, nil
}
