package inventory

import (
	"time"

	"gorm.io/gorm"

	inventoryEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/inventory"
	inventoryRepo "github.com/jhkimon/crimson-erp-sub000/model/repository/inventory"
)

// AdjustmentInput is the payload for a manual stock correction.
type AdjustmentInput struct {
	VariantCode string `json:"variant_code" validate:"required"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Delta       int    `json:"delta" validate:"required"`
	Reason      string `json:"reason" validate:"required"`
	CreatedBy   string `json:"created_by"`
}

// RecordAdjustment appends one ledger entry for (variant, year, month) and
// get-or-creates the period snapshot. The variant's stock column and its
// legacy adjustment counter are left untouched: the ledger sum is the single
// derivation used for ending stock.
func RecordAdjustment(db *gorm.DB, in AdjustmentInput) (*inventoryEntity.InventoryAdjustment, error) {
	if in.Year == 0 && in.Month == 0 {
		now := time.Now()
		in.Year, in.Month = now.Year(), int(now.Month())
	}
	if in.Month < 1 || in.Month > 12 {
		return nil, ValidationError("month %d out of range 1-12", in.Month)
	}
	if in.Year < 2000 {
		return nil, ValidationError("year %d out of range", in.Year)
	}

	var entry *inventoryEntity.InventoryAdjustment
	err := db.Transaction(func(tx *gorm.DB) error {
		var variant inventoryEntity.Variant
		err := tx.Where("variant_code = ? AND is_active = ?", in.VariantCode, true).First(&variant).Error
		if err == gorm.ErrRecordNotFound {
			return InvalidVariantError(in.VariantCode)
		}
		if err != nil {
			return err
		}

		entry = &inventoryEntity.InventoryAdjustment{
			VariantID: variant.ID,
			Year:      in.Year,
			Month:     in.Month,
			Delta:     in.Delta,
			Reason:    in.Reason,
			CreatedBy: in.CreatedBy,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		// A snapshot row must exist for every period the ledger touches.
		_, err = inventoryRepo.GetOrCreateSnapshot(tx, variant.ID, in.Year, in.Month)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
