package inventory

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	inventoryEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/inventory"
	inventoryRepo "github.com/jhkimon/crimson-erp-sub000/model/repository/inventory"
)

// RolloverOptions selects between the two carry-forward modes.
type RolloverOptions struct {
	// SeedFromEndingStock seeds next month's warehouse opening with the
	// source month's derived ending stock (explicit creation endpoint).
	// When false only the variant identity is carried (scheduled job).
	SeedFromEndingStock bool
	// RequireSource makes an empty source period an error instead of a
	// zero-row result.
	RequireSource bool
	BatchSize     int
}

// RolloverResult reports one rollover run.
type RolloverResult struct {
	NextYear  int `json:"next_year"`
	NextMonth int `json:"next_month"`
	Created   int `json:"created"`
	Skipped   int `json:"skipped"`
}

// nextPeriod computes the calendar-next month; December wraps to January.
func nextPeriod(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

// PrevPeriod computes the calendar-previous month; January wraps to December.
// The explicit creation endpoint takes a target period and rolls the period
// before it forward.
func PrevPeriod(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// Rollover carries every (year, month) snapshot forward into the next
// period. Variants that already have a target-period row are skipped, so
// re-running (or two concurrent scheduled runs) is safe.
func Rollover(db *gorm.DB, year, month int, opts RolloverOptions) (*RolloverResult, error) {
	if month < 1 || month > 12 {
		return nil, ValidationError("month %d out of range 1-12", month)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}

	nextYear, nextMonth := nextPeriod(year, month)
	result := &RolloverResult{NextYear: nextYear, NextMonth: nextMonth}

	err := db.Transaction(func(tx *gorm.DB) error {
		var source []inventoryEntity.ProductVariantStatus
		if err := tx.Where("year = ? AND month = ?", year, month).Order("variant_id").Find(&source).Error; err != nil {
			return err
		}
		if len(source) == 0 {
			if opts.RequireSource {
				return ErrPriorPeriodMissing
			}
			return nil
		}

		existing, err := existingTargetVariantIDs(tx, nextYear, nextMonth)
		if err != nil {
			return err
		}

		var adjustments map[uint]int
		if opts.SeedFromEndingStock {
			adjustments, err = inventoryRepo.SumAdjustmentDeltasByPeriod(tx, year, month)
			if err != nil {
				return err
			}
		}

		rows := make([]inventoryEntity.ProductVariantStatus, 0, len(source))
		for _, s := range source {
			if existing[s.VariantID] {
				result.Skipped++
				continue
			}
			row := inventoryEntity.ProductVariantStatus{
				VariantID: s.VariantID,
				Year:      nextYear,
				Month:     nextMonth,
			}
			if opts.SeedFromEndingStock {
				row.WarehouseStockStart = s.EndingStock(adjustments[s.VariantID])
			}
			rows = append(rows, row)
		}

		if len(rows) > 0 {
			// A concurrent run may have inserted the same (variant, period)
			// rows between our existence check and here; skip, don't fail.
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, opts.BatchSize).Error; err != nil {
				return err
			}
		}
		result.Created = len(rows)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func existingTargetVariantIDs(tx *gorm.DB, year, month int) (map[uint]bool, error) {
	var ids []uint
	err := tx.Model(&inventoryEntity.ProductVariantStatus{}).
		Where("year = ? AND month = ?", year, month).
		Pluck("variant_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
