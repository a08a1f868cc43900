package inventory

import (
	"errors"

	"gorm.io/gorm"

	inventoryEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/inventory"
)

type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// FindByPeriod returns the snapshot for (variant, year, month), nil when absent.
func (r *SnapshotRepository) FindByPeriod(variantID uint, year, month int) (*inventoryEntity.ProductVariantStatus, error) {
	return findSnapshot(r.db, variantID, year, month)
}

// ListByPeriod returns all snapshots of a period ordered by variant.
func (r *SnapshotRepository) ListByPeriod(year, month int) ([]inventoryEntity.ProductVariantStatus, error) {
	var rows []inventoryEntity.ProductVariantStatus
	err := r.db.Where("year = ? AND month = ?", year, month).Order("variant_id").Find(&rows).Error
	return rows, err
}

// CountByPeriod returns the number of snapshot rows in a period.
func (r *SnapshotRepository) CountByPeriod(year, month int) (int64, error) {
	var n int64
	err := r.db.Model(&inventoryEntity.ProductVariantStatus{}).
		Where("year = ? AND month = ?", year, month).Count(&n).Error
	return n, err
}

// ExistingVariantIDs returns the set of variant IDs that already have a
// snapshot in the period. Used by the rollover skip check.
func (r *SnapshotRepository) ExistingVariantIDs(year, month int) (map[uint]bool, error) {
	return existingSnapshotVariantIDs(r.db, year, month)
}

func findSnapshot(tx *gorm.DB, variantID uint, year, month int) (*inventoryEntity.ProductVariantStatus, error) {
	var s inventoryEntity.ProductVariantStatus
	err := tx.Where("variant_id = ? AND year = ? AND month = ?", variantID, year, month).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func existingSnapshotVariantIDs(tx *gorm.DB, year, month int) (map[uint]bool, error) {
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

// GetOrCreateSnapshot returns the period snapshot for a variant, creating a
// zero-field row when absent. Existing rows are never overwritten.
func GetOrCreateSnapshot(tx *gorm.DB, variantID uint, year, month int) (*inventoryEntity.ProductVariantStatus, error) {
	s, err := findSnapshot(tx, variantID, year, month)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return s, nil
	}
	s = &inventoryEntity.ProductVariantStatus{
		VariantID: variantID,
		Year:      year,
		Month:     month,
	}
	if err := tx.Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}
