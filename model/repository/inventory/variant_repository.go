package inventory

import (
	"database/sql"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	inventoryEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/inventory"
)

type VariantRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewVariantRepository(db *gorm.DB) (*VariantRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &VariantRepository{db: db, sqlDB: sqlDB}, nil
}

// GetStockByCode returns the on-hand stock for a variant code.
// Uses raw SQL for minimal overhead
func (r *VariantRepository) GetStockByCode(code string) (int, bool) {
	const query = `SELECT stock FROM product_variants WHERE variant_code = ? AND is_active = true LIMIT 1`
	var stock sql.NullInt64
	if err := r.sqlDB.QueryRow(query, code).Scan(&stock); err != nil || !stock.Valid {
		return 0, false
	}
	return int(stock.Int64), true
}

// GetPriceByCode returns the price for a variant code as a raw string.
func (r *VariantRepository) GetPriceByCode(code string) (string, bool) {
	const query = `SELECT price FROM product_variants WHERE variant_code = ? AND is_active = true LIMIT 1`
	var price sql.NullString
	if err := r.sqlDB.QueryRow(query, code).Scan(&price); err != nil || !price.Valid {
		return "", false
	}
	return price.String, true
}

// FindByCode returns the variant with the exact code, active or not.
func (r *VariantRepository) FindByCode(code string) (*inventoryEntity.Variant, error) {
	var v inventoryEntity.Variant
	err := r.db.Where("variant_code = ?", code).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FindActiveByCode returns the active variant with the exact code, nil when absent.
func (r *VariantRepository) FindActiveByCode(code string) (*inventoryEntity.Variant, error) {
	var v inventoryEntity.Variant
	err := r.db.Where("variant_code = ? AND is_active = ?", code, true).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListByProduct returns all variants of a product.
func (r *VariantRepository) ListByProduct(productID uint) ([]inventoryEntity.Variant, error) {
	var vs []inventoryEntity.Variant
	err := r.db.Where("product_id = ?", productID).Find(&vs).Error
	return vs, err
}

// BatchGetByCodes fetches variants for multiple codes in one query.
func (r *VariantRepository) BatchGetByCodes(codes []string) (map[string]inventoryEntity.Variant, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var vs []inventoryEntity.Variant
	if err := r.db.Where("variant_code IN ?", codes).Find(&vs).Error; err != nil {
		return nil, err
	}
	result := make(map[string]inventoryEntity.Variant, len(vs))
	for _, v := range vs {
		result[v.VariantCode] = v
	}
	return result, nil
}

func (r *VariantRepository) Create(v *inventoryEntity.Variant) error {
	return r.db.Create(v).Error
}

func (r *VariantRepository) Save(v *inventoryEntity.Variant) error {
	return r.db.Save(v).Error
}

// LockByID reads a variant row under SELECT ... FOR UPDATE within tx.
// Callers mutating stock must go through this to serialize
// read-modify-write against concurrent transitions.
func LockByID(tx *gorm.DB, id uint) (*inventoryEntity.Variant, error) {
	var v inventoryEntity.Variant
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}
