package servicetest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	hrEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/hr"
	inventoryEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/inventory"
	ordersEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/orders"
	supplierEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/supplier"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&inventoryEntity.Product{},
		&inventoryEntity.Variant{},
		&inventoryEntity.InventoryAdjustment{},
		&inventoryEntity.ProductVariantStatus{},
		&supplierEntity.Supplier{},
		&hrEntity.Employee{},
		&ordersEntity.Order{},
		&ordersEntity.OrderItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedVariant creates a product and one active variant with the given code and stock.
func seedVariant(t *testing.T, db *gorm.DB, code string, stock int) *inventoryEntity.Variant {
	t.Helper()
	product := &inventoryEntity.Product{
		ProductCode: "P-" + code,
		Name:        "product for " + code,
		IsActive:    true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	variant := &inventoryEntity.Variant{
		ProductID:   product.ID,
		VariantCode: code,
		Stock:       stock,
		IsActive:    true,
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	return variant
}

func seedSnapshot(t *testing.T, db *gorm.DB, variantID uint, year, month int, s inventoryEntity.ProductVariantStatus) *inventoryEntity.ProductVariantStatus {
	t.Helper()
	s.VariantID = variantID
	s.Year = year
	s.Month = month
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	return &s
}
