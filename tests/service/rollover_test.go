package servicetest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	inventoryEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/inventory"
	inventoryService "github.com/jhkimon/crimson-erp-sub000/service/inventory"
)

func TestEndingStockArithmetic(t *testing.T) {
	s := inventoryEntity.ProductVariantStatus{
		WarehouseStockStart: 40,
		StoreStockStart:     10,
		InboundQuantity:     20,
		StoreSales:          15,
		OnlineSales:         5,
	}
	if got := s.EndingStock(-3); got != 47 {
		t.Errorf("EndingStock = %d, want 47", got)
	}
	if got := s.InitialStock(); got != 50 {
		t.Errorf("InitialStock = %d, want 50", got)
	}
	if got := s.TotalSales(); got != 20 {
		t.Errorf("TotalSales = %d, want 20", got)
	}
}

func TestRollover_CarriesIdentityOnly(t *testing.T) {
	db := testDB(t)
	v1 := seedVariant(t, db, "RO-1", 0)
	v2 := seedVariant(t, db, "RO-2", 0)
	seedSnapshot(t, db, v1.ID, 2026, 7, inventoryEntity.ProductVariantStatus{WarehouseStockStart: 40, InboundQuantity: 9})
	seedSnapshot(t, db, v2.ID, 2026, 7, inventoryEntity.ProductVariantStatus{StoreStockStart: 3})

	res, err := inventoryService.Rollover(db, 2026, 7, inventoryService.RolloverOptions{})
	if err != nil {
		t.Fatalf("Rollover: %v", err)
	}
	if res.NextYear != 2026 || res.NextMonth != 8 {
		t.Errorf("next period = %d-%d, want 2026-8", res.NextYear, res.NextMonth)
	}
	if res.Created != 2 || res.Skipped != 0 {
		t.Errorf("created=%d skipped=%d, want 2/0", res.Created, res.Skipped)
	}

	var s inventoryEntity.ProductVariantStatus
	if err := db.Where("variant_id = ? AND year = 2026 AND month = 8", v1.ID).First(&s).Error; err != nil {
		t.Fatalf("carried row missing: %v", err)
	}
	if s.WarehouseStockStart != 0 || s.InboundQuantity != 0 || s.Version != 0 {
		t.Errorf("scheduled rollover should zero fields: %+v", s)
	}
}

func TestRollover_Idempotent(t *testing.T) {
	db := testDB(t)
	v := seedVariant(t, db, "RO-3", 0)
	seedSnapshot(t, db, v.ID, 2026, 7, inventoryEntity.ProductVariantStatus{})

	first, err := inventoryService.Rollover(db, 2026, 7, inventoryService.RolloverOptions{})
	if err != nil {
		t.Fatalf("first Rollover: %v", err)
	}
	if first.Created != 1 {
		t.Fatalf("first created = %d, want 1", first.Created)
	}

	second, err := inventoryService.Rollover(db, 2026, 7, inventoryService.RolloverOptions{})
	if err != nil {
		t.Fatalf("second Rollover: %v", err)
	}
	if second.Created != 0 || second.Skipped != 1 {
		t.Errorf("second run created=%d skipped=%d, want 0/1", second.Created, second.Skipped)
	}

	var n int64
	db.Model(&inventoryEntity.ProductVariantStatus{}).Where("year = 2026 AND month = 8").Count(&n)
	if n != 1 {
		t.Errorf("target rows = %d, want 1", n)
	}
}

func TestRollover_SeedFromEndingStock(t *testing.T) {
	db := testDB(t)
	v := seedVariant(t, db, "RO-4", 0)
	seedSnapshot(t, db, v.ID, 2026, 7, inventoryEntity.ProductVariantStatus{
		WarehouseStockStart: 40,
		StoreStockStart:     10,
		InboundQuantity:     20,
		StoreSales:          15,
		OnlineSales:         5,
	})
	// Period adjustment of -3 participates in the seed
	if _, err := inventoryService.RecordAdjustment(db, inventoryService.AdjustmentInput{
		VariantCode: "RO-4", Year: 2026, Month: 7, Delta: -3, Reason: "recount",
	}); err != nil {
		t.Fatalf("RecordAdjustment: %v", err)
	}

	res, err := inventoryService.Rollover(db, 2026, 7, inventoryService.RolloverOptions{
		SeedFromEndingStock: true,
		RequireSource:       true,
	})
	if err != nil {
		t.Fatalf("Rollover: %v", err)
	}
	if res.Created != 1 {
		t.Fatalf("created = %d, want 1", res.Created)
	}

	var s inventoryEntity.ProductVariantStatus
	if err := db.Where("variant_id = ? AND year = 2026 AND month = 8", v.ID).First(&s).Error; err != nil {
		t.Fatalf("seeded row missing: %v", err)
	}
	if s.WarehouseStockStart != 47 {
		t.Errorf("warehouse_stock_start = %d, want 47", s.WarehouseStockStart)
	}
	if s.StoreStockStart != 0 || s.InboundQuantity != 0 || s.StoreSales != 0 || s.OnlineSales != 0 {
		t.Errorf("other fields should zero: %+v", s)
	}
}

func TestRollover_EmptySource(t *testing.T) {
	db := testDB(t)

	// Scheduled form: zero rows, no error
	res, err := inventoryService.Rollover(db, 2026, 7, inventoryService.RolloverOptions{})
	if err != nil {
		t.Fatalf("scheduled Rollover: %v", err)
	}
	if res.Created != 0 {
		t.Errorf("created = %d, want 0", res.Created)
	}

	// Explicit form: ErrPriorPeriodMissing
	_, err = inventoryService.Rollover(db, 2026, 7, inventoryService.RolloverOptions{
		SeedFromEndingStock: true,
		RequireSource:       true,
	})
	if !errors.Is(err, inventoryService.ErrPriorPeriodMissing) {
		t.Fatalf("err = %v, want ErrPriorPeriodMissing", err)
	}
}

func TestRollover_DecemberWraps(t *testing.T) {
	db := testDB(t)
	v := seedVariant(t, db, "RO-5", 0)
	seedSnapshot(t, db, v.ID, 2026, 12, inventoryEntity.ProductVariantStatus{})

	res, err := inventoryService.Rollover(db, 2026, 12, inventoryService.RolloverOptions{})
	if err != nil {
		t.Fatalf("Rollover: %v", err)
	}
	if res.NextYear != 2027 || res.NextMonth != 1 {
		t.Errorf("next period = %d-%d, want 2027-1", res.NextYear, res.NextMonth)
	}
}

func TestPrevPeriod(t *testing.T) {
	if y, m := inventoryService.PrevPeriod(2026, 1); y != 2025 || m != 12 {
		t.Errorf("PrevPeriod(2026,1) = %d-%d, want 2025-12", y, m)
	}
	if y, m := inventoryService.PrevPeriod(2026, 8); y != 2026 || m != 7 {
		t.Errorf("PrevPeriod(2026,8) = %d-%d, want 2026-7", y, m)
	}
}

// Two rollover runs racing over the same source period must both finish
// without error and leave exactly one target row per variant. Uses a
// file-backed DB so both goroutines share state.
func TestRollover_ConcurrentRunsDoNotError(t *testing.T) {
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("rollover_race_%d.db", time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	if sqlDB, err := db.DB(); err == nil {
		// One connection: the two transactions serialize instead of
		// tripping sqlite's snapshot-upgrade errors
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(
		&inventoryEntity.Product{},
		&inventoryEntity.Variant{},
		&inventoryEntity.ProductVariantStatus{},
		&inventoryEntity.InventoryAdjustment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var variants []*inventoryEntity.Variant
	for i := 0; i < 5; i++ {
		v := seedVariant(t, db, fmt.Sprintf("RC-%d", i), 0)
		seedSnapshot(t, db, v.ID, 2026, 7, inventoryEntity.ProductVariantStatus{WarehouseStockStart: i})
		variants = append(variants, v)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = inventoryService.Rollover(db, 2026, 7, inventoryService.RolloverOptions{})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("run %d: %v", i, err)
		}
	}

	var count int64
	db.Model(&inventoryEntity.ProductVariantStatus{}).Where("year = 2026 AND month = 8").Count(&count)
	if count != int64(len(variants)) {
		t.Errorf("target rows = %d, want %d", count, len(variants))
	}
}
