package servicetest

import (
	"errors"
	"testing"

	inventoryEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/inventory"
	inventoryService "github.com/jhkimon/crimson-erp-sub000/service/inventory"
)

func intPtr(n int) *int { return &n }

func TestBulkEdit_AppliesAndIncrementsVersion(t *testing.T) {
	db := testDB(t)
	v := seedVariant(t, db, "BK-1", 0)
	seedSnapshot(t, db, v.ID, 2026, 7, inventoryEntity.ProductVariantStatus{WarehouseStockStart: 10, Version: 3})

	res, err := inventoryService.BulkEditSnapshots(db, 2026, 7, []inventoryService.BulkEditRow{
		{
			VariantCode: "BK-1",
			Version:     intPtr(3),
			Fields: map[string]interface{}{
				"inbound_quantity": 25,
				"store_sales":      4,
				"favorite_color":   "blue", // unknown key, silently ignored
			},
		},
	})
	if err != nil {
		t.Fatalf("BulkEditSnapshots: %v", err)
	}
	if res.Updated != 1 || len(res.Conflicts) != 0 || len(res.Errors) != 0 {
		t.Fatalf("result = %+v", res)
	}

	var s inventoryEntity.ProductVariantStatus
	db.Where("variant_id = ? AND year = 2026 AND month = 7", v.ID).First(&s)
	if s.InboundQuantity != 25 || s.StoreSales != 4 {
		t.Errorf("fields not applied: %+v", s)
	}
	if s.WarehouseStockStart != 10 {
		t.Errorf("untouched field changed: %d", s.WarehouseStockStart)
	}
	if s.Version != 4 {
		t.Errorf("version = %d, want 4", s.Version)
	}
}

func TestBulkEdit_StaleVersionConflicts(t *testing.T) {
	db := testDB(t)
	v := seedVariant(t, db, "BK-2", 0)
	seedSnapshot(t, db, v.ID, 2026, 7, inventoryEntity.ProductVariantStatus{InboundQuantity: 7, Version: 5})

	res, err := inventoryService.BulkEditSnapshots(db, 2026, 7, []inventoryService.BulkEditRow{
		{
			VariantCode: "BK-2",
			Version:     intPtr(4), // stale
			Fields:      map[string]interface{}{"inbound_quantity": 99},
		},
	})
	if err != nil {
		t.Fatalf("BulkEditSnapshots: %v", err)
	}
	if res.Updated != 0 {
		t.Errorf("updated = %d, want 0", res.Updated)
	}
	if len(res.Conflicts) != 1 {
		t.Fatalf("conflicts = %+v", res.Conflicts)
	}
	c := res.Conflicts[0]
	if c.VariantCode != "BK-2" || c.ClientVersion != 4 || c.ServerVersion != 5 {
		t.Errorf("conflict = %+v", c)
	}

	// Server data untouched
	var s inventoryEntity.ProductVariantStatus
	db.Where("variant_id = ?", v.ID).First(&s)
	if s.InboundQuantity != 7 || s.Version != 5 {
		t.Errorf("stale row mutated server state: %+v", s)
	}
}

func TestBulkEdit_MixedBatchCommitsGoodRows(t *testing.T) {
	db := testDB(t)
	good := seedVariant(t, db, "BK-3", 0)
	stale := seedVariant(t, db, "BK-4", 0)
	seedSnapshot(t, db, good.ID, 2026, 7, inventoryEntity.ProductVariantStatus{Version: 0})
	seedSnapshot(t, db, stale.ID, 2026, 7, inventoryEntity.ProductVariantStatus{Version: 2})
	noSnapshot := seedVariant(t, db, "BK-5", 0)
	_ = noSnapshot

	res, err := inventoryService.BulkEditSnapshots(db, 2026, 7, []inventoryService.BulkEditRow{
		{VariantCode: "BK-3", Version: intPtr(0), Fields: map[string]interface{}{"online_sales": 12}},
		{VariantCode: "BK-4", Version: intPtr(1), Fields: map[string]interface{}{"online_sales": 12}},
		{VariantCode: "BK-5", Version: intPtr(0), Fields: map[string]interface{}{"online_sales": 12}},
		{VariantCode: "GHOST", Version: intPtr(0), Fields: map[string]interface{}{"online_sales": 12}},
	})
	if err != nil {
		t.Fatalf("BulkEditSnapshots: %v", err)
	}

	if res.Updated != 1 {
		t.Errorf("updated = %d, want 1", res.Updated)
	}
	if len(res.Conflicts) != 1 {
		t.Errorf("conflicts = %+v", res.Conflicts)
	}
	if len(res.Errors) != 2 {
		t.Fatalf("errors = %+v", res.Errors)
	}
	reasons := map[string]string{}
	for _, e := range res.Errors {
		reasons[e.VariantCode] = e.Reason
	}
	if reasons["BK-5"] != "snapshot not found" {
		t.Errorf("BK-5 reason = %q", reasons["BK-5"])
	}
	if reasons["GHOST"] != "variant not found" {
		t.Errorf("GHOST reason = %q", reasons["GHOST"])
	}

	// The good row committed despite its neighbors
	var s inventoryEntity.ProductVariantStatus
	db.Where("variant_id = ?", good.ID).First(&s)
	if s.OnlineSales != 12 || s.Version != 1 {
		t.Errorf("good row not committed: %+v", s)
	}
}

func TestBulkEdit_NoAllowListedKeysIsNoOp(t *testing.T) {
	db := testDB(t)
	v := seedVariant(t, db, "BK-6", 0)
	seedSnapshot(t, db, v.ID, 2026, 7, inventoryEntity.ProductVariantStatus{Version: 1})

	res, err := inventoryService.BulkEditSnapshots(db, 2026, 7, []inventoryService.BulkEditRow{
		{VariantCode: "BK-6", Version: intPtr(1), Fields: map[string]interface{}{"nonsense": 1}},
	})
	if err != nil {
		t.Fatalf("BulkEditSnapshots: %v", err)
	}
	if res.Updated != 0 || len(res.Conflicts) != 0 || len(res.Errors) != 0 {
		t.Errorf("no-op row counted: %+v", res)
	}

	var s inventoryEntity.ProductVariantStatus
	db.Where("variant_id = ?", v.ID).First(&s)
	if s.Version != 1 {
		t.Errorf("no-op row bumped version to %d", s.Version)
	}
}

func TestBulkEdit_BadMonth(t *testing.T) {
	db := testDB(t)
	_, err := inventoryService.BulkEditSnapshots(db, 2026, 0, nil)
	if !errors.Is(err, inventoryService.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestDecodeBulkRows(t *testing.T) {
	rows, err := inventoryService.DecodeBulkRows([]map[string]interface{}{
		{
			"variant_code":     "X-1",
			"version":          float64(2), // JSON numbers arrive as float64
			"inbound_quantity": float64(9),
		},
	})
	if err != nil {
		t.Fatalf("DecodeBulkRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	r := rows[0]
	if r.VariantCode != "X-1" || r.Version == nil || *r.Version != 2 {
		t.Errorf("row = %+v", r)
	}
	if _, ok := r.Fields["inbound_quantity"]; !ok {
		t.Error("field key not collected into Fields")
	}
	if _, ok := r.Fields["variant_code"]; ok {
		t.Error("variant_code leaked into Fields")
	}
}

func TestEditSnapshot_SingleRowNoVersionCheck(t *testing.T) {
	db := testDB(t)
	v := seedVariant(t, db, "BK-7", 0)
	seedSnapshot(t, db, v.ID, 2026, 7, inventoryEntity.ProductVariantStatus{Version: 9})

	s, err := inventoryService.EditSnapshot(db, 2026, 7, "BK-7", map[string]interface{}{
		"store_stock_start": 6,
		"bogus":             "ignored",
	})
	if err != nil {
		t.Fatalf("EditSnapshot: %v", err)
	}
	if s.StoreStockStart != 6 {
		t.Errorf("store_stock_start = %d, want 6", s.StoreStockStart)
	}
	if s.Version != 10 {
		t.Errorf("version = %d, want 10", s.Version)
	}
}

func TestEditSnapshot_Missing(t *testing.T) {
	db := testDB(t)
	seedVariant(t, db, "BK-8", 0)

	_, err := inventoryService.EditSnapshot(db, 2026, 7, "BK-8", map[string]interface{}{"store_sales": 1})
	if !errors.Is(err, inventoryService.ErrSnapshotNotFound) {
		t.Fatalf("err = %v, want ErrSnapshotNotFound", err)
	}

	_, err = inventoryService.EditSnapshot(db, 2026, 7, "GHOST", map[string]interface{}{"store_sales": 1})
	if !errors.Is(err, inventoryService.ErrInvalidVariant) {
		t.Fatalf("err = %v, want ErrInvalidVariant", err)
	}
}
