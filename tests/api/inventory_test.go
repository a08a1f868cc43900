package apitest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	api "github.com/jhkimon/crimson-erp-sub000/api"
	inventoryApi "github.com/jhkimon/crimson-erp-sub000/api/inventory"
	inventoryEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/inventory"
)

const (
	testUser = "admin"
	testPass = "secret"
)

func inventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("inventory_api_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	if err := db.AutoMigrate(
		&inventoryEntity.Product{},
		&inventoryEntity.Variant{},
		&inventoryEntity.InventoryAdjustment{},
		&inventoryEntity.ProductVariantStatus{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func inventoryTestServer(t *testing.T, db *gorm.DB) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Validator = api.NewRequestValidator()
	apiGroup := e.Group("/api")
	apiGroup.Use(middleware.BasicAuth(func(user, pass string, c echo.Context) (bool, error) {
		return user == testUser && pass == testPass, nil
	}))
	inventoryApi.RegisterInventoryRoutes(apiGroup, db)
	return e
}

func basicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func seedAPIVariant(t *testing.T, db *gorm.DB, code string, stock int) inventoryEntity.Variant {
	t.Helper()
	p := inventoryEntity.Product{ProductCode: "P-" + code, Name: "Product " + code, IsActive: true}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	v := inventoryEntity.Variant{ProductID: p.ID, VariantCode: code, Stock: stock, IsActive: true}
	if err := db.Create(&v).Error; err != nil {
		t.Fatalf("create variant: %v", err)
	}
	return v
}

func doJSON(e *echo.Echo, method, path string, body interface{}, auth string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// ---------- Auth tests ----------

func TestAdjustmentAPI_NoAuth_Returns401(t *testing.T) {
	db := inventoryTestDB(t)
	e := inventoryTestServer(t, db)

	body := map[string]interface{}{"variant_code": "X", "delta": 1, "reason": "recount"}
	rec := doJSON(e, http.MethodPost, "/api/inventory/adjustments", body, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAdjustmentAPI_WrongCredentials_Returns401(t *testing.T) {
	db := inventoryTestDB(t)
	e := inventoryTestServer(t, db)

	body := map[string]interface{}{"variant_code": "X", "delta": 1, "reason": "recount"}
	rec := doJSON(e, http.MethodPost, "/api/inventory/adjustments", body, basicAuth("wrong", "creds"))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// ---------- Adjustment endpoint ----------

func TestAdjustmentAPI_Create(t *testing.T) {
	db := inventoryTestDB(t)
	v := seedAPIVariant(t, db, "ADJ-1", 50)
	e := inventoryTestServer(t, db)

	body := map[string]interface{}{
		"variant_code": "ADJ-1",
		"year":         2026,
		"month":        7,
		"delta":        -3,
		"reason":       "damage",
		"created_by":   "jlee",
	}
	rec := doJSON(e, http.MethodPost, "/api/inventory/adjustments", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["delta"] != float64(-3) {
		t.Errorf("delta = %v, want -3", resp["delta"])
	}

	// Ledger entry landed and the period snapshot was ensured
	var count int64
	db.Model(&inventoryEntity.InventoryAdjustment{}).Where("variant_id = ?", v.ID).Count(&count)
	if count != 1 {
		t.Errorf("ledger count = %d, want 1", count)
	}
	var snap int64
	db.Model(&inventoryEntity.ProductVariantStatus{}).
		Where("variant_id = ? AND year = 2026 AND month = 7", v.ID).Count(&snap)
	if snap != 1 {
		t.Errorf("snapshot count = %d, want 1", snap)
	}

	// The variant's own stock column is untouched
	var stored inventoryEntity.Variant
	db.First(&stored, v.ID)
	if stored.Stock != 50 {
		t.Errorf("stock = %d, want 50", stored.Stock)
	}
}

func TestAdjustmentAPI_MissingReason_Returns400(t *testing.T) {
	db := inventoryTestDB(t)
	seedAPIVariant(t, db, "ADJ-2", 0)
	e := inventoryTestServer(t, db)

	body := map[string]interface{}{"variant_code": "ADJ-2", "year": 2026, "month": 7, "delta": 1}
	rec := doJSON(e, http.MethodPost, "/api/inventory/adjustments", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400, body: %s", rec.Code, rec.Body.String())
	}
}

func TestAdjustmentAPI_UnknownVariant_Returns400(t *testing.T) {
	db := inventoryTestDB(t)
	e := inventoryTestServer(t, db)

	body := map[string]interface{}{"variant_code": "GHOST", "year": 2026, "month": 7, "delta": 1, "reason": "recount"}
	rec := doJSON(e, http.MethodPost, "/api/inventory/adjustments", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400, body: %s", rec.Code, rec.Body.String())
	}
}

func TestAdjustmentAPI_BadMonth_Returns400(t *testing.T) {
	db := inventoryTestDB(t)
	seedAPIVariant(t, db, "ADJ-3", 0)
	e := inventoryTestServer(t, db)

	body := map[string]interface{}{"variant_code": "ADJ-3", "year": 2026, "month": 13, "delta": 1, "reason": "recount"}
	rec := doJSON(e, http.MethodPost, "/api/inventory/adjustments", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400, body: %s", rec.Code, rec.Body.String())
	}
}

func TestAdjustmentAPI_ListByVariant(t *testing.T) {
	db := inventoryTestDB(t)
	seedAPIVariant(t, db, "ADJ-4", 0)
	e := inventoryTestServer(t, db)

	for _, delta := range []int{-3, 10} {
		body := map[string]interface{}{"variant_code": "ADJ-4", "year": 2026, "month": 7, "delta": delta, "reason": "recount"}
		rec := doJSON(e, http.MethodPost, "/api/inventory/adjustments", body, basicAuth(testUser, testPass))
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed adjustment: status = %d", rec.Code)
		}
	}

	rec := doJSON(e, http.MethodGet, "/api/inventory/adjustments?year=2026&month=7&variant_code=ADJ-4", nil, basicAuth(testUser, testPass))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["adjustment_quantity"] != float64(7) {
		t.Errorf("adjustment_quantity = %v, want 7", resp["adjustment_quantity"])
	}
	entries := resp["entries"].([]interface{})
	if len(entries) != 2 {
		t.Errorf("entries = %d, want 2", len(entries))
	}
}

// ---------- Variant endpoints ----------

func TestVariantAPI_CreateAndGet(t *testing.T) {
	db := inventoryTestDB(t)
	p := inventoryEntity.Product{ProductCode: "P001", Name: "Widget", IsActive: true}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	e := inventoryTestServer(t, db)

	body := map[string]interface{}{
		"product_code": "P001",
		"option":       "Red",
		"price":        "1500.00",
		"stock":        5,
	}
	rec := doJSON(e, http.MethodPost, "/api/inventory/variants", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var created map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&created)
	if created["variant_code"] != "P001-RED" {
		t.Errorf("variant_code = %v, want P001-RED", created["variant_code"])
	}

	rec = doJSON(e, http.MethodGet, "/api/inventory/variants/P001-RED", nil, basicAuth(testUser, testPass))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	// Same triple again conflicts
	rec = doJSON(e, http.MethodPost, "/api/inventory/variants", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rec.Code)
	}
}

func TestVariantAPI_UnknownProduct_Returns400(t *testing.T) {
	db := inventoryTestDB(t)
	e := inventoryTestServer(t, db)

	body := map[string]interface{}{"product_code": "NOPE", "option": "Red"}
	rec := doJSON(e, http.MethodPost, "/api/inventory/variants", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestVariantAPI_Deactivate(t *testing.T) {
	db := inventoryTestDB(t)
	seedAPIVariant(t, db, "VAR-9", 3)
	e := inventoryTestServer(t, db)

	body := map[string]interface{}{"is_active": false}
	rec := doJSON(e, http.MethodPatch, "/api/inventory/variants/VAR-9", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var stored inventoryEntity.Variant
	db.Where("variant_code = ?", "VAR-9").First(&stored)
	if stored.IsActive {
		t.Error("variant still active")
	}
}
