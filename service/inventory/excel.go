package inventory

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/jhkimon/crimson-erp-sub000/config"
	inventoryEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/inventory"
	inventoryRepo "github.com/jhkimon/crimson-erp-sub000/model/repository/inventory"
)

const snapshotSheet = "Snapshots"

var sheetHeader = []string{
	"variant_code", "product_code", "product_name", "option", "detail_option",
	"warehouse_stock_start", "store_stock_start", "inbound_quantity",
	"store_sales", "online_sales", "adjustment_quantity", "ending_stock", "version",
}

// ExportSnapshots renders one period's snapshot rows as a spreadsheet,
// including the derived adjustment and ending-stock columns.
func ExportSnapshots(db *gorm.DB, year, month int) (*excelize.File, error) {
	if month < 1 || month > 12 {
		return nil, ValidationError("month %d out of range 1-12", month)
	}

	var snapshots []inventoryEntity.ProductVariantStatus
	if err := db.Where("year = ? AND month = ?", year, month).Order("variant_id").Find(&snapshots).Error; err != nil {
		return nil, err
	}

	adjustments, err := inventoryRepo.SumAdjustmentDeltasByPeriod(db, year, month)
	if err != nil {
		return nil, err
	}

	variantIDs := make([]uint, 0, len(snapshots))
	for _, s := range snapshots {
		variantIDs = append(variantIDs, s.VariantID)
	}
	variants := make(map[uint]inventoryEntity.Variant, len(variantIDs))
	products := make(map[uint]inventoryEntity.Product)
	if len(variantIDs) > 0 {
		var vs []inventoryEntity.Variant
		if err := db.Where("id IN ?", variantIDs).Find(&vs).Error; err != nil {
			return nil, err
		}
		productIDs := make([]uint, 0, len(vs))
		for _, v := range vs {
			variants[v.ID] = v
			productIDs = append(productIDs, v.ProductID)
		}
		var ps []inventoryEntity.Product
		if err := db.Where("id IN ?", productIDs).Find(&ps).Error; err != nil {
			return nil, err
		}
		for _, p := range ps {
			products[p.ID] = p
		}
	}

	f := excelize.NewFile()
	if config.AppConfig != nil && config.AppConfig.CompanyName != "" {
		f.SetDocProps(&excelize.DocProperties{Creator: config.AppConfig.CompanyName})
	}
	f.SetSheetName("Sheet1", snapshotSheet)
	if err := f.SetSheetRow(snapshotSheet, "A1", &sheetHeader); err != nil {
		return nil, err
	}

	for i, s := range snapshots {
		v := variants[s.VariantID]
		p := products[v.ProductID]
		adj := adjustments[s.VariantID]
		row := []interface{}{
			v.VariantCode, p.ProductCode, p.Name, v.Option, v.DetailOption,
			s.WarehouseStockStart, s.StoreStockStart, s.InboundQuantity,
			s.StoreSales, s.OnlineSales, adj, s.EndingStock(adj), s.Version,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(snapshotSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// SheetImportResult reports one sheet import run.
type SheetImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

// sheetRow is one parsed import line.
type sheetRow struct {
	variantCode  string
	productCode  string
	productName  string
	option       string
	detailOption string
	fields       map[string]interface{}
}

// ImportSnapshotSheet loads a spreadsheet into the period's snapshots.
// Unknown variants are created through the code resolver with auto-codes
// allowed, so re-importing the same sheet never mints duplicates.
func ImportSnapshotSheet(db *gorm.DB, r io.Reader, year, month int) (*SheetImportResult, error) {
	if month < 1 || month > 12 {
		return nil, ValidationError("month %d out of range 1-12", month)
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ValidationError("unreadable workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rawRows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rawRows) < 2 {
		return &SheetImportResult{}, nil
	}

	colIndex := make(map[string]int, len(rawRows[0]))
	for i, name := range rawRows[0] {
		colIndex[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := colIndex["variant_code"]; !ok {
		if _, ok := colIndex["product_code"]; !ok {
			return nil, ValidationError("sheet needs a variant_code or product_code column")
		}
	}

	result := &SheetImportResult{}
	rows := make([]sheetRow, 0, len(rawRows)-1)
	for n, raw := range rawRows[1:] {
		row, warn := parseSheetRow(raw, colIndex, n+2)
		if warn != "" {
			result.Skipped++
			result.Warnings = append(result.Warnings, warn)
			continue
		}
		if row != nil {
			rows = append(rows, *row)
		}
	}

	// Chunked variant-code lookup; chunks resolve in parallel.
	codes := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.variantCode != "" {
			codes = append(codes, row.variantCode)
		}
	}
	known, err := batchVariantsByCode(db, codes, 500)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			variant, warn, err := resolveOrCreateVariant(tx, row, known)
			if err != nil {
				return err
			}
			if variant == nil {
				result.Skipped++
				result.Warnings = append(result.Warnings, warn)
				continue
			}

			snapshot, err := inventoryRepo.GetOrCreateSnapshot(tx, variant.ID, year, month)
			if err != nil {
				return err
			}
			patch, present, err := decodePatch(row.fields)
			if err != nil {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", row.variantCode, err))
				continue
			}
			if present > 0 {
				patch.apply(snapshot)
				snapshot.Version++
				if err := tx.Save(snapshot).Error; err != nil {
					return err
				}
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func parseSheetRow(raw []string, colIndex map[string]int, line int) (*sheetRow, string) {
	get := func(name string) string {
		if i, ok := colIndex[name]; ok && i < len(raw) {
			return strings.TrimSpace(raw[i])
		}
		return ""
	}

	row := &sheetRow{
		variantCode:  get("variant_code"),
		productCode:  get("product_code"),
		productName:  get("product_name"),
		option:       get("option"),
		detailOption: get("detail_option"),
		fields:       map[string]interface{}{},
	}
	if row.variantCode == "" && row.productCode == "" && row.productName == "" {
		return nil, "" // blank line
	}

	for name := range snapshotFields {
		v := get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Sprintf("row %d: invalid %s %q", line, name, v)
		}
		row.fields[name] = n
	}
	return row, ""
}

func batchVariantsByCode(db *gorm.DB, codes []string, chunkSize int) (map[string]inventoryEntity.Variant, error) {
	result := make(map[string]inventoryEntity.Variant, len(codes))
	if len(codes) == 0 {
		return result, nil
	}

	var resMu chunkedResults
	eg := new(errgroup.Group)
	for i := 0; i < len(codes); i += chunkSize {
		end := i + chunkSize
		if end > len(codes) {
			end = len(codes)
		}
		chunk := codes[i:end]
		eg.Go(func() error {
			var vs []inventoryEntity.Variant
			if err := db.Where("variant_code IN ?", chunk).Find(&vs).Error; err != nil {
				return err
			}
			resMu.add(vs)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	for _, v := range resMu.all {
		result[v.VariantCode] = v
	}
	return result, nil
}

type chunkedResults struct {
	mu  sync.Mutex
	all []inventoryEntity.Variant
}

func (c *chunkedResults) add(vs []inventoryEntity.Variant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = append(c.all, vs...)
}

// resolveOrCreateVariant finds the row's variant or creates it (with the
// product, when needed) inside the import transaction.
func resolveOrCreateVariant(tx *gorm.DB, row sheetRow, known map[string]inventoryEntity.Variant) (*inventoryEntity.Variant, string, error) {
	if v, ok := known[row.variantCode]; ok && row.variantCode != "" {
		return &v, "", nil
	}

	var product inventoryEntity.Product
	if row.productCode != "" {
		err := tx.Where("product_code = ?", row.productCode).First(&product).Error
		if err == gorm.ErrRecordNotFound {
			product = inventoryEntity.Product{
				ProductCode: row.productCode,
				Name:        row.productName,
				IsActive:    true,
			}
			if err := tx.Create(&product).Error; err != nil {
				return nil, "", err
			}
		} else if err != nil {
			return nil, "", err
		}
	} else if row.productName != "" {
		err := tx.Where("name = ?", row.productName).First(&product).Error
		if err == gorm.ErrRecordNotFound {
			product = inventoryEntity.Product{Name: row.productName, IsActive: true}
			if err := tx.Create(&product).Error; err != nil {
				return nil, "", err
			}
			// No stable code supplied: derive one from the auto variant key
			product.ProductCode = fmt.Sprintf("AUTO-%d", product.ID)
			if err := tx.Model(&product).Update("product_code", product.ProductCode).Error; err != nil {
				return nil, "", err
			}
		} else if err != nil {
			return nil, "", err
		}
	} else {
		return nil, fmt.Sprintf("%s: variant not found and no product columns to create it", row.variantCode), nil
	}

	code := row.variantCode
	if code == "" {
		var err error
		code, err = BuildVariantCode(row.productCode, row.productName, row.option, row.detailOption, true)
		if err != nil {
			return nil, fmt.Sprintf("row for %q: %v", row.productName, err), nil
		}
	}

	existing, err := ResolveVariant(tx, product.ID, row.option, row.detailOption, code)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return existing, "", nil
	}

	variant := &inventoryEntity.Variant{
		ProductID:    product.ID,
		VariantCode:  code,
		Option:       row.option,
		DetailOption: row.detailOption,
		IsActive:     true,
	}
	if err := tx.Create(variant).Error; err != nil {
		return nil, "", err
	}
	return variant, "", nil
}
