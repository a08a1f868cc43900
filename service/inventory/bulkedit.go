package inventory

import (
	"github.com/mitchellh/mapstructure"
	"gorm.io/gorm"

	inventoryEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/inventory"
)

// snapshotFields is the static allow-list of editable snapshot columns.
// Anything else in an edit row is ignored without erroring the row.
var snapshotFields = map[string]bool{
	"warehouse_stock_start": true,
	"store_stock_start":     true,
	"inbound_quantity":      true,
	"store_sales":           true,
	"online_sales":          true,
}

// snapshotPatch carries the decoded allow-listed values; nil means the key
// was absent from the row.
type snapshotPatch struct {
	WarehouseStockStart *int `mapstructure:"warehouse_stock_start"`
	StoreStockStart     *int `mapstructure:"store_stock_start"`
	InboundQuantity     *int `mapstructure:"inbound_quantity"`
	StoreSales          *int `mapstructure:"store_sales"`
	OnlineSales         *int `mapstructure:"online_sales"`
}

// BulkEditRow is one spreadsheet row in a bulk snapshot edit. Field keys
// beyond variant_code/version are collected into Fields.
type BulkEditRow struct {
	VariantCode string                 `mapstructure:"variant_code" json:"variant_code"`
	Version     *int                   `mapstructure:"version" json:"version"`
	Fields      map[string]interface{} `mapstructure:",remain" json:"-"`
}

// DecodeBulkRows turns raw JSON row maps into BulkEditRows, splitting
// variant_code/version off from the free-form field keys.
func DecodeBulkRows(raw []map[string]interface{}) ([]BulkEditRow, error) {
	rows := make([]BulkEditRow, 0, len(raw))
	for _, m := range raw {
		var row BulkEditRow
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &row,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(m); err != nil {
			return nil, ValidationError("bad row: %v", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// VersionConflict reports a stale row. It is result payload, not an error:
// the rest of the batch proceeds.
type VersionConflict struct {
	VariantCode   string `json:"variant_code"`
	ClientVersion int    `json:"client_version"`
	ServerVersion int    `json:"server_version"`
}

// RowError reports a row that could not be resolved.
type RowError struct {
	VariantCode string `json:"variant_code"`
	Reason      string `json:"reason"`
}

// BulkEditResult is the per-row outcome report of one bulk edit.
type BulkEditResult struct {
	Updated   int               `json:"updated"`
	Conflicts []VersionConflict `json:"conflicts"`
	Errors    []RowError        `json:"errors"`
}

// decodePatch maps a free-form field map onto the allow-list. Returns the
// patch and how many allow-listed keys were present.
func decodePatch(fields map[string]interface{}) (*snapshotPatch, int, error) {
	present := 0
	for key := range fields {
		if snapshotFields[key] {
			present++
		}
	}
	var patch snapshotPatch
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &patch,
		WeaklyTypedInput: true, // JSON numbers arrive as float64
	})
	if err != nil {
		return nil, 0, err
	}
	if err := dec.Decode(fields); err != nil {
		return nil, 0, ValidationError("bad field value: %v", err)
	}
	return &patch, present, nil
}

func (p *snapshotPatch) apply(s *inventoryEntity.ProductVariantStatus) {
	if p.WarehouseStockStart != nil {
		s.WarehouseStockStart = *p.WarehouseStockStart
	}
	if p.StoreStockStart != nil {
		s.StoreStockStart = *p.StoreStockStart
	}
	if p.InboundQuantity != nil {
		s.InboundQuantity = *p.InboundQuantity
	}
	if p.StoreSales != nil {
		s.StoreSales = *p.StoreSales
	}
	if p.OnlineSales != nil {
		s.OnlineSales = *p.OnlineSales
	}
}

// BulkEditSnapshots applies many snapshot edits for one period in a single
// transaction. Rows guard against lost updates with the version counter;
// stale rows land in Conflicts untouched, unresolvable rows in Errors, and
// the remaining rows still commit.
func BulkEditSnapshots(db *gorm.DB, year, month int, rows []BulkEditRow) (*BulkEditResult, error) {
	if month < 1 || month > 12 {
		return nil, ValidationError("month %d out of range 1-12", month)
	}

	result := &BulkEditResult{
		Conflicts: []VersionConflict{},
		Errors:    []RowError{},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			var variant inventoryEntity.Variant
			err := tx.Where("variant_code = ? AND is_active = ?", row.VariantCode, true).First(&variant).Error
			if err == gorm.ErrRecordNotFound {
				result.Errors = append(result.Errors, RowError{VariantCode: row.VariantCode, Reason: "variant not found"})
				continue
			}
			if err != nil {
				return err
			}

			snapshot, err := findSnapshotTx(tx, variant.ID, year, month)
			if err != nil {
				return err
			}
			if snapshot == nil {
				result.Errors = append(result.Errors, RowError{VariantCode: row.VariantCode, Reason: "snapshot not found"})
				continue
			}

			if row.Version == nil {
				result.Errors = append(result.Errors, RowError{VariantCode: row.VariantCode, Reason: "version required"})
				continue
			}
			if *row.Version != snapshot.Version {
				result.Conflicts = append(result.Conflicts, VersionConflict{
					VariantCode:   row.VariantCode,
					ClientVersion: *row.Version,
					ServerVersion: snapshot.Version,
				})
				continue
			}

			patch, present, err := decodePatch(row.Fields)
			if err != nil {
				result.Errors = append(result.Errors, RowError{VariantCode: row.VariantCode, Reason: err.Error()})
				continue
			}
			if present == 0 {
				// Nothing editable in the row: no-op, not counted.
				continue
			}

			patch.apply(snapshot)
			snapshot.Version++
			if err := tx.Save(snapshot).Error; err != nil {
				return err
			}
			result.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// EditSnapshot is the single-row PATCH path: same allow-list, no version
// check. The version counter still advances on every applied write.
func EditSnapshot(db *gorm.DB, year, month int, variantCode string, fields map[string]interface{}) (*inventoryEntity.ProductVariantStatus, error) {
	if month < 1 || month > 12 {
		return nil, ValidationError("month %d out of range 1-12", month)
	}

	var snapshot *inventoryEntity.ProductVariantStatus
	err := db.Transaction(func(tx *gorm.DB) error {
		var variant inventoryEntity.Variant
		err := tx.Where("variant_code = ? AND is_active = ?", variantCode, true).First(&variant).Error
		if err == gorm.ErrRecordNotFound {
			return InvalidVariantError(variantCode)
		}
		if err != nil {
			return err
		}

		snapshot, err = findSnapshotTx(tx, variant.ID, year, month)
		if err != nil {
			return err
		}
		if snapshot == nil {
			return ErrSnapshotNotFound
		}

		patch, present, err := decodePatch(fields)
		if err != nil {
			return err
		}
		if present == 0 {
			return nil
		}

		patch.apply(snapshot)
		snapshot.Version++
		return tx.Save(snapshot).Error
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func findSnapshotTx(tx *gorm.DB, variantID uint, year, month int) (*inventoryEntity.ProductVariantStatus, error) {
	var s inventoryEntity.ProductVariantStatus
	err := tx.Where("variant_id = ? AND year = ? AND month = ?", variantID, year, month).First(&s).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
