package inventory

import "time"

// ProductVariantStatus is the monthly stock snapshot: one row per
// (variant, year, month). Ending stock is derived, never stored.
type ProductVariantStatus struct {
	ID                  uint `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	VariantID           uint `gorm:"column:variant_id;not null;uniqueIndex:idx_snapshot_period" json:"variant_id"`
	Year                int  `gorm:"column:year;not null;uniqueIndex:idx_snapshot_period" json:"year"`
	Month               int  `gorm:"column:month;not null;uniqueIndex:idx_snapshot_period" json:"month"`
	WarehouseStockStart int  `gorm:"column:warehouse_stock_start;not null;default:0" json:"warehouse_stock_start"`
	StoreStockStart     int  `gorm:"column:store_stock_start;not null;default:0" json:"store_stock_start"`
	InboundQuantity     int  `gorm:"column:inbound_quantity;not null;default:0" json:"inbound_quantity"`
	StoreSales          int  `gorm:"column:store_sales;not null;default:0" json:"store_sales"`
	OnlineSales         int  `gorm:"column:online_sales;not null;default:0" json:"online_sales"`
	// Version is the optimistic-lock counter, incremented on every
	// successful field write.
	Version   int       `gorm:"column:version;not null;default:0" json:"version"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ProductVariantStatus) TableName() string {
	return "product_variant_status"
}

// InitialStock is the month's opening stock across warehouse and store.
func (s *ProductVariantStatus) InitialStock() int {
	return s.WarehouseStockStart + s.StoreStockStart
}

// TotalSales sums both sales channels.
func (s *ProductVariantStatus) TotalSales() int {
	return s.StoreSales + s.OnlineSales
}

// EndingStock derives the month's closing quantity. adjustmentSum is the
// ledger delta sum for the same (variant, year, month).
func (s *ProductVariantStatus) EndingStock(adjustmentSum int) int {
	return s.InitialStock() + s.InboundQuantity - s.TotalSales() + adjustmentSum
}
