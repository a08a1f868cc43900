package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. COMPLETED is the only status with stock effects.
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Order is a purchase order against a supplier.
type Order struct {
	ID                   uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SupplierID           uint       `gorm:"column:supplier_id;not null;index" json:"supplier_id"`
	ManagerID            uint       `gorm:"column:manager_id;index" json:"manager_id"`
	Status               string     `gorm:"column:status;type:varchar(16);not null;default:PENDING;index" json:"status"`
	OrderDate            time.Time  `gorm:"column:order_date" json:"order_date"`
	ExpectedDeliveryDate *time.Time `gorm:"column:expected_delivery_date" json:"expected_delivery_date,omitempty"`
	Note                 string     `gorm:"column:note;type:text" json:"note"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is a snapshot of one purchase line. Immutable after order
// completion except through explicit correction flows.
type OrderItem struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID   uint            `gorm:"column:order_id;not null;index" json:"order_id"`
	VariantID uint            `gorm:"column:variant_id;not null;index" json:"variant_id"`
	ItemName  string          `gorm:"column:item_name;type:varchar(255);not null" json:"item_name"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2);not null;default:0" json:"unit_price"`
	Spec      string          `gorm:"column:spec;type:varchar(255)" json:"spec"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
