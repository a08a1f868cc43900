package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sales channels a variant can be listed on.
const (
	ChannelOnline  = "online"
	ChannelOffline = "offline"
)

// Variant is one sellable SKU of a Product.
type Variant struct {
	ID           uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID    uint            `gorm:"column:product_id;not null;index" json:"product_id"`
	VariantCode  string          `gorm:"column:variant_code;type:varchar(128);not null;uniqueIndex" json:"variant_code"`
	Option       string          `gorm:"column:option;type:varchar(128)" json:"option"`
	DetailOption string          `gorm:"column:detail_option;type:varchar(128)" json:"detail_option"`
	Price        decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null;default:0" json:"price"`
	MinStock     int             `gorm:"column:min_stock;not null;default:0" json:"min_stock"`
	// Stock is the authoritative on-hand count. It may go negative
	// transiently during corrections.
	Stock int `gorm:"column:stock;not null;default:0" json:"stock"`
	// Adjustment is a legacy rolling correction counter. The ledger sum
	// (inventory_adjustments) is the single source of truth; nothing
	// writes this column anymore.
	Adjustment int       `gorm:"column:adjustment;not null;default:0" json:"adjustment"`
	Channels   string    `gorm:"column:channels;type:varchar(32)" json:"channels"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Variant) TableName() string {
	return "product_variants"
}

// ChannelList splits the stored channel set.
func (v *Variant) ChannelList() []string {
	if v.Channels == "" {
		return nil
	}
	return strings.Split(v.Channels, ",")
}

// SetChannels joins the channel set for storage.
func (v *Variant) SetChannels(channels []string) {
	v.Channels = strings.Join(channels, ",")
}
