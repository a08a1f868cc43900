package inventory

import "time"

// Product is a catalog item; sellable units are its Variants.
// Products are soft-deactivated, never hard-deleted while variants reference them.
type Product struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductCode    string    `gorm:"column:product_code;type:varchar(64);not null;uniqueIndex" json:"product_code"`
	Name           string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	OnlineName     string    `gorm:"column:online_name;type:varchar(255)" json:"online_name"`
	BigCategory    string    `gorm:"column:big_category;type:varchar(64)" json:"big_category"`
	MiddleCategory string    `gorm:"column:middle_category;type:varchar(64)" json:"middle_category"`
	Category       string    `gorm:"column:category;type:varchar(64)" json:"category"`
	IsActive       bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Variants []Variant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
}

func (Product) TableName() string {
	return "products"
}
