package supplier

import "time"

type Supplier struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(128);not null;uniqueIndex" json:"name"`
	Contact   string    `gorm:"column:contact;type:varchar(32)" json:"contact"`
	Manager   string    `gorm:"column:manager;type:varchar(64)" json:"manager"`
	Email     string    `gorm:"column:email;type:varchar(128)" json:"email"`
	Address   string    `gorm:"column:address;type:varchar(255)" json:"address"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
