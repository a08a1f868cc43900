package hr

import "time"

type Employee struct {
	ID              uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username        string    `gorm:"column:username;type:varchar(40);not null;uniqueIndex" json:"username"`
	FirstName       string    `gorm:"column:first_name;type:varchar(64)" json:"first_name"`
	Email           string    `gorm:"column:email;type:varchar(128)" json:"email"`
	Role            string    `gorm:"column:role;type:varchar(16);not null;default:STAFF" json:"role"`
	AnnualLeaveDays float64   `gorm:"column:annual_leave_days;not null;default:0" json:"annual_leave_days"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}
