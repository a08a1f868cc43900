package hr

import "time"

// Vacation request statuses.
const (
	VacationPending   = "PENDING"
	VacationApproved  = "APPROVED"
	VacationRejected  = "REJECTED"
	VacationCancelled = "CANCELLED"
)

type VacationRequest struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EmployeeID uint      `gorm:"column:employee_id;not null;index" json:"employee_id"`
	LeaveType  string    `gorm:"column:leave_type;type:varchar(32);not null" json:"leave_type"`
	StartDate  time.Time `gorm:"column:start_date;not null" json:"start_date"`
	EndDate    time.Time `gorm:"column:end_date;not null" json:"end_date"`
	Status     string    `gorm:"column:status;type:varchar(16);not null;default:PENDING" json:"status"`
	Reason     string    `gorm:"column:reason;type:varchar(255)" json:"reason"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (VacationRequest) TableName() string {
	return "vacation_requests"
}
