package leave

import (
	"time"

	"go-workforce/internal/workflow"
)

const (
	TypeAnnual    = "ANNUAL"
	TypeSick      = "SICK"
	TypeEmergency = "EMERGENCY"
	TypeUnpaid    = "UNPAID"
	TypeOther     = "OTHER"
)

type LeaveRequest struct {
	ID         int64 `gorm:"primaryKey;autoIncrement:false"`
	CompanyID  int64 `gorm:"not null;index:idx_leave_requests_company_status"`
	EmployeeID int64 `gorm:"not null;index:idx_leave_requests_employee_dates"`

	LeaveType string    `gorm:"type:varchar(30);not null;default:'ANNUAL'"`
	FromDate  time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	ToDate    time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	TotalDays int       `gorm:"not null;default:1"`
	Reason    string    `gorm:"type:text"`

	workflow.Lifecycle `gorm:"embedded"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string { return "leave_requests" }

// DaysInclusive counts calendar days from from to to, both included.
func DaysInclusive(from, to time.Time) int {
	return int(to.Sub(from).Hours()/24) + 1
}
