package project

import "time"

const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
)

type Project struct {
	ID           int64  `gorm:"primaryKey"`
	CompanyID    int64  `gorm:"not null;index"`
	Name         string `gorm:"type:varchar(150);not null"`
	Code         string `gorm:"type:varchar(50)"`
	Location     string `gorm:"type:varchar(255)"`
	SupervisorID *int64 `gorm:"index"`
	Status       string `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Project) TableName() string { return "projects" }
