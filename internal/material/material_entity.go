package material

import (
	"time"

	"go-workforce/internal/workflow"
)

const (
	TypeMaterial = "MATERIAL"
	TypeTool     = "TOOL"

	UrgencyLow    = "LOW"
	UrgencyNormal = "NORMAL"
	UrgencyHigh   = "HIGH"
	UrgencyUrgent = "URGENT"
)

// MaterialRequest covers both consumables and tools drawn from a project store.
type MaterialRequest struct {
	ID         int64 `gorm:"primaryKey;autoIncrement:false"`
	CompanyID  int64 `gorm:"not null;index:idx_material_requests_company_status"`
	EmployeeID int64 `gorm:"not null;index"`
	ProjectID  int64 `gorm:"not null;index:idx_material_requests_project_type"`

	RequestType  string     `gorm:"type:varchar(10);not null;index:idx_material_requests_project_type"`
	ItemName     string     `gorm:"type:varchar(200);not null"`
	Quantity     int64      `gorm:"not null"`
	Unit         string     `gorm:"type:varchar(30)"`
	Purpose      string     `gorm:"type:text"`
	RequiredDate *time.Time `gorm:"type:date"`
	Urgency      string     `gorm:"type:varchar(10);not null;default:'NORMAL'"`

	ApprovedQuantity   *int64
	PickupLocation     string `gorm:"type:varchar(255)"`
	PickupInstructions string `gorm:"type:text"`
	FulfilledAt        *time.Time
	FulfilledQuantity  *int64

	workflow.Lifecycle `gorm:"embedded"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MaterialRequest) TableName() string { return "material_requests" }

func (m MaterialRequest) Family() workflow.Family {
	if m.RequestType == TypeTool {
		return workflow.FamilyTool
	}
	return workflow.FamilyMaterial
}

// TypeOf maps a project-scoped family to its request type.
func TypeOf(f workflow.Family) string {
	if f == workflow.FamilyTool {
		return TypeTool
	}
	return TypeMaterial
}

func (m MaterialRequest) GrantedQuantity() int64 {
	if m.ApprovedQuantity != nil {
		return *m.ApprovedQuantity
	}
	return m.Quantity
}
