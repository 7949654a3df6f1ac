package medical

import (
	"time"

	"go-workforce/internal/attachment"
	"go-workforce/internal/workflow"

	"gorm.io/datatypes"
)

const (
	TypeOutpatient = "OUTPATIENT"
	TypeInpatient  = "INPATIENT"
	TypeDental     = "DENTAL"
	TypeSpecialist = "SPECIALIST"
	TypeOther      = "OTHER"

	DefaultCurrency = "SGD"
)

// MedicalClaim amounts are in minor units of Currency.
type MedicalClaim struct {
	ID         int64 `gorm:"primaryKey;autoIncrement:false"`
	CompanyID  int64 `gorm:"not null;index:idx_medical_claims_company_status"`
	EmployeeID int64 `gorm:"not null;index"`

	ClaimType     string                               `gorm:"type:varchar(30);not null"`
	ClaimAmount   int64                                `gorm:"not null"`
	Currency      string                               `gorm:"type:varchar(3);not null;default:'SGD'"`
	TreatmentDate time.Time                            `gorm:"type:date;not null"`
	Description   string                               `gorm:"type:text"`
	Receipts      datatypes.JSONSlice[attachment.File] `gorm:"type:json"`

	ApprovedAmount *int64
	ProcessedAt    *time.Time

	workflow.Lifecycle `gorm:"embedded"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MedicalClaim) TableName() string { return "medical_claims" }

func (m MedicalClaim) PayableAmount() int64 {
	if m.ApprovedAmount != nil {
		return *m.ApprovedAmount
	}
	return m.ClaimAmount
}
