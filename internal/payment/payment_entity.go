package payment

import (
	"time"

	"go-workforce/internal/workflow"
)

const (
	TypeAdvancePayment       = "ADVANCE_PAYMENT"
	TypeExpenseReimbursement = "EXPENSE_REIMBURSEMENT"
	TypeOvertimePayment      = "OVERTIME_PAYMENT"
	TypeBonusRequest         = "BONUS_REQUEST"

	DefaultCurrency = "SGD"
)

type BankDetails struct {
	AccountName   string `gorm:"column:account_name;type:varchar(150)"`
	AccountNumber string `gorm:"column:account_number;type:varchar(50)"`
	BankName      string `gorm:"column:bank_name;type:varchar(100)"`
}

// PaymentRequest amounts are in minor units of Currency.
type PaymentRequest struct {
	ID         int64 `gorm:"primaryKey;autoIncrement:false"`
	CompanyID  int64 `gorm:"not null;index:idx_payment_requests_company_status"`
	EmployeeID int64 `gorm:"not null;index"`

	RequestType string      `gorm:"type:varchar(30);not null"`
	Amount      int64       `gorm:"not null"`
	Currency    string      `gorm:"type:varchar(3);not null;default:'SGD'"`
	Reason      string      `gorm:"type:text"`
	BankDetails BankDetails `gorm:"embedded;embeddedPrefix:bank_"`

	ApprovedAmount   *int64
	ProcessedAt      *time.Time
	PaymentReference string `gorm:"type:varchar(100)"`

	workflow.Lifecycle `gorm:"embedded"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PaymentRequest) TableName() string { return "payment_requests" }

// PayableAmount is the approved amount when set, otherwise the requested one.
func (p PaymentRequest) PayableAmount() int64 {
	if p.ApprovedAmount != nil {
		return *p.ApprovedAmount
	}
	return p.Amount
}
