package payment

type BankDetailsRequest struct {
	AccountName   string `json:"account_name" binding:"max=150"`
	AccountNumber string `json:"account_number" binding:"max=50"`
	BankName      string `json:"bank_name" binding:"max=100"`
}

type CreatePaymentRequest struct {
	RequestType string             `json:"request_type" binding:"required,oneof=ADVANCE_PAYMENT EXPENSE_REIMBURSEMENT OVERTIME_PAYMENT BONUS_REQUEST"`
	Amount      int64              `json:"amount" binding:"required,gt=0"`
	Currency    string             `json:"currency" binding:"omitempty,len=3"`
	Reason      string             `json:"reason" binding:"required,max=1000"`
	BankDetails BankDetailsRequest `json:"bank_details"`
}

type DecidePaymentRequest struct {
	Action         string `json:"action" binding:"required"`
	Remarks        string `json:"remarks" binding:"max=1000"`
	ApprovedAmount *int64 `json:"approved_amount" binding:"omitempty,gt=0"`
}

type ProcessPaymentRequest struct {
	PaymentReference string `json:"payment_reference" binding:"max=100"`
	Remarks          string `json:"remarks" binding:"max=1000"`
}

type CancelPaymentRequest struct {
	Remarks string `json:"remarks" binding:"max=1000"`
}

type BankDetailsResponse struct {
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
}

type PaymentResponse struct {
	ID               int64               `json:"id"`
	ReferenceNumber  string              `json:"reference_number"`
	CompanyID        int64               `json:"company_id"`
	EmployeeID       int64               `json:"employee_id"`
	RequestType      string              `json:"request_type"`
	Amount           int64               `json:"amount"`
	Currency         string              `json:"currency"`
	Reason           string              `json:"reason"`
	BankDetails      BankDetailsResponse `json:"bank_details"`
	ApprovedAmount   *int64              `json:"approved_amount,omitempty"`
	PaymentReference string              `json:"payment_reference,omitempty"`
	ProcessedAt      *string             `json:"processed_at,omitempty"`
	Status           string              `json:"status"`
	CreatedBy        int64               `json:"created_by"`
	ApproverID       *int64              `json:"approver_id,omitempty"`
	ApprovedAt       *string             `json:"approved_at,omitempty"`
	Remarks          string              `json:"remarks,omitempty"`
	RequestedAt      string              `json:"requested_at"`
}

type DecisionResponse struct {
	Status  string          `json:"status"`
	Request PaymentResponse `json:"request"`
}
