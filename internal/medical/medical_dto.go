package medical

import "go-workforce/internal/attachment"

type CreateClaimRequest struct {
	ClaimType     string `json:"claim_type" binding:"required,oneof=OUTPATIENT INPATIENT DENTAL SPECIALIST OTHER"`
	ClaimAmount   int64  `json:"claim_amount" binding:"required,gt=0"`
	Currency      string `json:"currency" binding:"omitempty,len=3"`
	TreatmentDate string `json:"treatment_date" binding:"required"`
	Description   string `json:"description" binding:"max=1000"`
}

type DecideClaimRequest struct {
	Action         string `json:"action" binding:"required"`
	Remarks        string `json:"remarks" binding:"max=1000"`
	ApprovedAmount *int64 `json:"approved_amount" binding:"omitempty,gt=0"`
}

type ProcessClaimRequest struct {
	Remarks string `json:"remarks" binding:"max=1000"`
}

type CancelClaimRequest struct {
	Remarks string `json:"remarks" binding:"max=1000"`
}

type ClaimResponse struct {
	ID              int64             `json:"id"`
	ReferenceNumber string            `json:"reference_number"`
	CompanyID       int64             `json:"company_id"`
	EmployeeID      int64             `json:"employee_id"`
	ClaimType       string            `json:"claim_type"`
	ClaimAmount     int64             `json:"claim_amount"`
	Currency        string            `json:"currency"`
	TreatmentDate   string            `json:"treatment_date"`
	Description     string            `json:"description,omitempty"`
	Receipts        []attachment.File `json:"receipts"`
	ApprovedAmount  *int64            `json:"approved_amount,omitempty"`
	ProcessedAt     *string           `json:"processed_at,omitempty"`
	Status          string            `json:"status"`
	CreatedBy       int64             `json:"created_by"`
	ApproverID      *int64            `json:"approver_id,omitempty"`
	ApprovedAt      *string           `json:"approved_at,omitempty"`
	Remarks         string            `json:"remarks,omitempty"`
	RequestedAt     string            `json:"requested_at"`
}

type DecisionResponse struct {
	Status  string        `json:"status"`
	Request ClaimResponse `json:"request"`
}
