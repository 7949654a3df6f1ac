package leave

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=ANNUAL SICK EMERGENCY UNPAID OTHER"`
	FromDate  string `json:"from_date" binding:"required"`
	ToDate    string `json:"to_date" binding:"required"`
	Reason    string `json:"reason" binding:"max=1000"`
}

type DecideLeaveRequest struct {
	Action  string `json:"action" binding:"required"`
	Remarks string `json:"remarks" binding:"max=1000"`
}

type CancelLeaveRequest struct {
	Remarks string `json:"remarks" binding:"max=1000"`
}

type LeaveResponse struct {
	ID              int64   `json:"id"`
	ReferenceNumber string  `json:"reference_number"`
	CompanyID       int64   `json:"company_id"`
	EmployeeID      int64   `json:"employee_id"`
	LeaveType       string  `json:"leave_type"`
	FromDate        string  `json:"from_date"`
	ToDate          string  `json:"to_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	CreatedBy       int64   `json:"created_by"`
	ApproverID      *int64  `json:"approver_id,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	Remarks         string  `json:"remarks,omitempty"`
	RequestedAt     string  `json:"requested_at"`
}

// DecisionResponse is returned by the supervisor approve endpoint.
type DecisionResponse struct {
	Status  string        `json:"status"`
	Request LeaveResponse `json:"request"`
}
