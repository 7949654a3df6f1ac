package material

type CreateMaterialRequest struct {
	ProjectID    int64  `json:"project_id" binding:"required,gt=0"`
	ItemName     string `json:"item_name" binding:"required,max=200"`
	Quantity     int64  `json:"quantity" binding:"required,gt=0"`
	Unit         string `json:"unit" binding:"max=30"`
	Purpose      string `json:"purpose" binding:"max=1000"`
	RequiredDate string `json:"required_date"`
	Urgency      string `json:"urgency" binding:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
}

type DecideMaterialRequest struct {
	Action             string `json:"action" binding:"required"`
	Remarks            string `json:"remarks" binding:"max=1000"`
	ApprovedQuantity   *int64 `json:"approved_quantity" binding:"omitempty,gt=0"`
	PickupLocation     string `json:"pickup_location" binding:"max=255"`
	PickupInstructions string `json:"pickup_instructions" binding:"max=1000"`
}

type FulfillMaterialRequest struct {
	FulfilledQuantity *int64 `json:"fulfilled_quantity" binding:"omitempty,gt=0"`
	Remarks           string `json:"remarks" binding:"max=1000"`
}

type CancelMaterialRequest struct {
	Remarks string `json:"remarks" binding:"max=1000"`
}

type MaterialResponse struct {
	ID                 int64   `json:"id"`
	ReferenceNumber    string  `json:"reference_number"`
	CompanyID          int64   `json:"company_id"`
	EmployeeID         int64   `json:"employee_id"`
	ProjectID          int64   `json:"project_id"`
	RequestType        string  `json:"request_type"`
	ItemName           string  `json:"item_name"`
	Quantity           int64   `json:"quantity"`
	Unit               string  `json:"unit,omitempty"`
	Purpose            string  `json:"purpose,omitempty"`
	RequiredDate       *string `json:"required_date,omitempty"`
	Urgency            string  `json:"urgency"`
	ApprovedQuantity   *int64  `json:"approved_quantity,omitempty"`
	PickupLocation     string  `json:"pickup_location,omitempty"`
	PickupInstructions string  `json:"pickup_instructions,omitempty"`
	FulfilledAt        *string `json:"fulfilled_at,omitempty"`
	FulfilledQuantity  *int64  `json:"fulfilled_quantity,omitempty"`
	Status             string  `json:"status"`
	CreatedBy          int64   `json:"created_by"`
	ApproverID         *int64  `json:"approver_id,omitempty"`
	ApprovedAt         *string `json:"approved_at,omitempty"`
	Remarks            string  `json:"remarks,omitempty"`
	RequestedAt        string  `json:"requested_at"`
}

type DecisionResponse struct {
	Status  string           `json:"status"`
	Request MaterialResponse `json:"request"`
}
