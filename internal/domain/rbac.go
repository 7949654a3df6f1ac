package domain

// EnforceRequest asks whether a role may perform action on resource within a
// company.
type EnforceRequest struct {
	Role      string `json:"role" binding:"required"`
	CompanyID int64  `json:"company_id" binding:"required,gt=0"`
	Resource  string `json:"resource" binding:"required"`
	Action    string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
