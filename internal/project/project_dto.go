package project

type AssignSupervisorRequest struct {
	SupervisorID int64 `json:"supervisor_id" binding:"required,gt=0"`
}

type ProjectResponse struct {
	ID           int64  `json:"id"`
	CompanyID    int64  `json:"company_id"`
	Name         string `json:"name"`
	Code         string `json:"code,omitempty"`
	Location     string `json:"location,omitempty"`
	SupervisorID *int64 `json:"supervisor_id,omitempty"`
	Status       string `json:"status"`
}
