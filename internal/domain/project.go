package domain

// ProjectInfo is the directory view of a project shared by features that only
// need to know a project exists and who supervises it.
type ProjectInfo struct {
	ID           int64  `json:"id"`
	CompanyID    int64  `json:"company_id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	Location     string `json:"location,omitempty"`
	SupervisorID *int64 `json:"supervisor_id,omitempty"`
	Status       string `json:"status"`
}
