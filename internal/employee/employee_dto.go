package employee

// AssignProjectRequest moves an employee to a project. A project_id of 0
// clears the assignment.
type AssignProjectRequest struct {
	ProjectID *int64 `json:"project_id" binding:"required,min=0"`
}

type ProjectRefResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

type EmployeeResponse struct {
	ID             int64               `json:"id"`
	CompanyID      int64               `json:"company_id"`
	UserID         *int64              `json:"user_id,omitempty"`
	FullName       string              `json:"full_name"`
	Phone          string              `json:"phone,omitempty"`
	Status         string              `json:"status"`
	CurrentProject *ProjectRefResponse `json:"current_project,omitempty"`
}
