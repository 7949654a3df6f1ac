package dashboard

import (
	"time"

	"go-workforce/internal/workflow"
)

// PendingSummary counts pending requests a supervisor may decide. Advance
// counts every pending payment request.
type PendingSummary struct {
	Leave        int64 `json:"leave"`
	Advance      int64 `json:"advance"`
	MedicalClaim int64 `json:"medical_claim"`
	Material     int64 `json:"material"`
	Tool         int64 `json:"tool"`
	Total        int64 `json:"total"`
}

func (s *PendingSummary) add(f workflow.Family, n int64) {
	switch f {
	case workflow.FamilyLeave:
		s.Leave = n
	case workflow.FamilyPayment:
		s.Advance = n
	case workflow.FamilyMedicalClaim:
		s.MedicalClaim = n
	case workflow.FamilyMaterial:
		s.Material = n
	case workflow.FamilyTool:
		s.Tool = n
	}
	s.Total += n
}

type PendingItem struct {
	Family          workflow.Family `json:"family"`
	ID              int64           `json:"id"`
	ReferenceNumber string          `json:"reference_number"`
	EmployeeID      int64           `json:"employee_id"`
	EmployeeName    string          `json:"employee_name,omitempty"`
	ProjectID       *int64          `json:"project_id,omitempty"`
	ProjectName     string          `json:"project_name,omitempty"`
	Summary         string          `json:"summary"`
	RequestedAt     time.Time       `json:"requested_at"`
	Request         any             `json:"request"`
}

type FamilyPending struct {
	Count    int           `json:"count"`
	Requests []PendingItem `json:"requests"`
}
