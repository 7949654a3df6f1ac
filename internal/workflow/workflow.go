// Package workflow holds the lifecycle shared by every request family: the
// statuses, the transition table and the approve/reject decision.
package workflow

import (
	"fmt"
	"strings"
	"time"

	workflowerrors "go-workforce/internal/workflow/errors"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusFulfilled = "FULFILLED"
	StatusProcessed = "PROCESSED"
	StatusCancelled = "CANCELLED"
)

type Family string

const (
	FamilyLeave        Family = "leave"
	FamilyPayment      Family = "payment"
	FamilyMedicalClaim Family = "medical_claim"
	FamilyMaterial     Family = "material"
	FamilyTool         Family = "tool"
)

// Families lists every family in display order.
var Families = []Family{FamilyLeave, FamilyPayment, FamilyMedicalClaim, FamilyMaterial, FamilyTool}

// ParseFamily accepts the family as it appears in URLs and query strings
// ("medical-claim", "medical_claim", "advance" for payment).
func ParseFamily(v string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "leave":
		return FamilyLeave, nil
	case "payment", "advance":
		return FamilyPayment, nil
	case "medical_claim", "medical-claim", "medical":
		return FamilyMedicalClaim, nil
	case "material":
		return FamilyMaterial, nil
	case "tool":
		return FamilyTool, nil
	default:
		return "", workflowerrors.ErrInvalidFamily
	}
}

// Slug is the family as it appears in route paths.
func (f Family) Slug() string {
	return strings.ReplaceAll(string(f), "_", "-")
}

func (f Family) Label() string {
	switch f {
	case FamilyLeave:
		return "Leave Request"
	case FamilyPayment:
		return "Payment Request"
	case FamilyMedicalClaim:
		return "Medical Claim"
	case FamilyMaterial:
		return "Material Request"
	case FamilyTool:
		return "Tool Request"
	default:
		return "Request"
	}
}

func (f Family) ReferencePrefix() string {
	switch f {
	case FamilyLeave:
		return "LV"
	case FamilyPayment:
		return "PAY"
	case FamilyMedicalClaim:
		return "MED"
	case FamilyMaterial:
		return "MAT"
	case FamilyTool:
		return "TOOL"
	default:
		return "REQ"
	}
}

// ProjectScoped reports whether ownership of the family follows the request's
// project instead of the submitter's current assignment.
func (f Family) ProjectScoped() bool {
	return f == FamilyMaterial || f == FamilyTool
}

// FulfilmentStatus is the terminal marker an APPROVED request of the family moves to.
func (f Family) FulfilmentStatus() string {
	switch f {
	case FamilyMaterial, FamilyTool:
		return StatusFulfilled
	case FamilyPayment, FamilyMedicalClaim:
		return StatusProcessed
	default:
		return ""
	}
}

func IsTerminal(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusFulfilled, StatusProcessed, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransition is the whole state machine. PENDING is the only state that
// accepts a decision; APPROVED only accepts its fulfilment marker.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected || to == StatusCancelled
	case StatusApproved:
		return to == StatusFulfilled || to == StatusProcessed
	default:
		return false
	}
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func ParseDecision(v string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "approve", "approved":
		return DecisionApprove, nil
	case "reject", "rejected":
		return DecisionReject, nil
	default:
		return "", workflowerrors.ErrInvalidDecision
	}
}

func (d Decision) Status() string {
	if d == DecisionApprove {
		return StatusApproved
	}
	return StatusRejected
}

// ListFilter narrows a submitter's own request list.
type ListFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
}

// ParseListFilter reads the status/from/to query values of a "my requests" call.
func ParseListFilter(status, from, to string) (ListFilter, error) {
	var f ListFilter
	if status != "" {
		status = strings.ToUpper(status)
		switch status {
		case StatusPending, StatusApproved, StatusRejected, StatusFulfilled, StatusProcessed, StatusCancelled:
			f.Status = status
		default:
			return ListFilter{}, workflowerrors.ErrInvalidStatusFilter
		}
	}
	if from != "" {
		t, err := time.Parse(DateLayout, from)
		if err != nil {
			return ListFilter{}, workflowerrors.ErrInvalidDateFormat
		}
		f.From = &t
	}
	if to != "" {
		t, err := time.Parse(DateLayout, to)
		if err != nil {
			return ListFilter{}, workflowerrors.ErrInvalidDateFormat
		}
		// inclusive upper bound
		end := t.AddDate(0, 0, 1)
		f.To = &end
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return ListFilter{}, workflowerrors.ErrInvalidDateRange
	}
	return f, nil
}

const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD value.
func ParseDate(v string) (time.Time, error) {
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, workflowerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// ReferenceNumber is the human-facing id printed on notifications, e.g. LV-000123.
func ReferenceNumber(f Family, id int64) string {
	return fmt.Sprintf("%s-%06d", f.ReferencePrefix(), id)
}
