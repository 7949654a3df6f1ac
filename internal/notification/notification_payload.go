package notification

import (
	"fmt"
	"strings"
	"time"

	"go-workforce/internal/workflow"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
)

// Keys of StatusChange.Context understood by the message templates.
const (
	KeyLeaveType          = "leave_type"
	KeyFromDate           = "from_date"
	KeyToDate             = "to_date"
	KeyTotalDays          = "total_days"
	KeyRequestType        = "request_type"
	KeyAmount             = "amount"
	KeyItemName           = "item_name"
	KeyQuantity           = "quantity"
	KeyUnit               = "unit"
	KeyProjectName        = "project_name"
	KeyPickupLocation     = "pickup_location"
	KeyPickupInstructions = "pickup_instructions"
)

// StatusChange describes a lifecycle transition the submitter should hear
// about.
type StatusChange struct {
	Family     workflow.Family
	RequestID  int64
	CompanyID  int64
	EmployeeID int64
	NewStatus  string
	ActorID    int64
	ActorName  string
	ActorPhone string
	Remarks    string
	Context    map[string]string
	OccurredAt time.Time
}

type ActionData struct {
	ReferenceNumber    string            `json:"reference_number"`
	RequestType        string            `json:"request_type"`
	ApproverName       string            `json:"approver_name,omitempty"`
	ApproverContact    string            `json:"approver_contact,omitempty"`
	Remarks            string            `json:"remarks,omitempty"`
	NextSteps          string            `json:"next_steps"`
	PickupLocation     string            `json:"pickup_location,omitempty"`
	PickupInstructions string            `json:"pickup_instructions,omitempty"`
	Details            map[string]string `json:"details,omitempty"`
}

// Payload is what the employee's device receives.
type Payload struct {
	ID                     string     `json:"id"`
	RecipientEmployeeID    int64      `json:"recipient_employee_id"`
	CompanyID              int64      `json:"company_id"`
	Family                 string     `json:"family"`
	RequestID              int64      `json:"request_id"`
	Status                 string     `json:"status"`
	Title                  string     `json:"title"`
	Message                string     `json:"message"`
	Priority               string     `json:"priority"`
	RequiresAcknowledgment bool       `json:"requires_acknowledgment"`
	ActionData             ActionData `json:"action_data"`
	CreatedAt              time.Time  `json:"created_at"`
}

// BuildPayload renders the notification for change. It has no side effects.
func BuildPayload(change StatusChange, id string, now time.Time) Payload {
	p := Payload{
		ID:                  id,
		RecipientEmployeeID: change.EmployeeID,
		CompanyID:           change.CompanyID,
		Family:              string(change.Family),
		RequestID:           change.RequestID,
		Status:              change.NewStatus,
		Title:               change.Family.Label() + " " + statusWord(change.NewStatus),
		Message:             message(change),
		Priority:            PriorityNormal,
		CreatedAt:           now.UTC(),
		ActionData: ActionData{
			ReferenceNumber: workflow.ReferenceNumber(change.Family, change.RequestID),
			RequestType:     string(change.Family),
			ApproverName:    change.ActorName,
			ApproverContact: change.ActorPhone,
			Remarks:         change.Remarks,
			NextSteps:       nextSteps(change),
			Details:         change.Context,
		},
	}

	if change.NewStatus == workflow.StatusRejected {
		p.Priority = PriorityHigh
		p.RequiresAcknowledgment = true
	}
	if change.Family.ProjectScoped() && change.NewStatus == workflow.StatusApproved {
		p.ActionData.PickupLocation = change.Context[KeyPickupLocation]
		p.ActionData.PickupInstructions = change.Context[KeyPickupInstructions]
	}
	return p
}

func statusWord(status string) string {
	return cases.Title(language.English).String(strings.ToLower(status))
}

func message(c StatusChange) string {
	verb := strings.ToLower(c.NewStatus)
	ctx := c.Context

	switch c.Family {
	case workflow.FamilyLeave:
		if ctx[KeyFromDate] != "" && ctx[KeyToDate] != "" {
			kind := strings.ToLower(ctx[KeyLeaveType])
			if kind != "" {
				kind += " "
			}
			return fmt.Sprintf("Your %sleave from %s to %s has been %s.", kind, ctx[KeyFromDate], ctx[KeyToDate], verb)
		}
	case workflow.FamilyPayment:
		if ctx[KeyAmount] != "" {
			kind := strings.ReplaceAll(strings.ToLower(ctx[KeyRequestType]), "_", " ")
			if kind == "" {
				kind = "payment"
			}
			return fmt.Sprintf("Your %s request for %s has been %s.", kind, ctx[KeyAmount], verb)
		}
	case workflow.FamilyMedicalClaim:
		if ctx[KeyAmount] != "" {
			return fmt.Sprintf("Your medical claim for %s has been %s.", ctx[KeyAmount], verb)
		}
	case workflow.FamilyMaterial, workflow.FamilyTool:
		if ctx[KeyItemName] != "" {
			what := ctx[KeyItemName]
			if q := ctx[KeyQuantity]; q != "" {
				what = strings.TrimSpace(q+" "+ctx[KeyUnit]) + " of " + what
			}
			return fmt.Sprintf("Your request for %s has been %s.", what, verb)
		}
	}
	return fmt.Sprintf("Your %s %s has been %s.", strings.ToLower(c.Family.Label()),
		workflow.ReferenceNumber(c.Family, c.RequestID), verb)
}

func nextSteps(c StatusChange) string {
	switch c.NewStatus {
	case workflow.StatusRejected:
		return "Contact your supervisor for details, or submit a new request."
	case workflow.StatusFulfilled:
		return "The items have been handed over. Report any shortfall to your supervisor."
	case workflow.StatusProcessed:
		return "Payment has been processed to your registered bank account."
	case workflow.StatusApproved:
		switch c.Family {
		case workflow.FamilyLeave:
			return "Your leave is confirmed. Hand over your site duties before you go."
		case workflow.FamilyPayment:
			return "Finance will process the payment to your registered bank account."
		case workflow.FamilyMedicalClaim:
			return "Finance will reimburse the approved amount with the next payment run."
		case workflow.FamilyMaterial, workflow.FamilyTool:
			if loc := c.Context[KeyPickupLocation]; loc != "" {
				return "Collect the items from " + loc + "."
			}
			return "Your supervisor will tell you where to collect the items."
		}
	}
	return "No further action is needed."
}

// FormatAmount renders minor units as "SGD 150.00".
func FormatAmount(currency string, minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s %s%d.%02d", currency, sign, minor/100, minor%100)
}
