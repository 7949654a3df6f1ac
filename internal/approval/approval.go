// Package approval applies the request lifecycle on behalf of every request
// family. Families load their own rows and hand the engine a Subject plus a
// Transitioner that performs the conditional update.
package approval

import (
	"context"
	"time"

	"go-workforce/internal/notification"
	"go-workforce/internal/team"
	"go-workforce/internal/workflow"
)

// Column names every request table shares.
const (
	ColumnStatus     = "status"
	ColumnApproverID = "approver_id"
	ColumnApprovedAt = "approved_at"
	ColumnRemarks    = "remarks"
	ColumnUpdatedAt  = "updated_at"
)

// Subject is the engine's view of a loaded request.
type Subject struct {
	Family     workflow.Family
	ID         int64
	CompanyID  int64
	EmployeeID int64
	// ProjectID is only meaningful for project-scoped families.
	ProjectID int64
	Status    string
	// Remarks already stored on the row; new remarks are appended to them.
	Remarks string
	// Context feeds the notification templates.
	Context map[string]string
}

// Actor is the employee acting on a request.
type Actor struct {
	EmployeeID int64
	CompanyID  int64
	Name       string
	Phone      string
}

// Transitioner moves one request from status `from` to the status in patch,
// in a single conditional write. It reports whether a row changed.
type Transitioner interface {
	TransitionStatus(ctx context.Context, id int64, from string, patch map[string]any) (bool, error)
}

type MembershipResolver interface {
	ResolveSupervisedEmployees(ctx context.Context, supervisorID int64) (team.Membership, error)
}

type Notifier interface {
	NotifyStatus(ctx context.Context, change notification.StatusChange) (notification.DispatchResult, error)
}

type DecideInput struct {
	Actor    Actor
	Decision workflow.Decision
	Remarks  string
	// Extra columns written only when the decision is approve.
	Extra map[string]any
	// Context added to the notification on top of Subject.Context.
	Context map[string]string
}

type FulfillInput struct {
	Actor   Actor
	Remarks string
	Extra   map[string]any
	Context map[string]string
}

// Outcome is the state the request was left in.
type Outcome struct {
	Status    string
	ActorID   int64
	ChangedAt time.Time
	Remarks   string
	// Patch holds the columns that were written.
	Patch map[string]any
}

type Config struct {
	RequireRejectRemarks bool
	NotifyTimeout        time.Duration
	// Synchronous runs notifications inline instead of on a goroutine.
	Synchronous bool
	Now         func() time.Time
}
