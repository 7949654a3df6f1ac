package approval

import (
	"context"
	"errors"

	"go-workforce/internal/employee"
	workflowerrors "go-workforce/internal/workflow/errors"
)

// IdentityResolver turns the authenticated principal into an employee.
type IdentityResolver interface {
	ResolveEmployee(ctx context.Context, principalID int64) (employee.Employee, error)
}

// Workflow is the engine as seen by the request families.
type Workflow interface {
	Authorize(ctx context.Context, subject Subject, actor Actor) error
	Decide(ctx context.Context, subject Subject, repo Transitioner, in DecideInput) (Outcome, error)
	Fulfill(ctx context.Context, subject Subject, repo Transitioner, in FulfillInput) (Outcome, error)
	Cancel(ctx context.Context, subject Subject, repo Transitioner, actor Actor, remarks string) (Outcome, error)
}

var _ Workflow = (*Engine)(nil)

func ActorFrom(e employee.Employee) Actor {
	return Actor{
		EmployeeID: e.ID,
		CompanyID:  e.CompanyID,
		Name:       e.FullName,
		Phone:      e.Phone,
	}
}

// CanView reports whether actor may read the subject: its submitter or a
// supervisor who could decide it.
func CanView(ctx context.Context, w Workflow, subject Subject, actor Actor) error {
	if subject.CompanyID == actor.CompanyID && subject.EmployeeID == actor.EmployeeID {
		return nil
	}
	err := w.Authorize(ctx, subject, actor)
	if errors.Is(err, workflowerrors.ErrNotSupervisor) {
		return workflowerrors.ErrRequestNotVisible
	}
	return err
}
