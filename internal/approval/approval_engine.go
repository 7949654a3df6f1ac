package approval

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"go-workforce/internal/notification"
	"go-workforce/internal/observability"
	"go-workforce/internal/shared/contextutil"
	"go-workforce/internal/workflow"
	workflowerrors "go-workforce/internal/workflow/errors"

	"go.uber.org/zap"
)

const defaultNotifyTimeout = 10 * time.Second

type Engine struct {
	members  MembershipResolver
	notifier Notifier
	cfg      Config
	logger   *zap.Logger
}

func NewEngine(members MembershipResolver, notifier Notifier, cfg Config, logger ...*zap.Logger) *Engine {
	l := zap.L().Named("approval.engine")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.engine")
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = defaultNotifyTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{members: members, notifier: notifier, cfg: cfg, logger: l}
}

// Authorize reports whether actor supervises the subject. The dashboards use
// the same membership, so anything listed there can be decided here.
func (e *Engine) Authorize(ctx context.Context, subject Subject, actor Actor) error {
	if actor.CompanyID != 0 && subject.CompanyID != actor.CompanyID {
		return workflowerrors.ErrRequestNotVisible
	}
	m, err := e.members.ResolveSupervisedEmployees(ctx, actor.EmployeeID)
	if err != nil {
		return err
	}
	if !m.Covers(subject.Family, subject.EmployeeID, subject.ProjectID) {
		return workflowerrors.ErrNotSupervisor
	}
	return nil
}

// Decide approves or rejects a PENDING request. Only the first of two racing
// decisions wins; the other gets a conflict.
func (e *Engine) Decide(ctx context.Context, subject Subject, repo Transitioner, in DecideInput) (Outcome, error) {
	log := contextutil.GetLogger(ctx, e.logger).With(
		zap.String("family", string(subject.Family)),
		zap.Int64("request_id", subject.ID),
		zap.Int64("actor_id", in.Actor.EmployeeID),
		zap.String("decision", string(in.Decision)),
	)
	log.Debug("decide requested")

	if err := e.Authorize(ctx, subject, in.Actor); err != nil {
		log.Warn("decide refused", zap.Error(err))
		observability.RecordTransition(string(subject.Family), "forbidden")
		return Outcome{}, err
	}

	if subject.Status != workflow.StatusPending {
		log.Warn("decide on settled request", zap.String("status", subject.Status))
		observability.RecordTransition(string(subject.Family), "conflict")
		return Outcome{}, workflowerrors.AlreadyDecided(subject.Status)
	}

	remarks := strings.TrimSpace(in.Remarks)
	if in.Decision == workflow.DecisionReject && e.cfg.RequireRejectRemarks && remarks == "" {
		return Outcome{}, workflowerrors.ErrRemarksRequired
	}

	to := in.Decision.Status()
	if !workflow.CanTransition(subject.Status, to) {
		return Outcome{}, workflowerrors.ErrInvalidTransition
	}

	now := e.cfg.Now().UTC()
	patch := map[string]any{
		ColumnStatus:     to,
		ColumnApproverID: in.Actor.EmployeeID,
		ColumnApprovedAt: now,
		ColumnUpdatedAt:  now,
	}
	if remarks != "" {
		patch[ColumnRemarks] = workflow.AppendRemarks(subject.Remarks, remarks)
	}
	if in.Decision == workflow.DecisionApprove {
		maps.Copy(patch, in.Extra)
	}

	changed, err := repo.TransitionStatus(ctx, subject.ID, workflow.StatusPending, patch)
	if err != nil {
		log.Error("decide persist failed", zap.Error(err))
		return Outcome{}, err
	}
	if !changed {
		log.Warn("decide lost race")
		observability.RecordTransition(string(subject.Family), "conflict")
		return Outcome{}, workflowerrors.ErrAlreadyDecided
	}

	observability.RecordTransition(string(subject.Family), strings.ToLower(to))
	log.Info("decide success", zap.String("status", to))

	e.notify(ctx, subject, in.Actor, to, remarks, in.Context)
	return Outcome{Status: to, ActorID: in.Actor.EmployeeID, ChangedAt: now, Remarks: remarks, Patch: patch}, nil
}

// Fulfill moves an APPROVED request to its family's completion marker.
func (e *Engine) Fulfill(ctx context.Context, subject Subject, repo Transitioner, in FulfillInput) (Outcome, error) {
	log := contextutil.GetLogger(ctx, e.logger).With(
		zap.String("family", string(subject.Family)),
		zap.Int64("request_id", subject.ID),
		zap.Int64("actor_id", in.Actor.EmployeeID),
	)

	if in.Actor.CompanyID != 0 && subject.CompanyID != in.Actor.CompanyID {
		return Outcome{}, workflowerrors.ErrRequestNotVisible
	}

	to := subject.Family.FulfilmentStatus()
	if to == "" {
		return Outcome{}, workflowerrors.ErrInvalidTransition
	}
	if subject.Status != workflow.StatusApproved {
		log.Warn("fulfil on request that is not approved", zap.String("status", subject.Status))
		observability.RecordTransition(string(subject.Family), "conflict")
		return Outcome{}, workflowerrors.ErrNotApproved
	}

	now := e.cfg.Now().UTC()
	patch := map[string]any{
		ColumnStatus:    to,
		ColumnUpdatedAt: now,
	}
	remarks := strings.TrimSpace(in.Remarks)
	if remarks != "" {
		patch[ColumnRemarks] = workflow.AppendRemarks(subject.Remarks, remarks)
	}
	maps.Copy(patch, in.Extra)

	changed, err := repo.TransitionStatus(ctx, subject.ID, workflow.StatusApproved, patch)
	if err != nil {
		log.Error("fulfil persist failed", zap.Error(err))
		return Outcome{}, err
	}
	if !changed {
		log.Warn("fulfil lost race")
		observability.RecordTransition(string(subject.Family), "conflict")
		return Outcome{}, workflowerrors.ErrNotApproved
	}

	observability.RecordTransition(string(subject.Family), strings.ToLower(to))
	log.Info("fulfil success", zap.String("status", to))

	e.notify(ctx, subject, in.Actor, to, remarks, in.Context)
	return Outcome{Status: to, ActorID: in.Actor.EmployeeID, ChangedAt: now, Remarks: remarks, Patch: patch}, nil
}

// Cancel withdraws a PENDING request. Only its submitter may do so.
func (e *Engine) Cancel(ctx context.Context, subject Subject, repo Transitioner, actor Actor, remarks string) (Outcome, error) {
	log := contextutil.GetLogger(ctx, e.logger).With(
		zap.String("family", string(subject.Family)),
		zap.Int64("request_id", subject.ID),
		zap.Int64("actor_id", actor.EmployeeID),
	)

	if subject.EmployeeID != actor.EmployeeID {
		log.Warn("cancel refused, not submitter")
		return Outcome{}, workflowerrors.ErrNotSubmitter
	}
	if subject.Status != workflow.StatusPending {
		return Outcome{}, workflowerrors.AlreadyDecided(subject.Status)
	}

	now := e.cfg.Now().UTC()
	patch := map[string]any{
		ColumnStatus:    workflow.StatusCancelled,
		ColumnUpdatedAt: now,
	}
	remarks = strings.TrimSpace(remarks)
	if remarks != "" {
		patch[ColumnRemarks] = workflow.AppendRemarks(subject.Remarks, remarks)
	}

	changed, err := repo.TransitionStatus(ctx, subject.ID, workflow.StatusPending, patch)
	if err != nil {
		log.Error("cancel persist failed", zap.Error(err))
		return Outcome{}, err
	}
	if !changed {
		observability.RecordTransition(string(subject.Family), "conflict")
		return Outcome{}, workflowerrors.ErrAlreadyDecided
	}

	observability.RecordTransition(string(subject.Family), "cancelled")
	log.Info("cancel success")
	return Outcome{Status: workflow.StatusCancelled, ActorID: actor.EmployeeID, ChangedAt: now, Remarks: remarks, Patch: patch}, nil
}

// notify hands the change to the dispatcher. The transition is already
// committed; failures are logged and dropped.
func (e *Engine) notify(ctx context.Context, subject Subject, actor Actor, status, remarks string, extra map[string]string) {
	if e.notifier == nil {
		return
	}

	details := make(map[string]string, len(subject.Context)+len(extra))
	maps.Copy(details, subject.Context)
	maps.Copy(details, extra)

	change := notification.StatusChange{
		Family:     subject.Family,
		RequestID:  subject.ID,
		CompanyID:  subject.CompanyID,
		EmployeeID: subject.EmployeeID,
		NewStatus:  status,
		ActorID:    actor.EmployeeID,
		ActorName:  actor.Name,
		ActorPhone: actor.Phone,
		Remarks:    remarks,
		Context:    details,
		OccurredAt: e.cfg.Now().UTC(),
	}

	base := contextutil.Detach(ctx)
	run := func() {
		log := contextutil.GetLogger(base, e.logger)
		defer func() {
			if r := recover(); r != nil {
				log.Error("status notification panicked",
					zap.String("family", string(subject.Family)),
					zap.Int64("request_id", subject.ID),
					zap.String("panic", fmt.Sprint(r)),
				)
			}
		}()

		nctx, cancel := context.WithTimeout(base, e.cfg.NotifyTimeout)
		defer cancel()

		if _, err := e.notifier.NotifyStatus(nctx, change); err != nil {
			log.Error("status notification dropped",
				zap.String("family", string(subject.Family)),
				zap.Int64("request_id", subject.ID),
				zap.String("status", status),
				zap.Error(err),
			)
		}
	}

	if e.cfg.Synchronous {
		run()
		return
	}
	go run()
}
