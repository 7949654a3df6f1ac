package leave

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"go-workforce/internal/approval"
	leaveerrors "go-workforce/internal/leave/errors"
	"go-workforce/internal/notification"
	"go-workforce/internal/shared/contextutil"
	"go-workforce/internal/shared/counter"
	"go-workforce/internal/shared/dberror"
	"go-workforce/internal/workflow"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, principalID int64, req CreateLeaveRequest) (LeaveResponse, error)
	ListMine(ctx context.Context, principalID int64, filter workflow.ListFilter) ([]LeaveResponse, error)
	ListPendingFor(ctx context.Context, companyID int64, employeeIDs []int64) ([]LeaveResponse, error)
	CountPendingFor(ctx context.Context, companyID int64, employeeIDs []int64) (int64, error)
	GetByID(ctx context.Context, principalID, id int64) (LeaveResponse, error)
	Decide(ctx context.Context, principalID, id int64, req DecideLeaveRequest) (DecisionResponse, error)
	Cancel(ctx context.Context, principalID, id int64, req CancelLeaveRequest) (LeaveResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	counter  counter.Repository
	identity approval.IdentityResolver
	workflow approval.Workflow
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	identity approval.IdentityResolver,
	wf approval.Workflow,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		counter:  counterRepo,
		identity: identity,
		workflow: wf,
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, principalID int64, req CreateLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	submitter, err := s.identity.ResolveEmployee(ctx, principalID)
	if err != nil {
		return LeaveResponse{}, err
	}
	log.Debug("create leave requested",
		zap.Int64("company_id", submitter.CompanyID),
		zap.Int64("employee_id", submitter.ID),
		zap.String("from_date", req.FromDate),
		zap.String("to_date", req.ToDate),
	)

	from, err := workflow.ParseDate(req.FromDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	to, err := workflow.ParseDate(req.ToDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if from.After(to) {
		log.Warn("create leave validation failed", zap.Error(leaveerrors.ErrInvalidDateRange))
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, submitter.CompanyID, submitter.ID, from, to)
	if err != nil {
		log.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		log.Warn("create leave overlap detected",
			zap.Int64("employee_id", submitter.ID),
			zap.String("from_date", req.FromDate),
			zap.String("to_date", req.ToDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	id, err := s.counter.WithTx(tx).NextValue(ctx, counter.LeaveRequest)
	if err != nil {
		log.Error("create leave id allocation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	now := s.now().UTC()
	l := &LeaveRequest{
		ID:         id,
		CompanyID:  submitter.CompanyID,
		EmployeeID: submitter.ID,
		LeaveType:  req.LeaveType,
		FromDate:   from,
		ToDate:     to,
		TotalDays:  DaysInclusive(from, to),
		Reason:     req.Reason,
		Lifecycle: workflow.Lifecycle{
			Status:    workflow.StatusPending,
			CreatedBy: principalID,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := qtx.Create(ctx, l); err != nil {
		log.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, dberror.Map(err, nil)
	}
	if err := tx.Commit(); err != nil {
		log.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("create leave success",
		zap.Int64("leave_id", l.ID),
		zap.Int64("employee_id", submitter.ID),
	)
	return mapToResponse(*l), nil
}

func (s *service) ListMine(ctx context.Context, principalID int64, filter workflow.ListFilter) ([]LeaveResponse, error) {
	submitter, err := s.identity.ResolveEmployee(ctx, principalID)
	if err != nil {
		return nil, err
	}
	leaves, err := s.repo.FindByEmployee(ctx, submitter.CompanyID, submitter.ID, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) ListPendingFor(ctx context.Context, companyID int64, employeeIDs []int64) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindPendingByEmployees(ctx, companyID, employeeIDs)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) CountPendingFor(ctx context.Context, companyID int64, employeeIDs []int64) (int64, error) {
	return s.repo.CountPendingByEmployees(ctx, companyID, employeeIDs)
}

func (s *service) GetByID(ctx context.Context, principalID, id int64) (LeaveResponse, error) {
	actor, l, err := s.load(ctx, principalID, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if err := approval.CanView(ctx, s.workflow, subjectOf(*l), actor); err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) Decide(ctx context.Context, principalID, id int64, req DecideLeaveRequest) (DecisionResponse, error) {
	decision, err := workflow.ParseDecision(req.Action)
	if err != nil {
		return DecisionResponse{}, err
	}

	actor, l, err := s.load(ctx, principalID, id)
	if err != nil {
		return DecisionResponse{}, err
	}

	out, err := s.workflow.Decide(ctx, subjectOf(*l), s.repo, approval.DecideInput{
		Actor:    actor,
		Decision: decision,
		Remarks:  req.Remarks,
	})
	if err != nil {
		return DecisionResponse{}, err
	}

	l.Apply(out.Status, out.ActorID, out.ChangedAt, out.Remarks)
	l.UpdatedAt = out.ChangedAt
	return DecisionResponse{Status: out.Status, Request: mapToResponse(*l)}, nil
}

func (s *service) Cancel(ctx context.Context, principalID, id int64, req CancelLeaveRequest) (LeaveResponse, error) {
	actor, l, err := s.load(ctx, principalID, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	out, err := s.workflow.Cancel(ctx, subjectOf(*l), s.repo, actor, req.Remarks)
	if err != nil {
		return LeaveResponse{}, err
	}

	l.Apply(out.Status, out.ActorID, out.ChangedAt, out.Remarks)
	l.UpdatedAt = out.ChangedAt
	return mapToResponse(*l), nil
}

// load resolves the caller and the leave request within the caller's company.
func (s *service) load(ctx context.Context, principalID, id int64) (approval.Actor, *LeaveRequest, error) {
	e, err := s.identity.ResolveEmployee(ctx, principalID)
	if err != nil {
		return approval.Actor{}, nil, err
	}
	l, err := s.repo.FindByIDAndCompany(ctx, e.CompanyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return approval.Actor{}, nil, leaveerrors.ErrLeaveNotFound
		}
		contextutil.GetLogger(ctx, s.logger).Error("load leave failed", zap.Int64("leave_id", id), zap.Error(err))
		return approval.Actor{}, nil, err
	}
	return approval.ActorFrom(e), l, nil
}

func subjectOf(l LeaveRequest) approval.Subject {
	return approval.Subject{
		Family:     workflow.FamilyLeave,
		ID:         l.ID,
		CompanyID:  l.CompanyID,
		EmployeeID: l.EmployeeID,
		Status:     l.Status,
		Remarks:    l.Remarks,
		Context: map[string]string{
			notification.KeyLeaveType: l.LeaveType,
			notification.KeyFromDate:  l.FromDate.Format(workflow.DateLayout),
			notification.KeyToDate:    l.ToDate.Format(workflow.DateLayout),
			notification.KeyTotalDays: strconv.Itoa(l.TotalDays),
		},
	}
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID,
		ReferenceNumber: workflow.ReferenceNumber(workflow.FamilyLeave, l.ID),
		CompanyID:       l.CompanyID,
		EmployeeID:      l.EmployeeID,
		LeaveType:       l.LeaveType,
		FromDate:        l.FromDate.Format(workflow.DateLayout),
		ToDate:          l.ToDate.Format(workflow.DateLayout),
		TotalDays:       l.TotalDays,
		Reason:          l.Reason,
		Status:          l.Status,
		CreatedBy:       l.CreatedBy,
		ApproverID:      l.ApproverID,
		Remarks:         l.Remarks,
		RequestedAt:     l.CreatedAt.UTC().Format(time.RFC3339),
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.UTC().Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, mapToResponse(l))
	}
	return out
}
