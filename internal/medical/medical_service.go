package medical

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"go-workforce/internal/approval"
	"go-workforce/internal/attachment"
	medicalerrors "go-workforce/internal/medical/errors"
	"go-workforce/internal/notification"
	"go-workforce/internal/shared/contextutil"
	"go-workforce/internal/shared/counter"
	"go-workforce/internal/shared/dberror"
	"go-workforce/internal/workflow"
	workflowerrors "go-workforce/internal/workflow/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, principalID int64, req CreateClaimRequest) (ClaimResponse, error)
	AddReceipts(ctx context.Context, principalID, id int64, files []*multipart.FileHeader) (ClaimResponse, error)
	ListMine(ctx context.Context, principalID int64, filter workflow.ListFilter) ([]ClaimResponse, error)
	ListPendingFor(ctx context.Context, companyID int64, employeeIDs []int64) ([]ClaimResponse, error)
	CountPendingFor(ctx context.Context, companyID int64, employeeIDs []int64) (int64, error)
	GetByID(ctx context.Context, principalID, id int64) (ClaimResponse, error)
	Decide(ctx context.Context, principalID, id int64, req DecideClaimRequest) (DecisionResponse, error)
	Process(ctx context.Context, principalID, id int64, req ProcessClaimRequest) (ClaimResponse, error)
	Cancel(ctx context.Context, principalID, id int64, req CancelClaimRequest) (ClaimResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	counter  counter.Repository
	store    attachment.Store
	identity approval.IdentityResolver
	workflow approval.Workflow
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	store attachment.Store,
	identity approval.IdentityResolver,
	wf approval.Workflow,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("medical.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("medical.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		counter:  counterRepo,
		store:    store,
		identity: identity,
		workflow: wf,
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, principalID int64, req CreateClaimRequest) (ClaimResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	submitter, err := s.identity.ResolveEmployee(ctx, principalID)
	if err != nil {
		return ClaimResponse{}, err
	}

	treated, err := workflow.ParseDate(req.TreatmentDate)
	if err != nil {
		return ClaimResponse{}, err
	}
	now := s.now().UTC()
	if treated.After(now) {
		return ClaimResponse{}, medicalerrors.ErrTreatmentInFuture
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create medical claim begin tx failed", zap.Error(err))
		return ClaimResponse{}, err
	}
	defer tx.Rollback()

	id, err := s.counter.WithTx(tx).NextValue(ctx, counter.MedicalClaim)
	if err != nil {
		log.Error("create medical claim id allocation failed", zap.Error(err))
		return ClaimResponse{}, err
	}

	m := &MedicalClaim{
		ID:            id,
		CompanyID:     submitter.CompanyID,
		EmployeeID:    submitter.ID,
		ClaimType:     req.ClaimType,
		ClaimAmount:   req.ClaimAmount,
		Currency:      currency,
		TreatmentDate: treated,
		Description:   req.Description,
		Receipts:      []attachment.File{},
		Lifecycle: workflow.Lifecycle{
			Status:    workflow.StatusPending,
			CreatedBy: principalID,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.WithTx(tx).Create(ctx, m); err != nil {
		log.Error("create medical claim persist failed", zap.Error(err))
		return ClaimResponse{}, dberror.Map(err, nil)
	}
	if err := tx.Commit(); err != nil {
		log.Error("create medical claim commit failed", zap.Error(err))
		return ClaimResponse{}, err
	}

	log.Info("create medical claim success",
		zap.Int64("claim_id", m.ID),
		zap.Int64("employee_id", submitter.ID),
		zap.String("claim_type", m.ClaimType),
	)
	return mapToResponse(*m), nil
}

// AddReceipts appends uploaded files to a claim its submitter still owns.
func (s *service) AddReceipts(ctx context.Context, principalID, id int64, files []*multipart.FileHeader) (ClaimResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	actor, m, err := s.load(ctx, principalID, id)
	if err != nil {
		return ClaimResponse{}, err
	}
	if m.EmployeeID != actor.EmployeeID {
		return ClaimResponse{}, workflowerrors.ErrNotSubmitter
	}
	if m.Status != workflow.StatusPending {
		return ClaimResponse{}, medicalerrors.ErrReceiptsLocked
	}

	stored, err := attachment.StoreAll(ctx, s.store, fmt.Sprintf("medical-claims/%d/%d", m.CompanyID, m.ID), files)
	if err != nil {
		log.Warn("store receipts failed", zap.Int64("claim_id", id), zap.Error(err))
		return ClaimResponse{}, err
	}

	receipts := append(append([]attachment.File{}, m.Receipts...), stored...)
	changed, err := s.repo.ReplaceReceipts(ctx, m.ID, receipts)
	if err != nil {
		log.Error("persist receipts failed", zap.Int64("claim_id", id), zap.Error(err))
		return ClaimResponse{}, err
	}
	if !changed {
		return ClaimResponse{}, medicalerrors.ErrReceiptsLocked
	}

	log.Info("receipts added", zap.Int64("claim_id", id), zap.Int("count", len(stored)))
	m.Receipts = receipts
	return mapToResponse(*m), nil
}

func (s *service) ListMine(ctx context.Context, principalID int64, filter workflow.ListFilter) ([]ClaimResponse, error) {
	submitter, err := s.identity.ResolveEmployee(ctx, principalID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.FindByEmployee(ctx, submitter.CompanyID, submitter.ID, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(items), nil
}

func (s *service) ListPendingFor(ctx context.Context, companyID int64, employeeIDs []int64) ([]ClaimResponse, error) {
	items, err := s.repo.FindPendingByEmployees(ctx, companyID, employeeIDs)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(items), nil
}

func (s *service) CountPendingFor(ctx context.Context, companyID int64, employeeIDs []int64) (int64, error) {
	return s.repo.CountPendingByEmployees(ctx, companyID, employeeIDs)
}

func (s *service) GetByID(ctx context.Context, principalID, id int64) (ClaimResponse, error) {
	actor, m, err := s.load(ctx, principalID, id)
	if err != nil {
		return ClaimResponse{}, err
	}
	if err := approval.CanView(ctx, s.workflow, subjectOf(*m), actor); err != nil {
		return ClaimResponse{}, err
	}
	return mapToResponse(*m), nil
}

func (s *service) Decide(ctx context.Context, principalID, id int64, req DecideClaimRequest) (DecisionResponse, error) {
	decision, err := workflow.ParseDecision(req.Action)
	if err != nil {
		return DecisionResponse{}, err
	}

	actor, m, err := s.load(ctx, principalID, id)
	if err != nil {
		return DecisionResponse{}, err
	}

	approved := m.ClaimAmount
	if decision == workflow.DecisionApprove && req.ApprovedAmount != nil {
		if *req.ApprovedAmount > m.ClaimAmount {
			if err := s.workflow.Authorize(ctx, subjectOf(*m), actor); err != nil {
				return DecisionResponse{}, err
			}
			return DecisionResponse{}, medicalerrors.ErrApprovedAmountTooHigh
		}
		approved = *req.ApprovedAmount
	}

	out, err := s.workflow.Decide(ctx, subjectOf(*m), s.repo, approval.DecideInput{
		Actor:    actor,
		Decision: decision,
		Remarks:  req.Remarks,
		Extra:    map[string]any{"approved_amount": approved},
		Context:  map[string]string{notification.KeyAmount: notification.FormatAmount(m.Currency, approved)},
	})
	if err != nil {
		return DecisionResponse{}, err
	}

	m.Apply(out.Status, out.ActorID, out.ChangedAt, out.Remarks)
	if out.Status == workflow.StatusApproved {
		m.ApprovedAmount = &approved
	}
	m.UpdatedAt = out.ChangedAt
	return DecisionResponse{Status: out.Status, Request: mapToResponse(*m)}, nil
}

// Process records the reimbursement of an approved claim.
func (s *service) Process(ctx context.Context, principalID, id int64, req ProcessClaimRequest) (ClaimResponse, error) {
	actor, m, err := s.load(ctx, principalID, id)
	if err != nil {
		return ClaimResponse{}, err
	}

	now := s.now().UTC()
	out, err := s.workflow.Fulfill(ctx, subjectOf(*m), s.repo, approval.FulfillInput{
		Actor:   actor,
		Remarks: req.Remarks,
		Extra:   map[string]any{"processed_at": now},
	})
	if err != nil {
		return ClaimResponse{}, err
	}

	m.Apply(out.Status, out.ActorID, out.ChangedAt, out.Remarks)
	m.ProcessedAt = &now
	m.UpdatedAt = out.ChangedAt
	return mapToResponse(*m), nil
}

func (s *service) Cancel(ctx context.Context, principalID, id int64, req CancelClaimRequest) (ClaimResponse, error) {
	actor, m, err := s.load(ctx, principalID, id)
	if err != nil {
		return ClaimResponse{}, err
	}

	out, err := s.workflow.Cancel(ctx, subjectOf(*m), s.repo, actor, req.Remarks)
	if err != nil {
		return ClaimResponse{}, err
	}

	m.Apply(out.Status, out.ActorID, out.ChangedAt, out.Remarks)
	m.UpdatedAt = out.ChangedAt
	return mapToResponse(*m), nil
}

func (s *service) load(ctx context.Context, principalID, id int64) (approval.Actor, *MedicalClaim, error) {
	e, err := s.identity.ResolveEmployee(ctx, principalID)
	if err != nil {
		return approval.Actor{}, nil, err
	}
	m, err := s.repo.FindByIDAndCompany(ctx, e.CompanyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return approval.Actor{}, nil, medicalerrors.ErrClaimNotFound
		}
		contextutil.GetLogger(ctx, s.logger).Error("load medical claim failed", zap.Int64("claim_id", id), zap.Error(err))
		return approval.Actor{}, nil, err
	}
	return approval.ActorFrom(e), m, nil
}

func subjectOf(m MedicalClaim) approval.Subject {
	return approval.Subject{
		Family:     workflow.FamilyMedicalClaim,
		ID:         m.ID,
		CompanyID:  m.CompanyID,
		EmployeeID: m.EmployeeID,
		Status:     m.Status,
		Remarks:    m.Remarks,
		Context: map[string]string{
			notification.KeyRequestType: m.ClaimType,
			notification.KeyAmount:      notification.FormatAmount(m.Currency, m.PayableAmount()),
		},
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

func mapToResponse(m MedicalClaim) ClaimResponse {
	receipts := []attachment.File(m.Receipts)
	if receipts == nil {
		receipts = []attachment.File{}
	}
	return ClaimResponse{
		ID:              m.ID,
		ReferenceNumber: workflow.ReferenceNumber(workflow.FamilyMedicalClaim, m.ID),
		CompanyID:       m.CompanyID,
		EmployeeID:      m.EmployeeID,
		ClaimType:       m.ClaimType,
		ClaimAmount:     m.ClaimAmount,
		Currency:        m.Currency,
		TreatmentDate:   m.TreatmentDate.Format(workflow.DateLayout),
		Description:     m.Description,
		Receipts:        receipts,
		ApprovedAmount:  m.ApprovedAmount,
		ProcessedAt:     formatTime(m.ProcessedAt),
		Status:          m.Status,
		CreatedBy:       m.CreatedBy,
		ApproverID:      m.ApproverID,
		ApprovedAt:      formatTime(m.ApprovedAt),
		Remarks:         m.Remarks,
		RequestedAt:     m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapToListResponse(items []MedicalClaim) []ClaimResponse {
	out := make([]ClaimResponse, 0, len(items))
	for _, m := range items {
		out = append(out, mapToResponse(m))
	}
	return out
}
