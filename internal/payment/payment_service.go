package payment

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-workforce/internal/approval"
	"go-workforce/internal/notification"
	paymenterrors "go-workforce/internal/payment/errors"
	"go-workforce/internal/shared/contextutil"
	"go-workforce/internal/shared/counter"
	"go-workforce/internal/shared/dberror"
	"go-workforce/internal/workflow"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, principalID int64, req CreatePaymentRequest) (PaymentResponse, error)
	ListMine(ctx context.Context, principalID int64, filter workflow.ListFilter) ([]PaymentResponse, error)
	ListPendingFor(ctx context.Context, companyID int64, employeeIDs []int64) ([]PaymentResponse, error)
	CountPendingFor(ctx context.Context, companyID int64, employeeIDs []int64) (int64, error)
	GetByID(ctx context.Context, principalID, id int64) (PaymentResponse, error)
	Decide(ctx context.Context, principalID, id int64, req DecidePaymentRequest) (DecisionResponse, error)
	Process(ctx context.Context, principalID, id int64, req ProcessPaymentRequest) (PaymentResponse, error)
	Cancel(ctx context.Context, principalID, id int64, req CancelPaymentRequest) (PaymentResponse, error)
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
	l := zap.L().Named("payment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payment.service")
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

func (s *service) Create(ctx context.Context, principalID int64, req CreatePaymentRequest) (PaymentResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	submitter, err := s.identity.ResolveEmployee(ctx, principalID)
	if err != nil {
		return PaymentResponse{}, err
	}
	log.Debug("create payment requested",
		zap.Int64("employee_id", submitter.ID),
		zap.String("request_type", req.RequestType),
		zap.Int64("amount", req.Amount),
	)

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create payment begin tx failed", zap.Error(err))
		return PaymentResponse{}, err
	}
	defer tx.Rollback()

	id, err := s.counter.WithTx(tx).NextValue(ctx, counter.PaymentRequest)
	if err != nil {
		log.Error("create payment id allocation failed", zap.Error(err))
		return PaymentResponse{}, err
	}

	now := s.now().UTC()
	p := &PaymentRequest{
		ID:          id,
		CompanyID:   submitter.CompanyID,
		EmployeeID:  submitter.ID,
		RequestType: req.RequestType,
		Amount:      req.Amount,
		Currency:    currency,
		Reason:      req.Reason,
		BankDetails: BankDetails{
			AccountName:   req.BankDetails.AccountName,
			AccountNumber: req.BankDetails.AccountNumber,
			BankName:      req.BankDetails.BankName,
		},
		Lifecycle: workflow.Lifecycle{
			Status:    workflow.StatusPending,
			CreatedBy: principalID,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.WithTx(tx).Create(ctx, p); err != nil {
		log.Error("create payment persist failed", zap.Error(err))
		return PaymentResponse{}, dberror.Map(err, nil)
	}
	if err := tx.Commit(); err != nil {
		log.Error("create payment commit failed", zap.Error(err))
		return PaymentResponse{}, err
	}

	log.Info("create payment success",
		zap.Int64("payment_id", p.ID),
		zap.Int64("employee_id", submitter.ID),
	)
	return mapToResponse(*p), nil
}

func (s *service) ListMine(ctx context.Context, principalID int64, filter workflow.ListFilter) ([]PaymentResponse, error) {
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

func (s *service) ListPendingFor(ctx context.Context, companyID int64, employeeIDs []int64) ([]PaymentResponse, error) {
	items, err := s.repo.FindPendingByEmployees(ctx, companyID, employeeIDs)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(items), nil
}

func (s *service) CountPendingFor(ctx context.Context, companyID int64, employeeIDs []int64) (int64, error) {
	return s.repo.CountPendingByEmployees(ctx, companyID, employeeIDs)
}

func (s *service) GetByID(ctx context.Context, principalID, id int64) (PaymentResponse, error) {
	actor, p, err := s.load(ctx, principalID, id)
	if err != nil {
		return PaymentResponse{}, err
	}
	if err := approval.CanView(ctx, s.workflow, subjectOf(*p), actor); err != nil {
		return PaymentResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) Decide(ctx context.Context, principalID, id int64, req DecidePaymentRequest) (DecisionResponse, error) {
	decision, err := workflow.ParseDecision(req.Action)
	if err != nil {
		return DecisionResponse{}, err
	}

	actor, p, err := s.load(ctx, principalID, id)
	if err != nil {
		return DecisionResponse{}, err
	}

	approved := p.Amount
	if decision == workflow.DecisionApprove && req.ApprovedAmount != nil {
		if *req.ApprovedAmount > p.Amount {
			if err := s.workflow.Authorize(ctx, subjectOf(*p), actor); err != nil {
				return DecisionResponse{}, err
			}
			return DecisionResponse{}, paymenterrors.ErrApprovedAmountTooHigh
		}
		approved = *req.ApprovedAmount
	}

	out, err := s.workflow.Decide(ctx, subjectOf(*p), s.repo, approval.DecideInput{
		Actor:    actor,
		Decision: decision,
		Remarks:  req.Remarks,
		Extra:    map[string]any{"approved_amount": approved},
		Context:  map[string]string{notification.KeyAmount: notification.FormatAmount(p.Currency, approved)},
	})
	if err != nil {
		return DecisionResponse{}, err
	}

	p.Apply(out.Status, out.ActorID, out.ChangedAt, out.Remarks)
	if out.Status == workflow.StatusApproved {
		p.ApprovedAmount = &approved
	}
	p.UpdatedAt = out.ChangedAt
	return DecisionResponse{Status: out.Status, Request: mapToResponse(*p)}, nil
}

// Process marks an approved payment as paid out.
func (s *service) Process(ctx context.Context, principalID, id int64, req ProcessPaymentRequest) (PaymentResponse, error) {
	actor, p, err := s.load(ctx, principalID, id)
	if err != nil {
		return PaymentResponse{}, err
	}

	now := s.now().UTC()
	extra := map[string]any{"processed_at": now}
	if ref := strings.TrimSpace(req.PaymentReference); ref != "" {
		extra["payment_reference"] = ref
	}

	out, err := s.workflow.Fulfill(ctx, subjectOf(*p), s.repo, approval.FulfillInput{
		Actor:   actor,
		Remarks: req.Remarks,
		Extra:   extra,
		Context: map[string]string{notification.KeyAmount: notification.FormatAmount(p.Currency, p.PayableAmount())},
	})
	if err != nil {
		return PaymentResponse{}, err
	}

	p.Apply(out.Status, out.ActorID, out.ChangedAt, out.Remarks)
	p.ProcessedAt = &now
	if ref, ok := extra["payment_reference"].(string); ok {
		p.PaymentReference = ref
	}
	p.UpdatedAt = out.ChangedAt
	return mapToResponse(*p), nil
}

func (s *service) Cancel(ctx context.Context, principalID, id int64, req CancelPaymentRequest) (PaymentResponse, error) {
	actor, p, err := s.load(ctx, principalID, id)
	if err != nil {
		return PaymentResponse{}, err
	}

	out, err := s.workflow.Cancel(ctx, subjectOf(*p), s.repo, actor, req.Remarks)
	if err != nil {
		return PaymentResponse{}, err
	}

	p.Apply(out.Status, out.ActorID, out.ChangedAt, out.Remarks)
	p.UpdatedAt = out.ChangedAt
	return mapToResponse(*p), nil
}

func (s *service) load(ctx context.Context, principalID, id int64) (approval.Actor, *PaymentRequest, error) {
	e, err := s.identity.ResolveEmployee(ctx, principalID)
	if err != nil {
		return approval.Actor{}, nil, err
	}
	p, err := s.repo.FindByIDAndCompany(ctx, e.CompanyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return approval.Actor{}, nil, paymenterrors.ErrPaymentNotFound
		}
		contextutil.GetLogger(ctx, s.logger).Error("load payment failed", zap.Int64("payment_id", id), zap.Error(err))
		return approval.Actor{}, nil, err
	}
	return approval.ActorFrom(e), p, nil
}

func subjectOf(p PaymentRequest) approval.Subject {
	return approval.Subject{
		Family:     workflow.FamilyPayment,
		ID:         p.ID,
		CompanyID:  p.CompanyID,
		EmployeeID: p.EmployeeID,
		Status:     p.Status,
		Remarks:    p.Remarks,
		Context: map[string]string{
			notification.KeyRequestType: p.RequestType,
			notification.KeyAmount:      notification.FormatAmount(p.Currency, p.PayableAmount()),
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

func mapToResponse(p PaymentRequest) PaymentResponse {
	return PaymentResponse{
		ID:              p.ID,
		ReferenceNumber: workflow.ReferenceNumber(workflow.FamilyPayment, p.ID),
		CompanyID:       p.CompanyID,
		EmployeeID:      p.EmployeeID,
		RequestType:     p.RequestType,
		Amount:          p.Amount,
		Currency:        p.Currency,
		Reason:          p.Reason,
		BankDetails: BankDetailsResponse{
			AccountName:   p.BankDetails.AccountName,
			AccountNumber: p.BankDetails.AccountNumber,
			BankName:      p.BankDetails.BankName,
		},
		ApprovedAmount:   p.ApprovedAmount,
		PaymentReference: p.PaymentReference,
		ProcessedAt:      formatTime(p.ProcessedAt),
		Status:           p.Status,
		CreatedBy:        p.CreatedBy,
		ApproverID:       p.ApproverID,
		ApprovedAt:       formatTime(p.ApprovedAt),
		Remarks:          p.Remarks,
		RequestedAt:      p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapToListResponse(items []PaymentRequest) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(items))
	for _, p := range items {
		out = append(out, mapToResponse(p))
	}
	return out
}
