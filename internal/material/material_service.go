package material

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"go-workforce/internal/approval"
	"go-workforce/internal/domain"
	materialerrors "go-workforce/internal/material/errors"
	"go-workforce/internal/notification"
	projecterrors "go-workforce/internal/project/errors"
	"go-workforce/internal/shared/contextutil"
	"go-workforce/internal/shared/counter"
	"go-workforce/internal/shared/dberror"
	"go-workforce/internal/workflow"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProjectDirectory resolves a project id to its directory entry.
type ProjectDirectory interface {
	GetProject(ctx context.Context, id int64) (domain.ProjectInfo, error)
}

// Service serves both the material and the tool family; every call names
// the family it acts on.
type Service interface {
	Create(ctx context.Context, principalID int64, family workflow.Family, req CreateMaterialRequest) (MaterialResponse, error)
	ListMine(ctx context.Context, principalID int64, family workflow.Family, filter workflow.ListFilter) ([]MaterialResponse, error)
	ListPendingFor(ctx context.Context, companyID int64, projectIDs []int64, family workflow.Family) ([]MaterialResponse, error)
	CountPendingFor(ctx context.Context, companyID int64, projectIDs []int64, family workflow.Family) (int64, error)
	GetByID(ctx context.Context, principalID int64, family workflow.Family, id int64) (MaterialResponse, error)
	Decide(ctx context.Context, principalID int64, family workflow.Family, id int64, req DecideMaterialRequest) (DecisionResponse, error)
	Fulfill(ctx context.Context, principalID int64, family workflow.Family, id int64, req FulfillMaterialRequest) (MaterialResponse, error)
	Cancel(ctx context.Context, principalID int64, family workflow.Family, id int64, req CancelMaterialRequest) (MaterialResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	counter  counter.Repository
	projects ProjectDirectory
	identity approval.IdentityResolver
	workflow approval.Workflow
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	projects ProjectDirectory,
	identity approval.IdentityResolver,
	wf approval.Workflow,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("material.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("material.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		counter:  counterRepo,
		projects: projects,
		identity: identity,
		workflow: wf,
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, principalID int64, family workflow.Family, req CreateMaterialRequest) (MaterialResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	submitter, err := s.identity.ResolveEmployee(ctx, principalID)
	if err != nil {
		return MaterialResponse{}, err
	}
	log.Debug("create material requested",
		zap.Int64("employee_id", submitter.ID),
		zap.String("family", string(family)),
		zap.Int64("project_id", req.ProjectID),
	)

	info, err := s.projects.GetProject(ctx, req.ProjectID)
	if err != nil {
		return MaterialResponse{}, err
	}
	if info.CompanyID != submitter.CompanyID {
		return MaterialResponse{}, projecterrors.ErrProjectNotFound
	}

	now := s.now().UTC()
	var required *time.Time
	if strings.TrimSpace(req.RequiredDate) != "" {
		d, err := workflow.ParseDate(req.RequiredDate)
		if err != nil {
			return MaterialResponse{}, err
		}
		if d.Before(now.Truncate(24 * time.Hour)) {
			return MaterialResponse{}, materialerrors.ErrRequiredDateInPast
		}
		required = &d
	}
	urgency := req.Urgency
	if urgency == "" {
		urgency = UrgencyNormal
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create material begin tx failed", zap.Error(err))
		return MaterialResponse{}, err
	}
	defer tx.Rollback()

	id, err := s.counter.WithTx(tx).NextValue(ctx, counter.MaterialRequest)
	if err != nil {
		log.Error("create material id allocation failed", zap.Error(err))
		return MaterialResponse{}, err
	}

	m := &MaterialRequest{
		ID:           id,
		CompanyID:    submitter.CompanyID,
		EmployeeID:   submitter.ID,
		ProjectID:    info.ID,
		RequestType:  TypeOf(family),
		ItemName:     strings.TrimSpace(req.ItemName),
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Purpose:      req.Purpose,
		RequiredDate: required,
		Urgency:      urgency,
		Lifecycle: workflow.Lifecycle{
			Status:    workflow.StatusPending,
			CreatedBy: principalID,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.WithTx(tx).Create(ctx, m); err != nil {
		log.Error("create material persist failed", zap.Error(err))
		return MaterialResponse{}, dberror.Map(err, nil)
	}
	if err := tx.Commit(); err != nil {
		log.Error("create material commit failed", zap.Error(err))
		return MaterialResponse{}, err
	}

	log.Info("create material success",
		zap.Int64("material_id", m.ID),
		zap.String("request_type", m.RequestType),
		zap.Int64("project_id", m.ProjectID),
	)
	return mapToResponse(*m), nil
}

func (s *service) ListMine(ctx context.Context, principalID int64, family workflow.Family, filter workflow.ListFilter) ([]MaterialResponse, error) {
	submitter, err := s.identity.ResolveEmployee(ctx, principalID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.FindByEmployee(ctx, submitter.CompanyID, submitter.ID, TypeOf(family), filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(items), nil
}

func (s *service) ListPendingFor(ctx context.Context, companyID int64, projectIDs []int64, family workflow.Family) ([]MaterialResponse, error) {
	items, err := s.repo.FindPendingByProjects(ctx, companyID, projectIDs, TypeOf(family))
	if err != nil {
		return nil, err
	}
	return mapToListResponse(items), nil
}

func (s *service) CountPendingFor(ctx context.Context, companyID int64, projectIDs []int64, family workflow.Family) (int64, error) {
	return s.repo.CountPendingByProjects(ctx, companyID, projectIDs, TypeOf(family))
}

func (s *service) GetByID(ctx context.Context, principalID int64, family workflow.Family, id int64) (MaterialResponse, error) {
	actor, m, err := s.load(ctx, principalID, family, id)
	if err != nil {
		return MaterialResponse{}, err
	}
	if err := approval.CanView(ctx, s.workflow, subjectOf(*m), actor); err != nil {
		return MaterialResponse{}, err
	}
	return mapToResponse(*m), nil
}

func (s *service) Decide(ctx context.Context, principalID int64, family workflow.Family, id int64, req DecideMaterialRequest) (DecisionResponse, error) {
	decision, err := workflow.ParseDecision(req.Action)
	if err != nil {
		return DecisionResponse{}, err
	}

	actor, m, err := s.load(ctx, principalID, family, id)
	if err != nil {
		return DecisionResponse{}, err
	}

	approved := m.Quantity
	if decision == workflow.DecisionApprove && req.ApprovedQuantity != nil {
		if *req.ApprovedQuantity > m.Quantity {
			if err := s.workflow.Authorize(ctx, subjectOf(*m), actor); err != nil {
				return DecisionResponse{}, err
			}
			return DecisionResponse{}, materialerrors.ErrApprovedQuantityTooHigh
		}
		approved = *req.ApprovedQuantity
	}

	extra := map[string]any{}
	notifyCtx := map[string]string{}
	if decision == workflow.DecisionApprove {
		location, projectName := s.pickupLocation(ctx, *m, req.PickupLocation)
		instructions := strings.TrimSpace(req.PickupInstructions)
		extra["approved_quantity"] = approved
		extra["pickup_location"] = location
		extra["pickup_instructions"] = instructions
		notifyCtx[notification.KeyQuantity] = strconv.FormatInt(approved, 10)
		notifyCtx[notification.KeyPickupLocation] = location
		notifyCtx[notification.KeyPickupInstructions] = instructions
		if projectName != "" {
			notifyCtx[notification.KeyProjectName] = projectName
		}
	}

	out, err := s.workflow.Decide(ctx, subjectOf(*m), s.repo, approval.DecideInput{
		Actor:    actor,
		Decision: decision,
		Remarks:  req.Remarks,
		Extra:    extra,
		Context:  notifyCtx,
	})
	if err != nil {
		return DecisionResponse{}, err
	}

	m.Apply(out.Status, out.ActorID, out.ChangedAt, out.Remarks)
	if out.Status == workflow.StatusApproved {
		m.ApprovedQuantity = &approved
		m.PickupLocation, _ = extra["pickup_location"].(string)
		m.PickupInstructions, _ = extra["pickup_instructions"].(string)
	}
	m.UpdatedAt = out.ChangedAt
	return DecisionResponse{Status: out.Status, Request: mapToResponse(*m)}, nil
}

// Fulfill records the hand-over of an approved request.
func (s *service) Fulfill(ctx context.Context, principalID int64, family workflow.Family, id int64, req FulfillMaterialRequest) (MaterialResponse, error) {
	actor, m, err := s.load(ctx, principalID, family, id)
	if err != nil {
		return MaterialResponse{}, err
	}

	handed := m.GrantedQuantity()
	if req.FulfilledQuantity != nil {
		if *req.FulfilledQuantity > handed {
			return MaterialResponse{}, materialerrors.ErrFulfilledQuantityTooHigh
		}
		handed = *req.FulfilledQuantity
	}

	now := s.now().UTC()
	out, err := s.workflow.Fulfill(ctx, subjectOf(*m), s.repo, approval.FulfillInput{
		Actor:   actor,
		Remarks: req.Remarks,
		Extra: map[string]any{
			"fulfilled_at":       now,
			"fulfilled_quantity": handed,
		},
		Context: map[string]string{notification.KeyQuantity: strconv.FormatInt(handed, 10)},
	})
	if err != nil {
		return MaterialResponse{}, err
	}

	m.Apply(out.Status, out.ActorID, out.ChangedAt, out.Remarks)
	m.FulfilledAt = &now
	m.FulfilledQuantity = &handed
	m.UpdatedAt = out.ChangedAt
	return mapToResponse(*m), nil
}

func (s *service) Cancel(ctx context.Context, principalID int64, family workflow.Family, id int64, req CancelMaterialRequest) (MaterialResponse, error) {
	actor, m, err := s.load(ctx, principalID, family, id)
	if err != nil {
		return MaterialResponse{}, err
	}

	out, err := s.workflow.Cancel(ctx, subjectOf(*m), s.repo, actor, req.Remarks)
	if err != nil {
		return MaterialResponse{}, err
	}

	m.Apply(out.Status, out.ActorID, out.ChangedAt, out.Remarks)
	m.UpdatedAt = out.ChangedAt
	return mapToResponse(*m), nil
}

// pickupLocation falls back to the project site when the approver names none.
func (s *service) pickupLocation(ctx context.Context, m MaterialRequest, requested string) (string, string) {
	location := strings.TrimSpace(requested)
	info, err := s.projects.GetProject(ctx, m.ProjectID)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("project lookup for pickup failed",
			zap.Int64("project_id", m.ProjectID),
			zap.Error(err),
		)
		return location, ""
	}
	if location == "" {
		location = info.Location
	}
	if location == "" {
		location = info.Name + " site store"
	}
	return location, info.Name
}

func (s *service) load(ctx context.Context, principalID int64, family workflow.Family, id int64) (approval.Actor, *MaterialRequest, error) {
	e, err := s.identity.ResolveEmployee(ctx, principalID)
	if err != nil {
		return approval.Actor{}, nil, err
	}
	m, err := s.repo.FindByIDAndCompany(ctx, e.CompanyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return approval.Actor{}, nil, materialerrors.ErrMaterialNotFound
		}
		contextutil.GetLogger(ctx, s.logger).Error("load material failed", zap.Int64("material_id", id), zap.Error(err))
		return approval.Actor{}, nil, err
	}
	if m.Family() != family {
		return approval.Actor{}, nil, materialerrors.ErrMaterialNotFound
	}
	return approval.ActorFrom(e), m, nil
}

func subjectOf(m MaterialRequest) approval.Subject {
	return approval.Subject{
		Family:     m.Family(),
		ID:         m.ID,
		CompanyID:  m.CompanyID,
		EmployeeID: m.EmployeeID,
		ProjectID:  m.ProjectID,
		Status:     m.Status,
		Remarks:    m.Remarks,
		Context: map[string]string{
			notification.KeyItemName: m.ItemName,
			notification.KeyQuantity: strconv.FormatInt(m.GrantedQuantity(), 10),
			notification.KeyUnit:     m.Unit,
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

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(workflow.DateLayout)
	return &v
}

func mapToResponse(m MaterialRequest) MaterialResponse {
	return MaterialResponse{
		ID:                 m.ID,
		ReferenceNumber:    workflow.ReferenceNumber(m.Family(), m.ID),
		CompanyID:          m.CompanyID,
		EmployeeID:         m.EmployeeID,
		ProjectID:          m.ProjectID,
		RequestType:        m.RequestType,
		ItemName:           m.ItemName,
		Quantity:           m.Quantity,
		Unit:               m.Unit,
		Purpose:            m.Purpose,
		RequiredDate:       formatDate(m.RequiredDate),
		Urgency:            m.Urgency,
		ApprovedQuantity:   m.ApprovedQuantity,
		PickupLocation:     m.PickupLocation,
		PickupInstructions: m.PickupInstructions,
		FulfilledAt:        formatTime(m.FulfilledAt),
		FulfilledQuantity:  m.FulfilledQuantity,
		Status:             m.Status,
		CreatedBy:          m.CreatedBy,
		ApproverID:         m.ApproverID,
		ApprovedAt:         formatTime(m.ApprovedAt),
		Remarks:            m.Remarks,
		RequestedAt:        m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapToListResponse(items []MaterialRequest) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(items))
	for _, m := range items {
		out = append(out, mapToResponse(m))
	}
	return out
}
