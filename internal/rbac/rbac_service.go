package rbac

import (
	"context"
	"strconv"
	"sync"

	"go-workforce/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

const (
	RoleAdmin = "ADMIN"
	RoleHR    = "HR"
)

// Resource actions guarded by casbin. Request approval is not here: it
// follows project supervision, not roles.
const (
	ResourceEmployee = "employee"
	ResourceProject  = "project"
	ActionAssign     = "assign"
	ActionUpdate     = "update"
	ActionRead       = "read"
)

// defaultPolicies apply to every company on top of its own rows.
var defaultPolicies = [][]string{
	{RoleHR, "*", ResourceEmployee, ActionRead},
	{RoleHR, "*", ResourceEmployee, ActionAssign},
	{RoleHR, "*", ResourceEmployee, ActionUpdate},
	{RoleHR, "*", ResourceProject, ActionAssign},
}

var defaultGrouping = [][]string{
	{RoleAdmin, RoleHR},
}

type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	loaded   map[int64]bool
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	if _, err := enforcer.AddPolicies(defaultPolicies); err != nil {
		return nil, err
	}
	if _, err := enforcer.AddGroupingPolicies(defaultGrouping); err != nil {
		return nil, err
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		loaded:   make(map[int64]bool),
		logger:   l,
	}, nil
}

// loadCompanyUnlocked adds a company's own grants once per process.
func (s *service) loadCompanyUnlocked(companyID int64) error {
	if s.loaded[companyID] || s.repo == nil {
		return nil
	}

	rows, err := s.repo.GetRolePermissions(context.Background(), companyID)
	if err != nil {
		return err
	}
	dom := strconv.FormatInt(companyID, 10)
	for _, row := range rows {
		if _, err := s.enforcer.AddPolicy(row.Role, dom, row.Resource, row.Action); err != nil {
			return err
		}
	}
	s.loaded[companyID] = true
	s.logger.Debug("rbac company policy loaded",
		zap.Int64("company_id", companyID),
		zap.Int("role_permissions", len(rows)),
	)
	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadCompanyUnlocked(req.CompanyID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(
		req.Role,
		strconv.FormatInt(req.CompanyID, 10),
		req.Resource,
		req.Action,
	)
	if err != nil {
		s.logger.Error("rbac enforce failed", zap.Error(err))
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", req.Role),
		zap.Int64("company_id", req.CompanyID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
