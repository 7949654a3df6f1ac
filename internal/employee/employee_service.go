package employee

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"go-workforce/internal/domain"
	employeeerrors "go-workforce/internal/employee/errors"
	"go-workforce/internal/shared/apperror"
	"go-workforce/internal/shared/contextutil"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ProjectDirectory is the part of the project directory the employee module
// needs to validate assignments and to drop entries it changed.
type ProjectDirectory interface {
	GetProject(ctx context.Context, id int64) (domain.ProjectInfo, error)
	InvalidateDirectory(ctx context.Context, ids ...int64)
}

type Service interface {
	// ResolveEmployee maps an authenticated principal to its employee record.
	ResolveEmployee(ctx context.Context, principalID int64) (Employee, error)
	Me(ctx context.Context, principalID int64) (EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id int64) (EmployeeResponse, error)
	AssignProject(ctx context.Context, companyID, id int64, req AssignProjectRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, companyID, id int64) (EmployeeResponse, error)
	Names(ctx context.Context, ids []int64) (map[int64]string, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	projects ProjectDirectory
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, projects ProjectDirectory, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		projects: projects,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) ResolveEmployee(ctx context.Context, principalID int64) (Employee, error) {
	if principalID <= 0 {
		return Employee{}, apperror.ErrUnauthorized
	}

	key := "employee:principal:" + strconv.FormatInt(principalID, 10)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		e, err := s.repo.FindByUserID(ctx, principalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, employeeerrors.ErrEmployeeNotLinked
			}
			return nil, err
		}
		return *e, nil
	})
	if err != nil {
		log := contextutil.GetLogger(ctx, s.logger)
		log.Warn("resolve employee failed",
			zap.Int64("principal_id", principalID),
			zap.Error(err),
		)
		return Employee{}, err
	}

	e := v.(Employee)
	if !e.IsActive() {
		return Employee{}, employeeerrors.ErrEmployeeInactive
	}
	return e, nil
}

func (s *service) Me(ctx context.Context, principalID int64) (EmployeeResponse, error) {
	e, err := s.ResolveEmployee(ctx, principalID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	return mapToResponse(e), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id int64) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested",
		zap.Int64("company_id", companyID),
		zap.Int64("employee_id", id),
	)
	e, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*e), nil
}

func (s *service) AssignProject(
	ctx context.Context,
	companyID, id int64,
	req AssignProjectRequest,
) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	var projectID int64
	if req.ProjectID != nil {
		projectID = *req.ProjectID
	}
	log.Debug("assign project requested",
		zap.Int64("company_id", companyID),
		zap.Int64("employee_id", id),
		zap.Int64("project_id", projectID),
	)

	// 0 unassigns; the zero ref clears every assignment column
	var ref ProjectRef
	if projectID != 0 {
		project, err := s.projects.GetProject(ctx, projectID)
		if err != nil {
			return EmployeeResponse{}, err
		}
		if project.CompanyID != companyID {
			return EmployeeResponse{}, employeeerrors.ErrProjectInOtherCompany
		}
		pid := project.ID
		ref = ProjectRef{ID: &pid, Name: project.Name, Code: project.Code}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("assign project begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	e, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if _, err := qtx.UpdateProjectAssignment(ctx, companyID, id, ref); err != nil {
		log.Error("assign project persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("assign project commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	e.CurrentProject = ref
	e.CurrentProjectID = ref.ID
	log.Info("assign project success",
		zap.Int64("employee_id", id),
		zap.Int64("project_id", projectID),
	)
	return mapToResponse(*e), nil
}

// Deactivate marks the employee inactive and, in the same transaction,
// releases every project they supervised so no request is routed to them.
func (s *service) Deactivate(ctx context.Context, companyID, id int64) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("deactivate employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	e, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if _, err := qtx.UpdateStatus(ctx, companyID, id, StatusInactive); err != nil {
		log.Error("deactivate employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	released, err := qtx.ReleaseSupervisedProjects(ctx, companyID, id)
	if err != nil {
		log.Error("release supervised projects failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("deactivate employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if s.projects != nil {
		s.projects.InvalidateDirectory(ctx, released...)
	}
	e.Status = StatusInactive
	log.Info("deactivate employee success",
		zap.Int64("employee_id", id),
		zap.Int64s("released_projects", released),
	)
	return mapToResponse(*e), nil
}

func (s *service) Names(ctx context.Context, ids []int64) (map[int64]string, error) {
	emps, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(emps))
	for _, e := range emps {
		out[e.ID] = e.FullName
	}
	return out, nil
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:        e.ID,
		CompanyID: e.CompanyID,
		UserID:    e.UserID,
		FullName:  e.FullName,
		Phone:     e.Phone,
		Status:    e.Status,
	}
	if pid := ProjectIDOf(e); pid != nil {
		resp.CurrentProject = &ProjectRefResponse{
			ID:   *pid,
			Name: e.CurrentProject.Name,
			Code: e.CurrentProject.Code,
		}
	}
	return resp
}
