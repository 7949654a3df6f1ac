package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"go-workforce/internal/domain"
	"go-workforce/internal/employee"
	projecterrors "go-workforce/internal/project/errors"
	"go-workforce/internal/shared/contextutil"
	"go-workforce/internal/shared/dberror"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DirectoryKeyPrefix = "projects:directory:"
	directoryTTL       = 10 * time.Minute
)

func DirectoryKey(id int64) string {
	return DirectoryKeyPrefix + strconv.FormatInt(id, 10)
}

// SupervisorLookup finds the employee proposed as a project supervisor.
type SupervisorLookup interface {
	FindByIDAndCompany(ctx context.Context, companyID, id int64) (*employee.Employee, error)
}

type Service interface {
	// GetProject is the directory lookup used by other modules. It is not
	// tenant scoped; callers compare CompanyID themselves.
	GetProject(ctx context.Context, id int64) (domain.ProjectInfo, error)
	GetByID(ctx context.Context, companyID, id int64) (ProjectResponse, error)
	AssignSupervisor(ctx context.Context, companyID, id int64, req AssignSupervisorRequest) (ProjectResponse, error)
	// InvalidateDirectory drops cached directory entries after a project row
	// changed outside this service.
	InvalidateDirectory(ctx context.Context, ids ...int64)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees SupervisorLookup
	rdb       *redis.Client
	sf        *singleflight.Group
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees SupervisorLookup,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("project.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("project.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		logger:    l,
	}
}

func (s *service) GetProject(ctx context.Context, id int64) (domain.ProjectInfo, error) {
	cacheKey := DirectoryKey(id)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var info domain.ProjectInfo
			if json.Unmarshal([]byte(cached), &info) == nil {
				return info, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		p, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		info := toInfo(*p)

		if s.rdb != nil {
			if data, err := json.Marshal(info); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, data, directoryTTL).Err(); err != nil {
					s.logger.Warn("project directory cache set failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return info, nil
	})
	if err != nil {
		return domain.ProjectInfo{}, err
	}
	return v.(domain.ProjectInfo), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id int64) (ProjectResponse, error) {
	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ProjectResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) AssignSupervisor(
	ctx context.Context,
	companyID, id int64,
	req AssignSupervisorRequest,
) (ProjectResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	sup, err := s.employees.FindByIDAndCompany(ctx, companyID, req.SupervisorID)
	if err != nil {
		if dberror.IsNotFound(err) {
			return ProjectResponse{}, projecterrors.ErrSupervisorNotFound
		}
		return ProjectResponse{}, err
	}
	if !sup.IsActive() {
		return ProjectResponse{}, projecterrors.ErrSupervisorInactive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("assign supervisor begin tx failed", zap.Error(err))
		return ProjectResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	p, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ProjectResponse{}, mapRepositoryError(err)
	}
	if _, err := qtx.UpdateSupervisor(ctx, companyID, id, req.SupervisorID); err != nil {
		log.Error("assign supervisor persist failed", zap.Error(err))
		return ProjectResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("assign supervisor commit failed", zap.Error(err))
		return ProjectResponse{}, err
	}

	s.InvalidateDirectory(ctx, id)

	p.SupervisorID = &req.SupervisorID
	log.Info("assign supervisor success",
		zap.Int64("project_id", id),
		zap.Int64("supervisor_id", req.SupervisorID),
	)
	return mapToResponse(*p), nil
}

func (s *service) InvalidateDirectory(ctx context.Context, ids ...int64) {
	if s.rdb == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, DirectoryKey(id))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("failed to invalidate project directory cache",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
}

func mapRepositoryError(err error) error {
	return dberror.Map(err, projecterrors.ErrProjectNotFound)
}

func toInfo(p Project) domain.ProjectInfo {
	return domain.ProjectInfo{
		ID:           p.ID,
		CompanyID:    p.CompanyID,
		Name:         p.Name,
		Code:         p.Code,
		Location:     p.Location,
		SupervisorID: p.SupervisorID,
		Status:       p.Status,
	}
}

func mapToResponse(p Project) ProjectResponse {
	return ProjectResponse{
		ID:           p.ID,
		CompanyID:    p.CompanyID,
		Name:         p.Name,
		Code:         p.Code,
		Location:     p.Location,
		SupervisorID: p.SupervisorID,
		Status:       p.Status,
	}
}
