package material

import (
	"context"
	"database/sql"

	"go-workforce/internal/shared/connection"
	"go-workforce/internal/tenant"
	"go-workforce/internal/workflow"

	"gorm.io/gorm"
)

//go:generate mockgen -source=material_repo.go -destination=mock/material_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, m *MaterialRequest) error
	FindByIDAndCompany(ctx context.Context, companyID, id int64) (*MaterialRequest, error)
	FindByEmployee(ctx context.Context, companyID, employeeID int64, requestType string, filter workflow.ListFilter) ([]MaterialRequest, error)
	FindPendingByProjects(ctx context.Context, companyID int64, projectIDs []int64, requestType string) ([]MaterialRequest, error)
	CountPendingByProjects(ctx context.Context, companyID int64, projectIDs []int64, requestType string) (int64, error)
	TransitionStatus(ctx context.Context, id int64, from string, patch map[string]any) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, m *MaterialRequest) error {
	return connection.Session(ctx, r.db, r.tx).Create(m).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id int64) (*MaterialRequest, error) {
	var m MaterialRequest
	err := connection.Session(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID int64, requestType string, filter workflow.ListFilter) ([]MaterialRequest, error) {
	var out []MaterialRequest
	err := connection.Session(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID), workflow.FilterScope(filter)).
		Where("employee_id = ? AND request_type = ?", employeeID, requestType).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) FindPendingByProjects(ctx context.Context, companyID int64, projectIDs []int64, requestType string) ([]MaterialRequest, error) {
	if len(projectIDs) == 0 {
		return []MaterialRequest{}, nil
	}
	var out []MaterialRequest
	err := connection.Session(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID), workflow.PendingScope).
		Where("project_id IN ? AND request_type = ?", projectIDs, requestType).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) CountPendingByProjects(ctx context.Context, companyID int64, projectIDs []int64, requestType string) (int64, error) {
	if len(projectIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := connection.Session(ctx, r.db, r.tx).
		Model(&MaterialRequest{}).
		Scopes(tenant.Scope(companyID), workflow.PendingScope).
		Where("project_id IN ? AND request_type = ?", projectIDs, requestType).
		Count(&count).Error
	return count, err
}

func (r *repository) TransitionStatus(ctx context.Context, id int64, from string, patch map[string]any) (bool, error) {
	res := connection.Session(ctx, r.db, r.tx).
		Model(&MaterialRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(patch)
	return res.RowsAffected == 1, res.Error
}
