package employee

import (
	"context"
	"database/sql"
	"time"

	"go-workforce/internal/shared/connection"
	"go-workforce/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByUserID(ctx context.Context, userID int64) (*Employee, error)
	FindByIDAndCompany(ctx context.Context, companyID, id int64) (*Employee, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Employee, error)
	UpdateProjectAssignment(ctx context.Context, companyID, id int64, ref ProjectRef) (bool, error)
	UpdateStatus(ctx context.Context, companyID, id int64, status string) (bool, error)
	ReleaseSupervisedProjects(ctx context.Context, companyID, supervisorID int64) ([]int64, error)
}

const projectsTable = "projects"

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) FindByUserID(ctx context.Context, userID int64) (*Employee, error) {
	var e Employee
	err := connection.Session(ctx, r.db, r.tx).
		First(&e, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id int64) (*Employee, error) {
	var e Employee
	err := connection.Session(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []int64) ([]Employee, error) {
	if len(ids) == 0 {
		return []Employee{}, nil
	}
	var out []Employee
	err := connection.Session(ctx, r.db, r.tx).
		Where("id IN ?", ids).
		Order("id").
		Find(&out).Error
	return out, err
}

// UpdateProjectAssignment writes the embedded reference and the legacy column
// in one statement so the two never disagree for rows written here. A ref
// without an ID clears every assignment column.
func (r *repository) UpdateProjectAssignment(ctx context.Context, companyID, id int64, ref ProjectRef) (bool, error) {
	var name, code any
	if ref.ID != nil {
		name, code = ref.Name, ref.Code
	}
	res := connection.Session(ctx, r.db, r.tx).
		Model(&Employee{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Updates(map[string]any{
			"current_project_id":   ref.ID,
			"current_project_name": name,
			"current_project_code": code,
			"legacy_project_id":    ref.ID,
			"updated_at":           time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) UpdateStatus(ctx context.Context, companyID, id int64, status string) (bool, error) {
	res := connection.Session(ctx, r.db, r.tx).
		Model(&Employee{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

// ReleaseSupervisedProjects clears supervisor_id on every project of the
// company the employee supervises and returns the ids it touched.
func (r *repository) ReleaseSupervisedProjects(ctx context.Context, companyID, supervisorID int64) ([]int64, error) {
	var ids []int64
	err := connection.Session(ctx, r.db, r.tx).
		Table(projectsTable).
		Scopes(tenant.Scope(companyID)).
		Where("supervisor_id = ?", supervisorID).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return ids, err
	}

	err = connection.Session(ctx, r.db, r.tx).
		Table(projectsTable).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"supervisor_id": nil,
			"updated_at":    time.Now().UTC(),
		}).Error
	return ids, err
}
