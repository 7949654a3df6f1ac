package project

import (
	"context"
	"database/sql"
	"time"

	"go-workforce/internal/shared/connection"
	"go-workforce/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=project_repo.go -destination=mock/project_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByID(ctx context.Context, id int64) (*Project, error)
	FindByIDAndCompany(ctx context.Context, companyID, id int64) (*Project, error)
	UpdateSupervisor(ctx context.Context, companyID, id int64, supervisorID int64) (bool, error)
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

func (r *repository) FindByID(ctx context.Context, id int64) (*Project, error) {
	var p Project
	if err := connection.Session(ctx, r.db, r.tx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id int64) (*Project, error) {
	var p Project
	err := connection.Session(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdateSupervisor(ctx context.Context, companyID, id int64, supervisorID int64) (bool, error) {
	res := connection.Session(ctx, r.db, r.tx).
		Model(&Project{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Updates(map[string]any{
			"supervisor_id": supervisorID,
			"updated_at":    time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}
