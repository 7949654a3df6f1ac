package payment

import (
	"context"
	"database/sql"

	"go-workforce/internal/shared/connection"
	"go-workforce/internal/tenant"
	"go-workforce/internal/workflow"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payment_repo.go -destination=mock/payment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *PaymentRequest) error
	FindByIDAndCompany(ctx context.Context, companyID, id int64) (*PaymentRequest, error)
	FindByEmployee(ctx context.Context, companyID, employeeID int64, filter workflow.ListFilter) ([]PaymentRequest, error)
	FindPendingByEmployees(ctx context.Context, companyID int64, employeeIDs []int64) ([]PaymentRequest, error)
	CountPendingByEmployees(ctx context.Context, companyID int64, employeeIDs []int64) (int64, error)
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

func (r *repository) Create(ctx context.Context, p *PaymentRequest) error {
	return connection.Session(ctx, r.db, r.tx).Create(p).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id int64) (*PaymentRequest, error) {
	var p PaymentRequest
	err := connection.Session(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID int64, filter workflow.ListFilter) ([]PaymentRequest, error) {
	var out []PaymentRequest
	err := connection.Session(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID), workflow.FilterScope(filter)).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) FindPendingByEmployees(ctx context.Context, companyID int64, employeeIDs []int64) ([]PaymentRequest, error) {
	if len(employeeIDs) == 0 {
		return []PaymentRequest{}, nil
	}
	var out []PaymentRequest
	err := connection.Session(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID), workflow.PendingScope).
		Where("employee_id IN ?", employeeIDs).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) CountPendingByEmployees(ctx context.Context, companyID int64, employeeIDs []int64) (int64, error) {
	if len(employeeIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := connection.Session(ctx, r.db, r.tx).
		Model(&PaymentRequest{}).
		Scopes(tenant.Scope(companyID), workflow.PendingScope).
		Where("employee_id IN ?", employeeIDs).
		Count(&count).Error
	return count, err
}

func (r *repository) TransitionStatus(ctx context.Context, id int64, from string, patch map[string]any) (bool, error) {
	res := connection.Session(ctx, r.db, r.tx).
		Model(&PaymentRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(patch)
	return res.RowsAffected == 1, res.Error
}
