package medical

import (
	"context"
	"database/sql"

	"go-workforce/internal/attachment"
	"go-workforce/internal/shared/connection"
	"go-workforce/internal/tenant"
	"go-workforce/internal/workflow"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

//go:generate mockgen -source=medical_repo.go -destination=mock/medical_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, m *MedicalClaim) error
	FindByIDAndCompany(ctx context.Context, companyID, id int64) (*MedicalClaim, error)
	FindByEmployee(ctx context.Context, companyID, employeeID int64, filter workflow.ListFilter) ([]MedicalClaim, error)
	FindPendingByEmployees(ctx context.Context, companyID int64, employeeIDs []int64) ([]MedicalClaim, error)
	CountPendingByEmployees(ctx context.Context, companyID int64, employeeIDs []int64) (int64, error)
	TransitionStatus(ctx context.Context, id int64, from string, patch map[string]any) (bool, error)
	ReplaceReceipts(ctx context.Context, id int64, receipts []attachment.File) (bool, error)
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

func (r *repository) Create(ctx context.Context, m *MedicalClaim) error {
	return connection.Session(ctx, r.db, r.tx).Create(m).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id int64) (*MedicalClaim, error) {
	var m MedicalClaim
	err := connection.Session(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID int64, filter workflow.ListFilter) ([]MedicalClaim, error) {
	var out []MedicalClaim
	err := connection.Session(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID), workflow.FilterScope(filter)).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) FindPendingByEmployees(ctx context.Context, companyID int64, employeeIDs []int64) ([]MedicalClaim, error) {
	if len(employeeIDs) == 0 {
		return []MedicalClaim{}, nil
	}
	var out []MedicalClaim
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
		Model(&MedicalClaim{}).
		Scopes(tenant.Scope(companyID), workflow.PendingScope).
		Where("employee_id IN ?", employeeIDs).
		Count(&count).Error
	return count, err
}

func (r *repository) TransitionStatus(ctx context.Context, id int64, from string, patch map[string]any) (bool, error) {
	res := connection.Session(ctx, r.db, r.tx).
		Model(&MedicalClaim{}).
		Where("id = ? AND status = ?", id, from).
		Updates(patch)
	return res.RowsAffected == 1, res.Error
}

// ReplaceReceipts only touches a claim that is still pending.
func (r *repository) ReplaceReceipts(ctx context.Context, id int64, receipts []attachment.File) (bool, error) {
	res := connection.Session(ctx, r.db, r.tx).
		Model(&MedicalClaim{}).
		Where("id = ? AND status = ?", id, workflow.StatusPending).
		Update("receipts", datatypes.NewJSONSlice(receipts))
	return res.RowsAffected == 1, res.Error
}
