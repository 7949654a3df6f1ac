package leave

import (
	"context"
	"database/sql"
	"time"

	"go-workforce/internal/shared/connection"
	"go-workforce/internal/tenant"
	"go-workforce/internal/workflow"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByIDAndCompany(ctx context.Context, companyID, id int64) (*LeaveRequest, error)
	FindByEmployee(ctx context.Context, companyID, employeeID int64, filter workflow.ListFilter) ([]LeaveRequest, error)
	FindPendingByEmployees(ctx context.Context, companyID int64, employeeIDs []int64) ([]LeaveRequest, error)
	CountPendingByEmployees(ctx context.Context, companyID int64, employeeIDs []int64) (int64, error)
	HasOverlappingPeriod(ctx context.Context, companyID, employeeID int64, from, to time.Time) (bool, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return connection.Session(ctx, r.db, r.tx).Create(l).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id int64) (*LeaveRequest, error) {
	var l LeaveRequest
	err := connection.Session(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID int64, filter workflow.ListFilter) ([]LeaveRequest, error) {
	var out []LeaveRequest
	err := connection.Session(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID), workflow.FilterScope(filter)).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) FindPendingByEmployees(ctx context.Context, companyID int64, employeeIDs []int64) ([]LeaveRequest, error) {
	if len(employeeIDs) == 0 {
		return []LeaveRequest{}, nil
	}
	var out []LeaveRequest
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
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(companyID), workflow.PendingScope).
		Where("employee_id IN ?", employeeIDs).
		Count(&count).Error
	return count, err
}

// HasOverlappingPeriod reports whether the employee already holds a pending or
// approved leave touching [from, to].
func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID int64, from, to time.Time) (bool, error) {
	var count int64
	err := connection.Session(ctx, r.db, r.tx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{workflow.StatusPending, workflow.StatusApproved}).
		Where("NOT (to_date < ? OR from_date > ?)", from, to).
		Count(&count).Error
	return count > 0, err
}

// TransitionStatus applies patch only while the row still holds status from.
func (r *repository) TransitionStatus(ctx context.Context, id int64, from string, patch map[string]any) (bool, error) {
	res := connection.Session(ctx, r.db, r.tx).
		Model(&LeaveRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(patch)
	return res.RowsAffected == 1, res.Error
}
