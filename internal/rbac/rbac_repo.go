package rbac

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	GetRolePermissions(ctx context.Context, companyID int64) ([]RolePermissionRow, error)
}

// RolePermissionRow grants a role one resource action within a company.
type RolePermissionRow struct {
	ID        int64  `gorm:"primaryKey"`
	CompanyID int64  `gorm:"not null;index"`
	Role      string `gorm:"type:varchar(50);not null"`
	Resource  string `gorm:"type:varchar(50);not null"`
	Action    string `gorm:"type:varchar(50);not null"`
}

func (RolePermissionRow) TableName() string { return "role_permissions" }

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetRolePermissions(ctx context.Context, companyID int64) ([]RolePermissionRow, error) {
	var rows []RolePermissionRow
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Find(&rows).Error
	return rows, err
}
