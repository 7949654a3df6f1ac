package team

import (
	"context"

	"gorm.io/gorm"
)

// AssignmentRow is the slice of an employee row needed to decide its project.
type AssignmentRow struct {
	ID               int64
	CurrentProjectID *int64
	LegacyProjectID  *int64
}

type Repository interface {
	FindProjectIDsBySupervisor(ctx context.Context, supervisorID int64) ([]int64, error)
	FindAssignmentsByProjects(ctx context.Context, projectIDs []int64) ([]AssignmentRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindProjectIDsBySupervisor(ctx context.Context, supervisorID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Table("projects").
		Where("supervisor_id = ?", supervisorID).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

// FindAssignmentsByProjects matches on either assignment column. Rows written
// before the embedded reference existed only carry the legacy one.
func (r *repository) FindAssignmentsByProjects(ctx context.Context, projectIDs []int64) ([]AssignmentRow, error) {
	if len(projectIDs) == 0 {
		return []AssignmentRow{}, nil
	}
	var rows []AssignmentRow
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("id, current_project_id, legacy_project_id").
		Where("current_project_id IN ? OR legacy_project_id IN ?", projectIDs, projectIDs).
		Order("id").
		Scan(&rows).Error
	return rows, err
}
