package team

import (
	"context"

	"go-workforce/internal/employee"
	"go-workforce/internal/shared/contextutil"

	"go.uber.org/zap"
)

type Resolver struct {
	repo   Repository
	logger *zap.Logger
}

func NewResolver(repo Repository, logger ...*zap.Logger) *Resolver {
	l := zap.L().Named("team.resolver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("team.resolver")
	}
	return &Resolver{repo: repo, logger: l}
}

// ResolveSupervisedEmployees returns the projects supervised by the employee
// and everyone currently assigned to one of them. A supervisor without
// projects gets an empty membership, not an error.
func (r *Resolver) ResolveSupervisedEmployees(ctx context.Context, supervisorID int64) (Membership, error) {
	log := contextutil.GetLogger(ctx, r.logger)

	projectIDs, err := r.repo.FindProjectIDsBySupervisor(ctx, supervisorID)
	if err != nil {
		log.Error("load supervised projects failed", zap.Int64("supervisor_id", supervisorID), zap.Error(err))
		return Membership{}, err
	}
	if len(projectIDs) == 0 {
		log.Debug("supervisor has no projects", zap.Int64("supervisor_id", supervisorID))
		return NewMembership(nil, nil), nil
	}

	rows, err := r.repo.FindAssignmentsByProjects(ctx, projectIDs)
	if err != nil {
		log.Error("load project members failed", zap.Int64("supervisor_id", supervisorID), zap.Error(err))
		return Membership{}, err
	}

	supervised := NewMembership(projectIDs, nil)
	employeeIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		pid := employee.ProjectIDOf(employee.Employee{
			CurrentProject:   employee.ProjectRef{ID: row.CurrentProjectID},
			CurrentProjectID: row.LegacyProjectID,
		})
		if pid != nil && supervised.OwnsProject(*pid) {
			employeeIDs = append(employeeIDs, row.ID)
		}
	}

	m := NewMembership(projectIDs, employeeIDs)
	log.Debug("supervised membership resolved",
		zap.Int64("supervisor_id", supervisorID),
		zap.Int("projects", len(projectIDs)),
		zap.Int("employees", len(employeeIDs)),
	)
	return m, nil
}
