// Package team derives which employees and projects a supervisor is
// responsible for. Approval authorization and the pending dashboards both
// read it from here.
package team

import (
	"slices"

	"go-workforce/internal/workflow"
)

// Membership is the set of projects a supervisor runs and the employees
// currently assigned to any of them.
type Membership struct {
	projectIDs  map[int64]struct{}
	employeeIDs map[int64]struct{}
}

func NewMembership(projectIDs, employeeIDs []int64) Membership {
	m := Membership{
		projectIDs:  make(map[int64]struct{}, len(projectIDs)),
		employeeIDs: make(map[int64]struct{}, len(employeeIDs)),
	}
	for _, id := range projectIDs {
		m.projectIDs[id] = struct{}{}
	}
	for _, id := range employeeIDs {
		m.employeeIDs[id] = struct{}{}
	}
	return m
}

// ProjectIDs returns the supervised projects in ascending order.
func (m Membership) ProjectIDs() []int64 { return sortedKeys(m.projectIDs) }

// EmployeeIDs returns the supervised employees in ascending order.
func (m Membership) EmployeeIDs() []int64 { return sortedKeys(m.employeeIDs) }

func (m Membership) OwnsEmployee(id int64) bool {
	_, ok := m.employeeIDs[id]
	return ok
}

func (m Membership) OwnsProject(id int64) bool {
	_, ok := m.projectIDs[id]
	return ok
}

func (m Membership) Empty() bool { return len(m.projectIDs) == 0 }

// Covers reports whether a request of the given family is within the
// supervisor's remit. Material and tool requests follow the project they were
// raised against; the other families follow the submitter.
func (m Membership) Covers(f workflow.Family, employeeID, projectID int64) bool {
	if f.ProjectScoped() {
		return m.OwnsProject(projectID)
	}
	return m.OwnsEmployee(employeeID)
}

func sortedKeys(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
