// Package approvaltest provides in-memory collaborators for tests of the
// request families.
package approvaltest

import (
	"context"
	"sync"
	"time"

	"go-workforce/internal/approval"
	"go-workforce/internal/employee"
	employeeerrors "go-workforce/internal/employee/errors"
	"go-workforce/internal/notification"
	"go-workforce/internal/team"
)

// Identity resolves principals from a fixed map.
type Identity map[int64]employee.Employee

func (i Identity) ResolveEmployee(_ context.Context, principalID int64) (employee.Employee, error) {
	e, ok := i[principalID]
	if !ok {
		return employee.Employee{}, employeeerrors.ErrEmployeeNotLinked
	}
	return e, nil
}

// Members serves a fixed membership per supervisor employee id.
type Members map[int64]team.Membership

func (m Members) ResolveSupervisedEmployees(_ context.Context, supervisorID int64) (team.Membership, error) {
	if v, ok := m[supervisorID]; ok {
		return v, nil
	}
	return team.NewMembership(nil, nil), nil
}

// Notifier records every status change it is given.
type Notifier struct {
	mu      sync.Mutex
	Changes []notification.StatusChange
	Err     error
}

func (n *Notifier) NotifyStatus(_ context.Context, c notification.StatusChange) (notification.DispatchResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Changes = append(n.Changes, c)
	return notification.DispatchResult{Channel: "test"}, n.Err
}

func (n *Notifier) Last() (notification.StatusChange, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Changes) == 0 {
		return notification.StatusChange{}, false
	}
	return n.Changes[len(n.Changes)-1], true
}

// Engine builds an engine that notifies inline at a fixed clock.
func Engine(members approval.MembershipResolver, n approval.Notifier, now time.Time) *approval.Engine {
	return approval.NewEngine(members, n, approval.Config{
		Synchronous: true,
		Now:         func() time.Time { return now },
	})
}

func Int64Ptr(v int64) *int64 { return &v }
