package rbac

import (
	"context"
	"testing"

	"go-workforce/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	calls int
}

func (m *mockRepo) GetRolePermissions(_ context.Context, companyID int64) ([]RolePermissionRow, error) {
	m.calls++
	if companyID != 7 {
		return nil, nil
	}
	return []RolePermissionRow{
		{CompanyID: 7, Role: "SITE_ADMIN", Resource: ResourceProject, Action: ActionAssign},
	}, nil
}

func newTestService(t *testing.T) (Service, *mockRepo) {
	t.Helper()
	enforcer, err := NewEnforcer()
	require.NoError(t, err)
	repo := &mockRepo{}
	svc, err := NewService(repo, enforcer)
	require.NoError(t, err)
	return svc, repo
}

func TestRBACService_Enforce(t *testing.T) {
	svc, repo := newTestService(t)

	tests := []struct {
		name string
		req  domain.EnforceRequest
		want bool
	}{
		{"hr may assign employees", domain.EnforceRequest{Role: RoleHR, CompanyID: 1, Resource: ResourceEmployee, Action: ActionAssign}, true},
		{"admin inherits hr", domain.EnforceRequest{Role: RoleAdmin, CompanyID: 1, Resource: ResourceProject, Action: ActionAssign}, true},
		{"worker denied", domain.EnforceRequest{Role: "WORKER", CompanyID: 1, Resource: ResourceEmployee, Action: ActionAssign}, false},
		{"company grant", domain.EnforceRequest{Role: "SITE_ADMIN", CompanyID: 7, Resource: ResourceProject, Action: ActionAssign}, true},
		{"company grant does not leak", domain.EnforceRequest{Role: "SITE_ADMIN", CompanyID: 8, Resource: ResourceProject, Action: ActionAssign}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := svc.Enforce(tt.req)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}

	// companies 1, 7 and 8 are each loaded once
	assert.Equal(t, 3, repo.calls)
}
