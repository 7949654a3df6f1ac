package leave_test

import (
	"context"
	"testing"
	"time"

	"go-workforce/internal/leave"
	"go-workforce/internal/shared/testutil"
	"go-workforce/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLeave(id, employeeID int64, status, from, to string, createdAt time.Time) leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:         id,
		CompanyID:  companyID,
		EmployeeID: employeeID,
		LeaveType:  leave.TypeAnnual,
		FromDate:   date(from),
		ToDate:     date(to),
		TotalDays:  leave.DaysInclusive(date(from), date(to)),
		Lifecycle:  workflow.Lifecycle{Status: status, CreatedBy: employeeID},
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestRepository_TransitionStatusIsConditional(t *testing.T) {
	db := testutil.OpenSQLite(t, &leave.LeaveRequest{})
	repo := leave.NewRepository(db)
	ctx := context.Background()

	l := seedLeave(1, workerID, workflow.StatusPending, "2026-03-01", "2026-03-02", fixedNow)
	require.NoError(t, repo.Create(ctx, &l))

	changed, err := repo.TransitionStatus(ctx, 1, workflow.StatusPending, map[string]any{
		"status":      workflow.StatusApproved,
		"approver_id": supervisorID,
		"approved_at": fixedNow,
	})
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.TransitionStatus(ctx, 1, workflow.StatusPending, map[string]any{
		"status": workflow.StatusRejected,
	})
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := repo.FindByIDAndCompany(ctx, companyID, 1)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusApproved, got.Status)
	require.NotNil(t, got.ApproverID)
	assert.Equal(t, supervisorID, *got.ApproverID)

	_, err = repo.FindByIDAndCompany(ctx, 2, 1)
	assert.Error(t, err)
}

func TestRepository_Queries(t *testing.T) {
	db := testutil.OpenSQLite(t, &leave.LeaveRequest{})
	repo := leave.NewRepository(db)
	ctx := context.Background()

	rows := []leave.LeaveRequest{
		seedLeave(1, workerID, workflow.StatusPending, "2026-03-01", "2026-03-02", fixedNow.Add(-72*time.Hour)),
		seedLeave(2, workerID, workflow.StatusApproved, "2026-04-01", "2026-04-03", fixedNow.Add(-48*time.Hour)),
		seedLeave(3, workerID, workflow.StatusRejected, "2026-05-01", "2026-05-01", fixedNow.Add(-24*time.Hour)),
		seedLeave(4, 108, workflow.StatusPending, "2026-03-10", "2026-03-10", fixedNow),
		seedLeave(5, 109, workflow.StatusPending, "2026-03-10", "2026-03-10", fixedNow),
	}
	for i := range rows {
		require.NoError(t, repo.Create(ctx, &rows[i]))
	}

	mine, err := repo.FindByEmployee(ctx, companyID, workerID, workflow.ListFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, int64(3), mine[0].ID, "newest first")

	filter, err := workflow.ParseListFilter("approved", "", "")
	require.NoError(t, err)
	approved, err := repo.FindByEmployee(ctx, companyID, workerID, filter)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, int64(2), approved[0].ID)

	pending, err := repo.FindPendingByEmployees(ctx, companyID, []int64{workerID, 108})
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, int64(4), pending[0].ID)

	count, err := repo.CountPendingByEmployees(ctx, companyID, []int64{workerID, 108, 109})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	none, err := repo.FindPendingByEmployees(ctx, companyID, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	overlap, err := repo.HasOverlappingPeriod(ctx, companyID, workerID, date("2026-04-03"), date("2026-04-05"))
	require.NoError(t, err)
	assert.True(t, overlap, "approved leave blocks")

	overlap, err = repo.HasOverlappingPeriod(ctx, companyID, workerID, date("2026-05-01"), date("2026-05-01"))
	require.NoError(t, err)
	assert.False(t, overlap, "rejected leave does not block")
}
