package employee_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-workforce/internal/domain"
	"go-workforce/internal/employee"
	employeeerrors "go-workforce/internal/employee/errors"
	employeeMock "go-workforce/internal/employee/mock"
	"go-workforce/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeDirectory struct {
	projects    map[int64]domain.ProjectInfo
	invalidated []int64
}

func (f *fakeDirectory) GetProject(_ context.Context, id int64) (domain.ProjectInfo, error) {
	p, ok := f.projects[id]
	if !ok {
		return domain.ProjectInfo{}, apperror.ErrNotFound
	}
	return p, nil
}

func (f *fakeDirectory) InvalidateDirectory(_ context.Context, ids ...int64) {
	f.invalidated = append(f.invalidated, ids...)
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service employee.Service
	repo    *employeeMock.MockRepository
	dir     *fakeDirectory
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := employeeMock.NewMockRepository(ctrl)
	dir := &fakeDirectory{projects: map[int64]domain.ProjectInfo{
		10: {ID: 10, CompanyID: 1, Name: "Marina Tower", Code: "MT"},
		20: {ID: 20, CompanyID: 2, Name: "Other Co Site"},
	}}

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: employee.NewService(db, repo, dir),
		repo:    repo,
		dir:     dir,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestEmployeeService_ResolveEmployee(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().
			FindByUserID(ctx, int64(7)).
			Return(&employee.Employee{ID: 70, CompanyID: 1, UserID: int64Ptr(7), FullName: "Ravi", Status: employee.StatusActive}, nil)

		e, err := deps.service.ResolveEmployee(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, int64(70), e.ID)
	})

	t.Run("no employee record", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().
			FindByUserID(ctx, int64(8)).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.ResolveEmployee(ctx, 8)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotLinked)
		assert.Equal(t, 404, apperror.ToHTTP(err).Status)
	})

	t.Run("inactive employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().
			FindByUserID(ctx, int64(9)).
			Return(&employee.Employee{ID: 90, Status: employee.StatusInactive}, nil)

		_, err := deps.service.ResolveEmployee(ctx, 9)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeInactive)
	})

	t.Run("missing principal", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.ResolveEmployee(ctx, 0)

		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})
}

func TestEmployeeService_AssignProject(t *testing.T) {
	ctx := context.Background()

	t.Run("writes both project fields", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByIDAndCompany(ctx, int64(1), int64(70)).
			Return(&employee.Employee{ID: 70, CompanyID: 1, FullName: "Ravi", Status: employee.StatusActive}, nil)
		deps.repo.EXPECT().
			UpdateProjectAssignment(ctx, int64(1), int64(70), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ int64, ref employee.ProjectRef) (bool, error) {
				require.NotNil(t, ref.ID)
				assert.Equal(t, int64(10), *ref.ID)
				assert.Equal(t, "Marina Tower", ref.Name)
				return true, nil
			})

		resp, err := deps.service.AssignProject(ctx, 1, 70, employee.AssignProjectRequest{ProjectID: int64Ptr(10)})

		require.NoError(t, err)
		require.NotNil(t, resp.CurrentProject)
		assert.Equal(t, int64(10), resp.CurrentProject.ID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("zero project clears the assignment", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByIDAndCompany(ctx, int64(1), int64(70)).
			Return(&employee.Employee{
				ID: 70, CompanyID: 1, FullName: "Ravi", Status: employee.StatusActive,
				CurrentProject:   employee.ProjectRef{ID: int64Ptr(10), Name: "Marina Tower", Code: "MT"},
				CurrentProjectID: int64Ptr(10),
			}, nil)
		deps.repo.EXPECT().
			UpdateProjectAssignment(ctx, int64(1), int64(70), employee.ProjectRef{}).
			Return(true, nil)

		resp, err := deps.service.AssignProject(ctx, 1, 70, employee.AssignProjectRequest{ProjectID: int64Ptr(0)})

		require.NoError(t, err)
		assert.Nil(t, resp.CurrentProject)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("project from another company", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.AssignProject(ctx, 1, 70, employee.AssignProjectRequest{ProjectID: int64Ptr(20)})

		assert.ErrorIs(t, err, employeeerrors.ErrProjectInOtherCompany)
	})

	t.Run("unknown project", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.AssignProject(ctx, 1, 70, employee.AssignProjectRequest{ProjectID: int64Ptr(99)})

		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("unknown employee rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByIDAndCompany(ctx, int64(1), int64(71)).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.AssignProject(ctx, 1, 71, employee.AssignProjectRequest{ProjectID: int64Ptr(10)})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("releases supervised projects", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByIDAndCompany(ctx, int64(1), int64(70)).
			Return(&employee.Employee{ID: 70, CompanyID: 1, Status: employee.StatusActive}, nil)
		deps.repo.EXPECT().
			UpdateStatus(ctx, int64(1), int64(70), employee.StatusInactive).
			Return(true, nil)
		deps.repo.EXPECT().
			ReleaseSupervisedProjects(ctx, int64(1), int64(70)).
			Return([]int64{10, 12}, nil)

		resp, err := deps.service.Deactivate(ctx, 1, 70)

		require.NoError(t, err)
		assert.Equal(t, employee.StatusInactive, resp.Status)
		assert.Equal(t, []int64{10, 12}, deps.dir.invalidated)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("release failure rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByIDAndCompany(ctx, int64(1), int64(70)).
			Return(&employee.Employee{ID: 70, CompanyID: 1, Status: employee.StatusActive}, nil)
		deps.repo.EXPECT().
			UpdateStatus(ctx, int64(1), int64(70), employee.StatusInactive).
			Return(true, nil)
		deps.repo.EXPECT().
			ReleaseSupervisedProjects(ctx, int64(1), int64(70)).
			Return(nil, errors.New("db down"))

		_, err := deps.service.Deactivate(ctx, 1, 70)

		assert.Error(t, err)
		assert.Empty(t, deps.dir.invalidated)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_Names(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)

	deps.repo.EXPECT().
		FindByIDs(ctx, []int64{1, 2}).
		Return([]employee.Employee{{ID: 1, FullName: "Ana"}, {ID: 2, FullName: "Ben"}}, nil)

	names, err := deps.service.Names(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{1: "Ana", 2: "Ben"}, names)

	deps.repo.EXPECT().FindByIDs(ctx, gomock.Any()).Return(nil, errors.New("db down"))
	_, err = deps.service.Names(ctx, []int64{3})
	assert.Error(t, err)
}

func TestProjectIDOf(t *testing.T) {
	tests := []struct {
		name string
		emp  employee.Employee
		want *int64
	}{
		{"embedded only", employee.Employee{CurrentProject: employee.ProjectRef{ID: int64Ptr(5)}}, int64Ptr(5)},
		{"legacy only", employee.Employee{CurrentProjectID: int64Ptr(6)}, int64Ptr(6)},
		{"embedded wins", employee.Employee{CurrentProject: employee.ProjectRef{ID: int64Ptr(5)}, CurrentProjectID: int64Ptr(6)}, int64Ptr(5)},
		{"zero embedded falls back", employee.Employee{CurrentProject: employee.ProjectRef{ID: int64Ptr(0)}, CurrentProjectID: int64Ptr(6)}, int64Ptr(6)},
		{"unassigned", employee.Employee{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, employee.ProjectIDOf(tt.emp))
		})
	}
}
