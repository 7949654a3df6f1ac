package project_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-workforce/internal/domain"
	"go-workforce/internal/employee"
	"go-workforce/internal/project"
	projecterrors "go-workforce/internal/project/errors"
	projectMock "go-workforce/internal/project/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeEmployees map[int64]employee.Employee

func (f fakeEmployees) FindByIDAndCompany(_ context.Context, companyID, id int64) (*employee.Employee, error) {
	e, ok := f[id]
	if !ok || e.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	repo      *projectMock.MockRepository
	redismock redismock.ClientMock
	service   project.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rdb, redisMock := redismock.NewClientMock()
	repo := projectMock.NewMockRepository(ctrl)
	emps := fakeEmployees{
		5: {ID: 5, CompanyID: 1, FullName: "Sup", Status: employee.StatusActive},
		6: {ID: 6, CompanyID: 1, FullName: "Gone", Status: employee.StatusInactive},
	}

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		repo:      repo,
		redismock: redisMock,
		service:   project.NewService(db, repo, emps, rdb),
	}
}

func TestProjectService_GetProject(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the database", func(t *testing.T) {
		deps := setupServiceTest(t)
		cached, _ := json.Marshal(domain.ProjectInfo{ID: 3, CompanyID: 1, Name: "Jurong"})
		deps.redismock.ExpectGet(project.DirectoryKey(3)).SetVal(string(cached))
		deps.repo.EXPECT().FindByID(gomock.Any(), gomock.Any()).Times(0)

		info, err := deps.service.GetProject(ctx, 3)

		require.NoError(t, err)
		assert.Equal(t, "Jurong", info.Name)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		sup := int64(5)
		p := &project.Project{ID: 4, CompanyID: 1, Name: "Tuas", SupervisorID: &sup, Status: project.StatusActive}
		info := domain.ProjectInfo{ID: 4, CompanyID: 1, Name: "Tuas", SupervisorID: &sup, Status: project.StatusActive}
		data, _ := json.Marshal(info)

		deps.redismock.ExpectGet(project.DirectoryKey(4)).RedisNil()
		deps.repo.EXPECT().FindByID(ctx, int64(4)).Return(p, nil)
		deps.redismock.ExpectSet(project.DirectoryKey(4), data, 10*time.Minute).SetVal("OK")

		got, err := deps.service.GetProject(ctx, 4)

		require.NoError(t, err)
		assert.Equal(t, info, got)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("missing project", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.redismock.ExpectGet(project.DirectoryKey(9)).RedisNil()
		deps.repo.EXPECT().FindByID(ctx, int64(9)).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetProject(ctx, 9)

		assert.ErrorIs(t, err, projecterrors.ErrProjectNotFound)
	})
}

func TestProjectService_AssignSupervisor(t *testing.T) {
	ctx := context.Background()

	t.Run("success invalidates the directory entry", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByIDAndCompany(ctx, int64(1), int64(4)).
			Return(&project.Project{ID: 4, CompanyID: 1, Name: "Tuas"}, nil)
		deps.repo.EXPECT().UpdateSupervisor(ctx, int64(1), int64(4), int64(5)).Return(true, nil)
		deps.redismock.ExpectDel(project.DirectoryKey(4)).SetVal(1)

		resp, err := deps.service.AssignSupervisor(ctx, 1, 4, project.AssignSupervisorRequest{SupervisorID: 5})

		require.NoError(t, err)
		require.NotNil(t, resp.SupervisorID)
		assert.Equal(t, int64(5), *resp.SupervisorID)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("inactive supervisor", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.AssignSupervisor(ctx, 1, 4, project.AssignSupervisorRequest{SupervisorID: 6})

		assert.ErrorIs(t, err, projecterrors.ErrSupervisorInactive)
	})

	t.Run("supervisor from another company", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.AssignSupervisor(ctx, 2, 4, project.AssignSupervisorRequest{SupervisorID: 5})

		assert.ErrorIs(t, err, projecterrors.ErrSupervisorNotFound)
	})
}

func TestProjectService_InvalidateDirectory(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	deps.redismock.ExpectDel(project.DirectoryKey(4), project.DirectoryKey(7)).SetVal(2)

	deps.service.InvalidateDirectory(ctx, 4, 7)
	deps.service.InvalidateDirectory(ctx)

	assert.NoError(t, deps.redismock.ExpectationsWereMet())
}
