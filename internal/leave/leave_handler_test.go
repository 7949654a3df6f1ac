package leave_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-workforce/internal/leave"
	"go-workforce/internal/shared/apperror"
	"go-workforce/internal/workflow"
	workflowerrors "go-workforce/internal/workflow/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaveService struct {
	CreateFn   func(ctx context.Context, principalID int64, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	ListMineFn func(ctx context.Context, principalID int64, filter workflow.ListFilter) ([]leave.LeaveResponse, error)
	GetByIDFn  func(ctx context.Context, principalID, id int64) (leave.LeaveResponse, error)
	DecideFn   func(ctx context.Context, principalID, id int64, req leave.DecideLeaveRequest) (leave.DecisionResponse, error)
	CancelFn   func(ctx context.Context, principalID, id int64, req leave.CancelLeaveRequest) (leave.LeaveResponse, error)
}

func (f *fakeLeaveService) Create(ctx context.Context, principalID int64, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.CreateFn(ctx, principalID, req)
}
func (f *fakeLeaveService) ListMine(ctx context.Context, principalID int64, filter workflow.ListFilter) ([]leave.LeaveResponse, error) {
	return f.ListMineFn(ctx, principalID, filter)
}
func (f *fakeLeaveService) ListPendingFor(context.Context, int64, []int64) ([]leave.LeaveResponse, error) {
	return nil, nil
}
func (f *fakeLeaveService) CountPendingFor(context.Context, int64, []int64) (int64, error) {
	return 0, nil
}
func (f *fakeLeaveService) GetByID(ctx context.Context, principalID, id int64) (leave.LeaveResponse, error) {
	return f.GetByIDFn(ctx, principalID, id)
}
func (f *fakeLeaveService) Decide(ctx context.Context, principalID, id int64, req leave.DecideLeaveRequest) (leave.DecisionResponse, error) {
	return f.DecideFn(ctx, principalID, id, req)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, principalID, id int64, req leave.CancelLeaveRequest) (leave.LeaveResponse, error) {
	return f.CancelFn(ctx, principalID, id, req)
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func setupRouter(svc leave.Service, principalID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	r := gin.New()
	api := r.Group("", func(c *gin.Context) {
		c.Set("principal_id", principalID)
		c.Next()
	})
	leave.RegisterRoutes(api, leave.NewHandler(svc), nil)
	return r
}

func TestLeaveHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			CreateFn: func(_ context.Context, pid int64, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, workerPrincipal, pid)
				assert.Equal(t, "SICK", req.LeaveType)
				return leave.LeaveResponse{ID: 5, Status: workflow.StatusPending}, nil
			},
		}
		body := `{"leave_type":"SICK","from_date":"2026-03-01","to_date":"2026-03-01"}`
		req := httptest.NewRequest(http.MethodPost, "/requests/leave", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		setupRouter(svc, workerPrincipal).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, int64(5), got.ID)
	})

	t.Run("unknown leave type", func(t *testing.T) {
		body := `{"leave_type":"HOLIDAY","from_date":"2026-03-01","to_date":"2026-03-01"}`
		req := httptest.NewRequest(http.MethodPost, "/requests/leave", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		setupRouter(&fakeLeaveService{}, workerPrincipal).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, w).Error.Code)
	})
}

func TestLeaveHandler_ListMine(t *testing.T) {
	svc := &fakeLeaveService{
		ListMineFn: func(_ context.Context, _ int64, f workflow.ListFilter) ([]leave.LeaveResponse, error) {
			assert.Equal(t, workflow.StatusPending, f.Status)
			require.NotNil(t, f.From)
			return []leave.LeaveResponse{{ID: 1}, {ID: 2}}, nil
		},
	}
	w := httptest.NewRecorder()
	setupRouter(svc, workerPrincipal).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requests/leave/my?status=pending&from=2026-01-01", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	setupRouter(svc, workerPrincipal).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requests/leave/my?from=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaveHandler_Decide(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"approved", nil, http.StatusOK, ""},
		{"invalid action", workflowerrors.ErrInvalidDecision, http.StatusBadRequest, apperror.CodeInvalidInput},
		{"not owner", workflowerrors.ErrNotSupervisor, http.StatusForbidden, apperror.CodeForbidden},
		{"already decided", workflowerrors.AlreadyDecided(workflow.StatusApproved), http.StatusConflict, apperror.CodeConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeLeaveService{
				DecideFn: func(_ context.Context, pid, id int64, req leave.DecideLeaveRequest) (leave.DecisionResponse, error) {
					assert.Equal(t, superPrincipal, pid)
					assert.Equal(t, int64(42), id)
					assert.Equal(t, "approve", req.Action)
					if tc.err != nil {
						return leave.DecisionResponse{}, tc.err
					}
					return leave.DecisionResponse{Status: workflow.StatusApproved}, nil
				},
			}
			req := httptest.NewRequest(http.MethodPost, "/supervisor/approve-leave/42", bytes.NewBufferString(`{"action":"approve"}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			setupRouter(svc, superPrincipal).ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.code != "" {
				assert.Equal(t, tc.code, decodeEnvelope(t, w).Error.Code)
			}
		})
	}

	t.Run("bad id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/supervisor/approve-leave/abc", bytes.NewBufferString(`{"action":"approve"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		setupRouter(&fakeLeaveService{}, superPrincipal).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_Cancel(t *testing.T) {
	svc := &fakeLeaveService{
		CancelFn: func(_ context.Context, _ int64, id int64, req leave.CancelLeaveRequest) (leave.LeaveResponse, error) {
			assert.Empty(t, req.Remarks)
			return leave.LeaveResponse{ID: id, Status: workflow.StatusCancelled}, nil
		},
	}
	w := httptest.NewRecorder()
	setupRouter(svc, workerPrincipal).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/requests/leave/42/cancel", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
