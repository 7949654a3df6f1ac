package notification

import (
	"context"
	"net/http"
	"strconv"

	"go-workforce/internal/employee"
	"go-workforce/internal/middleware"
	"go-workforce/internal/shared/apperror"
	"go-workforce/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type IdentityResolver interface {
	ResolveEmployee(ctx context.Context, principalID int64) (employee.Employee, error)
}

type InboxReader interface {
	Inbox(ctx context.Context, employeeID int64, limit int) ([]Payload, error)
}

type Handler struct {
	identity IdentityResolver
	inbox    InboxReader
	logger   *zap.Logger
}

func NewHandler(identity IdentityResolver, inbox InboxReader, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("notification.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.handler")
	}
	return &Handler{identity: identity, inbox: inbox, logger: l}
}

// ListMine returns the caller's recent notifications, newest first.
func (h *Handler) ListMine(c *gin.Context) {
	ctx := c.Request.Context()
	emp, err := h.identity.ResolveEmployee(ctx, middleware.PrincipalID(c))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	items, err := h.inbox.Inbox(ctx, emp.ID, limit)
	if err != nil {
		h.logger.Error("read notification inbox failed", zap.Int64("employee_id", emp.ID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, apperror.ErrInternal.Message, nil)
		return
	}
	response.Success(c, http.StatusOK, items, nil)
}

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/notifications/my", handler.ListMine)
}
