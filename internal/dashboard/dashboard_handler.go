package dashboard

import (
	"net/http"

	"go-workforce/internal/middleware"
	"go-workforce/internal/shared/apperror"
	"go-workforce/internal/shared/request"
	"go-workforce/internal/shared/response"
	"go-workforce/internal/workflow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("dashboard.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("dashboard request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) queryFamily(c *gin.Context) (workflow.Family, bool) {
	v := c.Query("family")
	if v == "" {
		return "", true
	}
	f, err := workflow.ParseFamily(v)
	if err != nil {
		h.writeServiceError(c, err)
		return "", false
	}
	return f, true
}

func (h *Handler) Summary(c *gin.Context) {
	resp, err := h.service.PendingSummary(c.Request.Context(), middleware.PrincipalID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	family, ok := h.queryFamily(c)
	if !ok {
		return
	}
	items, err := h.service.PendingList(c.Request.Context(), middleware.PrincipalID(c), family)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	// The full list is returned unless the caller asks for a page.
	if c.Query("page") == "" {
		response.Success(c, http.StatusOK, items, nil)
		return
	}
	page, pageSize := request.Page(c)
	start, end := response.Window(len(items), page, pageSize)
	meta := response.NewPaginationMeta(int64(len(items)), page, pageSize)
	response.Success(c, http.StatusOK, items[start:end], &meta)
}

func (h *Handler) ByFamily(family workflow.Family) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := h.service.PendingByFamily(c.Request.Context(), middleware.PrincipalID(c), family)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusOK, resp, nil)
	}
}

func (h *Handler) Export(c *gin.Context) {
	family, ok := h.queryFamily(c)
	if !ok {
		return
	}
	f, filename, err := h.service.ExportPending(c.Request.Context(), middleware.PrincipalID(c), family)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("write pending export failed", zap.Error(err))
	}
}
