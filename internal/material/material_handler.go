package material

import (
	"net/http"

	materialerrors "go-workforce/internal/material/errors"
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
	l := zap.L().Named("material.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("material.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("material request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) bind(c *gin.Context, obj any, optional bool) bool {
	if optional && c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		h.logger.Warn("http material validation failed", zap.Error(err))
		appErr := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, appErr.Message, appErr.Details)
		return false
	}
	return true
}

func (h *Handler) pathID(c *gin.Context, name string) (int64, bool) {
	id, ok := request.Int64Param(c, name)
	if !ok {
		h.writeServiceError(c, materialerrors.ErrInvalidMaterialID)
	}
	return id, ok
}

func (h *Handler) Create(family workflow.Family) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateMaterialRequest
		if !h.bind(c, &req, false) {
			return
		}
		resp, err := h.service.Create(c.Request.Context(), middleware.PrincipalID(c), family, req)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusCreated, resp, nil)
	}
}

func (h *Handler) ListMine(family workflow.Family) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := workflow.ParseListFilter(c.Query("status"), c.Query("from"), c.Query("to"))
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		resp, err := h.service.ListMine(c.Request.Context(), middleware.PrincipalID(c), family, filter)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusOK, resp, nil)
	}
}

func (h *Handler) GetByID(family workflow.Family) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.pathID(c, "id")
		if !ok {
			return
		}
		resp, err := h.service.GetByID(c.Request.Context(), middleware.PrincipalID(c), family, id)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusOK, resp, nil)
	}
}

func (h *Handler) Cancel(family workflow.Family) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.pathID(c, "id")
		if !ok {
			return
		}
		var req CancelMaterialRequest
		if !h.bind(c, &req, true) {
			return
		}
		resp, err := h.service.Cancel(c.Request.Context(), middleware.PrincipalID(c), family, id, req)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusOK, resp, nil)
	}
}

func (h *Handler) Decide(family workflow.Family) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.pathID(c, "requestId")
		if !ok {
			return
		}
		var req DecideMaterialRequest
		if !h.bind(c, &req, false) {
			return
		}
		resp, err := h.service.Decide(c.Request.Context(), middleware.PrincipalID(c), family, id, req)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusOK, resp, nil)
	}
}

func (h *Handler) Fulfill(family workflow.Family) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.pathID(c, "requestId")
		if !ok {
			return
		}
		var req FulfillMaterialRequest
		if !h.bind(c, &req, true) {
			return
		}
		resp, err := h.service.Fulfill(c.Request.Context(), middleware.PrincipalID(c), family, id, req)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusOK, resp, nil)
	}
}
