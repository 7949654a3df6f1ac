package medical

import (
	"net/http"

	"go-workforce/internal/middleware"
	medicalerrors "go-workforce/internal/medical/errors"
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
	l := zap.L().Named("medical.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("medical.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("medical claim request failed",
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
		h.logger.Warn("http medical claim validation failed", zap.Error(err))
		appErr := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, appErr.Message, appErr.Details)
		return false
	}
	return true
}

func (h *Handler) pathID(c *gin.Context, name string) (int64, bool) {
	id, ok := request.Int64Param(c, name)
	if !ok {
		h.writeServiceError(c, medicalerrors.ErrInvalidClaimID)
	}
	return id, ok
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateClaimRequest
	if !h.bind(c, &req, false) {
		return
	}
	resp, err := h.service.Create(c.Request.Context(), middleware.PrincipalID(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) AddReceipts(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		h.logger.Warn("http medical claim receipts form invalid", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "multipart form with files is required", err.Error())
		return
	}
	resp, err := h.service.AddReceipts(c.Request.Context(), middleware.PrincipalID(c), id, form.File["files"])
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListMine(c *gin.Context) {
	filter, err := workflow.ParseListFilter(c.Query("status"), c.Query("from"), c.Query("to"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	resp, err := h.service.ListMine(c.Request.Context(), middleware.PrincipalID(c), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.GetByID(c.Request.Context(), middleware.PrincipalID(c), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req CancelClaimRequest
	if !h.bind(c, &req, true) {
		return
	}
	resp, err := h.service.Cancel(c.Request.Context(), middleware.PrincipalID(c), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Decide(c *gin.Context) {
	id, ok := h.pathID(c, "requestId")
	if !ok {
		return
	}
	var req DecideClaimRequest
	if !h.bind(c, &req, false) {
		return
	}
	resp, err := h.service.Decide(c.Request.Context(), middleware.PrincipalID(c), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Process(c *gin.Context) {
	id, ok := h.pathID(c, "requestId")
	if !ok {
		return
	}
	var req ProcessClaimRequest
	if !h.bind(c, &req, true) {
		return
	}
	resp, err := h.service.Process(c.Request.Context(), middleware.PrincipalID(c), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
