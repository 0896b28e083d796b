package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hrga-tools/locker-api/internal/models"
	"github.com/hrga-tools/locker-api/internal/service"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
	"github.com/hrga-tools/locker-api/pkg/response"
)

// KeyLogHandler exposes the key hand-off log.
type KeyLogHandler struct {
	logs *service.KeyLogService
}

// NewKeyLogHandler constructs KeyLogHandler.
func NewKeyLogHandler(logs *service.KeyLogService) *KeyLogHandler {
	return &KeyLogHandler{logs: logs}
}

// List godoc
// @Summary List key hand-off history
// @Tags KeyLogs
// @Produce json
// @Param lockerId query string false "Locker filter"
// @Param employeeId query string false "Employee filter"
// @Param limit query int false "Max entries, default 50"
// @Success 200 {object} response.Envelope
// @Router /key-logs [get]
func (h *KeyLogHandler) List(c *gin.Context) {
	filter := models.KeyLogFilter{
		LockerID:   c.Query("lockerId"),
		EmployeeID: c.Query("employeeId"),
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.Limit = limit
	}
	logs, err := h.logs.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}

// Record godoc
// @Summary Record a key hand-off
// @Tags KeyLogs
// @Accept json
// @Produce json
// @Param payload body service.RecordKeyActionRequest true "Hand-off payload"
// @Success 201 {object} response.Envelope
// @Router /key-logs [post]
func (h *KeyLogHandler) Record(c *gin.Context) {
	var req service.RecordKeyActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.logs.RecordKeyAction(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}
