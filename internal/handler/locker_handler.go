package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrga-tools/locker-api/internal/models"
	"github.com/hrga-tools/locker-api/internal/service"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
	"github.com/hrga-tools/locker-api/pkg/response"
)

// LockerHandler exposes locker endpoints.
type LockerHandler struct {
	lockers *service.LockerService
}

// NewLockerHandler constructs LockerHandler.
func NewLockerHandler(lockers *service.LockerService) *LockerHandler {
	return &LockerHandler{lockers: lockers}
}

// List godoc
// @Summary List lockers
// @Tags Lockers
// @Produce json
// @Param room query string false "Room filter"
// @Param status query string false "Status filter"
// @Success 200 {object} response.Envelope
// @Router /lockers [get]
func (h *LockerHandler) List(c *gin.Context) {
	filter := models.LockerFilter{
		RoomID: c.Query("room"),
		Status: models.LockerStatus(c.Query("status")),
	}
	lockers, err := h.lockers.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lockers, nil)
}

// Get godoc
// @Summary Get locker detail
// @Tags Lockers
// @Produce json
// @Param id path string true "Locker ID"
// @Success 200 {object} response.Envelope
// @Router /lockers/{id} [get]
func (h *LockerHandler) Get(c *gin.Context) {
	detail, err := h.lockers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Search godoc
// @Summary Find locker by locker number
// @Tags Lockers
// @Produce json
// @Param lockerNumber query string true "Exact locker number, e.g. L/M01/001"
// @Success 200 {object} response.Envelope
// @Router /lockers/search [get]
func (h *LockerHandler) Search(c *gin.Context) {
	detail, err := h.lockers.Search(c.Request.Context(), c.Query("lockerNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

type updateLockerStatusRequest struct {
	Status models.LockerStatus `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary Update locker status
// @Tags Lockers
// @Accept json
// @Produce json
// @Param id path string true "Locker ID"
// @Param payload body updateLockerStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /lockers/{id}/status [patch]
func (h *LockerHandler) UpdateStatus(c *gin.Context) {
	var req updateLockerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	locker, err := h.lockers.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, locker, nil)
}
