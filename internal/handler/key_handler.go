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

// KeyHandler exposes physical key inventory endpoints.
type KeyHandler struct {
	keys *service.KeyService
}

// NewKeyHandler constructs KeyHandler.
func NewKeyHandler(keys *service.KeyService) *KeyHandler {
	return &KeyHandler{keys: keys}
}

// List godoc
// @Summary List keys
// @Tags Keys
// @Produce json
// @Param lockerId query string false "Locker filter"
// @Param status query string false "Status filter"
// @Param holderId query string false "Holder filter"
// @Param room query string false "Room filter"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size, max 100"
// @Success 200 {object} response.Envelope
// @Router /keys [get]
func (h *KeyHandler) List(c *gin.Context) {
	filter := models.KeyFilter{
		LockerID: c.Query("lockerId"),
		Status:   models.KeyStatus(c.Query("status")),
		HolderID: c.Query("holderId"),
		RoomID:   c.Query("room"),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.PageSize = size
	}
	keys, pagination, err := h.keys.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, keys, pagination)
}

// Get godoc
// @Summary Get key
// @Tags Keys
// @Produce json
// @Param id path string true "Key ID"
// @Success 200 {object} response.Envelope
// @Router /keys/{id} [get]
func (h *KeyHandler) Get(c *gin.Context) {
	key, err := h.keys.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, key, nil)
}

// Create godoc
// @Summary Add a key to a locker
// @Tags Keys
// @Accept json
// @Produce json
// @Param payload body service.CreateKeyRequest true "Key payload"
// @Success 201 {object} response.Envelope
// @Router /keys [post]
func (h *KeyHandler) Create(c *gin.Context) {
	var req service.CreateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	key, err := h.keys.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, key)
}

// Update godoc
// @Summary Update key
// @Tags Keys
// @Accept json
// @Produce json
// @Param id path string true "Key ID"
// @Param payload body service.UpdateKeyRequest true "Key payload"
// @Success 200 {object} response.Envelope
// @Router /keys/{id} [patch]
func (h *KeyHandler) Update(c *gin.Context) {
	var req service.UpdateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	key, err := h.keys.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, key, nil)
}

// Delete godoc
// @Summary Delete key
// @Tags Keys
// @Produce json
// @Param id path string true "Key ID"
// @Success 204
// @Router /keys/{id} [delete]
func (h *KeyHandler) Delete(c *gin.Context) {
	if err := h.keys.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
