package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hrga-tools/locker-api/internal/service"
	"github.com/hrga-tools/locker-api/pkg/response"
)

// QRHandler resolves badge scans to locker assignments.
type QRHandler struct {
	lookup *service.QRLookupService
}

// NewQRHandler constructs the handler.
func NewQRHandler(lookup *service.QRLookupService) *QRHandler {
	return &QRHandler{lookup: lookup}
}

// Lookup godoc
// @Summary Resolve an employee badge to their active locker assignment
// @Tags QR
// @Produce json
// @Param nik path string true "Employee NIK"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /qr/{nik} [get]
func (h *QRHandler) Lookup(c *gin.Context) {
	nik := strings.TrimSpace(c.Param("nik"))
	result, err := h.lookup.Lookup(c.Request.Context(), nik)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil, nil)
}
