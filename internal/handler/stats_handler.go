package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrga-tools/locker-api/internal/service"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
	"github.com/hrga-tools/locker-api/pkg/response"
)

// StatsHandler serves dashboard counters and runtime metrics snapshots.
type StatsHandler struct {
	stats   *service.StatsService
	metrics *service.MetricsService
}

// NewStatsHandler constructs the handler.
func NewStatsHandler(stats *service.StatsService, metrics *service.MetricsService) *StatsHandler {
	return &StatsHandler{stats: stats, metrics: metrics}
}

// Lockers godoc
// @Summary Locker occupancy counters grouped by status
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats/lockers [get]
func (h *StatsHandler) Lockers(c *gin.Context) {
	stats, err := h.stats.LockerStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, nil)
}

// System godoc
// @Summary Runtime metrics snapshot for the admin dashboard
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats/system [get]
func (h *StatsHandler) System(c *gin.Context) {
	if h.metrics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil, nil)
}
