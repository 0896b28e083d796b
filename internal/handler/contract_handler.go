package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrga-tools/locker-api/internal/models"
	"github.com/hrga-tools/locker-api/internal/service"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
	"github.com/hrga-tools/locker-api/pkg/response"
)

// ContractHandler exposes contract lifecycle endpoints.
type ContractHandler struct {
	contracts *service.ContractService
	reports   *service.ReportService
}

// NewContractHandler constructs ContractHandler.
func NewContractHandler(contracts *service.ContractService, reports *service.ReportService) *ContractHandler {
	return &ContractHandler{contracts: contracts, reports: reports}
}

// List godoc
// @Summary List contracts
// @Tags Contracts
// @Produce json
// @Param lockerId query string false "Locker filter"
// @Param active query bool false "Only active contracts"
// @Success 200 {object} response.Envelope
// @Router /contracts [get]
func (h *ContractHandler) List(c *gin.Context) {
	filter := models.ContractFilter{
		LockerID:   c.Query("lockerId"),
		ActiveOnly: c.Query("active") == "true",
	}
	contracts, err := h.contracts.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, contracts, nil)
}

// Assign godoc
// @Summary Assign or renew a locker contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param payload body service.AssignContractRequest true "Contract payload"
// @Success 201 {object} response.Envelope
// @Router /contracts [post]
func (h *ContractHandler) Assign(c *gin.Context) {
	var req service.AssignContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	contract, err := h.contracts.AssignOrExtend(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, contract)
}

// Overdue godoc
// @Summary List overdue contracts
// @Tags Contracts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /contracts/overdue [get]
func (h *ContractHandler) Overdue(c *gin.Context) {
	overdue, err := h.contracts.ListOverdue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overdue, nil, map[string]interface{}{"count": len(overdue)})
}

// OverdueReport godoc
// @Summary Download the overdue contract report
// @Tags Contracts
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "Report format, csv (default) or pdf"
// @Success 200 {file} file
// @Router /contracts/overdue/report [get]
func (h *ContractHandler) OverdueReport(c *gin.Context) {
	format, err := service.ParseReportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.reports.GenerateOverdueReport(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
