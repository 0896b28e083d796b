package handler

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/hrga-tools/locker-api/internal/service"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
	"github.com/hrga-tools/locker-api/pkg/response"
)

// ImportHandler exposes the bulk locker-assignment import.
type ImportHandler struct {
	importer *service.AssignmentImportService
}

// NewImportHandler constructs ImportHandler.
func NewImportHandler(importer *service.AssignmentImportService) *ImportHandler {
	return &ImportHandler{importer: importer}
}

// ImportCSV godoc
// @Summary Import locker assignments from a CSV file
// @Tags Imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV with locker_number, employee_nik, start_date, end_date, notes columns"
// @Success 200 {object} response.Envelope
// @Router /imports/assignments [post]
func (h *ImportHandler) ImportCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	parsed, err := service.ParseAssignmentCSV(src)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to parse CSV"))
		return
	}
	h.run(c, parsed)
}

// ImportRows godoc
// @Summary Import locker assignments from pre-parsed rows
// @Tags Imports
// @Accept json
// @Produce json
// @Param payload body []service.AssignmentRow true "Assignment rows"
// @Success 200 {object} response.Envelope
// @Router /imports/assignments/rows [post]
func (h *ImportHandler) ImportRows(c *gin.Context) {
	var rows []service.AssignmentRow
	if err := c.ShouldBindJSON(&rows); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	summary, err := h.importer.Import(c.Request.Context(), rows)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// run merges CSV row rejections with the importer's per-row failures into a
// single report ordered by row number. A file-level rejection (row 0) stops
// before any database work.
func (h *ImportHandler) run(c *gin.Context, parsed *service.ParseResult) {
	for _, rowErr := range parsed.Errors {
		if rowErr.Row == 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, rowErr.Message))
			return
		}
	}

	summary := &service.ImportSummary{Errors: []service.ImportError{}}
	if len(parsed.Rows) > 0 {
		imported, err := h.importer.Import(c.Request.Context(), parsed.Rows)
		if err != nil {
			response.Error(c, err)
			return
		}
		summary = imported
	}

	for _, rowErr := range parsed.Errors {
		summary.Failed++
		summary.Errors = append(summary.Errors, service.ImportError{Row: rowErr.Row, Error: rowErr.Message})
	}
	sort.Slice(summary.Errors, func(i, j int) bool { return summary.Errors[i].Row < summary.Errors[j].Row })
	summary.Success = summary.Failed == 0

	if summary.Imported == 0 && summary.Failed == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "no data provided"))
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
