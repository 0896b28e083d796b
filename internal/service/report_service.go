package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
	"github.com/hrga-tools/locker-api/pkg/export"
)

// ReportFormat identifies a rendered report encoding.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

type overdueLister interface {
	ListOverdue(ctx context.Context) ([]OverdueContract, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ReportResult carries a rendered report payload and download metadata.
type ReportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ReportService renders the overdue contract report for download.
type ReportService struct {
	contracts overdueLister
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(contracts overdueLister, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ReportService{contracts: contracts, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// WithClock overrides the service clock. Intended for tests.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

var overdueReportHeaders = []string{"Locker", "Room", "NIK", "Employee", "Department", "End Date", "Days Overdue", "Urgency"}

// GenerateOverdueReport renders the current overdue contract list in the
// requested format.
func (s *ReportService) GenerateOverdueReport(ctx context.Context, format ReportFormat) (*ReportResult, error) {
	contracts, err := s.contracts.ListOverdue(ctx)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: overdueReportHeaders, Rows: make([]map[string]string, 0, len(contracts))}
	for _, c := range contracts {
		endDate := ""
		if c.EndDate != nil {
			endDate = c.EndDate.Format(DateLayout)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Locker":       c.LockerNumber,
			"Room":         c.RoomID,
			"NIK":          c.EmployeeNIK,
			"Employee":     c.EmployeeName,
			"Department":   c.Department,
			"End Date":     endDate,
			"Days Overdue": strconv.Itoa(-c.RemainingDays),
			"Urgency":      string(c.Urgency),
		})
	}

	stamp := s.now().Format("20060102")
	switch format {
	case ReportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &ReportResult{
			Filename:    fmt.Sprintf("overdue-lockers-%s.csv", stamp),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	case ReportFormatPDF:
		payload, err := s.pdf.Render(dataset, "Overdue Lockers")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &ReportResult{
			Filename:    fmt.Sprintf("overdue-lockers-%s.pdf", stamp),
			ContentType: "application/pdf",
			Payload:     payload,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format '%s'", format))
	}
}

// ParseReportFormat normalises a user-supplied format string.
func ParseReportFormat(raw string) (ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "csv":
		return ReportFormatCSV, nil
	case "pdf":
		return ReportFormatPDF, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
}
