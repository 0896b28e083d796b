package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrga-tools/locker-api/internal/models"
	"github.com/hrga-tools/locker-api/pkg/dateutil"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
)

type fakeOverdueLister struct {
	contracts []OverdueContract
	err       error
}

func (f *fakeOverdueLister) ListOverdue(context.Context) ([]OverdueContract, error) {
	return f.contracts, f.err
}

func TestReportServiceOverdueCSV(t *testing.T) {
	end := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)
	lister := &fakeOverdueLister{contracts: []OverdueContract{{
		ContractDetail: models.ContractDetail{
			Contract:     models.Contract{ID: "c-1", EndDate: &end},
			EmployeeNIK:  "12345",
			EmployeeName: "Andi",
			Department:   "Produksi",
			LockerNumber: "L/M01/001",
			RoomID:       "M01",
		},
		RemainingDays: -10,
		Urgency:       dateutil.UrgencyOverdue,
	}}}
	svc := NewReportService(lister, zap.NewNop(), nil, nil).
		WithClock(func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) })

	result, err := svc.GenerateOverdueReport(context.Background(), ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "overdue-lockers-20240615.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)

	body := string(result.Payload)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Locker,Room,NIK,Employee,Department,End Date,Days Overdue,Urgency", lines[0])
	assert.Equal(t, "L/M01/001,M01,12345,Andi,Produksi,2024-06-05,10,OVERDUE", lines[1])
}

func TestReportServiceOverduePDF(t *testing.T) {
	svc := NewReportService(&fakeOverdueLister{}, zap.NewNop(), nil, nil).
		WithClock(func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) })

	result, err := svc.GenerateOverdueReport(context.Background(), ReportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "overdue-lockers-20240615.pdf", result.Filename)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.NotEmpty(t, result.Payload)
}

func TestReportServiceUnknownFormat(t *testing.T) {
	svc := NewReportService(&fakeOverdueLister{}, zap.NewNop(), nil, nil)

	_, err := svc.GenerateOverdueReport(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestParseReportFormat(t *testing.T) {
	format, err := ParseReportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ReportFormatCSV, format)

	format, err = ParseReportFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, ReportFormatPDF, format)

	_, err = ParseReportFormat("xlsx")
	require.Error(t, err)
}
