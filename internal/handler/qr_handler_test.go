package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrga-tools/locker-api/internal/models"
	"github.com/hrga-tools/locker-api/internal/service"
)

type stubQREmployees struct {
	employee *models.Employee
}

func (s *stubQREmployees) FindByNIK(_ context.Context, nik string) (*models.Employee, error) {
	if s.employee == nil || s.employee.NIK != nik {
		return nil, sql.ErrNoRows
	}
	return s.employee, nil
}

type stubQRContracts struct {
	detail *models.ContractDetail
}

func (s *stubQRContracts) FindActiveByEmployee(context.Context, string) (*models.ContractDetail, error) {
	if s.detail == nil {
		return nil, sql.ErrNoRows
	}
	return s.detail, nil
}

type stubQRLogs struct {
	latest *models.KeyLog
}

func (s *stubQRLogs) Latest(context.Context, string, string) (*models.KeyLog, error) {
	if s.latest == nil {
		return nil, sql.ErrNoRows
	}
	return s.latest, nil
}

func newQRHandler(employees *stubQREmployees, contracts *stubQRContracts, logs *stubQRLogs) *QRHandler {
	return NewQRHandler(service.NewQRLookupService(employees, contracts, logs, nil))
}

func TestQRHandlerLookupSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	detail := &models.ContractDetail{
		Contract:     models.Contract{ID: "c-1", EmployeeID: "emp-1", LockerID: "lkr-1", IsActive: true},
		LockerNumber: "L/M01/001",
		RoomID:       "M01",
	}
	handler := newQRHandler(
		&stubQREmployees{employee: &models.Employee{ID: "emp-1", NIK: "12345", Name: "Andi"}},
		&stubQRContracts{detail: detail},
		&stubQRLogs{latest: &models.KeyLog{Action: models.ActionTaken}},
	)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/qr/12345", nil)
	c.Params = gin.Params{{Key: "nik", Value: "12345"}}

	handler.Lookup(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data service.QRLookupResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "12345", envelope.Data.Employee.NIK)
	assert.Equal(t, "L/M01/001", envelope.Data.Locker.LockerNumber)
	assert.True(t, envelope.Data.HasKey)
}

func TestQRHandlerLookupUnknownNIK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newQRHandler(&stubQREmployees{}, &stubQRContracts{}, &stubQRLogs{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/qr/99999", nil)
	c.Params = gin.Params{{Key: "nik", Value: "99999"}}

	handler.Lookup(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
