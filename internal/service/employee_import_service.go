package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hrga-tools/locker-api/internal/models"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
)

type employeeImportRepository interface {
	FindByNIK(ctx context.Context, nik string) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
}

// EmployeeImportRow is one employee directory CSV row before validation.
// IsActive accepts a tolerant vocabulary; empty means active.
type EmployeeImportRow struct {
	NIK        string `json:"nik"`
	Name       string `json:"name"`
	Department string `json:"department"`
	IsActive   string `json:"is_active,omitempty"`
}

// EmployeeImportOutcome itemizes one processed row.
type EmployeeImportOutcome struct {
	Row     int      `json:"row"`
	NIK     string   `json:"nik"`
	Name    string   `json:"name,omitempty"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// EmployeeImportSummary aggregates one employee directory batch.
type EmployeeImportSummary struct {
	Total      int                     `json:"total"`
	Imported   int                     `json:"imported"`
	Failed     int                     `json:"failed"`
	Duplicates int                     `json:"duplicates"`
	Success    []EmployeeImportOutcome `json:"success"`
	Errors     []EmployeeImportOutcome `json:"errors"`
	Duplicated []EmployeeImportOutcome `json:"duplicated"`
}

// EmployeeImportService validates and creates employee directory rows.
// Duplicate NIKs are checked against persisted state only; two new rows
// sharing a NIK inside one batch both attempt creation and the second
// surfaces as a storage error rather than a duplicate.
type EmployeeImportService struct {
	employees employeeImportRepository
	logger    *zap.Logger
}

// NewEmployeeImportService constructs the employee directory importer.
func NewEmployeeImportService(employees employeeImportRepository, logger *zap.Logger) *EmployeeImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeImportService{employees: employees, logger: logger}
}

// Import processes rows in order, never aborting the batch on a bad row.
func (s *EmployeeImportService) Import(ctx context.Context, rows []EmployeeImportRow) (*EmployeeImportSummary, error) {
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no employee data provided")
	}

	summary := &EmployeeImportSummary{
		Total:      len(rows),
		Success:    []EmployeeImportOutcome{},
		Errors:     []EmployeeImportOutcome{},
		Duplicated: []EmployeeImportOutcome{},
	}

	for i, row := range rows {
		rowNumber := i + 2

		var rowErrors []string
		nik := strings.TrimSpace(row.NIK)
		name := strings.TrimSpace(row.Name)
		department := strings.TrimSpace(row.Department)

		if nik == "" {
			rowErrors = append(rowErrors, "NIK is required")
		}
		if name == "" {
			rowErrors = append(rowErrors, "Name is required")
		}
		if department == "" {
			rowErrors = append(rowErrors, "Department is required")
		}

		isActive, err := parseActiveFlag(row.IsActive)
		if err != nil {
			rowErrors = append(rowErrors, err.Error())
		}

		if len(rowErrors) > 0 {
			summary.Failed++
			summary.Errors = append(summary.Errors, EmployeeImportOutcome{Row: rowNumber, NIK: row.NIK, Errors: rowErrors})
			continue
		}

		if existing, err := s.employees.FindByNIK(ctx, nik); err == nil && existing != nil {
			summary.Duplicates++
			summary.Duplicated = append(summary.Duplicated, EmployeeImportOutcome{
				Row:     rowNumber,
				NIK:     nik,
				Name:    name,
				Message: "NIK already exists in database",
			})
			continue
		}

		employee := &models.Employee{
			NIK:        nik,
			Name:       name,
			Department: department,
			IsActive:   isActive,
		}
		if err := s.employees.Create(ctx, employee); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, EmployeeImportOutcome{Row: rowNumber, NIK: nik, Errors: []string{err.Error()}})
			continue
		}

		summary.Imported++
		summary.Success = append(summary.Success, EmployeeImportOutcome{Row: rowNumber, NIK: employee.NIK, Name: employee.Name})
	}

	s.logger.Info("employee import finished",
		zap.Int("total", summary.Total),
		zap.Int("imported", summary.Imported),
		zap.Int("failed", summary.Failed),
		zap.Int("duplicates", summary.Duplicates),
	)
	return summary, nil
}

// parseActiveFlag understands the tolerant isActive vocabulary. An empty
// value defaults to active.
func parseActiveFlag(raw string) (bool, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "":
		return true, nil
	case "true", "1", "yes", "active":
		return true, nil
	case "false", "0", "no", "inactive":
		return false, nil
	default:
		return false, fmt.Errorf("isActive must be true/false, 1/0, yes/no, or active/inactive")
	}
}
