package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hrga-tools/locker-api/internal/models"
	"github.com/hrga-tools/locker-api/internal/repository"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
)

type assignmentLockerRepository interface {
	FindByNumber(ctx context.Context, lockerNumber string) (*models.Locker, error)
}

type assignmentEmployeeRepository interface {
	FindByNIK(ctx context.Context, nik string) (*models.Employee, error)
}

type assignmentContractRepository interface {
	CountActiveByLocker(ctx context.Context, lockerID string) (int, error)
	NextSeq(ctx context.Context, lockerID string) (int, error)
	ApplyImportRow(ctx context.Context, params repository.ImportRowParams) error
}

type assignmentKeyRepository interface {
	ListByLocker(ctx context.Context, lockerID string) ([]models.LockerKey, error)
}

// ImportError describes one failed bulk-assignment row.
type ImportError struct {
	Row          int    `json:"row"`
	LockerNumber string `json:"locker_number,omitempty"`
	EmployeeNIK  string `json:"employee_nik,omitempty"`
	Error        string `json:"error"`
}

// ImportSummary aggregates the outcome of one bulk-assignment batch.
type ImportSummary struct {
	Success  bool          `json:"success"`
	Imported int           `json:"imported"`
	Failed   int           `json:"failed"`
	Errors   []ImportError `json:"errors"`
}

// AssignmentImportService applies bulk locker assignments row by row. Each
// row commits in its own transaction; a failed row is reported and never
// aborts or rolls back its siblings.
type AssignmentImportService struct {
	lockers   assignmentLockerRepository
	employees assignmentEmployeeRepository
	contracts assignmentContractRepository
	keys      assignmentKeyRepository
	logger    *zap.Logger
	maxRows   int
}

// NewAssignmentImportService constructs the bulk-assignment importer.
func NewAssignmentImportService(lockers assignmentLockerRepository, employees assignmentEmployeeRepository, contracts assignmentContractRepository, keys assignmentKeyRepository, logger *zap.Logger, maxRows int) *AssignmentImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRows <= 0 {
		maxRows = 1000
	}
	return &AssignmentImportService{
		lockers:   lockers,
		employees: employees,
		contracts: contracts,
		keys:      keys,
		logger:    logger,
		maxRows:   maxRows,
	}
}

// Import processes rows in order. Rows are expected to have passed CSV
// validation already; database-dependent checks happen here.
func (s *AssignmentImportService) Import(ctx context.Context, rows []AssignmentRow) (*ImportSummary, error) {
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no data provided")
	}
	if len(rows) > s.maxRows {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("batch exceeds %d rows", s.maxRows))
	}

	summary := &ImportSummary{Errors: []ImportError{}}
	for i, row := range rows {
		rowNumber := row.Row
		if rowNumber == 0 {
			rowNumber = i + 2
		}
		if err := s.importRow(ctx, row); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, ImportError{
				Row:          rowNumber,
				LockerNumber: row.LockerNumber,
				EmployeeNIK:  row.EmployeeNIK,
				Error:        err.Error(),
			})
			s.logger.Warn("import row failed",
				zap.Int("row", rowNumber),
				zap.String("locker_number", row.LockerNumber),
				zap.Error(err),
			)
			continue
		}
		summary.Imported++
	}
	summary.Success = summary.Failed == 0

	s.logger.Info("assignment import finished",
		zap.Int("imported", summary.Imported),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// importRow resolves and applies a single row. The returned error text is
// surfaced verbatim in the batch report.
func (s *AssignmentImportService) importRow(ctx context.Context, row AssignmentRow) error {
	locker, err := s.lockers.FindByNumber(ctx, row.LockerNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("Locker '%s' not found", row.LockerNumber)
		}
		return fmt.Errorf("failed to load locker: %v", err)
	}

	if locker.Status != models.LockerAvailable {
		return fmt.Errorf("Locker is %s, not AVAILABLE", locker.Status)
	}

	// Redundant with the status check under normal operation, but enforced
	// independently as a safety net against a drifted projection.
	activeCount, err := s.contracts.CountActiveByLocker(ctx, locker.ID)
	if err != nil {
		return fmt.Errorf("failed to check active contracts: %v", err)
	}
	if activeCount > 0 {
		return fmt.Errorf("Locker already has an active contract")
	}

	employee, err := s.employees.FindByNIK(ctx, row.EmployeeNIK)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("Employee with NIK '%s' not found", row.EmployeeNIK)
		}
		return fmt.Errorf("failed to load employee: %v", err)
	}

	seq, err := s.contracts.NextSeq(ctx, locker.ID)
	if err != nil {
		return fmt.Errorf("failed to compute contract seq: %v", err)
	}

	startDate, err := time.Parse(DateLayout, row.StartDate)
	if err != nil {
		return fmt.Errorf("start_date is not a valid date")
	}
	var endDate *time.Time
	if row.EndDate != "" {
		parsed, err := time.Parse(DateLayout, row.EndDate)
		if err != nil {
			return fmt.Errorf("end_date is not a valid date")
		}
		endDate = &parsed
	}

	keys, err := s.keys.ListByLocker(ctx, locker.ID)
	if err != nil {
		return fmt.Errorf("failed to load locker keys: %v", err)
	}
	var firstKeyID *string
	if len(keys) > 0 {
		firstKeyID = &keys[0].ID
	}

	return s.contracts.ApplyImportRow(ctx, repository.ImportRowParams{
		LockerID:    locker.ID,
		EmployeeID:  employee.ID,
		ContractSeq: seq,
		StartDate:   startDate,
		EndDate:     endDate,
		FirstKeyID:  firstKeyID,
	})
}
