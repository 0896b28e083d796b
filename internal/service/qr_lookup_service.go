package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/hrga-tools/locker-api/internal/models"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
)

type qrEmployeeRepository interface {
	FindByNIK(ctx context.Context, nik string) (*models.Employee, error)
}

type qrContractRepository interface {
	FindActiveByEmployee(ctx context.Context, employeeID string) (*models.ContractDetail, error)
}

type qrKeyLogRepository interface {
	Latest(ctx context.Context, lockerID, employeeID string) (*models.KeyLog, error)
}

// QRLookupResult is the scanner payload: who the badge belongs to, where
// their locker is, and whether they currently hold a key.
type QRLookupResult struct {
	Employee models.Employee `json:"employee"`
	Locker   models.Locker   `json:"locker"`
	Contract models.Contract `json:"contract"`
	HasKey   bool            `json:"has_key"`
}

// QRLookupService resolves a scanned employee NIK to their current locker
// assignment and key custody state.
type QRLookupService struct {
	employees qrEmployeeRepository
	contracts qrContractRepository
	logs      qrKeyLogRepository
	logger    *zap.Logger
}

// NewQRLookupService constructs the QR lookup service.
func NewQRLookupService(employees qrEmployeeRepository, contracts qrContractRepository, logs qrKeyLogRepository, logger *zap.Logger) *QRLookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QRLookupService{employees: employees, contracts: contracts, logs: logs, logger: logger}
}

// Lookup resolves a NIK. HasKey is derived from the most recent key log for
// the locker/employee pair, never from a cached flag.
func (s *QRLookupService) Lookup(ctx context.Context, nik string) (*QRLookupResult, error) {
	if nik == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "NIK is required")
	}

	employee, err := s.employees.FindByNIK(ctx, nik)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	contract, err := s.contracts.FindActiveByEmployee(ctx, employee.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee has no active locker assignment")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contract")
	}

	hasKey := false
	latest, err := s.logs.Latest(ctx, contract.LockerID, employee.ID)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load key log")
	}
	if latest != nil {
		hasKey = latest.Action == models.ActionTaken
	}

	return &QRLookupResult{
		Employee: *employee,
		Locker: models.Locker{
			ID:           contract.LockerID,
			LockerNumber: contract.LockerNumber,
			RoomID:       contract.RoomID,
		},
		Contract: contract.Contract,
		HasKey:   hasKey,
	}, nil
}
