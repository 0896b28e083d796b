package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hrga-tools/locker-api/internal/models"
	"github.com/hrga-tools/locker-api/internal/repository"
	"github.com/hrga-tools/locker-api/pkg/dateutil"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
)

// DateLayout is the wire format for contract dates.
const DateLayout = "2006-01-02"

type contractRepository interface {
	List(ctx context.Context, filter models.ContractFilter) ([]models.ContractDetail, error)
	ListActiveEnding(ctx context.Context) ([]models.ContractDetail, error)
	Assign(ctx context.Context, params repository.AssignParams) (*models.Contract, error)
}

type lockerFinder interface {
	FindByID(ctx context.Context, id string) (*models.Locker, error)
}

type employeeFinder interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
}

// AssignContractRequest holds payload for assigning or renewing a contract.
// An empty end date marks a permanent assignment.
type AssignContractRequest struct {
	LockerID   string `json:"locker_id" validate:"required"`
	EmployeeID string `json:"employee_id" validate:"required"`
	StartDate  string `json:"start_date" validate:"required"`
	EndDate    string `json:"end_date"`
}

// OverdueContract is a contract past its end date, enriched for display.
type OverdueContract struct {
	models.ContractDetail
	RemainingDays int              `json:"remaining_days"`
	Urgency       dateutil.Urgency `json:"urgency"`
}

// ContractService manages the locker contract lifecycle.
type ContractService struct {
	contracts contractRepository
	lockers   lockerFinder
	employees employeeFinder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewContractService constructs the contract service.
func NewContractService(contracts contractRepository, lockers lockerFinder, employees employeeFinder, validate *validator.Validate, logger *zap.Logger) *ContractService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractService{
		contracts: contracts,
		lockers:   lockers,
		employees: employees,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *ContractService) WithClock(now func() time.Time) *ContractService {
	s.now = now
	return s
}

// AssignOrExtend supersedes the locker's active contract with a new one.
// Any existing active contract is deactivated unconditionally, even when the
// new assignment is for the same employee, which models contract renewal.
// The locker status projection is recomputed from the new end date; a
// backdated end date yields a locker that is OVERDUE from the moment of
// creation, which the bulk importer relies on for historical rows.
func (s *ContractService) AssignOrExtend(ctx context.Context, req AssignContractRequest) (*models.Contract, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contract payload")
	}

	startDate, err := time.Parse(DateLayout, req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be in YYYY-MM-DD format")
	}
	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := time.Parse(DateLayout, req.EndDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be in YYYY-MM-DD format")
		}
		endDate = &parsed
	}

	if _, err := s.lockers.FindByID(ctx, req.LockerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "locker not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load locker")
	}
	if _, err := s.employees.FindByID(ctx, req.EmployeeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	status := models.LockerFilled
	if endDate != nil && dateutil.IsOverdue(*endDate, s.now()) {
		status = models.LockerOverdue
	}

	contract, err := s.contracts.Assign(ctx, repository.AssignParams{
		LockerID:     req.LockerID,
		EmployeeID:   req.EmployeeID,
		StartDate:    startDate,
		EndDate:      endDate,
		LockerStatus: status,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to assign contract")
	}

	s.logger.Info("contract assigned",
		zap.String("locker_id", contract.LockerID),
		zap.String("employee_id", contract.EmployeeID),
		zap.Int("contract_seq", contract.ContractSeq),
		zap.String("locker_status", string(status)),
	)
	return contract, nil
}

// List returns contracts with employee and locker context.
func (s *ContractService) List(ctx context.Context, filter models.ContractFilter) ([]models.ContractDetail, error) {
	contracts, err := s.contracts.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contracts")
	}
	return contracts, nil
}

// ListOverdue returns active, non-permanent contracts whose end date has
// passed, ordered longest-overdue first. Permanent contracts never appear.
// The read is pure and has no side effects on stored state.
func (s *ContractService) ListOverdue(ctx context.Context) ([]OverdueContract, error) {
	contracts, err := s.contracts.ListActiveEnding(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list overdue contracts")
	}

	today := s.now()
	overdue := make([]OverdueContract, 0, len(contracts))
	for _, contract := range contracts {
		if contract.EndDate == nil || !dateutil.IsOverdue(*contract.EndDate, today) {
			continue
		}
		days := dateutil.RemainingDays(*contract.EndDate, today)
		overdue = append(overdue, OverdueContract{
			ContractDetail: contract,
			RemainingDays:  days,
			Urgency:        dateutil.ClassifyUrgency(days),
		})
	}
	return overdue, nil
}
