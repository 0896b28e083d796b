package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hrga-tools/locker-api/internal/models"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
)

type keyLogRepository interface {
	List(ctx context.Context, filter models.KeyLogFilter) ([]models.KeyLogDetail, error)
	Latest(ctx context.Context, lockerID, employeeID string) (*models.KeyLog, error)
	Append(ctx context.Context, entry *models.KeyLog) error
	AppendAndRelease(ctx context.Context, entry *models.KeyLog) error
}

// RecordKeyActionRequest holds payload for recording a key hand-off.
type RecordKeyActionRequest struct {
	LockerID    string           `json:"locker_id" validate:"required"`
	EmployeeID  string           `json:"employee_id" validate:"required"`
	LockerKeyID *string          `json:"locker_key_id"`
	Action      models.KeyAction `json:"action" validate:"required"`
	Method      models.KeyMethod `json:"method" validate:"required"`
}

// KeyLogService records key hand-offs and answers custody questions from
// the log alone.
type KeyLogService struct {
	logs      keyLogRepository
	lockers   lockerFinder
	employees employeeFinder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewKeyLogService constructs the key log service.
func NewKeyLogService(logs keyLogRepository, lockers lockerFinder, employees employeeFinder, validate *validator.Validate, logger *zap.Logger) *KeyLogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeyLogService{
		logs:      logs,
		lockers:   lockers,
		employees: employees,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *KeyLogService) WithClock(now func() time.Time) *KeyLogService {
	s.now = now
	return s
}

// RecordKeyAction appends an immutable hand-off fact. A TAKEN action only
// appends; the locker was already FILLED or OVERDUE by the assignment step.
// A RETURNED action additionally deactivates the locker's active contract
// and sets the locker AVAILABLE in the same transaction, whether or not an
// active contract exists.
func (s *KeyLogService) RecordKeyAction(ctx context.Context, req RecordKeyActionRequest) (*models.KeyLog, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid key action payload")
	}
	if !req.Action.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "action must be TAKEN or RETURNED")
	}
	if !req.Method.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "method must be QR or MANUAL")
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

	entry := &models.KeyLog{
		LockerID:    req.LockerID,
		LockerKeyID: req.LockerKeyID,
		EmployeeID:  req.EmployeeID,
		Action:      req.Action,
		Method:      req.Method,
		Timestamp:   s.now().UTC(),
	}

	var err error
	if req.Action == models.ActionReturned {
		err = s.logs.AppendAndRelease(ctx, entry)
	} else {
		err = s.logs.Append(ctx, entry)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to record key action")
	}

	s.logger.Info("key action recorded",
		zap.String("locker_id", entry.LockerID),
		zap.String("employee_id", entry.EmployeeID),
		zap.String("action", string(entry.Action)),
		zap.String("method", string(entry.Method)),
	)
	return entry, nil
}

// List returns log entries, newest first, capped at the filter limit.
func (s *KeyLogService) List(ctx context.Context, filter models.KeyLogFilter) ([]models.KeyLogDetail, error) {
	logs, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list key logs")
	}
	return logs, nil
}

// HasKey reports whether the most recent hand-off for the locker/employee
// pair was a TAKEN. The answer is always derived from the log, never from a
// cached flag, so the log stays the single source of truth.
func (s *KeyLogService) HasKey(ctx context.Context, lockerID, employeeID string) (bool, error) {
	latest, err := s.logs.Latest(ctx, lockerID, employeeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load key log")
	}
	return latest.Action == models.ActionTaken, nil
}
