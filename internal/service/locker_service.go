package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/hrga-tools/locker-api/internal/models"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
)

type lockerRepository interface {
	List(ctx context.Context, filter models.LockerFilter) ([]models.Locker, error)
	FindByID(ctx context.Context, id string) (*models.Locker, error)
	FindByNumber(ctx context.Context, lockerNumber string) (*models.Locker, error)
	UpdateStatus(ctx context.Context, id string, status models.LockerStatus) error
}

type lockerContractRepository interface {
	ListByLocker(ctx context.Context, lockerID string) ([]models.ContractDetail, error)
}

type lockerKeyLister interface {
	ListByLocker(ctx context.Context, lockerID string) ([]models.LockerKey, error)
}

type lockerLogLister interface {
	List(ctx context.Context, filter models.KeyLogFilter) ([]models.KeyLogDetail, error)
}

// recentLogLimit caps the key activity shown on a locker detail view.
const recentLogLimit = 20

// LockerService handles locker listing, detail composition and status
// overrides.
type LockerService struct {
	lockers   lockerRepository
	contracts lockerContractRepository
	keys      lockerKeyLister
	logs      lockerLogLister
	logger    *zap.Logger
}

// NewLockerService constructs the locker service.
func NewLockerService(lockers lockerRepository, contracts lockerContractRepository, keys lockerKeyLister, logs lockerLogLister, logger *zap.Logger) *LockerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LockerService{
		lockers:   lockers,
		contracts: contracts,
		keys:      keys,
		logs:      logs,
		logger:    logger,
	}
}

// List returns lockers matching the filter.
func (s *LockerService) List(ctx context.Context, filter models.LockerFilter) ([]models.Locker, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown locker status %q", filter.Status))
	}
	lockers, err := s.lockers.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lockers")
	}
	return lockers, nil
}

// Get composes the full locker detail: contract history (latest seq first),
// keys, recent key activity and the resolved current active contract.
func (s *LockerService) Get(ctx context.Context, id string) (*models.LockerDetail, error) {
	locker, err := s.lockers.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "locker not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load locker")
	}
	return s.composeDetail(ctx, locker)
}

// Search resolves a locker by its exact locker number and composes the same
// detail view as Get.
func (s *LockerService) Search(ctx context.Context, lockerNumber string) (*models.LockerDetail, error) {
	if lockerNumber == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lockerNumber parameter is required")
	}
	locker, err := s.lockers.FindByNumber(ctx, lockerNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "locker not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load locker")
	}
	return s.composeDetail(ctx, locker)
}

// UpdateStatus applies a status change, including the operator overrides
// MAINTENANCE and UNIDENTIFIED which are never derived from contract state.
func (s *LockerService) UpdateStatus(ctx context.Context, id string, status models.LockerStatus) (*models.Locker, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown locker status %q", status))
	}
	locker, err := s.lockers.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "locker not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load locker")
	}
	if err := s.lockers.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to update locker")
	}
	s.logger.Info("locker status updated",
		zap.String("locker_id", id),
		zap.String("from", string(locker.Status)),
		zap.String("to", string(status)),
	)
	locker.Status = status
	return locker, nil
}

func (s *LockerService) composeDetail(ctx context.Context, locker *models.Locker) (*models.LockerDetail, error) {
	contracts, err := s.contracts.ListByLocker(ctx, locker.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load locker contracts")
	}
	keys, err := s.keys.ListByLocker(ctx, locker.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load locker keys")
	}
	logs, err := s.logs.List(ctx, models.KeyLogFilter{LockerID: locker.ID, Limit: recentLogLimit})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load key logs")
	}

	detail := &models.LockerDetail{
		Locker:    *locker,
		Contracts: contracts,
		Keys:      keys,
		KeyLogs:   logs,
	}
	for i := range contracts {
		if contracts[i].IsActive {
			detail.CurrentContract = &contracts[i]
			break
		}
	}
	return detail, nil
}
