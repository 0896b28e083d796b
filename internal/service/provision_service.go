package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hrga-tools/locker-api/internal/models"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
)

type provisionLockerRepository interface {
	Count(ctx context.Context) (int, error)
	BulkCreate(ctx context.Context, lockers []models.Locker) error
}

type provisionKeyRepository interface {
	BulkCreate(ctx context.Context, keys []models.LockerKey) error
}

// ProvisionSummary reports what a provisioning run created.
type ProvisionSummary struct {
	Lockers int  `json:"lockers"`
	Keys    int  `json:"keys"`
	Skipped bool `json:"skipped"`
}

// ProvisionService seeds the fixed facility layout: every room's locker
// slots plus two keys per locker, an engraved employee key and an unnumbered
// HRGA backup held by HRGA. Provisioning is a one-time operation; when any
// lockers already exist the run is skipped entirely rather than reconciled.
type ProvisionService struct {
	lockers provisionLockerRepository
	keys    provisionKeyRepository
	logger  *zap.Logger
}

// NewProvisionService constructs the provisioning service.
func NewProvisionService(lockers provisionLockerRepository, keys provisionKeyRepository, logger *zap.Logger) *ProvisionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProvisionService{lockers: lockers, keys: keys, logger: logger}
}

// Provision creates the full locker and key inventory for the facility.
func (s *ProvisionService) Provision(ctx context.Context) (*ProvisionSummary, error) {
	existing, err := s.lockers.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count lockers")
	}
	if existing > 0 {
		s.logger.Info("lockers already provisioned, skipping", zap.Int("existing", existing))
		return &ProvisionSummary{Skipped: true}, nil
	}

	var lockers []models.Locker
	var keys []models.LockerKey
	for _, room := range models.Rooms {
		for seq := 1; seq <= room.Slots; seq++ {
			lockerID := uuid.NewString()
			lockers = append(lockers, models.Locker{
				ID:           lockerID,
				LockerNumber: models.LockerNumber(room.ID, seq),
				RoomID:       room.ID,
				Status:       models.LockerAvailable,
			})

			physical := fmt.Sprintf("%s-%03d", room.ID, seq)
			employeeLabel := "Employee Key"
			backupLabel := "HRGA Backup"
			keys = append(keys,
				models.LockerKey{
					LockerID:          lockerID,
					KeyNumber:         1,
					PhysicalKeyNumber: &physical,
					Label:             &employeeLabel,
					Status:            models.KeyAvailable,
				},
				models.LockerKey{
					LockerID:  lockerID,
					KeyNumber: 2,
					Label:     &backupLabel,
					Status:    models.KeyWithHRGA,
				},
			)
		}
	}

	if err := s.lockers.BulkCreate(ctx, lockers); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to provision lockers")
	}
	if err := s.keys.BulkCreate(ctx, keys); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to provision keys")
	}

	s.logger.Info("facility provisioned",
		zap.Int("lockers", len(lockers)),
		zap.Int("keys", len(keys)),
	)
	return &ProvisionSummary{Lockers: len(lockers), Keys: len(keys)}, nil
}
