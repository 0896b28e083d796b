package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hrga-tools/locker-api/internal/models"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
)

type keyRepository interface {
	List(ctx context.Context, filter models.KeyFilter) ([]models.LockerKeyDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.LockerKey, error)
	Create(ctx context.Context, key *models.LockerKey) error
	Update(ctx context.Context, key *models.LockerKey) error
	Delete(ctx context.Context, id string) error
}

// CreateKeyRequest holds payload for adding a key to a locker.
type CreateKeyRequest struct {
	LockerID          string           `json:"locker_id" validate:"required"`
	PhysicalKeyNumber *string          `json:"physical_key_number"`
	Label             *string          `json:"label"`
	Status            models.KeyStatus `json:"status"`
}

// UpdateKeyRequest holds partial payload for key PATCH edits. Operators set
// status and holder directly; these edits are not synchronized with the key
// log. DetachHolder clears the holder reference when true.
type UpdateKeyRequest struct {
	Status            *models.KeyStatus `json:"status"`
	HolderID          *string           `json:"holder_id"`
	Label             *string           `json:"label"`
	PhysicalKeyNumber *string           `json:"physical_key_number"`
	DetachHolder      bool              `json:"detach_holder"`
}

// KeyService handles physical key inventory and manual custody edits.
type KeyService struct {
	keys      keyRepository
	lockers   lockerFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewKeyService constructs the key service.
func NewKeyService(keys keyRepository, lockers lockerFinder, validate *validator.Validate, logger *zap.Logger) *KeyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeyService{keys: keys, lockers: lockers, validator: validate, logger: logger}
}

// List returns one page of keys with locker and holder context plus
// pagination metadata.
func (s *KeyService) List(ctx context.Context, filter models.KeyFilter) ([]models.LockerKeyDetail, *models.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown key status %q", filter.Status))
	}
	keys, total, err := s.keys.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list keys")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return keys, pagination, nil
}

// Get returns a single key.
func (s *KeyService) Get(ctx context.Context, id string) (*models.LockerKey, error) {
	key, err := s.keys.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "key not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load key")
	}
	return key, nil
}

// Create adds a key to a locker. The key number is assigned sequentially
// per locker by the repository.
func (s *KeyService) Create(ctx context.Context, req CreateKeyRequest) (*models.LockerKey, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid key payload")
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown key status %q", req.Status))
	}
	if _, err := s.lockers.FindByID(ctx, req.LockerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "locker not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load locker")
	}

	key := &models.LockerKey{
		LockerID:          req.LockerID,
		PhysicalKeyNumber: req.PhysicalKeyNumber,
		Label:             req.Label,
		Status:            req.Status,
	}
	if key.Status == "" {
		key.Status = models.KeyAvailable
	}
	if err := s.keys.Create(ctx, key); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to create key")
	}
	return key, nil
}

// Update applies a partial key edit with PATCH semantics.
func (s *KeyService) Update(ctx context.Context, id string, req UpdateKeyRequest) (*models.LockerKey, error) {
	key, err := s.keys.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "key not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load key")
	}

	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown key status %q", *req.Status))
		}
		key.Status = *req.Status
	}
	if req.DetachHolder {
		key.HolderID = nil
	} else if req.HolderID != nil {
		key.HolderID = req.HolderID
	}
	if req.Label != nil {
		key.Label = req.Label
	}
	if req.PhysicalKeyNumber != nil {
		key.PhysicalKeyNumber = req.PhysicalKeyNumber
	}

	if err := s.keys.Update(ctx, key); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to update key")
	}
	return key, nil
}

// Delete removes a key from its locker.
func (s *KeyService) Delete(ctx context.Context, id string) error {
	if _, err := s.keys.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "key not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load key")
	}
	if err := s.keys.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to delete key")
	}
	return nil
}
