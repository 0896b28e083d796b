package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrga-tools/locker-api/internal/models"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
)

type fakeKeyRepo struct {
	details    []models.LockerKeyDetail
	total      int
	lastFilter models.KeyFilter
}

func (f *fakeKeyRepo) List(_ context.Context, filter models.KeyFilter) ([]models.LockerKeyDetail, int, error) {
	f.lastFilter = filter
	return f.details, f.total, nil
}

func (f *fakeKeyRepo) FindByID(context.Context, string) (*models.LockerKey, error) {
	return nil, nil
}

func (f *fakeKeyRepo) Create(context.Context, *models.LockerKey) error { return nil }

func (f *fakeKeyRepo) Update(context.Context, *models.LockerKey) error { return nil }

func (f *fakeKeyRepo) Delete(context.Context, string) error { return nil }

func TestKeyServiceListReturnsPagination(t *testing.T) {
	repo := &fakeKeyRepo{
		details: []models.LockerKeyDetail{
			{LockerKey: models.LockerKey{ID: "key-1"}, LockerNumber: "L/M01/001", RoomID: "M01"},
		},
		total: 708,
	}
	svc := NewKeyService(repo, &fakeLockerFinder{}, nil, zap.NewNop())

	keys, pagination, err := svc.List(context.Background(), models.KeyFilter{Page: 3, PageSize: 25})
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.NotNil(t, pagination)
	assert.Equal(t, 3, pagination.Page)
	assert.Equal(t, 25, pagination.PageSize)
	assert.Equal(t, 708, pagination.TotalCount)
	assert.Equal(t, 3, repo.lastFilter.Page)
}

func TestKeyServiceListClampsPageDefaults(t *testing.T) {
	repo := &fakeKeyRepo{total: 10}
	svc := NewKeyService(repo, &fakeLockerFinder{}, nil, zap.NewNop())

	_, pagination, err := svc.List(context.Background(), models.KeyFilter{Page: 0, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 50, pagination.PageSize)
}

func TestKeyServiceListRejectsUnknownStatus(t *testing.T) {
	svc := NewKeyService(&fakeKeyRepo{}, &fakeLockerFinder{}, nil, zap.NewNop())

	_, _, err := svc.List(context.Background(), models.KeyFilter{Status: "BENT"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
