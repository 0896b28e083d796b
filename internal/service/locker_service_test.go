package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrga-tools/locker-api/internal/models"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
)

type fakeLockerRepo struct {
	byID     map[string]*models.Locker
	byNumber map[string]*models.Locker
	statuses map[string]models.LockerStatus
}

func (f *fakeLockerRepo) List(context.Context, models.LockerFilter) ([]models.Locker, error) {
	return nil, nil
}

func (f *fakeLockerRepo) FindByID(_ context.Context, id string) (*models.Locker, error) {
	locker, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *locker
	return &copied, nil
}

func (f *fakeLockerRepo) FindByNumber(_ context.Context, number string) (*models.Locker, error) {
	locker, ok := f.byNumber[number]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *locker
	return &copied, nil
}

func (f *fakeLockerRepo) UpdateStatus(_ context.Context, id string, status models.LockerStatus) error {
	if f.statuses == nil {
		f.statuses = map[string]models.LockerStatus{}
	}
	f.statuses[id] = status
	return nil
}

type fakeLockerContractRepo struct {
	contracts []models.ContractDetail
}

func (f *fakeLockerContractRepo) ListByLocker(context.Context, string) ([]models.ContractDetail, error) {
	return f.contracts, nil
}

type fakeLockerKeyLister struct {
	keys []models.LockerKey
}

func (f *fakeLockerKeyLister) ListByLocker(context.Context, string) ([]models.LockerKey, error) {
	return f.keys, nil
}

type fakeLockerLogLister struct {
	logs       []models.KeyLogDetail
	lastFilter models.KeyLogFilter
}

func (f *fakeLockerLogLister) List(_ context.Context, filter models.KeyLogFilter) ([]models.KeyLogDetail, error) {
	f.lastFilter = filter
	return f.logs, nil
}

func TestLockerServiceGet_ComposesDetail(t *testing.T) {
	locker := &models.Locker{ID: "lkr-1", LockerNumber: "L/M01/001", RoomID: "M01", Status: models.LockerFilled}
	contracts := []models.ContractDetail{
		{Contract: models.Contract{ID: "c-2", ContractSeq: 2, IsActive: true}},
		{Contract: models.Contract{ID: "c-1", ContractSeq: 1}},
	}
	logs := &fakeLockerLogLister{}
	svc := NewLockerService(
		&fakeLockerRepo{byID: map[string]*models.Locker{"lkr-1": locker}},
		&fakeLockerContractRepo{contracts: contracts},
		&fakeLockerKeyLister{keys: []models.LockerKey{{ID: "key-1"}, {ID: "key-2"}}},
		logs,
		zap.NewNop(),
	)

	detail, err := svc.Get(context.Background(), "lkr-1")
	require.NoError(t, err)
	assert.Equal(t, "L/M01/001", detail.LockerNumber)
	assert.Len(t, detail.Contracts, 2)
	assert.Len(t, detail.Keys, 2)
	require.NotNil(t, detail.CurrentContract)
	assert.Equal(t, "c-2", detail.CurrentContract.ID)
	assert.Equal(t, recentLogLimit, logs.lastFilter.Limit)
}

func TestLockerServiceGet_NoActiveContract(t *testing.T) {
	locker := &models.Locker{ID: "lkr-1", Status: models.LockerAvailable}
	svc := NewLockerService(
		&fakeLockerRepo{byID: map[string]*models.Locker{"lkr-1": locker}},
		&fakeLockerContractRepo{contracts: []models.ContractDetail{{Contract: models.Contract{ID: "c-1"}}}},
		&fakeLockerKeyLister{},
		&fakeLockerLogLister{},
		zap.NewNop(),
	)

	detail, err := svc.Get(context.Background(), "lkr-1")
	require.NoError(t, err)
	assert.Nil(t, detail.CurrentContract)
}

func TestLockerServiceSearch_ByNumber(t *testing.T) {
	locker := &models.Locker{ID: "lkr-1", LockerNumber: "L/F01/010"}
	svc := NewLockerService(
		&fakeLockerRepo{byNumber: map[string]*models.Locker{"L/F01/010": locker}},
		&fakeLockerContractRepo{},
		&fakeLockerKeyLister{},
		&fakeLockerLogLister{},
		zap.NewNop(),
	)

	detail, err := svc.Search(context.Background(), "L/F01/010")
	require.NoError(t, err)
	assert.Equal(t, "lkr-1", detail.ID)

	_, err = svc.Search(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Search(context.Background(), "L/X99/999")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestLockerServiceUpdateStatus_AllowsOverrides(t *testing.T) {
	repo := &fakeLockerRepo{byID: map[string]*models.Locker{
		"lkr-1": {ID: "lkr-1", Status: models.LockerAvailable},
	}}
	svc := NewLockerService(repo, &fakeLockerContractRepo{}, &fakeLockerKeyLister{}, &fakeLockerLogLister{}, zap.NewNop())

	locker, err := svc.UpdateStatus(context.Background(), "lkr-1", models.LockerMaintenance)
	require.NoError(t, err)
	assert.Equal(t, models.LockerMaintenance, locker.Status)
	assert.Equal(t, models.LockerMaintenance, repo.statuses["lkr-1"])
}

func TestLockerServiceUpdateStatus_RejectsUnknown(t *testing.T) {
	svc := NewLockerService(&fakeLockerRepo{}, &fakeLockerContractRepo{}, &fakeLockerKeyLister{}, &fakeLockerLogLister{}, zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), "lkr-1", "BROKEN")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
