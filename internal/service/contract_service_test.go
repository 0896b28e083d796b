package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrga-tools/locker-api/internal/models"
	"github.com/hrga-tools/locker-api/internal/repository"
	"github.com/hrga-tools/locker-api/pkg/dateutil"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
)

type fakeContractRepo struct {
	lastAssign   *repository.AssignParams
	assignErr    error
	activeEnding []models.ContractDetail
	listErr      error
}

func (f *fakeContractRepo) List(context.Context, models.ContractFilter) ([]models.ContractDetail, error) {
	return f.activeEnding, f.listErr
}

func (f *fakeContractRepo) ListActiveEnding(context.Context) ([]models.ContractDetail, error) {
	return f.activeEnding, f.listErr
}

func (f *fakeContractRepo) Assign(_ context.Context, params repository.AssignParams) (*models.Contract, error) {
	if f.assignErr != nil {
		return nil, f.assignErr
	}
	f.lastAssign = &params
	return &models.Contract{
		ID:          "contract-1",
		LockerID:    params.LockerID,
		EmployeeID:  params.EmployeeID,
		ContractSeq: 3,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
		IsActive:    true,
	}, nil
}

type fakeLockerFinder struct {
	locker *models.Locker
	err    error
}

func (f *fakeLockerFinder) FindByID(context.Context, string) (*models.Locker, error) {
	return f.locker, f.err
}

type fakeEmployeeFinder struct {
	employee *models.Employee
	err      error
}

func (f *fakeEmployeeFinder) FindByID(context.Context, string) (*models.Employee, error) {
	return f.employee, f.err
}

func datePtr(t time.Time) *time.Time { return &t }

func TestContractServiceAssign_SetsFilled(t *testing.T) {
	repo := &fakeContractRepo{}
	svc := NewContractService(repo,
		&fakeLockerFinder{locker: &models.Locker{ID: "lkr-1", Status: models.LockerAvailable}},
		&fakeEmployeeFinder{employee: &models.Employee{ID: "emp-1"}},
		nil, zap.NewNop(),
	).WithClock(func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) })

	contract, err := svc.AssignOrExtend(context.Background(), AssignContractRequest{
		LockerID:   "lkr-1",
		EmployeeID: "emp-1",
		StartDate:  "2024-06-01",
		EndDate:    "2024-12-31",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.lastAssign)
	assert.Equal(t, models.LockerFilled, repo.lastAssign.LockerStatus)
	assert.Equal(t, "lkr-1", contract.LockerID)
	require.NotNil(t, contract.EndDate)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), *contract.EndDate)
}

func TestContractServiceAssign_BackdatedEndIsOverdue(t *testing.T) {
	repo := &fakeContractRepo{}
	svc := NewContractService(repo,
		&fakeLockerFinder{locker: &models.Locker{ID: "lkr-1"}},
		&fakeEmployeeFinder{employee: &models.Employee{ID: "emp-1"}},
		nil, zap.NewNop(),
	).WithClock(func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) })

	_, err := svc.AssignOrExtend(context.Background(), AssignContractRequest{
		LockerID:   "lkr-1",
		EmployeeID: "emp-1",
		StartDate:  "2023-01-01",
		EndDate:    "2024-01-01",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.lastAssign)
	assert.Equal(t, models.LockerOverdue, repo.lastAssign.LockerStatus)
}

func TestContractServiceAssign_PermanentHasNoEndDate(t *testing.T) {
	repo := &fakeContractRepo{}
	svc := NewContractService(repo,
		&fakeLockerFinder{locker: &models.Locker{ID: "lkr-1"}},
		&fakeEmployeeFinder{employee: &models.Employee{ID: "emp-1"}},
		nil, zap.NewNop(),
	)

	contract, err := svc.AssignOrExtend(context.Background(), AssignContractRequest{
		LockerID:   "lkr-1",
		EmployeeID: "emp-1",
		StartDate:  "2024-06-01",
	})
	require.NoError(t, err)
	assert.Nil(t, contract.EndDate)
	assert.True(t, contract.Permanent())
	assert.Equal(t, models.LockerFilled, repo.lastAssign.LockerStatus)
}

func TestContractServiceAssign_Validation(t *testing.T) {
	svc := NewContractService(&fakeContractRepo{}, &fakeLockerFinder{}, &fakeEmployeeFinder{}, nil, zap.NewNop())

	_, err := svc.AssignOrExtend(context.Background(), AssignContractRequest{LockerID: "lkr-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.AssignOrExtend(context.Background(), AssignContractRequest{
		LockerID:   "lkr-1",
		EmployeeID: "emp-1",
		StartDate:  "06/01/2024",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestContractServiceAssign_LockerNotFound(t *testing.T) {
	svc := NewContractService(&fakeContractRepo{},
		&fakeLockerFinder{err: sql.ErrNoRows},
		&fakeEmployeeFinder{employee: &models.Employee{ID: "emp-1"}},
		nil, zap.NewNop(),
	)

	_, err := svc.AssignOrExtend(context.Background(), AssignContractRequest{
		LockerID:   "missing",
		EmployeeID: "emp-1",
		StartDate:  "2024-06-01",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestContractServiceListOverdue_FiltersAndEnriches(t *testing.T) {
	today := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	repo := &fakeContractRepo{activeEnding: []models.ContractDetail{
		{Contract: models.Contract{ID: "c-past", EndDate: datePtr(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC))}},
		{Contract: models.Contract{ID: "c-today", EndDate: datePtr(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))}},
		{Contract: models.Contract{ID: "c-future", EndDate: datePtr(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))}},
		{Contract: models.Contract{ID: "c-permanent"}},
	}}
	svc := NewContractService(repo, &fakeLockerFinder{}, &fakeEmployeeFinder{}, nil, zap.NewNop()).
		WithClock(func() time.Time { return today })

	overdue, err := svc.ListOverdue(context.Background())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "c-past", overdue[0].ID)
	assert.Equal(t, -10, overdue[0].RemainingDays)
	assert.Equal(t, dateutil.UrgencyOverdue, overdue[0].Urgency)
}
