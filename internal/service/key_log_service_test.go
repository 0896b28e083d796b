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
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
)

type fakeKeyLogRepo struct {
	appended  []*models.KeyLog
	released  []*models.KeyLog
	latest    *models.KeyLog
	latestErr error
}

func (f *fakeKeyLogRepo) List(context.Context, models.KeyLogFilter) ([]models.KeyLogDetail, error) {
	return nil, nil
}

func (f *fakeKeyLogRepo) Latest(context.Context, string, string) (*models.KeyLog, error) {
	return f.latest, f.latestErr
}

func (f *fakeKeyLogRepo) Append(_ context.Context, entry *models.KeyLog) error {
	f.appended = append(f.appended, entry)
	return nil
}

func (f *fakeKeyLogRepo) AppendAndRelease(_ context.Context, entry *models.KeyLog) error {
	f.released = append(f.released, entry)
	return nil
}

func newKeyLogService(repo *fakeKeyLogRepo) *KeyLogService {
	return NewKeyLogService(repo,
		&fakeLockerFinder{locker: &models.Locker{ID: "lkr-1"}},
		&fakeEmployeeFinder{employee: &models.Employee{ID: "emp-1"}},
		nil, zap.NewNop(),
	).WithClock(func() time.Time { return time.Date(2024, 6, 15, 8, 30, 0, 0, time.UTC) })
}

func TestKeyLogServiceRecord_TakenOnlyAppends(t *testing.T) {
	repo := &fakeKeyLogRepo{}
	svc := newKeyLogService(repo)

	entry, err := svc.RecordKeyAction(context.Background(), RecordKeyActionRequest{
		LockerID:   "lkr-1",
		EmployeeID: "emp-1",
		Action:     models.ActionTaken,
		Method:     models.MethodQR,
	})
	require.NoError(t, err)
	require.Len(t, repo.appended, 1)
	assert.Empty(t, repo.released)
	assert.Equal(t, models.ActionTaken, entry.Action)
	assert.Equal(t, time.Date(2024, 6, 15, 8, 30, 0, 0, time.UTC), entry.Timestamp)
}

func TestKeyLogServiceRecord_ReturnedReleasesLocker(t *testing.T) {
	repo := &fakeKeyLogRepo{}
	svc := newKeyLogService(repo)

	_, err := svc.RecordKeyAction(context.Background(), RecordKeyActionRequest{
		LockerID:   "lkr-1",
		EmployeeID: "emp-1",
		Action:     models.ActionReturned,
		Method:     models.MethodManual,
	})
	require.NoError(t, err)
	assert.Empty(t, repo.appended)
	require.Len(t, repo.released, 1)
	assert.Equal(t, models.ActionReturned, repo.released[0].Action)
}

func TestKeyLogServiceRecord_RejectsUnknownAction(t *testing.T) {
	svc := newKeyLogService(&fakeKeyLogRepo{})

	_, err := svc.RecordKeyAction(context.Background(), RecordKeyActionRequest{
		LockerID:   "lkr-1",
		EmployeeID: "emp-1",
		Action:     "LOST",
		Method:     models.MethodQR,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestKeyLogServiceRecord_EmployeeNotFound(t *testing.T) {
	svc := NewKeyLogService(&fakeKeyLogRepo{},
		&fakeLockerFinder{locker: &models.Locker{ID: "lkr-1"}},
		&fakeEmployeeFinder{err: sql.ErrNoRows},
		nil, zap.NewNop(),
	)

	_, err := svc.RecordKeyAction(context.Background(), RecordKeyActionRequest{
		LockerID:   "lkr-1",
		EmployeeID: "missing",
		Action:     models.ActionTaken,
		Method:     models.MethodQR,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestKeyLogServiceHasKey(t *testing.T) {
	cases := []struct {
		name   string
		latest *models.KeyLog
		err    error
		want   bool
	}{
		{name: "latest taken", latest: &models.KeyLog{Action: models.ActionTaken}, want: true},
		{name: "latest returned", latest: &models.KeyLog{Action: models.ActionReturned}, want: false},
		{name: "no history", err: sql.ErrNoRows, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newKeyLogService(&fakeKeyLogRepo{latest: tc.latest, latestErr: tc.err})
			got, err := svc.HasKey(context.Background(), "lkr-1", "emp-1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
