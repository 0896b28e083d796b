package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrga-tools/locker-api/internal/models"
)

func keyDetailColumns() []string {
	return []string{
		"id", "locker_id", "key_number", "physical_key_number", "label", "status",
		"holder_id", "created_at", "updated_at", "locker_number", "room_id",
		"holder_name", "holder_nik",
	}
}

func TestKeyRepositoryListPaginates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewKeyRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(keyDetailColumns()).
		AddRow("key-3", "lkr-2", 1, "M01-002", "Employee Key", "AVAILABLE",
			nil, now, now, "L/M01/002", "M01", nil, nil).
		AddRow("key-4", "lkr-2", 2, nil, "HRGA Backup", "WITH_HRGA",
			nil, now, now, "L/M01/002", "M01", nil, nil)

	mock.ExpectQuery(`(?s)SELECT k\.id, .+WHERE 1=1 AND l\.room_id = \$1 ORDER BY l\.locker_number ASC, k\.key_number ASC LIMIT 2 OFFSET 2`).
		WithArgs("M01").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM locker_keys k`).
		WithArgs("M01").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	keys, total, err := repo.List(context.Background(), models.KeyFilter{RoomID: "M01", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	require.Len(t, keys, 2)
	assert.Equal(t, "key-3", keys[0].ID)
	assert.Equal(t, "L/M01/002", keys[0].LockerNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyRepositoryListDefaultsPageSize(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewKeyRepository(db)

	mock.ExpectQuery(`(?s)SELECT k\.id, .+LIMIT 50 OFFSET 0`).
		WillReturnRows(sqlmock.NewRows(keyDetailColumns()))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM locker_keys k`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	keys, total, err := repo.List(context.Background(), models.KeyFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, keys)
	require.NoError(t, mock.ExpectationsWereMet())
}
