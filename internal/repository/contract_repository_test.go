package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/hrga-tools/locker-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestContractRepositoryAssignTransaction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewContractRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE contracts SET is_active = false WHERE locker_id = $1 AND is_active = true")).
		WithArgs("lkr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(contract_seq), 0) + 1 FROM contracts WHERE locker_id = $1")).
		WithArgs("lkr-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(4))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contracts")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE lockers SET status = $2, updated_at = $3 WHERE id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	contract, err := repo.Assign(context.Background(), AssignParams{
		LockerID:     "lkr-1",
		EmployeeID:   "emp-1",
		StartDate:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      &end,
		LockerStatus: models.LockerFilled,
	})
	require.NoError(t, err)
	require.Equal(t, 4, contract.ContractSeq)
	require.True(t, contract.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContractRepositoryAssignRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewContractRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE contracts SET is_active = false")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(contract_seq), 0) + 1")).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contracts")).
		WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	_, err := repo.Assign(context.Background(), AssignParams{
		LockerID:     "lkr-1",
		EmployeeID:   "emp-1",
		StartDate:    time.Now(),
		LockerStatus: models.LockerFilled,
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContractRepositoryApplyImportRowWithKeys(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewContractRepository(db)
	firstKey := "key-1"

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contracts")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE lockers SET status = $2, updated_at = $3 WHERE id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE locker_keys SET status = $2, holder_id = $3, updated_at = $4 WHERE locker_id = $1 AND status = $5")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO key_logs")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.ApplyImportRow(context.Background(), ImportRowParams{
		LockerID:    "lkr-1",
		EmployeeID:  "emp-1",
		ContractSeq: 1,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		FirstKeyID:  &firstKey,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContractRepositoryApplyImportRowWithoutKeys(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewContractRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contracts")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE lockers SET status")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ApplyImportRow(context.Background(), ImportRowParams{
		LockerID:    "lkr-1",
		EmployeeID:  "emp-1",
		ContractSeq: 1,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContractRepositoryListActiveEnding(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewContractRepository(db)
	end := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "employee_id", "locker_id", "contract_seq", "start_date", "end_date", "is_active", "created_at", "employee_nik", "employee_name", "department", "locker_number", "room_id"}).
		AddRow("c-1", "emp-1", "lkr-1", 1, time.Now(), end, true, time.Now(), "12345", "Andi", "Produksi", "L/M01/001", "M01")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.is_active = true AND c.end_date IS NOT NULL")).
		WillReturnRows(rows)

	contracts, err := repo.ListActiveEnding(context.Background())
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	require.Equal(t, "L/M01/001", contracts[0].LockerNumber)
	require.NotNil(t, contracts[0].EndDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContractRepositoryNextSeq(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewContractRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(contract_seq), 0) + 1 FROM contracts WHERE locker_id = $1")).
		WithArgs("lkr-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1))

	seq, err := repo.NextSeq(context.Background(), "lkr-1")
	require.NoError(t, err)
	require.Equal(t, 1, seq)
	require.NoError(t, mock.ExpectationsWereMet())
}
