package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hrga-tools/locker-api/internal/models"
)

const contractDetailColumns = `c.id, c.employee_id, c.locker_id, c.contract_seq, c.start_date, c.end_date, c.is_active, c.created_at,
        e.nik AS employee_nik, e.name AS employee_name, e.department,
        l.locker_number, l.room_id`

// ContractRepository manages persistence for locker contracts.
type ContractRepository struct {
	db *sqlx.DB
}

// NewContractRepository constructs a ContractRepository.
func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// List returns contracts with employee and locker context, newest first.
func (r *ContractRepository) List(ctx context.Context, filter models.ContractFilter) ([]models.ContractDetail, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.LockerID != "" {
		conditions = append(conditions, fmt.Sprintf("c.locker_id = $%d", len(args)+1))
		args = append(args, filter.LockerID)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "c.is_active = true")
	}

	query := fmt.Sprintf(`SELECT %s
        FROM contracts c
        JOIN employees e ON e.id = c.employee_id
        JOIN lockers l ON l.id = c.locker_id
        WHERE %s ORDER BY c.created_at DESC`, contractDetailColumns, strings.Join(conditions, " AND "))

	var contracts []models.ContractDetail
	if err := r.db.SelectContext(ctx, &contracts, query, args...); err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	return contracts, nil
}

// ListByLocker returns a locker's full contract history, latest seq first.
func (r *ContractRepository) ListByLocker(ctx context.Context, lockerID string) ([]models.ContractDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM contracts c
        JOIN employees e ON e.id = c.employee_id
        JOIN lockers l ON l.id = c.locker_id
        WHERE c.locker_id = $1 ORDER BY c.contract_seq DESC`, contractDetailColumns)

	var contracts []models.ContractDetail
	if err := r.db.SelectContext(ctx, &contracts, query, lockerID); err != nil {
		return nil, fmt.Errorf("list locker contracts: %w", err)
	}
	return contracts, nil
}

// ListActiveEnding returns active contracts that carry an end date, ordered
// by end date ascending so the longest-overdue come first. Overdue filtering
// against "today" happens in the service so the date rules live in one place.
func (r *ContractRepository) ListActiveEnding(ctx context.Context) ([]models.ContractDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM contracts c
        JOIN employees e ON e.id = c.employee_id
        JOIN lockers l ON l.id = c.locker_id
        WHERE c.is_active = true AND c.end_date IS NOT NULL
        ORDER BY c.end_date ASC`, contractDetailColumns)

	var contracts []models.ContractDetail
	if err := r.db.SelectContext(ctx, &contracts, query); err != nil {
		return nil, fmt.Errorf("list ending contracts: %w", err)
	}
	return contracts, nil
}

// FindActiveByLocker returns the locker's single active contract, or
// sql.ErrNoRows when the locker is vacant.
func (r *ContractRepository) FindActiveByLocker(ctx context.Context, lockerID string) (*models.Contract, error) {
	const query = `SELECT id, employee_id, locker_id, contract_seq, start_date, end_date, is_active, created_at
        FROM contracts WHERE locker_id = $1 AND is_active = true`
	var contract models.Contract
	if err := r.db.GetContext(ctx, &contract, query, lockerID); err != nil {
		return nil, err
	}
	return &contract, nil
}

// FindActiveByEmployee returns the employee's current assignment with locker
// context, preferring the highest contract sequence.
func (r *ContractRepository) FindActiveByEmployee(ctx context.Context, employeeID string) (*models.ContractDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM contracts c
        JOIN employees e ON e.id = c.employee_id
        JOIN lockers l ON l.id = c.locker_id
        WHERE c.employee_id = $1 AND c.is_active = true
        ORDER BY c.contract_seq DESC LIMIT 1`, contractDetailColumns)
	var contract models.ContractDetail
	if err := r.db.GetContext(ctx, &contract, query, employeeID); err != nil {
		return nil, err
	}
	return &contract, nil
}

// NextSeq returns max(contract_seq)+1 for the locker, starting at 1.
func (r *ContractRepository) NextSeq(ctx context.Context, lockerID string) (int, error) {
	var next int
	const query = `SELECT COALESCE(MAX(contract_seq), 0) + 1 FROM contracts WHERE locker_id = $1`
	if err := r.db.GetContext(ctx, &next, query, lockerID); err != nil {
		return 0, fmt.Errorf("next contract seq: %w", err)
	}
	return next, nil
}

// AssignParams holds values required to assign or renew a locker contract.
type AssignParams struct {
	LockerID     string
	EmployeeID   string
	StartDate    time.Time
	EndDate      *time.Time
	LockerStatus models.LockerStatus
}

// Assign supersedes the locker's active contract with a new one inside a
// single transaction: any active contract is deactivated unconditionally,
// the next sequence number is computed, the new contract is inserted as
// active and the locker status projection is rewritten.
func (r *ContractRepository) Assign(ctx context.Context, params AssignParams) (contract *models.Contract, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin assign transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE contracts SET is_active = false WHERE locker_id = $1 AND is_active = true`, params.LockerID); err != nil {
		return nil, fmt.Errorf("deactivate previous contracts: %w", err)
	}

	var seq int
	if err = tx.GetContext(ctx, &seq, `SELECT COALESCE(MAX(contract_seq), 0) + 1 FROM contracts WHERE locker_id = $1`, params.LockerID); err != nil {
		return nil, fmt.Errorf("next contract seq: %w", err)
	}

	now := time.Now().UTC()
	contract = &models.Contract{
		ID:          uuid.NewString(),
		EmployeeID:  params.EmployeeID,
		LockerID:    params.LockerID,
		ContractSeq: seq,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
		IsActive:    true,
		CreatedAt:   now,
	}
	const insertQuery = `INSERT INTO contracts (id, employee_id, locker_id, contract_seq, start_date, end_date, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err = tx.ExecContext(ctx, insertQuery, contract.ID, contract.EmployeeID, contract.LockerID, contract.ContractSeq, contract.StartDate, contract.EndDate, contract.IsActive, contract.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert contract: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE lockers SET status = $2, updated_at = $3 WHERE id = $1`, params.LockerID, params.LockerStatus, now); err != nil {
		return nil, fmt.Errorf("update locker status: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit assign: %w", err)
	}
	return contract, nil
}

// ImportRowParams holds values required to apply one bulk-import row.
type ImportRowParams struct {
	LockerID    string
	EmployeeID  string
	ContractSeq int
	StartDate   time.Time
	EndDate     *time.Time
	FirstKeyID  *string
}

// ApplyImportRow applies a validated bulk-assignment row in one transaction:
// insert the active contract, mark the locker FILLED, hand every AVAILABLE
// key of the locker to the employee, and append a single TAKEN log entry for
// the locker's first key. A locker without keys gets the contract and status
// change only.
func (r *ContractRepository) ApplyImportRow(ctx context.Context, params ImportRowParams) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	const insertContract = `INSERT INTO contracts (id, employee_id, locker_id, contract_seq, start_date, end_date, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, true, $7)`
	if _, err = tx.ExecContext(ctx, insertContract, uuid.NewString(), params.EmployeeID, params.LockerID, params.ContractSeq, params.StartDate, params.EndDate, now); err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE lockers SET status = $2, updated_at = $3 WHERE id = $1`, params.LockerID, models.LockerFilled, now); err != nil {
		return fmt.Errorf("update locker status: %w", err)
	}

	if params.FirstKeyID != nil {
		const handOverKeys = `UPDATE locker_keys SET status = $2, holder_id = $3, updated_at = $4 WHERE locker_id = $1 AND status = $5`
		if _, err = tx.ExecContext(ctx, handOverKeys, params.LockerID, models.KeyWithEmployee, params.EmployeeID, now, models.KeyAvailable); err != nil {
			return fmt.Errorf("hand over keys: %w", err)
		}

		const insertLog = `INSERT INTO key_logs (id, locker_id, locker_key_id, employee_id, action, method, timestamp)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`
		if _, err = tx.ExecContext(ctx, insertLog, uuid.NewString(), params.LockerID, *params.FirstKeyID, params.EmployeeID, models.ActionTaken, models.MethodManual, now); err != nil {
			return fmt.Errorf("append key log: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit import row: %w", err)
	}
	return nil
}

// CountActiveByLocker reports how many active contracts the locker carries.
// Used by the importer as an independent safety net next to the status check.
func (r *ContractRepository) CountActiveByLocker(ctx context.Context, lockerID string) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM contracts WHERE locker_id = $1 AND is_active = true`
	if err := r.db.GetContext(ctx, &count, query, lockerID); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("count active contracts: %w", err)
	}
	return count, nil
}
