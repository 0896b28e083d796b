package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hrga-tools/locker-api/internal/models"
)

// KeyLogRepository manages the append-only key hand-off log.
type KeyLogRepository struct {
	db *sqlx.DB
}

// NewKeyLogRepository constructs a KeyLogRepository.
func NewKeyLogRepository(db *sqlx.DB) *KeyLogRepository {
	return &KeyLogRepository{db: db}
}

// List returns log entries with employee and locker context, newest first.
func (r *KeyLogRepository) List(ctx context.Context, filter models.KeyLogFilter) ([]models.KeyLogDetail, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.LockerID != "" {
		conditions = append(conditions, fmt.Sprintf("kl.locker_id = $%d", len(args)+1))
		args = append(args, filter.LockerID)
	}
	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("kl.employee_id = $%d", len(args)+1))
		args = append(args, filter.EmployeeID)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`SELECT kl.id, kl.locker_id, kl.locker_key_id, kl.employee_id, kl.action, kl.method, kl.timestamp,
        e.nik AS employee_nik, e.name AS employee_name, l.locker_number
        FROM key_logs kl
        JOIN employees e ON e.id = kl.employee_id
        JOIN lockers l ON l.id = kl.locker_id
        WHERE %s ORDER BY kl.timestamp DESC LIMIT %d`, strings.Join(conditions, " AND "), limit)

	var logs []models.KeyLogDetail
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("list key logs: %w", err)
	}
	return logs, nil
}

// Latest returns the most recent log entry for a locker, optionally scoped
// to one employee, or sql.ErrNoRows when the locker has no history.
func (r *KeyLogRepository) Latest(ctx context.Context, lockerID, employeeID string) (*models.KeyLog, error) {
	query := `SELECT id, locker_id, locker_key_id, employee_id, action, method, timestamp
        FROM key_logs WHERE locker_id = $1`
	args := []interface{}{lockerID}
	if employeeID != "" {
		query += " AND employee_id = $2"
		args = append(args, employeeID)
	}
	query += " ORDER BY timestamp DESC LIMIT 1"

	var entry models.KeyLog
	if err := r.db.GetContext(ctx, &entry, query, args...); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Append inserts one immutable log entry.
func (r *KeyLogRepository) Append(ctx context.Context, entry *models.KeyLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	const query = `INSERT INTO key_logs (id, locker_id, locker_key_id, employee_id, action, method, timestamp)
        VALUES (:id, :locker_id, :locker_key_id, :employee_id, :action, :method, :timestamp)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("append key log: %w", err)
	}
	return nil
}

// AppendAndRelease records a RETURNED hand-off and frees the locker inside
// one transaction: the log entry is inserted, the locker's active contract
// (if any) is deactivated, and the locker status is set to AVAILABLE
// unconditionally. A RETURNED action is the authoritative "this locker is
// now free" signal.
func (r *KeyLogRepository) AppendAndRelease(ctx context.Context, entry *models.KeyLog) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin release transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	const insertQuery = `INSERT INTO key_logs (id, locker_id, locker_key_id, employee_id, action, method, timestamp)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err = tx.ExecContext(ctx, insertQuery, entry.ID, entry.LockerID, entry.LockerKeyID, entry.EmployeeID, entry.Action, entry.Method, entry.Timestamp); err != nil {
		return fmt.Errorf("append key log: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE contracts SET is_active = false WHERE locker_id = $1 AND is_active = true`, entry.LockerID); err != nil {
		return fmt.Errorf("deactivate contract: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE lockers SET status = $2, updated_at = $3 WHERE id = $1`, entry.LockerID, models.LockerAvailable, time.Now().UTC()); err != nil {
		return fmt.Errorf("release locker: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit release: %w", err)
	}
	return nil
}
