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

// LockerRepository manages persistence for locker records.
type LockerRepository struct {
	db *sqlx.DB
}

// NewLockerRepository constructs a LockerRepository.
func NewLockerRepository(db *sqlx.DB) *LockerRepository {
	return &LockerRepository{db: db}
}

// List returns lockers matching the provided filters ordered by number.
func (r *LockerRepository) List(ctx context.Context, filter models.LockerFilter) ([]models.Locker, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	query := fmt.Sprintf(`SELECT id, locker_number, room_id, status, created_at, updated_at
        FROM lockers WHERE %s ORDER BY locker_number ASC`, strings.Join(conditions, " AND "))

	var lockers []models.Locker
	if err := r.db.SelectContext(ctx, &lockers, query, args...); err != nil {
		return nil, fmt.Errorf("list lockers: %w", err)
	}
	return lockers, nil
}

// FindByID fetches a locker by ID.
func (r *LockerRepository) FindByID(ctx context.Context, id string) (*models.Locker, error) {
	const query = `SELECT id, locker_number, room_id, status, created_at, updated_at FROM lockers WHERE id = $1`
	var locker models.Locker
	if err := r.db.GetContext(ctx, &locker, query, id); err != nil {
		return nil, err
	}
	return &locker, nil
}

// FindByNumber fetches a locker by its exact locker number.
func (r *LockerRepository) FindByNumber(ctx context.Context, lockerNumber string) (*models.Locker, error) {
	const query = `SELECT id, locker_number, room_id, status, created_at, updated_at FROM lockers WHERE locker_number = $1`
	var locker models.Locker
	if err := r.db.GetContext(ctx, &locker, query, lockerNumber); err != nil {
		return nil, err
	}
	return &locker, nil
}

// UpdateStatus sets the stored status projection for a locker.
func (r *LockerRepository) UpdateStatus(ctx context.Context, id string, status models.LockerStatus) error {
	const query = `UPDATE lockers SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update locker status: %w", err)
	}
	return nil
}

// CountByStatus returns locker counts grouped by status.
func (r *LockerRepository) CountByStatus(ctx context.Context) (map[models.LockerStatus]int, error) {
	const query = `SELECT status, COUNT(*) AS count FROM lockers GROUP BY status`
	rows := []struct {
		Status models.LockerStatus `db:"status"`
		Count  int                 `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count lockers: %w", err)
	}
	counts := make(map[models.LockerStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Count returns the total number of provisioned lockers.
func (r *LockerRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM lockers`); err != nil {
		return 0, fmt.Errorf("count lockers: %w", err)
	}
	return total, nil
}

// BulkCreate inserts lockers in one statement. Used at provisioning time.
func (r *LockerRepository) BulkCreate(ctx context.Context, lockers []models.Locker) error {
	if len(lockers) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range lockers {
		if lockers[i].ID == "" {
			lockers[i].ID = uuid.NewString()
		}
		if lockers[i].Status == "" {
			lockers[i].Status = models.LockerAvailable
		}
		lockers[i].CreatedAt = now
		lockers[i].UpdatedAt = now
	}
	const query = `INSERT INTO lockers (id, locker_number, room_id, status, created_at, updated_at)
        VALUES (:id, :locker_number, :room_id, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lockers); err != nil {
		return fmt.Errorf("bulk create lockers: %w", err)
	}
	return nil
}
