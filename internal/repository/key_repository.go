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

// KeyRepository manages persistence for physical locker keys.
type KeyRepository struct {
	db *sqlx.DB
}

// NewKeyRepository constructs a KeyRepository.
func NewKeyRepository(db *sqlx.DB) *KeyRepository {
	return &KeyRepository{db: db}
}

// List returns one page of keys with locker and holder context plus the
// total match count, ordered by locker number then key number.
func (r *KeyRepository) List(ctx context.Context, filter models.KeyFilter) ([]models.LockerKeyDetail, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.LockerID != "" {
		conditions = append(conditions, fmt.Sprintf("k.locker_id = $%d", len(args)+1))
		args = append(args, filter.LockerID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("k.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.HolderID != "" {
		conditions = append(conditions, fmt.Sprintf("k.holder_id = $%d", len(args)+1))
		args = append(args, filter.HolderID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("l.room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}

	base := fmt.Sprintf(`FROM locker_keys k
        JOIN lockers l ON l.id = k.locker_id
        LEFT JOIN employees h ON h.id = k.holder_id
        WHERE %s`, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT k.id, k.locker_id, k.key_number, k.physical_key_number, k.label, k.status, k.holder_id, k.created_at, k.updated_at,
        l.locker_number, l.room_id, h.name AS holder_name, h.nik AS holder_nik
        %s ORDER BY l.locker_number ASC, k.key_number ASC LIMIT %d OFFSET %d`, base, size, offset)

	var keys []models.LockerKeyDetail
	if err := r.db.SelectContext(ctx, &keys, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list keys: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count keys: %w", err)
	}
	return keys, total, nil
}

// ListByLocker returns a locker's keys ordered by key number.
func (r *KeyRepository) ListByLocker(ctx context.Context, lockerID string) ([]models.LockerKey, error) {
	const query = `SELECT id, locker_id, key_number, physical_key_number, label, status, holder_id, created_at, updated_at
        FROM locker_keys WHERE locker_id = $1 ORDER BY key_number ASC`
	var keys []models.LockerKey
	if err := r.db.SelectContext(ctx, &keys, query, lockerID); err != nil {
		return nil, fmt.Errorf("list locker keys: %w", err)
	}
	return keys, nil
}

// FindByID fetches a key by ID.
func (r *KeyRepository) FindByID(ctx context.Context, id string) (*models.LockerKey, error) {
	const query = `SELECT id, locker_id, key_number, physical_key_number, label, status, holder_id, created_at, updated_at
        FROM locker_keys WHERE id = $1`
	var key models.LockerKey
	if err := r.db.GetContext(ctx, &key, query, id); err != nil {
		return nil, err
	}
	return &key, nil
}

// Create inserts a new key for a locker, assigning the next sequential key
// number inside a transaction.
func (r *KeyRepository) Create(ctx context.Context, key *models.LockerKey) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create key transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var next int
	if err = tx.GetContext(ctx, &next, `SELECT COALESCE(MAX(key_number), 0) + 1 FROM locker_keys WHERE locker_id = $1`, key.LockerID); err != nil {
		return fmt.Errorf("next key number: %w", err)
	}

	if key.ID == "" {
		key.ID = uuid.NewString()
	}
	key.KeyNumber = next
	if key.Status == "" {
		key.Status = models.KeyAvailable
	}
	now := time.Now().UTC()
	key.CreatedAt = now
	key.UpdatedAt = now

	const query = `INSERT INTO locker_keys (id, locker_id, key_number, physical_key_number, label, status, holder_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err = tx.ExecContext(ctx, query, key.ID, key.LockerID, key.KeyNumber, key.PhysicalKeyNumber, key.Label, key.Status, key.HolderID, key.CreatedAt, key.UpdatedAt); err != nil {
		return fmt.Errorf("insert key: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create key: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a key.
func (r *KeyRepository) Update(ctx context.Context, key *models.LockerKey) error {
	key.UpdatedAt = time.Now().UTC()
	const query = `UPDATE locker_keys SET physical_key_number = :physical_key_number, label = :label, status = :status, holder_id = :holder_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("update key: %w", err)
	}
	return nil
}

// Delete removes a key from a locker.
func (r *KeyRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM locker_keys WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete key: %w", err)
	}
	return nil
}

// BulkCreate inserts keys in one statement. Used at provisioning time.
func (r *KeyRepository) BulkCreate(ctx context.Context, keys []models.LockerKey) error {
	if len(keys) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range keys {
		if keys[i].ID == "" {
			keys[i].ID = uuid.NewString()
		}
		if keys[i].Status == "" {
			keys[i].Status = models.KeyAvailable
		}
		keys[i].CreatedAt = now
		keys[i].UpdatedAt = now
	}
	const query = `INSERT INTO locker_keys (id, locker_id, key_number, physical_key_number, label, status, holder_id, created_at, updated_at)
        VALUES (:id, :locker_id, :key_number, :physical_key_number, :label, :status, :holder_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, keys); err != nil {
		return fmt.Errorf("bulk create keys: %w", err)
	}
	return nil
}
