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

// EmployeeRepository manages persistence for employee records.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs an EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List returns employees matching the provided filters, joined with their
// current active locker assignment when one exists.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.EmployeeDetail, error) {
	base := `FROM employees e
        LEFT JOIN contracts c ON c.employee_id = e.id AND c.is_active = true
        LEFT JOIN lockers l ON l.id = c.locker_id`
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.ActiveOnly {
		conditions = append(conditions, "e.is_active = true")
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(e.name) LIKE $%d OR LOWER(e.nik) LIKE $%d OR LOWER(e.department) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	query := fmt.Sprintf(`SELECT e.id, e.nik, e.name, e.department, e.is_active, e.created_at, e.updated_at,
        c.locker_id AS current_locker_id, l.locker_number AS current_locker_number, l.room_id AS current_room_id
        %s WHERE %s ORDER BY e.name ASC`, base, strings.Join(conditions, " AND "))

	var employees []models.EmployeeDetail
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

// FindByID fetches an employee by ID.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	const query = `SELECT id, nik, name, department, is_active, created_at, updated_at FROM employees WHERE id = $1`
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByNIK fetches an employee by their unique NIK.
func (r *EmployeeRepository) FindByNIK(ctx context.Context, nik string) (*models.Employee, error) {
	const query = `SELECT id, nik, name, department, is_active, created_at, updated_at FROM employees WHERE nik = $1`
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, nik); err != nil {
		return nil, err
	}
	return &employee, nil
}

// ExistsByNIK checks if an employee with the given NIK exists, optionally
// excluding an ID.
func (r *EmployeeRepository) ExistsByNIK(ctx context.Context, nik string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM employees WHERE nik = $1"
	args := []interface{}{nik}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check nik: %w", err)
	}
	return true, nil
}

// Create inserts a new employee record.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = now
	}
	employee.UpdatedAt = now
	const query = `INSERT INTO employees (id, nik, name, department, is_active, created_at, updated_at)
        VALUES (:id, :nik, :name, :department, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// Update modifies an existing employee.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	employee.UpdatedAt = time.Now().UTC()
	const query = `UPDATE employees SET nik = :nik, name = :name, department = :department, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

// Delete removes an employee. Referential constraints on contracts and
// key logs decide whether the delete is permitted.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM employees WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}
