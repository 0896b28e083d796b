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

type fakeEmployeeRepo struct {
	byID      map[string]*models.Employee
	nikExists bool
	updated   *models.Employee
	created   *models.Employee
	deleted   []string
}

func (f *fakeEmployeeRepo) List(context.Context, models.EmployeeFilter) ([]models.EmployeeDetail, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) FindByID(_ context.Context, id string) (*models.Employee, error) {
	employee, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *employee
	return &copied, nil
}

func (f *fakeEmployeeRepo) ExistsByNIK(context.Context, string, string) (bool, error) {
	return f.nikExists, nil
}

func (f *fakeEmployeeRepo) Create(_ context.Context, employee *models.Employee) error {
	f.created = employee
	return nil
}

func (f *fakeEmployeeRepo) Update(_ context.Context, employee *models.Employee) error {
	f.updated = employee
	return nil
}

func (f *fakeEmployeeRepo) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestEmployeeServiceCreate(t *testing.T) {
	repo := &fakeEmployeeRepo{}
	svc := NewEmployeeService(repo, nil, zap.NewNop())

	employee, err := svc.Create(context.Background(), CreateEmployeeRequest{
		NIK:        "12345",
		Name:       "Andi",
		Department: "Produksi",
	})
	require.NoError(t, err)
	assert.True(t, employee.IsActive)
	require.NotNil(t, repo.created)
	assert.Equal(t, "12345", repo.created.NIK)
}

func TestEmployeeServiceCreate_DuplicateNIK(t *testing.T) {
	svc := NewEmployeeService(&fakeEmployeeRepo{nikExists: true}, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		NIK:        "12345",
		Name:       "Andi",
		Department: "Produksi",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestEmployeeServiceUpdate_PartialFields(t *testing.T) {
	repo := &fakeEmployeeRepo{byID: map[string]*models.Employee{
		"emp-1": {ID: "emp-1", NIK: "12345", Name: "Andi", Department: "Produksi", IsActive: true},
	}}
	svc := NewEmployeeService(repo, nil, zap.NewNop())

	name := "Andi Wijaya"
	inactive := false
	updated, err := svc.Update(context.Background(), "emp-1", UpdateEmployeeRequest{
		Name:     &name,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Andi Wijaya", updated.Name)
	assert.Equal(t, "12345", updated.NIK)
	assert.Equal(t, "Produksi", updated.Department)
	assert.False(t, updated.IsActive)
}

func TestEmployeeServiceUpdate_NotFound(t *testing.T) {
	svc := NewEmployeeService(&fakeEmployeeRepo{}, nil, zap.NewNop())

	_, err := svc.Update(context.Background(), "missing", UpdateEmployeeRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEmployeeServiceDelete(t *testing.T) {
	repo := &fakeEmployeeRepo{byID: map[string]*models.Employee{
		"emp-1": {ID: "emp-1"},
	}}
	svc := NewEmployeeService(repo, nil, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "emp-1"))
	assert.Equal(t, []string{"emp-1"}, repo.deleted)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
