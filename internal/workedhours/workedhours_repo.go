package workedhours

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=workedhours_repo.go -destination=mock/workedhours_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, wh *WorkedHours) error
	Update(ctx context.Context, wh *WorkedHours) error
	FindByEmployeeAndRun(ctx context.Context, employeeID, runID string) (*WorkedHours, error)
	FindAllByRun(ctx context.Context, runID string) ([]WorkedHours, error)
	EmployeeClassification(ctx context.Context, companyID, employeeID string) (string, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, wh *WorkedHours) error {
	return r.db.WithContext(ctx).Create(wh).Error
}

func (r *repository) Update(ctx context.Context, wh *WorkedHours) error {
	return r.db.WithContext(ctx).Save(wh).Error
}

func (r *repository) FindByEmployeeAndRun(ctx context.Context, employeeID, runID string) (*WorkedHours, error) {
	var wh WorkedHours
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("payroll_run_id = ?", runID).
		First(&wh).Error
	return &wh, err
}

func (r *repository) FindAllByRun(ctx context.Context, runID string) ([]WorkedHours, error) {
	var records []WorkedHours
	err := r.db.WithContext(ctx).
		Where("payroll_run_id = ?", runID).
		Find(&records).Error
	return records, err
}

func (r *repository) EmployeeClassification(ctx context.Context, companyID, employeeID string) (string, error) {
	var classification string
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("classification").
		Where("id = ?", employeeID).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Scan(&classification).Error
	return classification, err
}
