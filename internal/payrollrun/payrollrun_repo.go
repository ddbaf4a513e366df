package payrollrun

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payrollrun_repo.go -destination=mock/payrollrun_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, run *PayrollRun) error
	FindAllByCompany(ctx context.Context, companyID string) ([]PayrollRun, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRun, error)
	FindActiveByCompany(ctx context.Context, companyID string) (*PayrollRun, error)
	Update(ctx context.Context, run *PayrollRun) error
	DeactivateAll(ctx context.Context, companyID string) error
	HasOverlappingPeriod(ctx context.Context, companyID string, start, end time.Time) (bool, error)
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

func (r *repository) Create(ctx context.Context, run *PayrollRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]PayrollRun, error) {
	var runs []PayrollRun
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("period_start DESC").
		Find(&runs).Error
	return runs, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&run, "id = ?", id).Error
	return &run, err
}

func (r *repository) FindActiveByCompany(ctx context.Context, companyID string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("is_active = true").
		First(&run).Error
	return &run, err
}

func (r *repository) Update(ctx context.Context, run *PayrollRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *repository) DeactivateAll(ctx context.Context, companyID string) error {
	return r.db.WithContext(ctx).
		Model(&PayrollRun{}).
		Where("company_id = ?", companyID).
		Where("is_active = true").
		Update("is_active", false).Error
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID string, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PayrollRun{}).
		Where("company_id = ?", companyID).
		Where("NOT (period_end < ? OR period_start > ?)", start, end).
		Count(&count).Error
	return count > 0, err
}
