package payroll

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/payrollrun"
	"go-payroll/internal/workedhours"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// YearToDate aggregates prior payslips for one employee inside the current
// tax year, up to but excluding the in-progress run.
type YearToDate struct {
	Gross   decimal.Decimal
	Periods int
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	FindRunByIDAndCompany(ctx context.Context, companyID, runID string) (*payrollrun.PayrollRun, error)
	FindActiveEmployees(ctx context.Context, companyID string) ([]employee.Employee, error)
	FindWorkedHours(ctx context.Context, employeeID, runID string) (*workedhours.WorkedHours, error)

	FindBracketsByYear(ctx context.Context, taxYear string) ([]TaxBracket, error)
	FindActiveWorkingHoursConfig(ctx context.Context, companyID string) (*WorkingHoursConfig, error)
	FindActiveContributionTypes(ctx context.Context, companyID string) ([]ContributionType, error)

	FindAllowances(ctx context.Context, employeeID, runID string) ([]Allowance, error)
	FindDeductions(ctx context.Context, employeeID, runID string) ([]Deduction, error)

	YearToDate(ctx context.Context, employeeID, excludeRunID string, taxYearStart, periodStart time.Time) (YearToDate, error)

	FindPayslipByEmployeeAndRun(ctx context.Context, employeeID, runID string) (*Payslip, error)
	UpsertPayslip(ctx context.Context, p *Payslip) error
	UpsertContribution(ctx context.Context, c *CompanyContribution) error
	FindPayslipsByRun(ctx context.Context, companyID, runID string) ([]Payslip, error)
	FindPayslipByIDAndCompany(ctx context.Context, companyID, id string) (*Payslip, error)
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

func (r *repository) FindRunByIDAndCompany(ctx context.Context, companyID, runID string) (*payrollrun.PayrollRun, error) {
	var run payrollrun.PayrollRun
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&run, "id = ?", runID).Error
	return &run, err
}

func (r *repository) FindActiveEmployees(ctx context.Context, companyID string) ([]employee.Employee, error) {
	var employees []employee.Employee
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("status = ?", employee.StatusActive).
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindWorkedHours(ctx context.Context, employeeID, runID string) (*workedhours.WorkedHours, error) {
	var wh workedhours.WorkedHours
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("payroll_run_id = ?", runID).
		First(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *repository) FindBracketsByYear(ctx context.Context, taxYear string) ([]TaxBracket, error) {
	var brackets []TaxBracket
	err := r.db.WithContext(ctx).
		Where("tax_year = ?", taxYear).
		Order("lower_limit ASC").
		Find(&brackets).Error
	return brackets, err
}

func (r *repository) FindActiveWorkingHoursConfig(ctx context.Context, companyID string) (*WorkingHoursConfig, error) {
	var cfg WorkingHoursConfig
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("active = true").
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *repository) FindActiveContributionTypes(ctx context.Context, companyID string) ([]ContributionType, error) {
	var types []ContributionType
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("active = true").
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindAllowances(ctx context.Context, employeeID, runID string) ([]Allowance, error) {
	var allowances []Allowance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("payroll_run_id = ?", runID).
		Find(&allowances).Error
	return allowances, err
}

func (r *repository) FindDeductions(ctx context.Context, employeeID, runID string) ([]Deduction, error) {
	var deductions []Deduction
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("payroll_run_id = ?", runID).
		Find(&deductions).Error
	return deductions, err
}

func (r *repository) YearToDate(ctx context.Context, employeeID, excludeRunID string, taxYearStart, periodStart time.Time) (YearToDate, error) {
	var row struct {
		Gross   decimal.Decimal
		Periods int
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(p.gross_income), 0) AS gross, COUNT(*) AS periods
		FROM payslips p
		JOIN payroll_runs r ON r.id = p.payroll_run_id
		WHERE p.employee_id = ?
		  AND p.payroll_run_id <> ?
		  AND r.period_start >= ?
		  AND r.period_start < ?
	`, employeeID, excludeRunID, taxYearStart, periodStart).Scan(&row).Error
	if err != nil {
		return YearToDate{}, err
	}
	return YearToDate{Gross: row.Gross, Periods: row.Periods}, nil
}

func (r *repository) FindPayslipByEmployeeAndRun(ctx context.Context, employeeID, runID string) (*Payslip, error) {
	var p Payslip
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("payroll_run_id = ?", runID).
		First(&p).Error
	return &p, err
}

// UpsertPayslip keeps the (employee, run) uniqueness invariant: a re-run
// overwrites the existing row in place instead of inserting a duplicate.
func (r *repository) UpsertPayslip(ctx context.Context, p *Payslip) error {
	existing, err := r.FindPayslipByEmployeeAndRun(ctx, p.EmployeeID.String(), p.PayrollRunID.String())
	if err == nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		return r.db.WithContext(ctx).Save(p).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(p).Error
	}
	return err
}

func (r *repository) UpsertContribution(ctx context.Context, c *CompanyContribution) error {
	var existing CompanyContribution
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", c.EmployeeID).
		Where("payroll_run_id = ?", c.PayrollRunID).
		Where("contribution_type_id = ?", c.ContributionTypeID).
		First(&existing).Error
	if err == nil {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
		return r.db.WithContext(ctx).Save(c).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(c).Error
	}
	return err
}

func (r *repository) FindPayslipsByRun(ctx context.Context, companyID, runID string) ([]Payslip, error) {
	var payslips []Payslip
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("payroll_run_id = ?", runID).
		Order("created_at ASC").
		Find(&payslips).Error
	return payslips, err
}

func (r *repository) FindPayslipByIDAndCompany(ctx context.Context, companyID, id string) (*Payslip, error) {
	var p Payslip
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&p, "id = ?", id).Error
	return &p, err
}
