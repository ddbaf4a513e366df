package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payslip is the system of record for one employee in one payroll run.
// The (employee, run) pair is unique; re-running payroll overwrites the row
// instead of inserting a second one.
type Payslip struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;index:idx_payslips_employee_run,unique"`
	PayrollRunID uuid.UUID `gorm:"type:uuid;not null;index:idx_payslips_employee_run,unique"`

	GrossIncome decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Tax         decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	UIF         decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	SDL         decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	NetPay      decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	WorkedHoursID *uuid.UUID `gorm:"type:uuid"`

	// Comma-joined warning flags (e.g. missing_worked_hours). Not errors:
	// the amounts are valid, but something upstream deserves attention.
	Warnings string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaxBracket is one row of a progressive tax table. Brackets for a tax year
// are ordered by LowerLimit and partition [0, inf): a nil UpperLimit marks
// the unbounded top bracket.
type TaxBracket struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TaxYear  string    `gorm:"type:varchar(9);not null;index"`
	Ordering int       `gorm:"not null"`

	LowerLimit   decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	UpperLimit   *decimal.Decimal `gorm:"type:numeric(12,2)"`
	BaseTax      decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	MarginalRate decimal.Decimal  `gorm:"type:numeric(5,2);not null"`
}

const (
	FormulaPercentage = "percentage"
	FormulaFixed      = "fixed"
	FormulaCustom     = "custom"
)

// ContributionType is a statutory or company contribution rule. Rates are
// fractions (0.01 = 1%), caps are per period and per side.
type ContributionType struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:text"`

	Formula      string          `gorm:"type:varchar(50);not null;default:'percentage'"`
	EmployeeRate decimal.Decimal `gorm:"type:numeric(5,4);not null;default:0"`
	EmployerRate decimal.Decimal `gorm:"type:numeric(5,4);not null;default:0"`

	MaxEmployeeAmount *decimal.Decimal `gorm:"type:numeric(8,2)"`
	MaxEmployerAmount *decimal.Decimal `gorm:"type:numeric(8,2)"`

	Active bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CompanyContribution stores the computed amounts of one rule for one
// employee in one run.
type CompanyContribution struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID          uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID         uuid.UUID `gorm:"type:uuid;not null;index:idx_contributions_unique,unique"`
	PayrollRunID       uuid.UUID `gorm:"type:uuid;not null;index:idx_contributions_unique,unique"`
	ContributionTypeID uuid.UUID `gorm:"type:uuid;not null;index:idx_contributions_unique,unique"`

	EmployeeAmount decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	EmployerAmount decimal.Decimal `gorm:"type:numeric(8,2);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Allowance is an extra taxable amount for one employee in one run, e.g.
// travel or housing. Allowances join the gross before tax is computed.
type Allowance struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;index:idx_allowances_employee_run"`
	PayrollRunID uuid.UUID `gorm:"type:uuid;not null;index:idx_allowances_employee_run"`

	AllowanceType string          `gorm:"type:varchar(50);not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Deduction is a post-statutory subtraction from net pay, e.g. a garnishee
// order or canteen account. Deductions never change the tax base.
type Deduction struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;index:idx_deductions_employee_run"`
	PayrollRunID uuid.UUID `gorm:"type:uuid;not null;index:idx_deductions_employee_run"`

	DeductionType string          `gorm:"type:varchar(50);not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkingHoursConfig is the company's standard working week, used to
// synthesize an hourly rate from a salary figure. Passed into computations
// explicitly; never read from ambient state.
type WorkingHoursConfig struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	WeeklyHours decimal.Decimal `gorm:"type:numeric(5,2);not null"`

	UseForSalariedEmployees bool `gorm:"not null;default:false"`
	Active                  bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
