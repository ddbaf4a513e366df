package payroll

import (
	"go-payroll/internal/employee"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/money"
	"go-payroll/internal/workedhours"

	"github.com/shopspring/decimal"
)

// WarningMissingWorkedHours flags an hourly employee paid a zero gross
// because no hours were captured for the period. The zero is deliberate
// (unrecorded hours are not an error) but must stay distinguishable from a
// genuinely zero-earnings period.
const WarningMissingWorkedHours = "missing_worked_hours"

var (
	overtimeMultiplier     = decimal.NewFromFloat(1.5)
	saturdayMultiplier     = decimal.NewFromFloat(1.5)
	sundayPublicMultiplier = decimal.NewFromInt(2)

	// average weeks per calendar month, used to turn a weekly-hours figure
	// into a monthly divisor when deriving an hourly rate from a salary
	weeksPerMonth = decimal.NewFromFloat(4.33)
)

type GrossPay struct {
	Amount   decimal.Decimal
	Warnings []string
}

// ComputeGrossPay derives the period gross for one employee.
//
// Salaried employees earn their configured monthly salary. Hourly employees
// earn per captured hour: normal at 1x, overtime and Saturday at 1.5x,
// Sunday/public-holiday at 2x. Intermediate math keeps full precision; the
// result is rounded half-up to 2 decimals once.
func ComputeGrossPay(emp employee.Employee, wh *workedhours.WorkedHours, cfg *WorkingHoursConfig) (GrossPay, error) {
	if !emp.IsHourly() {
		if emp.Salary == nil {
			return GrossPay{Amount: decimal.Zero}, nil
		}
		return GrossPay{Amount: money.Round2(*emp.Salary)}, nil
	}

	if wh == nil {
		return GrossPay{
			Amount:   decimal.Zero,
			Warnings: []string{WarningMissingWorkedHours},
		}, nil
	}

	rate, err := hourlyRate(emp, cfg)
	if err != nil {
		return GrossPay{}, err
	}

	gross := wh.NormalHours.Mul(rate).
		Add(wh.OvertimeHours.Mul(rate).Mul(overtimeMultiplier)).
		Add(wh.SaturdayHours.Mul(rate).Mul(saturdayMultiplier)).
		Add(wh.SundayPublicHours.Mul(rate).Mul(sundayPublicMultiplier))

	return GrossPay{Amount: money.Round2(gross)}, nil
}

// hourlyRate returns the stored rate, or synthesizes one from the salary and
// the company's working week (salary / (weekly hours * 4.33)).
func hourlyRate(emp employee.Employee, cfg *WorkingHoursConfig) (decimal.Decimal, error) {
	if emp.HourlyRate != nil {
		return *emp.HourlyRate, nil
	}
	if emp.Salary == nil {
		return decimal.Zero, payrollerrors.ErrNoHourlyRate
	}
	if cfg == nil || !cfg.Active || cfg.WeeklyHours.IsZero() {
		return decimal.Zero, payrollerrors.ErrNoWorkingHoursConfig
	}

	monthlyHours := cfg.WeeklyHours.Mul(weeksPerMonth)
	return emp.Salary.Div(monthlyHours), nil
}
