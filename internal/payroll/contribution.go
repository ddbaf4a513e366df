package payroll

import (
	"go-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
)

// ComputeContribution evaluates one contribution rule against a gross income
// and returns the (employee, employer) amounts. Each side is capped by its
// configured maximum, then rounded half-up to 2 decimals. The custom formula
// is an explicit placeholder: it yields zero until a pluggable rule exists
// and must never fall through to the percentage path.
func ComputeContribution(rule ContributionType, grossIncome decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	var employeeAmount, employerAmount decimal.Decimal

	switch rule.Formula {
	case FormulaPercentage:
		employeeAmount = grossIncome.Mul(rule.EmployeeRate)
		employerAmount = grossIncome.Mul(rule.EmployerRate)
	case FormulaFixed:
		if rule.MaxEmployeeAmount != nil {
			employeeAmount = *rule.MaxEmployeeAmount
		}
		if rule.MaxEmployerAmount != nil {
			employerAmount = *rule.MaxEmployerAmount
		}
	case FormulaCustom:
		// not implemented yet: zero by definition
	default:
	}

	if rule.MaxEmployeeAmount != nil {
		employeeAmount = money.Min(employeeAmount, *rule.MaxEmployeeAmount)
	}
	if rule.MaxEmployerAmount != nil {
		employerAmount = money.Min(employerAmount, *rule.MaxEmployerAmount)
	}

	return money.Round2(money.NonNegative(employeeAmount)),
		money.Round2(money.NonNegative(employerAmount))
}

// Statutory defaults: UIF at 1% per side of gross up to the remuneration
// ceiling, SDL at 1% employer-side with no ceiling. Both are expressed as
// ContributionType rules so they flow through the same computation as any
// configured contribution. For a linear percentage, capping the amount at
// rate*ceiling is identical to capping the income at the ceiling.
var (
	defaultUIFRate    = decimal.NewFromFloat(0.01)
	defaultUIFCeiling = decimal.NewFromFloat(17712.00)
	defaultSDLRate    = decimal.NewFromFloat(0.01)
)

func UIFRule() ContributionType {
	maxAmount := money.Round2(defaultUIFRate.Mul(defaultUIFCeiling))
	return ContributionType{
		Name:              "UIF",
		Formula:           FormulaPercentage,
		EmployeeRate:      defaultUIFRate,
		EmployerRate:      defaultUIFRate,
		MaxEmployeeAmount: &maxAmount,
		MaxEmployerAmount: &maxAmount,
		Active:            true,
	}
}

func SDLRule() ContributionType {
	return ContributionType{
		Name:         "SDL",
		Formula:      FormulaPercentage,
		EmployeeRate: decimal.Zero,
		EmployerRate: defaultSDLRate,
		Active:       true,
	}
}
