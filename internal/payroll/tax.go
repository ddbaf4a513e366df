package payroll

import (
	"fmt"
	"time"

	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
)

// PeriodsPerYear is the number of pay periods in a tax year for monthly runs.
const PeriodsPerYear = 12

var hundred = decimal.NewFromInt(100)

// TaxYearFor labels the tax year containing date. The year runs 1 March
// through the following 28/29 February, so January 2025 falls in "2024/2025".
func TaxYearFor(date time.Time) string {
	start := TaxYearStart(date)
	return fmt.Sprintf("%d/%d", start.Year(), start.Year()+1)
}

// TaxYearStart returns 1 March of the tax year containing date.
func TaxYearStart(date time.Time) time.Time {
	year := date.Year()
	if date.Month() < time.March {
		year--
	}
	return time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)
}

// Annualize projects a full-year run rate from partial-year earnings:
// the average period gross so far (including the current period) times 12.
// Recomputed every period as YTD grows, so early-year projections correct
// themselves as more periods land.
func Annualize(ytdGross, currentGross decimal.Decimal, periodsPaid int) decimal.Decimal {
	if periodsPaid < 1 {
		periodsPaid = 1
	}
	total := ytdGross.Add(currentGross)
	return total.Div(decimal.NewFromInt(int64(periodsPaid))).Mul(decimal.NewFromInt(PeriodsPerYear))
}

// ComputeAnnualTax resolves the annual liability for an annualized income
// against a bracket table: base tax at the bracket floor plus the marginal
// rate on the excess, less the rebate, floored at zero.
//
// An empty table is a configuration failure, not a zero-tax outcome.
func ComputeAnnualTax(brackets []TaxBracket, annualIncome, rebate decimal.Decimal) (decimal.Decimal, error) {
	if len(brackets) == 0 {
		return decimal.Zero, payrollerrors.ErrNoTaxBrackets
	}

	for _, b := range brackets {
		if b.UpperLimit != nil && annualIncome.GreaterThan(*b.UpperLimit) {
			continue
		}
		excess := annualIncome.Sub(b.LowerLimit)
		if excess.IsNegative() {
			excess = decimal.Zero
		}
		tax := b.BaseTax.Add(excess.Mul(b.MarginalRate).Div(hundred))
		return money.NonNegative(tax.Sub(rebate)), nil
	}

	// brackets must partition [0, inf); reaching here means the top bracket
	// has an upper bound, which is a broken table
	return decimal.Zero, payrollerrors.ErrNoTaxBrackets
}

// PeriodTax spreads an annual liability evenly over the pay periods.
func PeriodTax(annualTax decimal.Decimal) decimal.Decimal {
	return annualTax.Div(decimal.NewFromInt(PeriodsPerYear))
}

// RebateTable holds the age-tiered annual rebates. Secondary and tertiary
// amounts stack on top of the primary at ages 65 and 75, they do not
// replace it.
type RebateTable struct {
	Primary   decimal.Decimal
	Secondary decimal.Decimal
	Tertiary  decimal.Decimal
}

// DefaultRebates returns the 2024/2025 SARS rebate amounts.
func DefaultRebates() RebateTable {
	return RebateTable{
		Primary:   decimal.NewFromFloat(17235.00),
		Secondary: decimal.NewFromFloat(9444.00),
		Tertiary:  decimal.NewFromFloat(3145.00),
	}
}

func (t RebateTable) ForAge(age int) decimal.Decimal {
	rebate := t.Primary
	if age >= 65 {
		rebate = rebate.Add(t.Secondary)
	}
	if age >= 75 {
		rebate = rebate.Add(t.Tertiary)
	}
	return rebate
}
