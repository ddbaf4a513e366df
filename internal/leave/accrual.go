package leave

import (
	"time"

	"go-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
)

// AccruedDays returns how much of an accruing entitlement has vested by
// asOf: the monthly rate for every completed month since cycleStart, plus
// the in-progress month prorated by elapsed days over the month's length.
// The result never exceeds the cycle total, so accrual stops once the full
// entitlement has vested.
func AccruedDays(total, monthlyRate decimal.Decimal, cycleStart, asOf time.Time) decimal.Decimal {
	if !asOf.After(cycleStart) {
		return decimal.Zero
	}

	fullMonths := 0
	cursor := cycleStart
	for {
		next := cursor.AddDate(0, 1, 0)
		if next.After(asOf) {
			break
		}
		fullMonths++
		cursor = next
	}

	accrued := monthlyRate.Mul(decimal.NewFromInt(int64(fullMonths)))

	elapsed := daysBetween(cursor, asOf)
	if elapsed > 0 {
		monthLen := daysInMonth(cursor)
		fraction := decimal.NewFromInt(int64(elapsed)).Div(decimal.NewFromInt(int64(monthLen)))
		accrued = accrued.Add(monthlyRate.Mul(fraction))
	}

	return money.Min(accrued, total)
}

// Remaining computes the spendable balance at asOf. Accruing types vest
// gradually over the cycle; all others expose the full grant up front.
func Remaining(b LeaveBalance, asOf time.Time) decimal.Decimal {
	available := b.TotalDays
	if p, ok := PolicyFor(b.LeaveType); ok && p.MonthlyAccrual.IsPositive() {
		available = AccruedDays(b.TotalDays, p.MonthlyAccrual, b.CycleStart, asOf)
	}
	return money.NonNegative(available.Sub(b.UsedDays))
}

// ResetCycleIfDue rolls the balance into a fresh cycle when the current one
// has run its course: used days drop to zero and the cycle restarts at asOf.
// Types with CycleMonths zero never reset. Reports whether a reset happened.
func ResetCycleIfDue(b *LeaveBalance, asOf time.Time) bool {
	p, ok := PolicyFor(b.LeaveType)
	if !ok || p.CycleMonths == 0 {
		return false
	}
	cycleEnd := b.CycleStart.AddDate(0, p.CycleMonths, 0)
	if asOf.Before(cycleEnd) {
		return false
	}
	b.UsedDays = decimal.Zero
	b.CycleStart = asOf
	return true
}

// BusinessDays counts weekdays between start and end, both endpoints
// inclusive. Weekends are excluded; public holidays are not modelled.
func BusinessDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

func daysInMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}
