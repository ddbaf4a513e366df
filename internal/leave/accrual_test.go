package leave_test

import (
	"testing"
	"time"

	"go-payroll/internal/leave"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAccruedDays(t *testing.T) {
	total := dec("17")
	rate := dec("1.42")
	start := date("2025-01-01")

	t.Run("nothing before the cycle starts", func(t *testing.T) {
		got := leave.AccruedDays(total, rate, start, date("2024-12-31"))
		assert.True(t, got.IsZero())
		got = leave.AccruedDays(total, rate, start, start)
		assert.True(t, got.IsZero())
	})

	t.Run("full months vest at the monthly rate", func(t *testing.T) {
		got := leave.AccruedDays(total, rate, start, date("2025-07-01"))
		assert.True(t, got.Equal(dec("8.52")), "got %s", got)
	})

	t.Run("partial month prorates by elapsed days", func(t *testing.T) {
		got := leave.AccruedDays(total, rate, start, date("2025-01-16"))
		want := rate.Mul(dec("15").Div(dec("31")))
		assert.True(t, got.Equal(want), "got %s want %s", got, want)
	})

	t.Run("continuous at the month boundary", func(t *testing.T) {
		endOfJan := leave.AccruedDays(total, rate, start, date("2025-01-31"))
		startOfFeb := leave.AccruedDays(total, rate, start, date("2025-02-01"))
		assert.True(t, endOfJan.LessThan(startOfFeb))
		assert.True(t, startOfFeb.Equal(rate), "got %s", startOfFeb)
	})

	t.Run("capped at the cycle total", func(t *testing.T) {
		got := leave.AccruedDays(total, rate, start, date("2027-01-01"))
		assert.True(t, got.Equal(total), "got %s", got)
	})

	t.Run("monotonically non-decreasing", func(t *testing.T) {
		prev := decimal.Zero
		for _, d := range []string{
			"2025-01-05", "2025-01-31", "2025-02-01", "2025-06-15",
			"2025-12-31", "2026-01-01", "2026-06-30",
		} {
			got := leave.AccruedDays(total, rate, start, date(d))
			assert.True(t, got.GreaterThanOrEqual(prev), "accrual dropped at %s", d)
			prev = got
		}
	})
}

func TestRemaining(t *testing.T) {
	t.Run("non-accruing type exposes the grant up front", func(t *testing.T) {
		b := leave.LeaveBalance{
			LeaveType:  leave.TypeSick,
			TotalDays:  dec("30"),
			UsedDays:   dec("10"),
			CycleStart: date("2025-01-01"),
		}
		got := leave.Remaining(b, date("2025-01-02"))
		assert.True(t, got.Equal(dec("20")), "got %s", got)
	})

	t.Run("never negative", func(t *testing.T) {
		b := leave.LeaveBalance{
			LeaveType:  leave.TypeSick,
			TotalDays:  dec("30"),
			UsedDays:   dec("31"),
			CycleStart: date("2025-01-01"),
		}
		assert.True(t, leave.Remaining(b, date("2025-06-01")).IsZero())
	})

	t.Run("annual vests gradually", func(t *testing.T) {
		b := leave.LeaveBalance{
			LeaveType:  leave.TypeAnnual,
			TotalDays:  dec("17"),
			UsedDays:   dec("2"),
			CycleStart: date("2025-01-01"),
		}
		// 6 full months: 8.52 accrued, 2 used
		got := leave.Remaining(b, date("2025-07-01"))
		assert.True(t, got.Equal(dec("6.52")), "got %s", got)
	})
}

func TestResetCycleIfDue(t *testing.T) {
	t.Run("annual resets after 12 months", func(t *testing.T) {
		b := leave.LeaveBalance{
			LeaveType:  leave.TypeAnnual,
			TotalDays:  dec("17"),
			UsedDays:   dec("12"),
			CycleStart: date("2024-01-01"),
		}
		asOf := date("2025-01-01")
		assert.True(t, leave.ResetCycleIfDue(&b, asOf))
		assert.True(t, b.UsedDays.IsZero())
		assert.Equal(t, asOf, b.CycleStart)
	})

	t.Run("not before the cycle ends", func(t *testing.T) {
		b := leave.LeaveBalance{
			LeaveType:  leave.TypeAnnual,
			UsedDays:   dec("12"),
			CycleStart: date("2024-01-01"),
		}
		assert.False(t, leave.ResetCycleIfDue(&b, date("2024-12-31")))
		assert.True(t, b.UsedDays.Equal(dec("12")))
	})

	t.Run("sick resets only after 36 months", func(t *testing.T) {
		b := leave.LeaveBalance{
			LeaveType:  leave.TypeSick,
			UsedDays:   dec("5"),
			CycleStart: date("2022-06-01"),
		}
		assert.False(t, leave.ResetCycleIfDue(&b, date("2025-05-31")))
		assert.True(t, leave.ResetCycleIfDue(&b, date("2025-06-01")))
	})

	t.Run("maternity and parental never auto-reset", func(t *testing.T) {
		for _, lt := range []string{leave.TypeMaternity, leave.TypeParental} {
			b := leave.LeaveBalance{
				LeaveType:  lt,
				UsedDays:   dec("10"),
				CycleStart: date("2020-01-01"),
			}
			assert.False(t, leave.ResetCycleIfDue(&b, date("2026-01-01")), lt)
			assert.True(t, b.UsedDays.Equal(dec("10")))
		}
	})
}

func TestBusinessDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"single working week", "2025-03-03", "2025-03-07", 5},
		{"weekend only", "2025-03-01", "2025-03-02", 0},
		{"spanning a weekend", "2025-03-03", "2025-03-10", 6},
		{"single weekday", "2025-03-05", "2025-03-05", 1},
		{"end before start", "2025-03-07", "2025-03-03", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := leave.BusinessDays(date(tt.start), date(tt.end))
			assert.Equal(t, tt.want, got)
		})
	}
}
