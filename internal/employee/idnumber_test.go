package employee_test

import (
	"testing"
	"time"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBirthdateFromID(t *testing.T) {
	t.Run("nineteenth century rollover", func(t *testing.T) {
		// 90 > 25, so 1990
		birth, err := employee.BirthdateFromID("9001015800085", date("2025-02-28"))
		assert.NoError(t, err)
		assert.Equal(t, date("1990-01-01"), birth)
	})

	t.Run("twenty-first century", func(t *testing.T) {
		// 02 <= 25, so 2002
		birth, err := employee.BirthdateFromID("0203155800085", date("2025-02-28"))
		assert.NoError(t, err)
		assert.Equal(t, date("2002-03-15"), birth)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := employee.BirthdateFromID("90010", date("2025-02-28"))
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidIDNumber)
	})

	t.Run("non-digit prefix", func(t *testing.T) {
		_, err := employee.BirthdateFromID("9A01015800085", date("2025-02-28"))
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidIDNumber)
	})

	t.Run("impossible month", func(t *testing.T) {
		_, err := employee.BirthdateFromID("9013015800085", date("2025-02-28"))
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidIDNumber)
	})

	t.Run("normalized overflow date rejected", func(t *testing.T) {
		// Feb 30 normalizes to Mar 1/2; must not be accepted
		_, err := employee.BirthdateFromID("9002305800085", date("2025-02-28"))
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidIDNumber)
	})
}

func TestAgeFromID(t *testing.T) {
	t.Run("birthday already passed", func(t *testing.T) {
		age, err := employee.AgeFromID("9001015800085", date("2025-06-30"))
		assert.NoError(t, err)
		assert.Equal(t, 35, age)
	})

	t.Run("birthday not yet reached", func(t *testing.T) {
		// born 1990-12-31, as of mid-2025 still 34
		age, err := employee.AgeFromID("9012315800085", date("2025-06-30"))
		assert.NoError(t, err)
		assert.Equal(t, 34, age)
	})

	t.Run("on the birthday itself", func(t *testing.T) {
		age, err := employee.AgeFromID("9001015800085", date("2025-01-01"))
		assert.NoError(t, err)
		assert.Equal(t, 35, age)
	})
}
