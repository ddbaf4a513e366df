package employee

import (
	"time"

	employeeerrors "go-payroll/internal/employee/errors"
)

// BirthdateFromID decodes the date of birth encoded in the first six digits
// of a South African ID number (YYMMDD). The century is disambiguated against
// the as-of date: a two-digit year greater than the current two-digit year is
// taken as 19xx, otherwise 20xx.
func BirthdateFromID(idNumber string, asOf time.Time) (time.Time, error) {
	if len(idNumber) < 6 {
		return time.Time{}, employeeerrors.ErrInvalidIDNumber
	}

	digits := idNumber[:6]
	for _, c := range digits {
		if c < '0' || c > '9' {
			return time.Time{}, employeeerrors.ErrInvalidIDNumber
		}
	}

	yy := int(digits[0]-'0')*10 + int(digits[1]-'0')
	mm := int(digits[2]-'0')*10 + int(digits[3]-'0')
	dd := int(digits[4]-'0')*10 + int(digits[5]-'0')

	century := 2000
	if yy > asOf.Year()%100 {
		century = 1900
	}

	if mm < 1 || mm > 12 {
		return time.Time{}, employeeerrors.ErrInvalidIDNumber
	}
	birth := time.Date(century+yy, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	if birth.Day() != dd || int(birth.Month()) != mm {
		// time.Date normalizes overflow dates (e.g. Feb 30), which means the
		// encoded digits were not a real calendar date.
		return time.Time{}, employeeerrors.ErrInvalidIDNumber
	}

	return birth, nil
}

// AgeFromID returns the employee's age in whole years at the as-of date.
func AgeFromID(idNumber string, asOf time.Time) (int, error) {
	birth, err := BirthdateFromID(idNumber, asOf)
	if err != nil {
		return 0, err
	}

	age := asOf.Year() - birth.Year()
	anniversary := time.Date(asOf.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	if asOf.Before(anniversary) {
		age--
	}
	return age, nil
}
