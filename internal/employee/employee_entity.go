package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ClassificationSalaried = "salaried"
	ClassificationHourly   = "hourly"
)

const (
	StatusActive         = "active"
	StatusSuspended      = "suspended"
	StatusTerminated     = "terminated"
	StatusOnLeave        = "on_leave"
	StatusDeceased       = "deceased"
	StatusRetired        = "retired"
	StatusMaternityLeave = "maternity_leave"
	StatusProbation      = "probation"
	StatusResigned       = "resigned"
)

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_employees_company_status"`

	FirstName string  `gorm:"type:varchar(100);not null"`
	LastName  string  `gorm:"type:varchar(100);not null"`
	IDNumber  string  `gorm:"type:varchar(13);not null"`
	TaxNumber *string `gorm:"type:varchar(20)"`

	// Exactly one of Salary / HourlyRate is authoritative, picked by Classification.
	Classification string           `gorm:"type:varchar(10);not null;default:'salaried'"`
	Salary         *decimal.Decimal `gorm:"type:numeric(10,2)"`
	HourlyRate     *decimal.Decimal `gorm:"type:numeric(7,2)"`

	Status          string    `gorm:"type:varchar(20);not null;default:'active';index:idx_employees_company_status"`
	StatusChangedAt time.Time `gorm:"not null"`
	DateJoined      time.Time `gorm:"type:date;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// IsHourly reports whether pay derives from worked hours instead of a fixed salary.
func (e Employee) IsHourly() bool {
	return e.Classification == ClassificationHourly
}

func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusSuspended, StatusTerminated, StatusOnLeave,
		StatusDeceased, StatusRetired, StatusMaternityLeave, StatusProbation, StatusResigned:
		return true
	}
	return false
}
