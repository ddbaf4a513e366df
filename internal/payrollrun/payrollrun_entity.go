package payrollrun

import (
	"time"

	"github.com/google/uuid"
)

// PayrollRun is a pay period. At most one run is active per company and a
// closed run is immutable: payslips under it can no longer be recomputed.
type PayrollRun struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`

	PeriodStart time.Time `gorm:"type:date;not null"`
	PeriodEnd   time.Time `gorm:"type:date;not null"`
	IsActive    bool      `gorm:"not null;default:false"`
	IsClosed    bool      `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
	ClosedAt  *time.Time
}
