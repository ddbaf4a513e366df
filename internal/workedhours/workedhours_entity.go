package workedhours

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkedHours captures the hours of an hourly employee for one payroll run.
// One record per (employee, run); salaried employees never have one.
type WorkedHours struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;index:idx_worked_hours_employee_run,unique"`
	PayrollRunID uuid.UUID `gorm:"type:uuid;not null;index:idx_worked_hours_employee_run,unique"`

	NormalHours       decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	OvertimeHours     decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	SaturdayHours     decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	SundayPublicHours decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
