package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TypeAnnual    = "ANNUAL"
	TypeSick      = "SICK"
	TypeFamily    = "FAMILY"
	TypeMaternity = "MATERNITY"
	TypeParental  = "PARENTAL"
	TypeStudy     = "STUDY"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Policy is the statutory entitlement for one leave type. CycleMonths of
// zero means the balance never auto-resets; the grant is consumed once.
type Policy struct {
	DefaultTotalDays decimal.Decimal
	CycleMonths      int
	MonthlyAccrual   decimal.Decimal
}

var policies = map[string]Policy{
	TypeAnnual:    {DefaultTotalDays: decimal.NewFromInt(17), CycleMonths: 12, MonthlyAccrual: decimal.NewFromFloat(1.42)},
	TypeSick:      {DefaultTotalDays: decimal.NewFromInt(30), CycleMonths: 36},
	TypeFamily:    {DefaultTotalDays: decimal.NewFromInt(3), CycleMonths: 12},
	TypeMaternity: {DefaultTotalDays: decimal.NewFromInt(121)},
	TypeParental:  {DefaultTotalDays: decimal.NewFromInt(10)},
	TypeStudy:     {DefaultTotalDays: decimal.NewFromInt(5), CycleMonths: 12},
}

func PolicyFor(leaveType string) (Policy, bool) {
	p, ok := policies[leaveType]
	return p, ok
}

// LeaveBalance tracks one employee's entitlement for one leave type. Rows
// are created lazily the first time the pair is touched.
type LeaveBalance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_employee_type"`
	LeaveType  string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_leave_balance_employee_type"`

	TotalDays  decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	UsedDays   decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	CycleStart time.Time       `gorm:"type:date;not null"`

	// expected or actual birth date backing a maternity/parental grant
	RelatedEventDate *time.Time `gorm:"type:date"`
	Documentation    string     `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_company_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`

	LeaveType     string          `gorm:"type:varchar(30);not null"`
	StartDate     time.Time       `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate       time.Time       `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	DaysRequested decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	Reason        string          `gorm:"type:text"`

	Status       string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_company_status"`
	CreatedBy    uuid.UUID  `gorm:"type:uuid;not null"`
	DecidedBy    *uuid.UUID `gorm:"type:uuid"`
	DecidedAt    *time.Time
	DecisionNote string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`
}

func (r *LeaveRequest) Decided() bool {
	return r.Status != StatusPending
}
