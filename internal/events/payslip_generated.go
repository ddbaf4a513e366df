package events

import "time"

const PayslipGeneratedTopic = "payroll.payslip.generated.v1"

type PayslipGeneratedEvent struct {
	EventType    string    `json:"event_type"`
	PayslipID    string    `json:"payslip_id"`
	PayrollRunID string    `json:"payroll_run_id"`
	EmployeeID   string    `json:"employee_id"`
	CompanyID    string    `json:"company_id"`
	GrossIncome  string    `json:"gross_income"`
	NetPay       string    `json:"net_pay"`
	Warnings     []string  `json:"warnings,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
