package payroll

type PayslipResponse struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	PayrollRunID string   `json:"payroll_run_id"`
	GrossIncome  string   `json:"gross_income"`
	Tax          string   `json:"tax"`
	UIF          string   `json:"uif"`
	SDL          string   `json:"sdl"`
	NetPay       string   `json:"net_pay"`
	Warnings     []string `json:"warnings,omitempty"`
}

type EmployeeFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// RunPayrollResponse reports a payroll run: committed payslips plus the
// employees that failed, so one bad record never hides the rest.
type RunPayrollResponse struct {
	PayrollRunID string            `json:"payroll_run_id"`
	Processed    int               `json:"processed"`
	Payslips     []PayslipResponse `json:"payslips"`
	Failures     []EmployeeFailure `json:"failures,omitempty"`
}
