package workedhours

type UpsertWorkedHoursRequest struct {
	EmployeeID        string `json:"employee_id" binding:"required,uuid"`
	PayrollRunID      string `json:"payroll_run_id" binding:"required,uuid"`
	NormalHours       string `json:"normal_hours" binding:"required"`
	OvertimeHours     string `json:"overtime_hours"`
	SaturdayHours     string `json:"saturday_hours"`
	SundayPublicHours string `json:"sunday_public_hours"`
}

type WorkedHoursResponse struct {
	ID                string `json:"id"`
	EmployeeID        string `json:"employee_id"`
	PayrollRunID      string `json:"payroll_run_id"`
	NormalHours       string `json:"normal_hours"`
	OvertimeHours     string `json:"overtime_hours"`
	SaturdayHours     string `json:"saturday_hours"`
	SundayPublicHours string `json:"sunday_public_hours"`
}
