package payrollrun

type CreatePayrollRunRequest struct {
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	Activate    bool   `json:"activate"`
}

type PayrollRunResponse struct {
	ID          string  `json:"id"`
	CompanyID   string  `json:"company_id"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	IsActive    bool    `json:"is_active"`
	IsClosed    bool    `json:"is_closed"`
	ClosedAt    *string `json:"closed_at,omitempty"`
}
