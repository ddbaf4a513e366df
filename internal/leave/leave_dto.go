package leave

type SubmitLeaveRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	LeaveType  string `json:"leave_type" binding:"required,oneof=ANNUAL SICK FAMILY MATERNITY PARENTAL STUDY"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason"`

	// YYYY-MM-DD; expected birth date for maternity, actual birth date for parental
	RelatedEventDate *string `json:"related_event_date"`
	Documentation    string  `json:"documentation"`
}

type RejectLeaveRequest struct {
	Reason string `json:"reason"`
}

type LeaveRequestResponse struct {
	ID            string  `json:"id"`
	CompanyID     string  `json:"company_id"`
	EmployeeID    string  `json:"employee_id"`
	LeaveType     string  `json:"leave_type"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	DaysRequested string  `json:"days_requested"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	CreatedBy     string  `json:"created_by"`
	DecidedBy     *string `json:"decided_by,omitempty"`
	DecidedAt     *string `json:"decided_at,omitempty"`
	DecisionNote  string  `json:"decision_note,omitempty"`
}

type LeaveBalanceResponse struct {
	EmployeeID       string  `json:"employee_id"`
	LeaveType        string  `json:"leave_type"`
	TotalDays        string  `json:"total_days"`
	UsedDays         string  `json:"used_days"`
	RemainingDays    string  `json:"remaining_days"`
	CycleStart       string  `json:"cycle_start"`
	RelatedEventDate *string `json:"related_event_date,omitempty"`
}
