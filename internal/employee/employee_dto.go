package employee

type CreateEmployeeRequest struct {
	FirstName      string  `json:"first_name" binding:"required"`
	LastName       string  `json:"last_name" binding:"required"`
	IDNumber       string  `json:"id_number" binding:"required,len=13,numeric"`
	TaxNumber      *string `json:"tax_number"`
	Classification string  `json:"classification" binding:"required,oneof=salaried hourly"`
	Salary         *string `json:"salary"`
	HourlyRate     *string `json:"hourly_rate"`
	DateJoined     string  `json:"date_joined" binding:"required"`
}

type UpdateEmployeeRequest struct {
	FirstName      string  `json:"first_name" binding:"required"`
	LastName       string  `json:"last_name" binding:"required"`
	IDNumber       string  `json:"id_number" binding:"required,len=13,numeric"`
	TaxNumber      *string `json:"tax_number"`
	Classification string  `json:"classification" binding:"required,oneof=salaried hourly"`
	Salary         *string `json:"salary"`
	HourlyRate     *string `json:"hourly_rate"`
}

type UpdateEmployeeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type EmployeeResponse struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"company_id"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	IDNumber        string  `json:"id_number"`
	TaxNumber       *string `json:"tax_number,omitempty"`
	Classification  string  `json:"classification"`
	Salary          *string `json:"salary,omitempty"`
	HourlyRate      *string `json:"hourly_rate,omitempty"`
	Status          string  `json:"status"`
	StatusChangedAt string  `json:"status_changed_at"`
	DateJoined      string  `json:"date_joined"`
	Birthdate       string  `json:"birthdate,omitempty"`
}
