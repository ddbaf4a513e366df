package employee

import (
	"context"
	"database/sql"
	"errors"
	"time"

	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	UpdateStatus(ctx context.Context, companyID, id string, req UpdateEmployeeStatusRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("classification", req.Classification),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidCompanyID
	}

	dateJoined, err := time.Parse("2006-01-02", req.DateJoined)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidDateFormat
	}

	salary, hourlyRate, err := parseCompensation(req.Classification, req.Salary, req.HourlyRate)
	if err != nil {
		s.logger.Warn("create employee compensation invalid", zap.Error(err))
		return EmployeeResponse{}, err
	}

	now := time.Now().UTC()
	if _, err := BirthdateFromID(req.IDNumber, now); err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e := &Employee{
		ID:              uuid.New(),
		CompanyID:       companyUUID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		IDNumber:        req.IDNumber,
		TaxNumber:       req.TaxNumber,
		Classification:  req.Classification,
		Salary:          salary,
		HourlyRate:      hourlyRate,
		Status:          StatusActive,
		StatusChangedAt: now,
		DateJoined:      dateJoined,
	}

	if err := qtx.Create(ctx, e); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	s.logger.Info("create employee success",
		zap.String("employee_id", e.ID.String()),
		zap.String("company_id", companyID),
	)

	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(employees), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error) {
	e, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	salary, hourlyRate, err := parseCompensation(req.Classification, req.Salary, req.HourlyRate)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if _, err := BirthdateFromID(req.IDNumber, time.Now().UTC()); err != nil {
		return EmployeeResponse{}, err
	}

	e.FirstName = req.FirstName
	e.LastName = req.LastName
	e.IDNumber = req.IDNumber
	e.TaxNumber = req.TaxNumber
	e.Classification = req.Classification
	e.Salary = salary
	e.HourlyRate = hourlyRate

	if err := qtx.Update(ctx, e); err != nil {
		s.logger.Error("update employee persist failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}
	s.logger.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(*e), nil
}

func (s *service) UpdateStatus(ctx context.Context, companyID, id string, req UpdateEmployeeStatusRequest) (EmployeeResponse, error) {
	if !ValidStatus(req.Status) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	if e.Status != req.Status {
		e.Status = req.Status
		e.StatusChangedAt = time.Now().UTC()
	}

	if err := qtx.Update(ctx, e); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}
	s.logger.Info("update employee status success",
		zap.String("employee_id", id),
		zap.String("status", e.Status),
	)

	return mapToResponse(*e), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return err
	}
	return tx.Commit()
}

// parseCompensation enforces the classification invariant: the authoritative
// field must be present and the other side is kept only where an hourly rate
// can still be synthesized from a salary figure.
func parseCompensation(classification string, salary, hourlyRate *string) (*decimal.Decimal, *decimal.Decimal, error) {
	var salaryDec, rateDec *decimal.Decimal

	if salary != nil && *salary != "" {
		d, err := decimal.NewFromString(*salary)
		if err != nil || d.IsNegative() {
			return nil, nil, employeeerrors.ErrSalaryRequired
		}
		salaryDec = &d
	}
	if hourlyRate != nil && *hourlyRate != "" {
		d, err := decimal.NewFromString(*hourlyRate)
		if err != nil || d.IsNegative() {
			return nil, nil, employeeerrors.ErrHourlyRateRequired
		}
		rateDec = &d
	}

	switch classification {
	case ClassificationSalaried:
		if salaryDec == nil {
			return nil, nil, employeeerrors.ErrSalaryRequired
		}
		return salaryDec, nil, nil
	case ClassificationHourly:
		if rateDec == nil && salaryDec == nil {
			return nil, nil, employeeerrors.ErrHourlyRateRequired
		}
		return salaryDec, rateDec, nil
	default:
		return nil, nil, employeeerrors.ErrInvalidClassification
	}
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:              e.ID.String(),
		CompanyID:       e.CompanyID.String(),
		FirstName:       e.FirstName,
		LastName:        e.LastName,
		IDNumber:        e.IDNumber,
		TaxNumber:       e.TaxNumber,
		Classification:  e.Classification,
		Status:          e.Status,
		StatusChangedAt: e.StatusChangedAt.Format(time.RFC3339),
		DateJoined:      e.DateJoined.Format("2006-01-02"),
	}
	if e.Salary != nil {
		v := e.Salary.StringFixed(2)
		resp.Salary = &v
	}
	if e.HourlyRate != nil {
		v := e.HourlyRate.StringFixed(2)
		resp.HourlyRate = &v
	}
	if birth, err := BirthdateFromID(e.IDNumber, time.Now().UTC()); err == nil {
		resp.Birthdate = birth.Format("2006-01-02")
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp
}
