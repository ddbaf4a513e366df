package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/payrollrun"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/money"

	"go-payroll/internal/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// WarningInvalidIDNumber flags a payslip computed with the primary rebate
// only because the employee's ID number does not decode to a birthdate.
const WarningInvalidIDNumber = "invalid_id_number"

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	RunPayroll(ctx context.Context, companyID, runID string) (RunPayrollResponse, error)
	GetPayslipsByRun(ctx context.Context, companyID, runID string) ([]PayslipResponse, error)
	GetPayslipByID(ctx context.Context, companyID, id string) (PayslipResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	outbox  kafka.OutboxRepository
	rebates RebateTable
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		outbox:  outboxRepo,
		rebates: DefaultRebates(),
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

// RunPayroll computes a payslip for every active employee of the company in
// the given run. The operation is idempotent: the (employee, run) payslip is
// overwritten on re-run, never duplicated. Each employee commits in its own
// transaction, so one employee's failure leaves the others' payslips intact;
// failures are collected into the response instead of aborting the run.
func (s *service) RunPayroll(ctx context.Context, companyID, runID string) (RunPayrollResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("run payroll requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("run_id", runID),
	)

	if _, err := uuid.Parse(companyID); err != nil {
		return RunPayrollResponse{}, payrollerrors.ErrInvalidCompanyID
	}

	run, err := s.repo.FindRunByIDAndCompany(ctx, companyID, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunPayrollResponse{}, payrollerrors.ErrRunNotFound
		}
		return RunPayrollResponse{}, err
	}
	if run.IsClosed {
		s.logger.Warn("run payroll rejected: run closed", zap.String("run_id", runID))
		return RunPayrollResponse{}, payrollerrors.ErrRunClosed
	}

	taxYear := TaxYearFor(run.PeriodEnd)
	brackets, err := s.loadBrackets(ctx, taxYear)
	if err != nil {
		return RunPayrollResponse{}, err
	}
	if len(brackets) == 0 {
		s.logger.Error("run payroll missing tax brackets", zap.String("tax_year", taxYear))
		return RunPayrollResponse{}, payrollerrors.ErrNoTaxBrackets
	}

	hoursCfg, err := s.repo.FindActiveWorkingHoursConfig(ctx, companyID)
	if err != nil {
		return RunPayrollResponse{}, err
	}
	companyRules, err := s.repo.FindActiveContributionTypes(ctx, companyID)
	if err != nil {
		return RunPayrollResponse{}, err
	}

	// snapshot before fan-out so every employee sees the same set
	employees, err := s.repo.FindActiveEmployees(ctx, companyID)
	if err != nil {
		return RunPayrollResponse{}, err
	}

	report := RunPayrollResponse{PayrollRunID: runID}
	for _, emp := range employees {
		payslip, err := s.processEmployee(ctx, run, emp, brackets, hoursCfg, companyRules)
		if err != nil {
			s.logger.Warn("run payroll employee failed",
				zap.String("run_id", runID),
				zap.String("employee_id", emp.ID.String()),
				zap.Error(err),
			)
			report.Failures = append(report.Failures, EmployeeFailure{
				EmployeeID: emp.ID.String(),
				Reason:     err.Error(),
			})
			continue
		}
		report.Processed++
		report.Payslips = append(report.Payslips, mapPayslipToResponse(*payslip))
	}

	s.logger.Info("run payroll finished",
		zap.String("run_id", runID),
		zap.Int("processed", report.Processed),
		zap.Int("failed", len(report.Failures)),
	)

	return report, nil
}

// loadBrackets collapses concurrent bracket-table reads for the same tax
// year into a single query.
func (s *service) loadBrackets(ctx context.Context, taxYear string) ([]TaxBracket, error) {
	v, err, _ := s.sf.Do(taxYear, func() (interface{}, error) {
		return s.repo.FindBracketsByYear(ctx, taxYear)
	})
	if err != nil {
		return nil, err
	}
	return v.([]TaxBracket), nil
}

func (s *service) processEmployee(
	ctx context.Context,
	run *payrollrun.PayrollRun,
	emp employee.Employee,
	brackets []TaxBracket,
	hoursCfg *WorkingHoursConfig,
	companyRules []ContributionType,
) (*Payslip, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	var workedID *uuid.UUID
	var warnings []string

	whRec, err := qtx.FindWorkedHours(ctx, emp.ID.String(), run.ID.String())
	if err != nil {
		return nil, err
	}
	if whRec != nil {
		workedID = &whRec.ID
	}

	grossRes, err := ComputeGrossPay(emp, whRec, hoursCfg)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, grossRes.Warnings...)

	// allowances are taxable: they join the gross before annualization
	allowances, err := qtx.FindAllowances(ctx, emp.ID.String(), run.ID.String())
	if err != nil {
		return nil, err
	}
	gross := grossRes.Amount
	for _, a := range allowances {
		gross = gross.Add(a.Amount)
	}

	yearStart := TaxYearStart(run.PeriodEnd)
	ytd, err := qtx.YearToDate(ctx, emp.ID.String(), run.ID.String(), yearStart, run.PeriodStart)
	if err != nil {
		return nil, err
	}

	annualized := Annualize(ytd.Gross, gross, ytd.Periods+1)

	rebate := s.rebates.Primary
	if age, ageErr := employee.AgeFromID(emp.IDNumber, run.PeriodEnd); ageErr == nil {
		rebate = s.rebates.ForAge(age)
	} else {
		warnings = append(warnings, WarningInvalidIDNumber)
	}

	annualTax, err := ComputeAnnualTax(brackets, annualized, rebate)
	if err != nil {
		return nil, err
	}
	tax := money.Round2(PeriodTax(annualTax))

	uifEmployee, _ := ComputeContribution(UIFRule(), gross)
	_, sdlEmployer := ComputeContribution(SDLRule(), gross)

	// deductions come off after the statutory amounts and never change the
	// tax base
	deductions, err := qtx.FindDeductions(ctx, emp.ID.String(), run.ID.String())
	if err != nil {
		return nil, err
	}
	net := gross.Sub(tax).Sub(uifEmployee).Sub(sdlEmployer)
	for _, d := range deductions {
		net = net.Sub(d.Amount)
	}

	payslip := &Payslip{
		ID:            uuid.New(),
		CompanyID:     run.CompanyID,
		EmployeeID:    emp.ID,
		PayrollRunID:  run.ID,
		GrossIncome:   gross,
		Tax:           tax,
		UIF:           uifEmployee,
		SDL:           sdlEmployer,
		NetPay:        money.Round2(net),
		WorkedHoursID: workedID,
		Warnings:      strings.Join(warnings, ","),
	}

	if err := qtx.UpsertPayslip(ctx, payslip); err != nil {
		return nil, err
	}

	for _, rule := range companyRules {
		employeeAmount, employerAmount := ComputeContribution(rule, gross)
		contribution := &CompanyContribution{
			ID:                 uuid.New(),
			CompanyID:          run.CompanyID,
			EmployeeID:         emp.ID,
			PayrollRunID:       run.ID,
			ContributionTypeID: rule.ID,
			EmployeeAmount:     employeeAmount,
			EmployerAmount:     employerAmount,
		}
		if err := qtx.UpsertContribution(ctx, contribution); err != nil {
			return nil, err
		}
	}

	if s.outbox != nil {
		if err := s.enqueuePayslipEvent(ctx, tx, payslip, warnings); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if len(warnings) > 0 {
		s.logger.Warn("payslip generated with warnings",
			zap.String("employee_id", emp.ID.String()),
			zap.String("run_id", run.ID.String()),
			zap.Strings("warnings", warnings),
		)
	}

	return payslip, nil
}

func (s *service) enqueuePayslipEvent(ctx context.Context, tx *sql.Tx, payslip *Payslip, warnings []string) error {
	event := events.PayslipGeneratedEvent{
		EventType:    "payslip.generated",
		PayslipID:    payslip.ID.String(),
		PayrollRunID: payslip.PayrollRunID.String(),
		EmployeeID:   payslip.EmployeeID.String(),
		CompanyID:    payslip.CompanyID.String(),
		GrossIncome:  payslip.GrossIncome.StringFixed(2),
		NetPay:       payslip.NetPay.StringFixed(2),
		Warnings:     warnings,
		OccurredAt:   time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payslip",
		AggregateID:   payslip.ID.String(),
		EventType:     event.EventType,
		Topic:         events.PayslipGeneratedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) GetPayslipsByRun(ctx context.Context, companyID, runID string) ([]PayslipResponse, error) {
	payslips, err := s.repo.FindPayslipsByRun(ctx, companyID, runID)
	if err != nil {
		return nil, err
	}
	resp := make([]PayslipResponse, len(payslips))
	for i, p := range payslips {
		resp[i] = mapPayslipToResponse(p)
	}
	return resp, nil
}

func (s *service) GetPayslipByID(ctx context.Context, companyID, id string) (PayslipResponse, error) {
	p, err := s.repo.FindPayslipByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipResponse{}, payrollerrors.ErrPayslipNotFound
		}
		return PayslipResponse{}, err
	}
	return mapPayslipToResponse(*p), nil
}

func mapPayslipToResponse(p Payslip) PayslipResponse {
	resp := PayslipResponse{
		ID:           p.ID.String(),
		EmployeeID:   p.EmployeeID.String(),
		PayrollRunID: p.PayrollRunID.String(),
		GrossIncome:  money.Format(p.GrossIncome),
		Tax:          money.Format(p.Tax),
		UIF:          money.Format(p.UIF),
		SDL:          money.Format(p.SDL),
		NetPay:       money.Format(p.NetPay),
	}
	if p.Warnings != "" {
		resp.Warnings = strings.Split(p.Warnings, ",")
	}
	return resp
}
