package payrollrun

import (
	"context"
	"database/sql"
	"errors"
	"time"

	payrollrunerrors "go-payroll/internal/payrollrun/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payrollrun_service.go -destination=mock/payrollrun_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreatePayrollRunRequest) (PayrollRunResponse, error)
	GetAll(ctx context.Context, companyID string) ([]PayrollRunResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrollRunResponse, error)
	Activate(ctx context.Context, companyID, id string) (PayrollRunResponse, error)
	Close(ctx context.Context, companyID, id string) (PayrollRunResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("payrollrun.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollrun.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreatePayrollRunRequest) (PayrollRunResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PayrollRunResponse{}, payrollrunerrors.ErrInvalidCompanyID
	}

	periodStart, err := parseDate(req.PeriodStart)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	periodEnd, err := parseDate(req.PeriodEnd)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	if periodStart.After(periodEnd) {
		return PayrollRunResponse{}, payrollrunerrors.ErrInvalidPeriod
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create payroll run begin tx failed", zap.Error(err))
		return PayrollRunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, companyID, periodStart, periodEnd)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	if overlap {
		s.logger.Warn("create payroll run overlap detected",
			zap.String("company_id", companyID),
			zap.String("period_start", req.PeriodStart),
			zap.String("period_end", req.PeriodEnd),
		)
		return PayrollRunResponse{}, payrollrunerrors.ErrRunOverlap
	}

	run := &PayrollRun{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		IsActive:    req.Activate,
	}

	if req.Activate {
		// only one run may be active at a time
		if err := qtx.DeactivateAll(ctx, companyID); err != nil {
			return PayrollRunResponse{}, err
		}
	}

	if err := qtx.Create(ctx, run); err != nil {
		s.logger.Error("create payroll run persist failed", zap.Error(err))
		return PayrollRunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollRunResponse{}, err
	}
	s.logger.Info("create payroll run success",
		zap.String("run_id", run.ID.String()),
		zap.String("company_id", companyID),
		zap.Bool("active", run.IsActive),
	)

	return mapToResponse(*run), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]PayrollRunResponse, error) {
	runs, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]PayrollRunResponse, len(runs))
	for i, run := range runs {
		resp[i] = mapToResponse(run)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PayrollRunResponse, error) {
	run, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollRunResponse{}, payrollrunerrors.ErrRunNotFound
		}
		return PayrollRunResponse{}, err
	}
	return mapToResponse(*run), nil
}

func (s *service) Activate(ctx context.Context, companyID, id string) (PayrollRunResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollRunResponse{}, payrollrunerrors.ErrRunNotFound
		}
		return PayrollRunResponse{}, err
	}
	if run.IsClosed {
		return PayrollRunResponse{}, payrollrunerrors.ErrRunClosed
	}

	if err := qtx.DeactivateAll(ctx, companyID); err != nil {
		return PayrollRunResponse{}, err
	}

	run.IsActive = true
	if err := qtx.Update(ctx, run); err != nil {
		return PayrollRunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollRunResponse{}, err
	}
	s.logger.Info("activate payroll run success", zap.String("run_id", id))

	return mapToResponse(*run), nil
}

func (s *service) Close(ctx context.Context, companyID, id string) (PayrollRunResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollRunResponse{}, payrollrunerrors.ErrRunNotFound
		}
		return PayrollRunResponse{}, err
	}
	if run.IsClosed {
		return PayrollRunResponse{}, payrollrunerrors.ErrRunAlreadyClosed
	}

	now := time.Now().UTC()
	run.IsClosed = true
	run.IsActive = false
	run.ClosedAt = &now

	if err := qtx.Update(ctx, run); err != nil {
		s.logger.Error("close payroll run persist failed", zap.String("run_id", id), zap.Error(err))
		return PayrollRunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollRunResponse{}, err
	}
	s.logger.Info("close payroll run success", zap.String("run_id", id))

	return mapToResponse(*run), nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, payrollrunerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(run PayrollRun) PayrollRunResponse {
	resp := PayrollRunResponse{
		ID:          run.ID.String(),
		CompanyID:   run.CompanyID.String(),
		PeriodStart: run.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   run.PeriodEnd.Format("2006-01-02"),
		IsActive:    run.IsActive,
		IsClosed:    run.IsClosed,
	}
	if run.ClosedAt != nil {
		v := run.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &v
	}
	return resp
}
