package workedhours

import (
	"context"
	"database/sql"
	"errors"

	workedhourserrors "go-payroll/internal/workedhours/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=workedhours_service.go -destination=mock/workedhours_service_mock.go -package=mock
type Service interface {
	Upsert(ctx context.Context, companyID string, req UpsertWorkedHoursRequest) (WorkedHoursResponse, error)
	GetByEmployeeAndRun(ctx context.Context, employeeID, runID string) (WorkedHoursResponse, error)
	GetAllByRun(ctx context.Context, runID string) ([]WorkedHoursResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("workedhours.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workedhours.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Upsert(ctx context.Context, companyID string, req UpsertWorkedHoursRequest) (WorkedHoursResponse, error) {
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return WorkedHoursResponse{}, workedhourserrors.ErrInvalidEmployeeID
	}
	runUUID, err := uuid.Parse(req.PayrollRunID)
	if err != nil {
		return WorkedHoursResponse{}, workedhourserrors.ErrInvalidRunID
	}

	normal, err := parseHours(req.NormalHours)
	if err != nil {
		return WorkedHoursResponse{}, err
	}
	overtime, err := parseHours(req.OvertimeHours)
	if err != nil {
		return WorkedHoursResponse{}, err
	}
	saturday, err := parseHours(req.SaturdayHours)
	if err != nil {
		return WorkedHoursResponse{}, err
	}
	sundayPublic, err := parseHours(req.SundayPublicHours)
	if err != nil {
		return WorkedHoursResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("upsert worked hours begin tx failed", zap.Error(err))
		return WorkedHoursResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	classification, err := qtx.EmployeeClassification(ctx, companyID, req.EmployeeID)
	if err != nil {
		return WorkedHoursResponse{}, err
	}
	if classification == "" {
		return WorkedHoursResponse{}, workedhourserrors.ErrEmployeeNotInCompany
	}
	if classification != "hourly" {
		s.logger.Warn("worked hours rejected for non-hourly employee",
			zap.String("employee_id", req.EmployeeID),
			zap.String("classification", classification),
		)
		return WorkedHoursResponse{}, workedhourserrors.ErrNotHourlyEmployee
	}

	wh, err := qtx.FindByEmployeeAndRun(ctx, req.EmployeeID, req.PayrollRunID)
	switch {
	case err == nil:
		wh.NormalHours = normal
		wh.OvertimeHours = overtime
		wh.SaturdayHours = saturday
		wh.SundayPublicHours = sundayPublic
		err = qtx.Update(ctx, wh)
	case errors.Is(err, gorm.ErrRecordNotFound):
		wh = &WorkedHours{
			ID:                uuid.New(),
			EmployeeID:        employeeUUID,
			PayrollRunID:      runUUID,
			NormalHours:       normal,
			OvertimeHours:     overtime,
			SaturdayHours:     saturday,
			SundayPublicHours: sundayPublic,
		}
		err = qtx.Create(ctx, wh)
	}
	if err != nil {
		s.logger.Error("upsert worked hours persist failed", zap.Error(err))
		return WorkedHoursResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return WorkedHoursResponse{}, err
	}
	s.logger.Info("upsert worked hours success",
		zap.String("employee_id", req.EmployeeID),
		zap.String("run_id", req.PayrollRunID),
	)

	return mapToResponse(*wh), nil
}

func (s *service) GetByEmployeeAndRun(ctx context.Context, employeeID, runID string) (WorkedHoursResponse, error) {
	wh, err := s.repo.FindByEmployeeAndRun(ctx, employeeID, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WorkedHoursResponse{}, workedhourserrors.ErrRecordNotFound
		}
		return WorkedHoursResponse{}, err
	}
	return mapToResponse(*wh), nil
}

func (s *service) GetAllByRun(ctx context.Context, runID string) ([]WorkedHoursResponse, error) {
	records, err := s.repo.FindAllByRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	resp := make([]WorkedHoursResponse, len(records))
	for i, wh := range records {
		resp[i] = mapToResponse(wh)
	}
	return resp, nil
}

func parseHours(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return decimal.Zero, workedhourserrors.ErrInvalidHours
	}
	return d, nil
}

func mapToResponse(wh WorkedHours) WorkedHoursResponse {
	return WorkedHoursResponse{
		ID:                wh.ID.String(),
		EmployeeID:        wh.EmployeeID.String(),
		PayrollRunID:      wh.PayrollRunID.String(),
		NormalHours:       wh.NormalHours.StringFixed(2),
		OvertimeHours:     wh.OvertimeHours.StringFixed(2),
		SaturdayHours:     wh.SaturdayHours.StringFixed(2),
		SundayPublicHours: wh.SundayPublicHours.StringFixed(2),
	}
}
