package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-payroll/internal/events"
	leaveerrors "go-payroll/internal/leave/errors"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ParentalWindowDays bounds how long after the birth reference date a
// parental leave may start.
const ParentalWindowDays = 120

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	SubmitRequest(ctx context.Context, companyID, actorID string, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LeaveRequestResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveRequestResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, companyID, actorID, id, reason string) (LeaveRequestResponse, error)
	GetBalances(ctx context.Context, companyID, employeeID string) ([]LeaveBalanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
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
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

func (s *service) SubmitRequest(ctx context.Context, companyID, actorID string, req SubmitLeaveRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	createdByUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	if _, ok := PolicyFor(req.LeaveType); !ok {
		return LeaveRequestResponse{}, leaveerrors.ErrUnknownLeaveType
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidDateRange
	}

	// a weekend-only range consumes nothing; rejecting it here keeps
	// zero-day requests out of the approval queue
	businessDays := BusinessDays(startDate, endDate)
	if businessDays == 0 {
		return LeaveRequestResponse{}, leaveerrors.ErrNoBusinessDays
	}

	eventDate, err := parseOptionalDate(req.RelatedEventDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if err := validateTypeRules(req.LeaveType, startDate, eventDate, req.Reason); err != nil {
		return LeaveRequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.EmployeeBelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if !belongs {
		return LeaveRequestResponse{}, leaveerrors.ErrEmployeeNotInCompany
	}

	overlap, err := qtx.HasOverlappingRequest(ctx, companyID, req.EmployeeID, startDate, endDate, nil)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if overlap {
		s.logger.Warn("submit leave overlap detected",
			zap.String("employee_id", req.EmployeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrLeaveOverlap
	}

	now := time.Now().UTC()
	daysRequested := decimal.NewFromInt(int64(businessDays))

	balance, err := s.loadOrCreateBalance(ctx, qtx, companyUUID, employeeUUID, req.LeaveType, eventDate, req.Documentation, now)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	if daysRequested.GreaterThan(Remaining(*balance, now)) {
		s.logger.Warn("submit leave insufficient balance",
			zap.String("employee_id", req.EmployeeID),
			zap.String("leave_type", req.LeaveType),
			zap.String("days_requested", daysRequested.String()),
			zap.String("remaining", Remaining(*balance, now).String()),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrInsufficientBalance
	}

	l := &LeaveRequest{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		EmployeeID:    employeeUUID,
		LeaveType:     req.LeaveType,
		StartDate:     startDate,
		EndDate:       endDate,
		DaysRequested: daysRequested,
		Reason:        req.Reason,
		Status:        StatusPending,
		CreatedBy:     createdByUUID,
	}

	if err := qtx.CreateRequest(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	s.logger.Info("submit leave success",
		zap.String("request_id", l.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
	)

	return mapRequestToResponse(*l), nil
}

// validateTypeRules enforces the per-type submission constraints. Family
// leave needs a reason, maternity needs an expected birth date on or after
// the start, parental must start within the window after the birth.
func validateTypeRules(leaveType string, startDate time.Time, eventDate *time.Time, reason string) error {
	switch leaveType {
	case TypeFamily:
		if strings.TrimSpace(reason) == "" {
			return leaveerrors.ErrReasonRequired
		}
	case TypeMaternity:
		if eventDate == nil {
			return leaveerrors.ErrEventDateRequired
		}
		if eventDate.Before(startDate) {
			return leaveerrors.ErrEventDateBeforeStart
		}
	case TypeParental:
		if eventDate == nil {
			return leaveerrors.ErrEventDateRequired
		}
		offset := daysBetween(*eventDate, startDate)
		if offset < 0 || offset > ParentalWindowDays {
			return leaveerrors.ErrParentalWindowExceeded
		}
	}
	return nil
}

// loadOrCreateBalance fetches the employee's balance for the type, creating
// it from policy defaults on first touch and rolling the cycle if it has
// lapsed. The caller's transaction decides whether any of this sticks.
func (s *service) loadOrCreateBalance(
	ctx context.Context,
	qtx Repository,
	companyID, employeeID uuid.UUID,
	leaveType string,
	eventDate *time.Time,
	documentation string,
	now time.Time,
) (*LeaveBalance, error) {
	balance, err := qtx.FindBalance(ctx, employeeID.String(), leaveType)
	if err != nil {
		return nil, err
	}

	if balance == nil {
		policy, _ := PolicyFor(leaveType)
		balance = &LeaveBalance{
			ID:               uuid.New(),
			CompanyID:        companyID,
			EmployeeID:       employeeID,
			LeaveType:        leaveType,
			TotalDays:        policy.DefaultTotalDays,
			UsedDays:         decimal.Zero,
			CycleStart:       now,
			RelatedEventDate: eventDate,
			Documentation:    documentation,
		}
		if err := qtx.CreateBalance(ctx, balance); err != nil {
			return nil, err
		}
		return balance, nil
	}

	changed := ResetCycleIfDue(balance, now)
	if eventDate != nil {
		balance.RelatedEventDate = eventDate
		changed = true
	}
	if documentation != "" {
		balance.Documentation = documentation
		changed = true
	}
	if changed {
		if err := qtx.UpdateBalance(ctx, balance); err != nil {
			return nil, err
		}
	}
	return balance, nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindRequestsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]LeaveRequestResponse, len(requests))
	for i, r := range requests {
		resp[i] = mapRequestToResponse(r)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveRequestResponse, error) {
	r, err := s.repo.FindRequestByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	return mapRequestToResponse(*r), nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (LeaveRequestResponse, error) {
	return s.decideRequest(ctx, companyID, actorID, id, StatusApproved, "")
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id, reason string) (LeaveRequestResponse, error) {
	return s.decideRequest(ctx, companyID, actorID, id, StatusRejected, reason)
}

// decideRequest settles a pending request exactly once. Approval consumes the
// requested days from the balance; rejection only stamps the decision. An
// already-decided request is rejected before anything is touched.
func (s *service) decideRequest(ctx context.Context, companyID, actorID, id, targetStatus, note string) (LeaveRequestResponse, error) {
	s.logger.Debug("decide leave requested",
		zap.String("request_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("target_status", targetStatus),
	)

	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindRequestByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if l.Decided() {
		s.logger.Warn("decide leave already decided",
			zap.String("request_id", id),
			zap.String("status", l.Status),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrAlreadyDecided
	}

	now := time.Now().UTC()

	if targetStatus == StatusApproved {
		balance, err := s.loadOrCreateBalance(ctx, qtx, l.CompanyID, l.EmployeeID, l.LeaveType, nil, "", now)
		if err != nil {
			return LeaveRequestResponse{}, err
		}
		balance.UsedDays = balance.UsedDays.Add(l.DaysRequested)
		if err := qtx.UpdateBalance(ctx, balance); err != nil {
			return LeaveRequestResponse{}, err
		}
	}

	l.Status = targetStatus
	l.DecidedBy = &actorUUID
	l.DecidedAt = &now
	l.DecisionNote = note

	if err := qtx.UpdateRequest(ctx, l); err != nil {
		s.logger.Error("decide leave persist failed",
			zap.String("request_id", id),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	if s.outbox != nil {
		if err := s.enqueueDecidedEvent(ctx, tx, l, actorID); err != nil {
			return LeaveRequestResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed",
			zap.String("request_id", id),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}
	s.logger.Info("decide leave success",
		zap.String("request_id", id),
		zap.String("status", targetStatus),
	)

	return mapRequestToResponse(*l), nil
}

func (s *service) enqueueDecidedEvent(ctx context.Context, tx *sql.Tx, l *LeaveRequest, actorID string) error {
	event := events.LeaveRequestDecidedEvent{
		EventType:  "leave.request.decided",
		RequestID:  l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		CompanyID:  l.CompanyID.String(),
		LeaveType:  l.LeaveType,
		Status:     l.Status,
		DecidedBy:  actorID,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveRequestDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// GetBalances reports every leave type for the employee. Types without a
// stored row yet are reported from policy defaults without persisting them.
func (s *service) GetBalances(ctx context.Context, companyID, employeeID string) ([]LeaveBalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}

	belongs, err := s.repo.EmployeeBelongsToCompany(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	if !belongs {
		return nil, leaveerrors.ErrEmployeeNotInCompany
	}

	stored, err := s.repo.FindBalancesByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	byType := make(map[string]LeaveBalance, len(stored))
	for _, b := range stored {
		byType[b.LeaveType] = b
	}

	now := time.Now().UTC()
	types := []string{TypeAnnual, TypeFamily, TypeMaternity, TypeParental, TypeSick, TypeStudy}
	resp := make([]LeaveBalanceResponse, 0, len(types))
	for _, t := range types {
		b, ok := byType[t]
		if !ok {
			policy, _ := PolicyFor(t)
			b = LeaveBalance{
				LeaveType:  t,
				TotalDays:  policy.DefaultTotalDays,
				UsedDays:   decimal.Zero,
				CycleStart: now,
			}
		}
		resp = append(resp, mapBalanceToResponse(employeeID, b, now))
	}
	return resp, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func parseOptionalDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := parseDate(*v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func mapRequestToResponse(l LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:            l.ID.String(),
		CompanyID:     l.CompanyID.String(),
		EmployeeID:    l.EmployeeID.String(),
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate.Format("2006-01-02"),
		EndDate:       l.EndDate.Format("2006-01-02"),
		DaysRequested: l.DaysRequested.StringFixed(2),
		Reason:        l.Reason,
		Status:        l.Status,
		CreatedBy:     l.CreatedBy.String(),
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	resp.DecisionNote = l.DecisionNote
	return resp
}

func mapBalanceToResponse(employeeID string, b LeaveBalance, asOf time.Time) LeaveBalanceResponse {
	resp := LeaveBalanceResponse{
		EmployeeID:    employeeID,
		LeaveType:     b.LeaveType,
		TotalDays:     b.TotalDays.StringFixed(2),
		UsedDays:      b.UsedDays.StringFixed(2),
		RemainingDays: Remaining(b, asOf).StringFixed(2),
		CycleStart:    b.CycleStart.Format("2006-01-02"),
	}
	if b.RelatedEventDate != nil {
		v := b.RelatedEventDate.Format("2006-01-02")
		resp.RelatedEventDate = &v
	}
	return resp
}
