package leave_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/leave"
	leaveerrors "go-payroll/internal/leave/errors"
	"go-payroll/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	createRequestFn         func(ctx context.Context, r *leave.LeaveRequest) error
	findRequestsByCompanyFn func(ctx context.Context, companyID string) ([]leave.LeaveRequest, error)
	findRequestFn           func(ctx context.Context, companyID, id string) (*leave.LeaveRequest, error)
	updateRequestFn         func(ctx context.Context, r *leave.LeaveRequest) error
	hasOverlappingRequestFn func(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	findBalanceFn           func(ctx context.Context, employeeID, leaveType string) (*leave.LeaveBalance, error)
	findBalancesFn          func(ctx context.Context, companyID, employeeID string) ([]leave.LeaveBalance, error)
	createBalanceFn         func(ctx context.Context, b *leave.LeaveBalance) error
	updateBalanceFn         func(ctx context.Context, b *leave.LeaveBalance) error
	employeeBelongsFn       func(ctx context.Context, companyID, employeeID string) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepository) CreateRequest(ctx context.Context, r *leave.LeaveRequest) error {
	if f.createRequestFn != nil {
		return f.createRequestFn(ctx, r)
	}
	return nil
}

func (f *fakeLeaveRepository) FindRequestsByCompany(ctx context.Context, companyID string) ([]leave.LeaveRequest, error) {
	if f.findRequestsByCompanyFn != nil {
		return f.findRequestsByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindRequestByIDAndCompany(ctx context.Context, companyID, id string) (*leave.LeaveRequest, error) {
	if f.findRequestFn != nil {
		return f.findRequestFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) UpdateRequest(ctx context.Context, r *leave.LeaveRequest) error {
	if f.updateRequestFn != nil {
		return f.updateRequestFn(ctx, r)
	}
	return nil
}

func (f *fakeLeaveRepository) HasOverlappingRequest(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingRequestFn != nil {
		return f.hasOverlappingRequestFn(ctx, companyID, employeeID, startDate, endDate, excludeID)
	}
	return false, nil
}

func (f *fakeLeaveRepository) FindBalance(ctx context.Context, employeeID, leaveType string) (*leave.LeaveBalance, error) {
	if f.findBalanceFn != nil {
		return f.findBalanceFn(ctx, employeeID, leaveType)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindBalancesByEmployee(ctx context.Context, companyID, employeeID string) ([]leave.LeaveBalance, error) {
	if f.findBalancesFn != nil {
		return f.findBalancesFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) CreateBalance(ctx context.Context, b *leave.LeaveBalance) error {
	if f.createBalanceFn != nil {
		return f.createBalanceFn(ctx, b)
	}
	return nil
}

func (f *fakeLeaveRepository) UpdateBalance(ctx context.Context, b *leave.LeaveBalance) error {
	if f.updateBalanceFn != nil {
		return f.updateBalanceFn(ctx, b)
	}
	return nil
}

func (f *fakeLeaveRepository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	if f.employeeBelongsFn != nil {
		return f.employeeBelongsFn(ctx, companyID, employeeID)
	}
	return true, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *fakeLeaveRepository
	outbox  *fakeOutboxRepository
	service leave.Service
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	outbox := &fakeOutboxRepository{}
	svc := leave.NewServiceWithOutbox(db, repo, outbox)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		repo:    repo,
		outbox:  outbox,
		service: svc,
	}
}

func strPtr(s string) *string { return &s }

func TestLeaveService_SubmitRequest_TypeRules(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("family leave without a reason is rejected before any mutation", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		created := false
		deps.repo.createRequestFn = func(ctx context.Context, r *leave.LeaveRequest) error {
			created = true
			return nil
		}

		_, err := deps.service.SubmitRequest(ctx, companyID, actorID, leave.SubmitLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  leave.TypeFamily,
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-03",
			Reason:     "   ",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrReasonRequired)
		assert.False(t, created)
		// validation fails before a transaction is opened
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("a weekend-only range is rejected before any mutation", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		created := false
		deps.repo.createRequestFn = func(ctx context.Context, r *leave.LeaveRequest) error {
			created = true
			return nil
		}

		// 2026-03-07/08 is a Saturday and Sunday
		_, err := deps.service.SubmitRequest(ctx, companyID, actorID, leave.SubmitLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  leave.TypeAnnual,
			StartDate:  "2026-03-07",
			EndDate:    "2026-03-08",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrNoBusinessDays)
		assert.False(t, created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("maternity needs the expected birth on or after the start", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.SubmitRequest(ctx, companyID, actorID, leave.SubmitLeaveRequest{
			EmployeeID:       employeeID,
			LeaveType:        leave.TypeMaternity,
			StartDate:        "2026-03-02",
			EndDate:          "2026-06-30",
			RelatedEventDate: strPtr("2026-02-15"),
		})
		assert.ErrorIs(t, err, leaveerrors.ErrEventDateBeforeStart)

		_, err = deps.service.SubmitRequest(ctx, companyID, actorID, leave.SubmitLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  leave.TypeMaternity,
			StartDate:  "2026-03-02",
			EndDate:    "2026-06-30",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrEventDateRequired)
	})

	t.Run("parental must start inside the window after the birth", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.SubmitRequest(ctx, companyID, actorID, leave.SubmitLeaveRequest{
			EmployeeID:       employeeID,
			LeaveType:        leave.TypeParental,
			StartDate:        "2026-08-01",
			EndDate:          "2026-08-12",
			RelatedEventDate: strPtr("2026-02-01"),
		})
		assert.ErrorIs(t, err, leaveerrors.ErrParentalWindowExceeded)

		_, err = deps.service.SubmitRequest(ctx, companyID, actorID, leave.SubmitLeaveRequest{
			EmployeeID:       employeeID,
			LeaveType:        leave.TypeParental,
			StartDate:        "2026-01-15",
			EndDate:          "2026-01-26",
			RelatedEventDate: strPtr("2026-02-01"),
		})
		assert.ErrorIs(t, err, leaveerrors.ErrParentalWindowExceeded)
	})
}

func TestLeaveService_SubmitRequest_Success(t *testing.T) {
	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	var createdBalance *leave.LeaveBalance
	deps.repo.createBalanceFn = func(ctx context.Context, b *leave.LeaveBalance) error {
		createdBalance = b
		return nil
	}
	var createdRequest *leave.LeaveRequest
	deps.repo.createRequestFn = func(ctx context.Context, r *leave.LeaveRequest) error {
		createdRequest = r
		return nil
	}

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	resp, err := deps.service.SubmitRequest(context.Background(), companyID, actorID, leave.SubmitLeaveRequest{
		EmployeeID: employeeID,
		LeaveType:  leave.TypeSick,
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-06",
		Reason:     "flu",
	})
	assert.NoError(t, err)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())

	// balance created lazily from the policy default
	assert.NotNil(t, createdBalance)
	assert.True(t, createdBalance.TotalDays.Equal(dec("30")))
	assert.True(t, createdBalance.UsedDays.IsZero())

	// Mon-Fri inclusive
	assert.NotNil(t, createdRequest)
	assert.True(t, createdRequest.DaysRequested.Equal(dec("5")), "got %s", createdRequest.DaysRequested)
	assert.Equal(t, leave.StatusPending, createdRequest.Status)
	assert.Equal(t, leave.StatusPending, resp.Status)
	assert.Equal(t, "5.00", resp.DaysRequested)
}

func TestLeaveService_SubmitRequest_InsufficientBalance(t *testing.T) {
	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	// fresh annual cycle: nothing accrued yet
	deps.repo.findBalanceFn = func(ctx context.Context, eid, lt string) (*leave.LeaveBalance, error) {
		return &leave.LeaveBalance{
			ID:         uuid.New(),
			EmployeeID: uuid.MustParse(eid),
			LeaveType:  leave.TypeAnnual,
			TotalDays:  dec("17"),
			UsedDays:   dec("0"),
			CycleStart: time.Now().UTC(),
		}, nil
	}

	created := false
	deps.repo.createRequestFn = func(ctx context.Context, r *leave.LeaveRequest) error {
		created = true
		return nil
	}

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectRollback()

	_, err := deps.service.SubmitRequest(context.Background(), companyID, actorID, leave.SubmitLeaveRequest{
		EmployeeID: employeeID,
		LeaveType:  leave.TypeAnnual,
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-06",
	})
	assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
	assert.False(t, created)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestLeaveService_SubmitRequest_Overlap(t *testing.T) {
	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	deps.repo.hasOverlappingRequestFn = func(ctx context.Context, cid, eid string, start, end time.Time, excludeID *string) (bool, error) {
		return true, nil
	}

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectRollback()

	_, err := deps.service.SubmitRequest(context.Background(), companyID, actorID, leave.SubmitLeaveRequest{
		EmployeeID: employeeID,
		LeaveType:  leave.TypeSick,
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-06",
	})
	assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
}

func TestLeaveService_Approve(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	actorID := uuid.New().String()
	employeeID := uuid.New()

	pendingRequest := func() *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:            uuid.New(),
			CompanyID:     companyID,
			EmployeeID:    employeeID,
			LeaveType:     leave.TypeSick,
			StartDate:     date("2026-03-02"),
			EndDate:       date("2026-03-06"),
			DaysRequested: dec("5"),
			Status:        leave.StatusPending,
		}
	}

	t.Run("approval consumes the balance once", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := pendingRequest()
		deps.repo.findRequestFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}
		deps.repo.findBalanceFn = func(ctx context.Context, eid, lt string) (*leave.LeaveBalance, error) {
			return &leave.LeaveBalance{
				ID:         uuid.New(),
				EmployeeID: employeeID,
				LeaveType:  leave.TypeSick,
				TotalDays:  dec("30"),
				UsedDays:   dec("3"),
				CycleStart: date("2026-01-01"),
			}, nil
		}

		var savedBalance *leave.LeaveBalance
		deps.repo.updateBalanceFn = func(ctx context.Context, b *leave.LeaveBalance) error {
			savedBalance = b
			return nil
		}
		var savedRequest *leave.LeaveRequest
		deps.repo.updateRequestFn = func(ctx context.Context, r *leave.LeaveRequest) error {
			savedRequest = r
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Approve(ctx, companyID.String(), actorID, req.ID.String())
		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())

		assert.NotNil(t, savedBalance)
		assert.True(t, savedBalance.UsedDays.Equal(dec("8")), "used %s", savedBalance.UsedDays)

		assert.NotNil(t, savedRequest)
		assert.Equal(t, leave.StatusApproved, savedRequest.Status)
		assert.NotNil(t, savedRequest.DecidedBy)
		assert.Equal(t, actorID, savedRequest.DecidedBy.String())
		assert.NotNil(t, savedRequest.DecidedAt)
		assert.Equal(t, leave.StatusApproved, resp.Status)

		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, events.LeaveRequestDecidedTopic, deps.outbox.created[0].Topic)
	})

	t.Run("an already-decided request is not decided again", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := pendingRequest()
		req.Status = leave.StatusApproved
		deps.repo.findRequestFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}

		balanceTouched := false
		deps.repo.updateBalanceFn = func(ctx context.Context, b *leave.LeaveBalance) error {
			balanceTouched = true
			return nil
		}
		requestTouched := false
		deps.repo.updateRequestFn = func(ctx context.Context, r *leave.LeaveRequest) error {
			requestTouched = true
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Approve(ctx, companyID.String(), actorID, req.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyDecided)
		assert.False(t, balanceTouched)
		assert.False(t, requestTouched)
		assert.Empty(t, deps.outbox.created)
	})

	t.Run("rejection stamps without touching the balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := pendingRequest()
		deps.repo.findRequestFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}

		balanceTouched := false
		deps.repo.updateBalanceFn = func(ctx context.Context, b *leave.LeaveBalance) error {
			balanceTouched = true
			return nil
		}
		var savedRequest *leave.LeaveRequest
		deps.repo.updateRequestFn = func(ctx context.Context, r *leave.LeaveRequest) error {
			savedRequest = r
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Reject(ctx, companyID.String(), actorID, req.ID.String(), "short staffed")
		assert.NoError(t, err)
		assert.False(t, balanceTouched)
		assert.Equal(t, leave.StatusRejected, savedRequest.Status)
		assert.Equal(t, "short staffed", savedRequest.DecisionNote)
		assert.Equal(t, leave.StatusRejected, resp.Status)
	})
}

func TestLeaveService_GetByID_NotFound(t *testing.T) {
	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.GetByID(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, leaveerrors.ErrRequestNotFound)
}

func TestLeaveService_GetBalances_ReportsAllTypes(t *testing.T) {
	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	deps.repo.findBalancesFn = func(ctx context.Context, cid, eid string) ([]leave.LeaveBalance, error) {
		return []leave.LeaveBalance{{
			LeaveType:  leave.TypeSick,
			TotalDays:  dec("30"),
			UsedDays:   dec("4"),
			CycleStart: date("2026-01-01"),
		}}, nil
	}

	resp, err := deps.service.GetBalances(context.Background(), companyID, employeeID)
	assert.NoError(t, err)
	assert.Len(t, resp, 6)

	byType := make(map[string]leave.LeaveBalanceResponse)
	for _, b := range resp {
		byType[b.LeaveType] = b
	}
	assert.Equal(t, "26.00", byType[leave.TypeSick].RemainingDays)
	// untouched types come from policy defaults
	assert.Equal(t, "121.00", byType[leave.TypeMaternity].TotalDays)
	assert.Equal(t, "3.00", byType[leave.TypeFamily].TotalDays)
}
