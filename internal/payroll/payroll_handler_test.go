package payroll_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakePayrollService struct {
	runPayrollFn       func(ctx context.Context, companyID, runID string) (payroll.RunPayrollResponse, error)
	getPayslipsByRunFn func(ctx context.Context, companyID, runID string) ([]payroll.PayslipResponse, error)
	getPayslipByIDFn   func(ctx context.Context, companyID, id string) (payroll.PayslipResponse, error)
}

func (f *fakePayrollService) RunPayroll(ctx context.Context, companyID, runID string) (payroll.RunPayrollResponse, error) {
	if f.runPayrollFn != nil {
		return f.runPayrollFn(ctx, companyID, runID)
	}
	return payroll.RunPayrollResponse{}, nil
}

func (f *fakePayrollService) GetPayslipsByRun(ctx context.Context, companyID, runID string) ([]payroll.PayslipResponse, error) {
	if f.getPayslipsByRunFn != nil {
		return f.getPayslipsByRunFn(ctx, companyID, runID)
	}
	return nil, nil
}

func (f *fakePayrollService) GetPayslipByID(ctx context.Context, companyID, id string) (payroll.PayslipResponse, error) {
	if f.getPayslipByIDFn != nil {
		return f.getPayslipByIDFn(ctx, companyID, id)
	}
	return payroll.PayslipResponse{}, nil
}

type payslipListEnvelope struct {
	Ok   bool                      `json:"ok"`
	Data []payroll.PayslipResponse `json:"data"`
}

func newHandlerRouter(h *payroll.Handler, companyID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("company_id", companyID)
		c.Next()
	})
	payroll.RegisterRoutes(router.Group("/"), h)
	return router
}

func samplePayslips(runID string) []payroll.PayslipResponse {
	return []payroll.PayslipResponse{{
		ID:           uuid.New().String(),
		EmployeeID:   uuid.New().String(),
		PayrollRunID: runID,
		GrossIncome:  "20000.00",
		Tax:          "2183.08",
		UIF:          "177.12",
		SDL:          "200.00",
		NetPay:       "17439.80",
	}}
}

func TestPayrollHandler_GetPayslipsByRun_CacheMiss(t *testing.T) {
	companyID := uuid.New().String()
	runID := uuid.New().String()
	payslips := samplePayslips(runID)

	serviceCalls := 0
	svc := &fakePayrollService{
		getPayslipsByRunFn: func(ctx context.Context, cid, rid string) ([]payroll.PayslipResponse, error) {
			serviceCalls++
			assert.Equal(t, companyID, cid)
			assert.Equal(t, runID, rid)
			return payslips, nil
		},
	}

	rdb, cacheMock := redismock.NewClientMock()
	key := "payslips:" + companyID + ":run:" + runID
	raw, err := json.Marshal(payslips)
	assert.NoError(t, err)

	cacheMock.ExpectGet(key).RedisNil()
	cacheMock.ExpectSet(key, raw, 5*time.Minute).SetVal("OK")

	router := newHandlerRouter(payroll.NewHandler(svc, rdb), companyID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payroll-runs/"+runID+"/payslips", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, serviceCalls)
	assert.NoError(t, cacheMock.ExpectationsWereMet())

	var env payslipListEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Ok)
	assert.Len(t, env.Data, 1)
	assert.Equal(t, "17439.80", env.Data[0].NetPay)
}

func TestPayrollHandler_GetPayslipsByRun_CacheHit(t *testing.T) {
	companyID := uuid.New().String()
	runID := uuid.New().String()
	payslips := samplePayslips(runID)

	svc := &fakePayrollService{
		getPayslipsByRunFn: func(ctx context.Context, cid, rid string) ([]payroll.PayslipResponse, error) {
			t.Fatal("service must not be hit on a cache hit")
			return nil, nil
		},
	}

	rdb, cacheMock := redismock.NewClientMock()
	key := "payslips:" + companyID + ":run:" + runID
	raw, err := json.Marshal(payslips)
	assert.NoError(t, err)
	cacheMock.ExpectGet(key).SetVal(string(raw))

	router := newHandlerRouter(payroll.NewHandler(svc, rdb), companyID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payroll-runs/"+runID+"/payslips", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, cacheMock.ExpectationsWereMet())

	var env payslipListEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Len(t, env.Data, 1)
	assert.Equal(t, payslips[0].ID, env.Data[0].ID)
}

func TestPayrollHandler_GetPayslipsByRun_CacheReadFailureFallsThrough(t *testing.T) {
	companyID := uuid.New().String()
	runID := uuid.New().String()
	payslips := samplePayslips(runID)

	svc := &fakePayrollService{
		getPayslipsByRunFn: func(ctx context.Context, cid, rid string) ([]payroll.PayslipResponse, error) {
			return payslips, nil
		},
	}

	rdb, cacheMock := redismock.NewClientMock()
	key := "payslips:" + companyID + ":run:" + runID
	cacheMock.ExpectGet(key).SetErr(assert.AnError)
	raw, _ := json.Marshal(payslips)
	cacheMock.ExpectSet(key, raw, 5*time.Minute).SetVal("OK")

	router := newHandlerRouter(payroll.NewHandler(svc, rdb), companyID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payroll-runs/"+runID+"/payslips", nil)
	router.ServeHTTP(w, req)

	// a broken cache degrades to the database, never to an error
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPayrollHandler_RunPayroll_InvalidatesCache(t *testing.T) {
	companyID := uuid.New().String()
	runID := uuid.New().String()

	svc := &fakePayrollService{
		runPayrollFn: func(ctx context.Context, cid, rid string) (payroll.RunPayrollResponse, error) {
			return payroll.RunPayrollResponse{
				PayrollRunID: rid,
				Processed:    1,
				Payslips:     samplePayslips(rid),
			}, nil
		},
	}

	rdb, cacheMock := redismock.NewClientMock()
	cacheMock.ExpectDel("payslips:" + companyID + ":run:" + runID).SetVal(1)

	router := newHandlerRouter(payroll.NewHandler(svc, rdb), companyID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payroll-runs/"+runID+"/run", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestPayrollHandler_RunPayroll_ClosedRunMapsToConflict(t *testing.T) {
	companyID := uuid.New().String()
	runID := uuid.New().String()

	svc := &fakePayrollService{
		runPayrollFn: func(ctx context.Context, cid, rid string) (payroll.RunPayrollResponse, error) {
			return payroll.RunPayrollResponse{}, payrollerrors.ErrRunClosed
		},
	}

	rdb, cacheMock := redismock.NewClientMock()
	router := newHandlerRouter(payroll.NewHandler(svc, rdb), companyID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payroll-runs/"+runID+"/run", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	// failed runs leave the cache untouched
	assert.NoError(t, cacheMock.ExpectationsWereMet())

	var env struct {
		Ok    bool `json:"ok"`
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Ok)
	assert.NotEmpty(t, env.Error.Code)
}
