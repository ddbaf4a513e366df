package payroll

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const payslipListCacheTTL = 5 * time.Minute

type Handler struct {
	service Service
	cache   *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, cache *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("payroll.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.handler")
	}
	return &Handler{service: service, cache: cache, logger: l}
}

func payslipListCacheKey(companyID, runID string) string {
	return fmt.Sprintf("payslips:%s:run:%s", companyID, runID)
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("payroll request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) RunPayroll(c *gin.Context) {
	companyID := c.GetString("company_id")
	runID := c.Param("id")

	resp, err := h.service.RunPayroll(c.Request.Context(), companyID, runID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	// drop the stale list so the next read reflects the new payslips
	if h.cache != nil {
		if err := h.cache.Del(c.Request.Context(), payslipListCacheKey(companyID, runID)).Err(); err != nil {
			h.logger.Warn("payslip cache invalidation failed",
				zap.String("run_id", runID),
				zap.Error(err),
			)
		}
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetPayslipsByRun(c *gin.Context) {
	companyID := c.GetString("company_id")
	runID := c.Param("id")

	key := payslipListCacheKey(companyID, runID)
	if h.cache != nil {
		cached, err := h.cache.Get(c.Request.Context(), key).Result()
		if err == nil {
			var payslips []PayslipResponse
			if err := json.Unmarshal([]byte(cached), &payslips); err == nil {
				response.Success(c, http.StatusOK, payslips, nil)
				return
			}
		} else if err != redis.Nil {
			h.logger.Warn("payslip cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	resp, err := h.service.GetPayslipsByRun(c.Request.Context(), companyID, runID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := h.cache.Set(c.Request.Context(), key, raw, payslipListCacheTTL).Err(); err != nil {
				h.logger.Warn("payslip cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetPayslipByID(c *gin.Context) {
	companyID := c.GetString("company_id")
	id := c.Param("id")

	resp, err := h.service.GetPayslipByID(c.Request.Context(), companyID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
