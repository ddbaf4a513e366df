package middleware

import (
	"net/http"

	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tenant resolves the calling tenant from the X-Company-ID and X-Actor-ID
// headers. Every company-scoped route sits behind this; a request without a
// valid company never reaches a handler.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := c.GetHeader("X-Company-ID")
		if _, err := uuid.Parse(companyID); err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "missing or invalid X-Company-ID header", nil)
			c.Abort()
			return
		}
		actorID := c.GetHeader("X-Actor-ID")

		c.Set("company_id", companyID)
		c.Set("actor_id", actorID)

		ctx := contextutil.WithActorID(c.Request.Context(), actorID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// ContextLogger attaches a request-scoped logger carrying the request ID and
// actor, so service and repo layers can log correlated lines without
// knowing about gin.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetString("request_id")
		actorID := c.GetString("actor_id")

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("actor_id", actorID),
		)

		ctx := contextutil.WithLogger(c.Request.Context(), reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
