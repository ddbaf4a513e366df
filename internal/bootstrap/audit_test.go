package bootstrap

import (
	"context"
	"testing"

	"go-payroll/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdoutAuditLogger_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := &StdoutAuditLogger{logger: zap.New(core)}

	ctx := contextutil.WithRequestID(context.Background(), "req-123")
	l.Log(ctx, AuditLog{
		Action:    "PAYROLL_RUN_COMPLETED",
		Message:   "payroll run completed",
		CompanyID: "company-1",
		ActorID:   "actor-1",
		Meta:      map[string]any{"run_id": "run-1"},
	})

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "PAYROLL_RUN_COMPLETED", fields["action"])
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "company-1", fields["company_id"])
	assert.Equal(t, "actor-1", fields["actor_id"])
	assert.NotEmpty(t, fields["occurred_at"])
}

func TestStdoutAuditLogger_Log_SystemEntryOmitsTenantFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := &StdoutAuditLogger{logger: zap.New(core)}

	l.Log(context.Background(), AuditLog{
		Action:  "SERVER_SHUTDOWN",
		Message: "Server is shutting down",
	})

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.NotContains(t, fields, "company_id")
	assert.NotContains(t, fields, "actor_id")
	assert.NotContains(t, fields, "request_id")
}
