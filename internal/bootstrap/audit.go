package bootstrap

import "context"

// AuditLog captures one payroll-significant action: server lifecycle,
// payroll runs, leave decisions. CompanyID/ActorID are empty for
// system-initiated entries.
type AuditLog struct {
	Action    string
	Message   string
	CompanyID string
	ActorID   string
	Meta      map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
