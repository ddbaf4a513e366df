package consumer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"go-payroll/internal/events"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PayslipAuditRecorder appends one audit row per payslip event. The event ID
// is unique in the table, so redelivered messages are detected and skipped.
type PayslipAuditRecorder struct {
	db *sql.DB
}

func NewPayslipAuditRecorder(db *sql.DB) *PayslipAuditRecorder {
	return &PayslipAuditRecorder{db: db}
}

func (r *PayslipAuditRecorder) Record(ctx context.Context, eventID string, event events.PayslipGeneratedEvent) error {
	query := `
        INSERT INTO payslip_audit_log (
            event_id, payslip_id, payroll_run_id, employee_id, company_id, gross_income, net_pay, occurred_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.db.ExecContext(
		ctx, query,
		eventID, event.PayslipID, event.PayrollRunID, event.EmployeeID,
		event.CompanyID, event.GrossIncome, event.NetPay, event.OccurredAt,
	)
	return err
}

func ConsumePayslipGenerated(
	ctx context.Context,
	reader *kafkago.Reader,
	recorder *PayslipAuditRecorder,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payslip_generated")
	log.Info("payslip generated consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payslip generated consumer stopped")
				return
			}
			log.Error("fetch payslip generated message failed", zap.Error(err))
			continue
		}

		var event events.PayslipGeneratedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payslip generated event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		eventID := headerValue(msg, "request_id")
		if eventID == "" {
			eventID = event.PayslipID + ":" + event.OccurredAt.Format("20060102150405")
		}

		if err := recorder.Record(ctx, eventID, event); err != nil {
			if isDuplicateAuditEntry(err) {
				log.Warn("payslip audit entry already recorded, skipping",
					zap.String("event_id", eventID),
					zap.String("payslip_id", event.PayslipID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("record payslip audit entry failed",
				zap.String("payslip_id", event.PayslipID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payslip generated message failed", zap.Error(err))
			continue
		}

		log.Info("payslip audit entry recorded",
			zap.String("payslip_id", event.PayslipID),
			zap.String("employee_id", event.EmployeeID),
			zap.Strings("warnings", event.Warnings),
		)
	}
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func isDuplicateAuditEntry(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_payslip_audit_event"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_payslip_audit_event")
}
