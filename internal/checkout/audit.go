package checkout

import (
	"context"
	"time"

	"github.com/appetiteclub/apt"
)

const (
	actionOpen     = "open-checkout"
	actionClose    = "close-checkout"
	actionReject   = "reject-order"
	actionPlace    = "place-order"
	actionThrottle = "duplicate-submit"
)

// AuditEntry records one customer action on a checkout modal.
type AuditEntry struct {
	ModalID   string
	Action    string
	OrderID   string
	Detail    string
	Timestamp time.Time
	Success   bool
	Error     string
}

// AuditLogger writes checkout actions to the service log.
type AuditLogger struct {
	logger apt.Logger
}

func NewAuditLogger(logger apt.Logger) *AuditLogger {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &AuditLogger{logger: logger}
}

func (a *AuditLogger) Log(ctx context.Context, entry AuditEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	a.logger.Info("audit",
		"modal_id", entry.ModalID,
		"action", entry.Action,
		"order_id", entry.OrderID,
		"detail", entry.Detail,
		"success", entry.Success,
		"timestamp", entry.Timestamp.Format(time.RFC3339),
		"error", entry.Error,
	)
}

func (a *AuditLogger) LogOpened(ctx context.Context, modalID string) {
	a.Log(ctx, AuditEntry{ModalID: modalID, Action: actionOpen, Success: true})
}

func (a *AuditLogger) LogClosed(ctx context.Context, modalID string, kind DismissKind) {
	a.Log(ctx, AuditEntry{ModalID: modalID, Action: actionClose, Detail: string(kind), Success: true})
}

// LogRejected records a submission blocked by validation.
func (a *AuditLogger) LogRejected(ctx context.Context, modalID string, errs []string) {
	detail := ""
	if len(errs) > 0 {
		detail = errs[0]
	}
	a.Log(ctx, AuditEntry{ModalID: modalID, Action: actionReject, Detail: detail, Success: false})
}

func (a *AuditLogger) LogPlaced(ctx context.Context, modalID, orderID string) {
	a.Log(ctx, AuditEntry{ModalID: modalID, Action: actionPlace, OrderID: orderID, Success: true})
}

func (a *AuditLogger) LogFailed(ctx context.Context, modalID string, err error) {
	a.Log(ctx, AuditEntry{ModalID: modalID, Action: actionPlace, Success: false, Error: err.Error()})
}

func (a *AuditLogger) LogDuplicate(ctx context.Context, modalID string) {
	a.Log(ctx, AuditEntry{ModalID: modalID, Action: actionThrottle, Success: false})
}
