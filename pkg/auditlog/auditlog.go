package auditlog

import (
	"context"
	"time"

	"assetledger/pkg/models"

	"go.uber.org/zap"
)

const persistTimeout = 5 * time.Second

type Auditable interface {
	CreateLogView() models.AuditLog
}

type Persister interface {
	PersistLog(ctx context.Context, auditLog models.AuditLog, data interface{}) error
}

// Auditlog writes audit rows after the change they describe is committed.
// A failed write is logged and otherwise ignored.
type Auditlog struct {
	r      Persister
	logger *zap.Logger
}

func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := a.r.PersistLog(ctx, auditLog, data); err != nil {
		a.logger.Error("Unable to create audit log entry",
			zap.String("action", action),
			zap.String("resource_type", auditLog.ResourceType),
			zap.Int("resource_id", auditLog.ResourceID),
			zap.Error(err),
		)
		return
	}

	a.logger.Debug("Created audit log entry",
		zap.String("action", action),
		zap.Int("resource_id", auditLog.ResourceID),
	)
}

func NewAuditLog(r Persister, logger *zap.Logger) *Auditlog {
	return &Auditlog{r: r, logger: logger}
}
