package auditlog

import (
	"context"
	"encoding/json"
	"fmt"

	"assetledger/internal/repository"
	"assetledger/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

const auditLogsTable = "audit_logs"

type AuditLogRepository struct {
	repository *repository.Repository
}

func (r *AuditLogRepository) PersistLog(ctx context.Context, auditLog models.AuditLog, auditLogData interface{}) error {
	query, err := insertQuery(r.repository.GoquDBWrapper, auditLog, auditLogData)
	if err != nil {
		return err
	}

	if _, err = query.Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

func (r *AuditLogRepository) GetResourceLog(ctx context.Context, id int, resourceType string) ([]models.AuditLog, error) {
	var auditLogs []models.AuditLog
	err := resourceQuery(r.repository.GoquDBWrapper, id, resourceType).
		Executor().
		ScanStructsContext(ctx, &auditLogs)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	for i := range auditLogs {
		if err := auditLogs[i].DecodeData(); err != nil {
			return nil, err
		}
	}

	return auditLogs, nil
}

func insertQuery(ex repository.Executor, auditLog models.AuditLog, auditLogData interface{}) (*goqu.InsertDataset, error) {
	dataJSON, err := json.Marshal(auditLogData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit log data: %w", err)
	}

	return ex.Insert(auditLogsTable).
		Rows(goqu.Record{
			"resource_id":   auditLog.ResourceID,
			"resource_type": auditLog.ResourceType,
			"action":        auditLog.Action,
			"data":          string(dataJSON),
			"user_id":       repository.Nullable(auditLog.UserID),
		}), nil
}

func resourceQuery(ex repository.Executor, id int, resourceType string) *goqu.SelectDataset {
	return ex.From(auditLogsTable).
		Select("id", "resource_id", "resource_type", "action", "data", "user_id", "created_at").
		Where(goqu.Ex{
			"resource_id":   id,
			"resource_type": resourceType,
		}).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc())
}

func NewRepository(r *repository.Repository) *AuditLogRepository {
	return &AuditLogRepository{repository: r}
}
