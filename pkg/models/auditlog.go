package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ResourceAsset groups every audit row about an asset, its items and its log.
const ResourceAsset = "asset"

// AuditLog is one row of the append-only change trail shown to moderators.
type AuditLog struct {
	ID           int                    `json:"id" db:"id"`
	ResourceID   int                    `json:"resource_id" db:"resource_id"`
	ResourceType string                 `json:"resource_type" db:"resource_type"`
	Action       string                 `json:"action" db:"action"`
	DataRaw      []byte                 `json:"-" db:"data"`
	Data         map[string]interface{} `json:"data" db:"-"`
	UserID       *int                   `json:"user_id,omitempty" db:"user_id"`
	CreatedAt    time.Time              `json:"created_at" db:"created_at"`
}

// DecodeData fills Data from the stored jsonb payload.
func (a *AuditLog) DecodeData() error {
	if len(a.DataRaw) == 0 {
		return nil
	}
	if err := json.Unmarshal(a.DataRaw, &a.Data); err != nil {
		return fmt.Errorf("audit log %d: %w", a.ID, err)
	}
	return nil
}
