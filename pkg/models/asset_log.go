package models

import (
	"fmt"
	"time"

	"assetledger/pkg/metadata"
)

type AssetLog struct {
	ID             int                `json:"id" db:"id"`
	AssetID        int                `json:"asset_id" db:"asset_id"`
	Status         metadata.LogStatus `json:"status" db:"-"`
	StatusCode     int                `json:"-" db:"status"`
	Datetime       time.Time          `json:"datetime" db:"datetime"`
	DatetimeUntil  *time.Time         `json:"datetime_until,omitempty" db:"datetime_until"`
	PersonID       *int               `json:"person_id,omitempty" db:"person_id"`
	SiteID         *int               `json:"site_id,omitempty" db:"site_id"`
	OrganisationID *int               `json:"organisation_id,omitempty" db:"organisation_id"`
	Condition      int                `json:"cond" db:"cond"`
	Cancelled      bool               `json:"cancelled" db:"cancelled"`
	ByPersonID     *int               `json:"by_person_id,omitempty" db:"by_person_id"`
	Comments       *string            `json:"comments,omitempty" db:"comments"`
	RequestID      string             `json:"request_id" db:"request_id"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
}

// LoadFromDB resolves the stored status code.
func (l *AssetLog) LoadFromDB() error {
	status, err := metadata.LogStatusFromCode(l.StatusCode)
	if err != nil {
		return fmt.Errorf("asset log %d: %w", l.ID, err)
	}
	l.Status = status
	return nil
}

func (l *AssetLog) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   l.AssetID,
		ResourceType: ResourceAsset,
		UserID:       l.ByPersonID,
	}
}
