package ledger

import (
	"context"

	"assetledger/pkg/auditlog"
	"assetledger/pkg/models"
)

// Store is the persistence used by the ledger. Reads outside Transact see
// committed data only.
type Store interface {
	Transact(ctx context.Context, fn func(tx Tx) error) error
	GetAsset(ctx context.Context, assetID int) (*models.Asset, error)
	GetEntry(ctx context.Context, entryID int) (*models.AssetLog, error)
	GetEntries(ctx context.Context, assetID int) ([]models.AssetLog, error)
	ListAssetIDs(ctx context.Context) ([]int, error)
	UpdateItemsLocation(ctx context.Context, assetID int, locationID *int) error
}

// Tx is the write side of Store, bound to one transaction.
type Tx interface {
	// LockAsset returns the non-deleted asset and holds its row until commit.
	LockAsset(ctx context.Context, assetID int) (*models.Asset, error)
	GetEntries(ctx context.Context, assetID int) ([]models.AssetLog, error)
	InsertEntry(ctx context.Context, entry *models.AssetLog) (int, error)
	// CancelEntry reports false when the entry was already cancelled.
	CancelEntry(ctx context.Context, entryID int) (bool, error)
	UpdateCustody(ctx context.Context, assetID int, custody models.Custody) error
}

type Directory interface {
	GetPerson(ctx context.Context, id int) (*models.Person, error)
	GetSite(ctx context.Context, id int) (*models.Site, error)
	GetOrganisation(ctx context.Context, id int) (*models.Organisation, error)
}

type AuditLogger interface {
	Log(action string, data interface{}, item auditlog.Auditable)
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
}

type StateCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

type nopAudit struct{}

func (nopAudit) Log(string, interface{}, auditlog.Auditable) {}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, interface{}) error { return nil }

type nopCache struct{}

func (nopCache) GetJSON(context.Context, string, interface{}) (bool, error) { return false, nil }
func (nopCache) SetJSON(context.Context, string, interface{}) error         { return nil }
func (nopCache) Delete(context.Context, string) error                       { return nil }
