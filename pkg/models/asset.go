package models

import (
	"fmt"
	"time"

	"assetledger/pkg/metadata"

	"github.com/shopspring/decimal"
)

// Custody holds the asset fields derived from its log.
type Custody struct {
	BaseSiteID    *int `json:"site_id"`
	LocationID    *int `json:"location_id"`
	AssignedToID  *int `json:"assigned_to_id"`
	AssignedOrgID *int `json:"assigned_org_id"`
}

type Asset struct {
	ID               int                `json:"id"`
	Number           string             `json:"number"`
	Type             metadata.AssetType `json:"type"`
	ItemID           *int               `json:"item_id,omitempty"`
	Kit              bool               `json:"kit"`
	OrganisationID   int                `json:"organisation_id"`
	SerialNumber     string             `json:"serial_number,omitempty"`
	SupplierOrgID    *int               `json:"supplier_org_id,omitempty"`
	PurchaseDate     *time.Time         `json:"purchase_date,omitempty"`
	PurchasePrice    *decimal.Decimal   `json:"purchase_price,omitempty"`
	PurchaseCurrency string             `json:"purchase_currency,omitempty"`
	Comments         string             `json:"comments,omitempty"`
	Deleted          bool               `json:"-"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	Custody
}

type FlatAssetRecord struct {
	ID               int        `db:"id"`
	Number           *string    `db:"number"`
	Type             string     `db:"type"`
	ItemID           *int       `db:"item_id"`
	Kit              bool       `db:"kit"`
	OrganisationID   int        `db:"organisation_id"`
	SiteID           *int       `db:"site_id"`
	SerialNumber     *string    `db:"serial_number"`
	SupplierOrgID    *int       `db:"supplier_org_id"`
	PurchaseDate     *time.Time `db:"purchase_date"`
	PurchasePrice    *string    `db:"purchase_price"`
	PurchaseCurrency *string    `db:"purchase_currency"`
	LocationID       *int       `db:"location_id"`
	AssignedToID     *int       `db:"assigned_to_id"`
	AssignedOrgID    *int       `db:"assigned_org_id"`
	Comments         *string    `db:"comments"`
	Deleted          bool       `db:"deleted"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

func (fa *FlatAssetRecord) TransformToAsset() (Asset, error) {
	asset := Asset{
		ID:               fa.ID,
		Number:           deref(fa.Number),
		Type:             metadata.AssetType(fa.Type),
		ItemID:           fa.ItemID,
		Kit:              fa.Kit,
		OrganisationID:   fa.OrganisationID,
		SerialNumber:     deref(fa.SerialNumber),
		SupplierOrgID:    fa.SupplierOrgID,
		PurchaseDate:     fa.PurchaseDate,
		PurchaseCurrency: deref(fa.PurchaseCurrency),
		Comments:         deref(fa.Comments),
		Deleted:          fa.Deleted,
		CreatedAt:        fa.CreatedAt,
		UpdatedAt:        fa.UpdatedAt,
		Custody: Custody{
			BaseSiteID:    fa.SiteID,
			LocationID:    fa.LocationID,
			AssignedToID:  fa.AssignedToID,
			AssignedOrgID: fa.AssignedOrgID,
		},
	}

	if fa.PurchasePrice != nil {
		price, err := decimal.NewFromString(*fa.PurchasePrice)
		if err != nil {
			return Asset{}, fmt.Errorf("failed to parse purchase price: %w", err)
		}
		asset.PurchasePrice = &price
	}

	return asset, nil
}

func (a *Asset) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: ResourceAsset,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
