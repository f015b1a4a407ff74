package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AssetRequest struct {
	Number           string           `json:"number" validate:"max=128"`
	Type             string           `json:"type" validate:"omitempty,oneof=vehicle other"`
	ItemID           *int             `json:"item_id" validate:"omitempty,gt=0"`
	Kit              bool             `json:"kit"`
	OrganisationID   int              `json:"organisation_id" validate:"required,gt=0"`
	SiteID           *int             `json:"site_id" validate:"omitempty,gt=0"`
	SerialNumber     string           `json:"serial_number" validate:"max=128"`
	SupplierOrgID    *int             `json:"supplier_org_id" validate:"omitempty,gt=0"`
	PurchaseDate     *time.Time       `json:"purchase_date"`
	PurchasePrice    *decimal.Decimal `json:"purchase_price"`
	PurchaseCurrency string           `json:"purchase_currency" validate:"omitempty,len=3,alpha"`
	Comments         string           `json:"comments"`
}

// AssetUpdateRequest carries the fields of a PATCH; nil means unchanged.
type AssetUpdateRequest struct {
	Number           *string          `json:"number" validate:"omitempty,max=128"`
	Type             *string          `json:"type" validate:"omitempty,oneof=vehicle other"`
	ItemID           *int             `json:"item_id" validate:"omitempty,gt=0"`
	Kit              *bool            `json:"kit"`
	OrganisationID   *int             `json:"organisation_id" validate:"omitempty,gt=0"`
	SiteID           *int             `json:"site_id" validate:"omitempty,gt=0"`
	SerialNumber     *string          `json:"serial_number" validate:"omitempty,max=128"`
	SupplierOrgID    *int             `json:"supplier_org_id" validate:"omitempty,gt=0"`
	PurchaseDate     *time.Time       `json:"purchase_date"`
	PurchasePrice    *decimal.Decimal `json:"purchase_price"`
	PurchaseCurrency *string          `json:"purchase_currency" validate:"omitempty,len=3,alpha"`
	Comments         *string          `json:"comments"`
}

type AssetItemRequest struct {
	ItemID       *int   `json:"item_id" validate:"omitempty,gt=0"`
	Quantity     int    `json:"quantity" validate:"required,min=1,max=999"`
	SerialNumber string `json:"serial_number" validate:"max=128"`
	Comments     string `json:"comments"`
}

type RetrieveAssetListQuery struct {
	OrganisationID *int    `form:"organisation_id"`
	SiteID         *int    `form:"site_id"`
	LocationID     *int    `form:"location_id"`
	Kit            *bool   `form:"kit"`
	Type           *string `form:"type"`
}
