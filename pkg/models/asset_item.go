package models

// AssetItem is a component of a kit asset.
type AssetItem struct {
	ID           int     `json:"id" db:"id"`
	AssetID      int     `json:"asset_id" db:"asset_id"`
	ItemID       *int    `json:"item_id,omitempty" db:"item_id"`
	Quantity     int     `json:"quantity" db:"quantity"`
	SerialNumber *string `json:"serial_number,omitempty" db:"serial_number"`
	LocationID   *int    `json:"location_id" db:"location_id"`
	Comments     *string `json:"comments,omitempty" db:"comments"`
}

func (i *AssetItem) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   i.AssetID,
		ResourceType: ResourceAsset,
	}
}
