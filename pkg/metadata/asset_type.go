package metadata

import (
	"fmt"
	"strings"
)

type AssetType string

const (
	AssetTypeVehicle AssetType = "vehicle"
	AssetTypeOther   AssetType = "other"
)

func (t AssetType) IsValid() bool {
	switch t {
	case AssetTypeVehicle, AssetTypeOther:
		return true
	default:
		return false
	}
}

// NewAssetType normalises user input; an empty value means AssetTypeOther.
func NewAssetType(value string) (AssetType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return AssetTypeOther, nil
	}

	assetType := AssetType(normalized)
	if !assetType.IsValid() {
		return assetType, fmt.Errorf(
			"value not valid, only valid values are: %s, %s",
			AssetTypeVehicle, AssetTypeOther,
		)
	}

	return assetType, nil
}

func (t AssetType) String() string {
	return string(t)
}

// numberPrefix is the short code used in generated asset numbers.
func (t AssetType) numberPrefix() string {
	switch t {
	case AssetTypeVehicle:
		return "VEH"
	default:
		return "AST"
	}
}
