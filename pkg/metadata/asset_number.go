package metadata

import (
	"strconv"
)

type AssetNumber struct {
	init   string
	prefix string
	id     string
}

const Init string = "EDN"

func (n *AssetNumber) Generate() string {

	return n.init + "-" + n.prefix + n.id
}

// NewAssetNumber builds the number given to assets registered without one.
func NewAssetNumber(assetType AssetType, assetID int) AssetNumber {
	var number AssetNumber

	number.init = Init
	number.prefix = assetType.numberPrefix()
	number.id = strconv.Itoa(assetID)

	return number
}
