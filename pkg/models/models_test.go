package models

import (
	"testing"

	"assetledger/pkg/metadata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLog_DecodeData(t *testing.T) {
	log := AuditLog{ID: 1, DataRaw: []byte(`{"entry_id": 9, "current": true}`)}
	require.NoError(t, log.DecodeData())
	assert.Equal(t, true, log.Data["current"])
	assert.Equal(t, float64(9), log.Data["entry_id"])

	empty := AuditLog{ID: 2}
	assert.NoError(t, empty.DecodeData())
	assert.Nil(t, empty.Data)

	broken := AuditLog{ID: 3, DataRaw: []byte(`{`)}
	assert.ErrorContains(t, broken.DecodeData(), "audit log 3")
}

func TestFlatAssetRecord_TransformToAsset(t *testing.T) {
	number, price, site := "EDN-VEH1", "1250.50", 20
	record := FlatAssetRecord{
		ID:             1,
		Number:         &number,
		Type:           "vehicle",
		OrganisationID: 1,
		SiteID:         &site,
		PurchasePrice:  &price,
	}

	asset, err := record.TransformToAsset()
	require.NoError(t, err)
	assert.Equal(t, "EDN-VEH1", asset.Number)
	assert.Equal(t, metadata.AssetType("vehicle"), asset.Type)
	assert.Equal(t, "1250.5", asset.PurchasePrice.String())
	assert.Equal(t, 20, *asset.BaseSiteID)
	assert.Equal(t, ResourceAsset, asset.CreateLogView().ResourceType)

	bad := "abc"
	record.PurchasePrice = &bad
	_, err = record.TransformToAsset()
	assert.Error(t, err)
}

func TestAssetLog_LoadFromDB(t *testing.T) {
	entry := AssetLog{ID: 4, StatusCode: 2}
	require.NoError(t, entry.LoadFromDB())
	assert.Equal(t, metadata.LogStatusAssign, entry.Status)

	entry.StatusCode = 99
	assert.Error(t, entry.LoadFromDB())
}
