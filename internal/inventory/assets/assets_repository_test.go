package assets

import (
	"testing"

	"assetledger/internal/repository"
	"assetledger/pkg/metadata"
	"assetledger/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetListQuery(t *testing.T) {
	db := goqu.New("postgres", nil)

	conditions := repository.NewQueryBuilder()
	conditions.AddCondition("site_id", 20)
	conditions.AddCondition("kit", true)

	sql, _, err := assetListQuery(db, conditions).ToSQL()
	require.NoError(t, err)

	assert.Contains(t, sql, `FROM "assets" AS "a"`)
	assert.Contains(t, sql, `("a"."deleted" IS FALSE)`)
	assert.Contains(t, sql, `("a"."site_id" = 20)`)
	assert.Contains(t, sql, `("a"."kit" IS TRUE)`)
	assert.Contains(t, sql, `ORDER BY "a"."id" ASC`)
}

func TestAssetInsert(t *testing.T) {
	db := goqu.New("postgres", nil)
	price := decimal.RequireFromString("99.90")

	sql, _, err := assetInsert(db, models.Asset{
		Type:           metadata.AssetTypeOther,
		OrganisationID: 1,
		PurchasePrice:  &price,
		Custody:        models.Custody{BaseSiteID: intPtr(20)},
	}).ToSQL()
	require.NoError(t, err)

	assert.Contains(t, sql, `INSERT INTO "assets"`)
	assert.Contains(t, sql, `'99.9'`)
	assert.Contains(t, sql, `RETURNING "id"`)
}

func TestAssetUpdate_LeavesCustodyAlone(t *testing.T) {
	db := goqu.New("postgres", nil)

	sql, _, err := assetUpdate(db, models.Asset{
		ID:             5,
		Type:           metadata.AssetTypeVehicle,
		OrganisationID: 1,
		Custody:        models.Custody{LocationID: intPtr(200)},
	}).ToSQL()
	require.NoError(t, err)

	assert.Contains(t, sql, `UPDATE "assets" SET`)
	assert.Contains(t, sql, `"type"='vehicle'`)
	assert.NotContains(t, sql, `"location_id"`)
	assert.NotContains(t, sql, `"site_id"`)
	assert.Contains(t, sql, `WHERE (("deleted" IS FALSE) AND ("id" = 5))`)
}

func TestSoftDelete(t *testing.T) {
	db := goqu.New("postgres", nil)

	sql, _, err := softDelete(db, 9).ToSQL()
	require.NoError(t, err)

	assert.Equal(t, `UPDATE "assets" SET "deleted"=TRUE,"updated_at"=NOW() WHERE (("deleted" IS FALSE) AND ("id" = 9))`, sql)
}
