package ledger

import (
	"testing"

	"assetledger/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetQuery_LocksRow(t *testing.T) {
	db := goqu.New("postgres", nil)

	sql, _, err := assetQuery(db, 3).ForUpdate(exp.Wait).ToSQL()
	require.NoError(t, err)

	assert.Contains(t, sql, `FROM "assets"`)
	assert.Contains(t, sql, `"deleted" IS FALSE`)
	assert.Contains(t, sql, `("id" = 3)`)
	assert.Contains(t, sql, "FOR UPDATE")
}

func TestEntriesQuery(t *testing.T) {
	db := goqu.New("postgres", nil)

	sql, _, err := entriesQuery(db, 5).ToSQL()
	require.NoError(t, err)

	assert.Equal(t, `SELECT * FROM "asset_logs" WHERE ("asset_id" = 5) ORDER BY "id" ASC`, sql)
}

func TestEntryInsert(t *testing.T) {
	db := goqu.New("postgres", nil)
	entry := models.AssetLog{
		AssetID:    5,
		StatusCode: 2,
		Datetime:   at(1),
		PersonID:   intPtr(10),
		Condition:  1,
		RequestID:  "req-1",
	}

	sql, _, err := entryInsert(db, &entry).ToSQL()
	require.NoError(t, err)

	assert.Contains(t, sql, `INSERT INTO "asset_logs"`)
	assert.Contains(t, sql, `"person_id"`)
	assert.Contains(t, sql, "'req-1'")
	assert.Contains(t, sql, `RETURNING "id"`)
}

func TestCustodyUpdate(t *testing.T) {
	db := goqu.New("postgres", nil)
	custody := models.Custody{
		BaseSiteID:   intPtr(20),
		AssignedToID: intPtr(10),
	}

	sql, _, err := custodyUpdate(db, 3, custody).ToSQL()
	require.NoError(t, err)

	assert.Contains(t, sql, `UPDATE "assets" SET`)
	assert.Contains(t, sql, `"assigned_to_id"=10`)
	assert.Contains(t, sql, `"assigned_org_id"=NULL`)
	assert.Contains(t, sql, `"location_id"=NULL`)
	assert.Contains(t, sql, `"site_id"=20`)
	assert.Contains(t, sql, `"updated_at"=NOW()`)
	assert.Contains(t, sql, `WHERE ("id" = 3)`)
}

func TestItemsLocationUpdate(t *testing.T) {
	db := goqu.New("postgres", nil)

	sql, _, err := itemsLocationUpdate(db, 2, intPtr(210)).ToSQL()
	require.NoError(t, err)

	assert.Equal(t, `UPDATE "asset_items" SET "location_id"=210 WHERE ("asset_id" = 2)`, sql)
}
