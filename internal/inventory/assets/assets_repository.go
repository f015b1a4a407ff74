package assets

import (
	"context"
	"fmt"

	"assetledger/internal/repository"
	custom_error "assetledger/pkg/errors"
	"assetledger/pkg/metadata"
	"assetledger/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

const (
	assetsTable = "assets"
	itemsTable  = "asset_items"
)

type AssetsRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AssetsRepository {
	return &AssetsRepository{
		repository: r,
	}
}

func (r *AssetsRepository) GetAsset(ctx context.Context, id int) (*models.Asset, error) {
	var flatAsset models.FlatAssetRecord
	found, err := assetByIDQuery(r.repository.GoquDBWrapper, id).
		Executor().
		ScanStructContext(ctx, &flatAsset)
	if err != nil {
		return nil, fmt.Errorf("unable to select asset from database: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("asset", id)
	}

	asset, err := flatAsset.TransformToAsset()
	if err != nil {
		return nil, err
	}

	return &asset, nil
}

func (r *AssetsRepository) GetAssetsBy(ctx context.Context, conditions repository.QueryBuilder) ([]models.Asset, error) {
	var flatAssets []models.FlatAssetRecord
	err := assetListQuery(r.repository.GoquDBWrapper, conditions).
		Executor().
		ScanStructsContext(ctx, &flatAssets)
	if err != nil {
		return nil, fmt.Errorf("unable to select assets from database: %w", err)
	}

	assets := make([]models.Asset, 0, len(flatAssets))
	for _, flatAsset := range flatAssets {
		asset, err := flatAsset.TransformToAsset()
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	return assets, nil
}

// PersistAsset inserts the asset and gives it a generated number when none
// was supplied.
func (r *AssetsRepository) PersistAsset(ctx context.Context, asset models.Asset) (*models.Asset, error) {
	var assetID int

	err := repository.WithTransactionContext(ctx, r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		if _, err := assetInsert(tx, asset).Executor().ScanValContext(ctx, &assetID); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return custom_error.WrapDBError("asset number or reference", string(pqErr.Code))
			}
			return fmt.Errorf("failed to insert asset record: %w", err)
		}

		if asset.Number != "" {
			return nil
		}

		number := metadata.NewAssetNumber(asset.Type, assetID)
		_, err := tx.Update(assetsTable).
			Set(goqu.Record{"number": number.Generate()}).
			Where(goqu.Ex{"id": assetID}).
			Executor().
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to set asset number: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetAsset(ctx, assetID)
}

// UpdateAsset writes the registry fields of the asset. Custody columns are
// owned by the ledger and left alone. Component items of an asset that is
// no longer a kit are deleted in the same transaction.
func (r *AssetsRepository) UpdateAsset(ctx context.Context, asset models.Asset) error {
	return repository.WithTransactionContext(ctx, r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		result, err := assetUpdate(tx, asset).Executor().ExecContext(ctx)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return custom_error.WrapDBError("asset number or reference", string(pqErr.Code))
			}
			return fmt.Errorf("failed to update asset: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return custom_error.NewNotFound("asset", asset.ID)
		}

		if asset.Kit {
			return nil
		}

		if _, err := tx.Delete(itemsTable).Where(goqu.Ex{"asset_id": asset.ID}).Executor().ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to remove kit items: %w", err)
		}
		return nil
	})
}

func (r *AssetsRepository) RemoveAsset(ctx context.Context, id int) error {
	result, err := softDelete(r.repository.GoquDBWrapper, id).Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("asset", id)
	}

	return nil
}

func (r *AssetsRepository) PersistItem(ctx context.Context, item models.AssetItem) (*models.AssetItem, error) {
	_, err := itemInsert(r.repository.GoquDBWrapper, item).
		Executor().
		ScanValContext(ctx, &item.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("asset item", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert asset item: %w", err)
	}

	return &item, nil
}

func (r *AssetsRepository) GetItems(ctx context.Context, assetID int) ([]models.AssetItem, error) {
	items := []models.AssetItem{}
	err := r.repository.GoquDBWrapper.
		From(itemsTable).
		Where(goqu.Ex{"asset_id": assetID}).
		Order(goqu.I("id").Asc()).
		Executor().
		ScanStructsContext(ctx, &items)
	if err != nil {
		return nil, fmt.Errorf("unable to select asset items: %w", err)
	}

	return items, nil
}

func assetByIDQuery(ex repository.Executor, id int) *goqu.SelectDataset {
	return ex.From(assetsTable).Where(goqu.Ex{"id": id, "deleted": false})
}

func assetListQuery(ex repository.Executor, conditions repository.QueryBuilder) *goqu.SelectDataset {
	aliases := map[string]string{
		"organisation_id": "a.organisation_id",
		"site_id":         "a.site_id",
		"location_id":     "a.location_id",
		"kit":             "a.kit",
		"type":            "a.type",
	}

	return ex.From(goqu.T(assetsTable).As("a")).
		Where(
			goqu.Ex{"a.deleted": false},
			conditions.BuildConditions(aliases),
		).
		Order(goqu.I("a.id").Asc())
}

func assetInsert(ex repository.Executor, asset models.Asset) *goqu.InsertDataset {
	record := registryRecord(asset)
	record["site_id"] = repository.Nullable(asset.BaseSiteID)

	return ex.Insert(assetsTable).
		Rows(record).
		Returning("id")
}

func assetUpdate(ex repository.Executor, asset models.Asset) *goqu.UpdateDataset {
	record := registryRecord(asset)
	record["updated_at"] = goqu.L("NOW()")

	return ex.Update(assetsTable).
		Set(record).
		Where(goqu.Ex{"id": asset.ID, "deleted": false})
}

func registryRecord(asset models.Asset) goqu.Record {
	return goqu.Record{
		"number":            nullString(asset.Number),
		"type":              asset.Type.String(),
		"item_id":           repository.Nullable(asset.ItemID),
		"kit":               asset.Kit,
		"organisation_id":   asset.OrganisationID,
		"serial_number":     nullString(asset.SerialNumber),
		"supplier_org_id":   repository.Nullable(asset.SupplierOrgID),
		"purchase_date":     repository.Nullable(asset.PurchaseDate),
		"purchase_price":    repository.Nullable(asset.PurchasePrice),
		"purchase_currency": nullString(asset.PurchaseCurrency),
		"comments":          nullString(asset.Comments),
	}
}

func softDelete(ex repository.Executor, id int) *goqu.UpdateDataset {
	return ex.Update(assetsTable).
		Set(goqu.Record{"deleted": true, "updated_at": goqu.L("NOW()")}).
		Where(goqu.Ex{"id": id, "deleted": false})
}

func itemInsert(ex repository.Executor, item models.AssetItem) *goqu.InsertDataset {
	return ex.Insert(itemsTable).
		Rows(goqu.Record{
			"asset_id":      item.AssetID,
			"item_id":       repository.Nullable(item.ItemID),
			"quantity":      item.Quantity,
			"serial_number": repository.Nullable(item.SerialNumber),
			"location_id":   repository.Nullable(item.LocationID),
			"comments":      repository.Nullable(item.Comments),
		}).
		Returning("id")
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
