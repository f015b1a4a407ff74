package ledger

import (
	"context"
	"fmt"

	"assetledger/internal/repository"
	custom_error "assetledger/pkg/errors"
	"assetledger/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
)

const (
	assetsTable = "assets"
	logsTable   = "asset_logs"
	itemsTable  = "asset_items"
)

// LogRepository is the postgres Store.
type LogRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *LogRepository {
	return &LogRepository{repository: r}
}

func (r *LogRepository) Transact(ctx context.Context, fn func(tx Tx) error) error {
	return repository.WithTransactionContext(ctx, r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		return fn(&txRepository{tx: tx})
	})
}

func (r *LogRepository) GetAsset(ctx context.Context, assetID int) (*models.Asset, error) {
	return fetchAsset(ctx, assetQuery(r.repository.GoquDBWrapper, assetID), assetID)
}

func (r *LogRepository) GetEntry(ctx context.Context, entryID int) (*models.AssetLog, error) {
	var entry models.AssetLog
	found, err := r.repository.GoquDBWrapper.
		From(logsTable).
		Where(goqu.Ex{"id": entryID}).
		Executor().
		ScanStructContext(ctx, &entry)
	if err != nil {
		return nil, fmt.Errorf("unable to select asset log from database: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("asset log entry", entryID)
	}
	if err := entry.LoadFromDB(); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *LogRepository) GetEntries(ctx context.Context, assetID int) ([]models.AssetLog, error) {
	return fetchEntries(ctx, r.repository.GoquDBWrapper, assetID)
}

func (r *LogRepository) ListAssetIDs(ctx context.Context) ([]int, error) {
	var ids []int
	err := r.repository.GoquDBWrapper.
		From(assetsTable).
		Select("id").
		Where(goqu.Ex{"deleted": false}).
		Order(goqu.I("id").Asc()).
		Executor().
		ScanValsContext(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("unable to select asset ids: %w", err)
	}

	return ids, nil
}

func (r *LogRepository) UpdateItemsLocation(ctx context.Context, assetID int, locationID *int) error {
	_, err := itemsLocationUpdate(r.repository.GoquDBWrapper, assetID, locationID).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update kit item locations: %w", err)
	}

	return nil
}

type txRepository struct {
	tx *goqu.TxDatabase
}

func (r *txRepository) LockAsset(ctx context.Context, assetID int) (*models.Asset, error) {
	query := assetQuery(r.tx, assetID).ForUpdate(exp.Wait)
	return fetchAsset(ctx, query, assetID)
}

func (r *txRepository) GetEntries(ctx context.Context, assetID int) ([]models.AssetLog, error) {
	return fetchEntries(ctx, r.tx, assetID)
}

func (r *txRepository) InsertEntry(ctx context.Context, entry *models.AssetLog) (int, error) {
	var id int
	_, err := entryInsert(r.tx, entry).
		Executor().
		ScanValContext(ctx, &id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return 0, custom_error.WrapDBError("asset log target", string(pqErr.Code))
		}
		return 0, fmt.Errorf("failed to insert asset log record: %w", err)
	}

	return id, nil
}

func (r *txRepository) CancelEntry(ctx context.Context, entryID int) (bool, error) {
	result, err := r.tx.Update(logsTable).
		Set(goqu.Record{"cancelled": true}).
		Where(goqu.Ex{"id": entryID, "cancelled": false}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to cancel asset log entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *txRepository) UpdateCustody(ctx context.Context, assetID int, custody models.Custody) error {
	result, err := custodyUpdate(r.tx, assetID, custody).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update asset custody: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("asset", assetID)
	}

	return nil
}

func assetQuery(ex repository.Executor, assetID int) *goqu.SelectDataset {
	return ex.From(assetsTable).Where(goqu.Ex{"id": assetID, "deleted": false})
}

func fetchAsset(ctx context.Context, query *goqu.SelectDataset, assetID int) (*models.Asset, error) {
	var flatAsset models.FlatAssetRecord
	found, err := query.Executor().ScanStructContext(ctx, &flatAsset)
	if err != nil {
		return nil, fmt.Errorf("unable to select asset from database: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("asset", assetID)
	}

	asset, err := flatAsset.TransformToAsset()
	if err != nil {
		return nil, err
	}

	return &asset, nil
}

func entriesQuery(ex repository.Executor, assetID int) *goqu.SelectDataset {
	return ex.From(logsTable).
		Where(goqu.Ex{"asset_id": assetID}).
		Order(goqu.I("id").Asc())
}

func fetchEntries(ctx context.Context, ex repository.Executor, assetID int) ([]models.AssetLog, error) {
	var entries []models.AssetLog
	if err := entriesQuery(ex, assetID).Executor().ScanStructsContext(ctx, &entries); err != nil {
		return nil, fmt.Errorf("unable to select asset log from database: %w", err)
	}

	for i := range entries {
		if err := entries[i].LoadFromDB(); err != nil {
			return nil, err
		}
	}

	return entries, nil
}

func entryInsert(ex repository.Executor, entry *models.AssetLog) *goqu.InsertDataset {
	return ex.Insert(logsTable).
		Rows(goqu.Record{
			"asset_id":        entry.AssetID,
			"status":          entry.StatusCode,
			"datetime":        entry.Datetime,
			"datetime_until":  repository.Nullable(entry.DatetimeUntil),
			"person_id":       repository.Nullable(entry.PersonID),
			"site_id":         repository.Nullable(entry.SiteID),
			"organisation_id": repository.Nullable(entry.OrganisationID),
			"cond":            entry.Condition,
			"cancelled":       entry.Cancelled,
			"by_person_id":    repository.Nullable(entry.ByPersonID),
			"comments":        repository.Nullable(entry.Comments),
			"request_id":      entry.RequestID,
		}).
		Returning("id")
}

func custodyUpdate(ex repository.Executor, assetID int, custody models.Custody) *goqu.UpdateDataset {
	return ex.Update(assetsTable).
		Set(goqu.Record{
			"site_id":         repository.Nullable(custody.BaseSiteID),
			"location_id":     repository.Nullable(custody.LocationID),
			"assigned_to_id":  repository.Nullable(custody.AssignedToID),
			"assigned_org_id": repository.Nullable(custody.AssignedOrgID),
			"updated_at":      goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": assetID})
}

func itemsLocationUpdate(ex repository.Executor, assetID int, locationID *int) *goqu.UpdateDataset {
	return ex.Update(itemsTable).
		Set(goqu.Record{"location_id": repository.Nullable(locationID)}).
		Where(goqu.Ex{"asset_id": assetID})
}
