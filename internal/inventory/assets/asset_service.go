package assets

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"assetledger/internal/repository"
	"assetledger/pkg/auditlog"
	custom_error "assetledger/pkg/errors"
	"assetledger/pkg/metadata"
	"assetledger/pkg/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AssetStore interface {
	GetAsset(ctx context.Context, id int) (*models.Asset, error)
	GetAssetsBy(ctx context.Context, conditions repository.QueryBuilder) ([]models.Asset, error)
	PersistAsset(ctx context.Context, asset models.Asset) (*models.Asset, error)
	UpdateAsset(ctx context.Context, asset models.Asset) error
	RemoveAsset(ctx context.Context, id int) error
	PersistItem(ctx context.Context, item models.AssetItem) (*models.AssetItem, error)
	GetItems(ctx context.Context, assetID int) ([]models.AssetItem, error)
}

// AssetLedger records where an asset is based and keeps its derived state.
// The ledger implements it.
type AssetLedger interface {
	SetBaseLocation(ctx context.Context, assetID, siteID int, actor *int) (*int, error)
	ForgetState(ctx context.Context, assetID int)
}

type LocationFinder interface {
	GetLocation(ctx context.Context, id int) (*models.Location, error)
}

type AuditLogger interface {
	Log(action string, data interface{}, item auditlog.Auditable)
}

type AssetService struct {
	repo      AssetStore
	ledger    AssetLedger
	locations LocationFinder
	auditLog  AuditLogger
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewAssetService(repo AssetStore, ledger AssetLedger, locations LocationFinder, auditLog AuditLogger, logger *zap.Logger) *AssetService {
	return &AssetService{
		repo:      repo,
		ledger:    ledger,
		locations: locations,
		auditLog:  auditLog,
		validate:  newValidator(),
		logger:    logger,
	}
}

// RegisterAsset stores a new asset. When a site is given the asset is based
// there through the ledger, so the first log entry is a SET_BASE.
func (s *AssetService) RegisterAsset(ctx context.Context, req models.AssetRequest, actor *int) (*models.Asset, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if err := checkPrice(req.PurchasePrice); err != nil {
		return nil, err
	}

	assetType, err := metadata.NewAssetType(req.Type)
	if err != nil {
		return nil, custom_error.NewValidation("type", err.Error())
	}

	asset := models.Asset{
		Number:           strings.TrimSpace(req.Number),
		Type:             assetType,
		ItemID:           req.ItemID,
		Kit:              req.Kit,
		OrganisationID:   req.OrganisationID,
		SerialNumber:     req.SerialNumber,
		SupplierOrgID:    req.SupplierOrgID,
		PurchaseDate:     req.PurchaseDate,
		PurchasePrice:    req.PurchasePrice,
		PurchaseCurrency: strings.ToUpper(req.PurchaseCurrency),
		Comments:         req.Comments,
	}
	applyKitRule(&asset)

	created, err := s.repo.PersistAsset(ctx, asset)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Asset registered", zap.Int("asset_id", created.ID), zap.String("number", created.Number))
	s.auditLog.Log(
		"create",
		map[string]interface{}{
			"number": created.Number,
			"type":   created.Type,
			"kit":    created.Kit,
			"msg":    "Asset registered",
		},
		created,
	)

	if req.SiteID == nil {
		return created, nil
	}

	return s.setBase(ctx, created, *req.SiteID, actor)
}

// UpdateAsset applies the non-nil fields of req. A changed site is recorded
// through the ledger.
func (s *AssetService) UpdateAsset(ctx context.Context, id int, req models.AssetUpdateRequest, actor *int) (*models.Asset, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if err := checkPrice(req.PurchasePrice); err != nil {
		return nil, err
	}

	asset, err := s.repo.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := mergeUpdate(asset, req); err != nil {
		return nil, err
	}
	applyKitRule(asset)

	if err := s.repo.UpdateAsset(ctx, *asset); err != nil {
		return nil, err
	}

	s.auditLog.Log(
		"update",
		map[string]interface{}{
			"number": asset.Number,
			"kit":    asset.Kit,
			"msg":    "Asset updated",
		},
		asset,
	)

	if req.SiteID != nil && (asset.BaseSiteID == nil || *asset.BaseSiteID != *req.SiteID) {
		return s.setBase(ctx, asset, *req.SiteID, actor)
	}

	return s.repo.GetAsset(ctx, id)
}

func (s *AssetService) GetAsset(ctx context.Context, id int) (*models.Asset, error) {
	return s.repo.GetAsset(ctx, id)
}

func (s *AssetService) ListAssets(ctx context.Context, query models.RetrieveAssetListQuery) ([]models.Asset, error) {
	conditions := repository.NewQueryBuilder()

	if query.OrganisationID != nil {
		conditions.AddCondition("organisation_id", *query.OrganisationID)
	}
	if query.SiteID != nil {
		conditions.AddCondition("site_id", *query.SiteID)
	}
	if query.LocationID != nil {
		conditions.AddCondition("location_id", *query.LocationID)
	}
	if query.Kit != nil {
		conditions.AddCondition("kit", *query.Kit)
	}
	if query.Type != nil {
		assetType, err := metadata.NewAssetType(*query.Type)
		if err != nil {
			return nil, custom_error.NewValidation("type", err.Error())
		}
		conditions.AddCondition("type", assetType.String())
	}

	return s.repo.GetAssetsBy(ctx, conditions)
}

// ListLocationAssets returns the assets currently at a location. An unknown
// location is NotFound rather than an empty list.
func (s *AssetService) ListLocationAssets(ctx context.Context, locationID int) ([]models.Asset, error) {
	if _, err := s.locations.GetLocation(ctx, locationID); err != nil {
		return nil, err
	}

	return s.ListAssets(ctx, models.RetrieveAssetListQuery{LocationID: &locationID})
}

// AddItem adds a component to a kit. The item starts at the kit's location.
func (s *AssetService) AddItem(ctx context.Context, assetID int, req models.AssetItemRequest) (*models.AssetItem, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	asset, err := s.repo.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if !asset.Kit {
		return nil, custom_error.NewValidation("kit", "items can only be added to kit assets")
	}

	item := models.AssetItem{
		AssetID:    asset.ID,
		ItemID:     req.ItemID,
		Quantity:   req.Quantity,
		LocationID: asset.LocationID,
	}
	if req.SerialNumber != "" {
		item.SerialNumber = &req.SerialNumber
	}
	if req.Comments != "" {
		item.Comments = &req.Comments
	}

	created, err := s.repo.PersistItem(ctx, item)
	if err != nil {
		return nil, err
	}

	s.auditLog.Log(
		"item_added",
		map[string]interface{}{
			"item_id":  created.ID,
			"quantity": created.Quantity,
			"msg":      "Kit item added",
		},
		created,
	)

	return created, nil
}

func (s *AssetService) ListItems(ctx context.Context, assetID int) ([]models.AssetItem, error) {
	if _, err := s.repo.GetAsset(ctx, assetID); err != nil {
		return nil, err
	}
	return s.repo.GetItems(ctx, assetID)
}

func (s *AssetService) DeleteAsset(ctx context.Context, id int) error {
	if err := s.repo.RemoveAsset(ctx, id); err != nil {
		return err
	}
	s.ledger.ForgetState(ctx, id)

	s.auditLog.Log(
		"remove",
		map[string]interface{}{"msg": "Asset marked as deleted"},
		&models.Asset{ID: id},
	)

	return nil
}

func (s *AssetService) setBase(ctx context.Context, asset *models.Asset, siteID int, actor *int) (*models.Asset, error) {
	if _, err := s.ledger.SetBaseLocation(ctx, asset.ID, siteID, actor); err != nil {
		s.logger.Error("Setting base site failed",
			zap.Int("asset_id", asset.ID),
			zap.Int("site_id", siteID),
			zap.Error(err),
		)
		return asset, fmt.Errorf("set base site of asset %d: %w", asset.ID, err)
	}

	return s.repo.GetAsset(ctx, asset.ID)
}

// applyKitRule clears purchase data of kits; a kit is bought as its items.
func applyKitRule(asset *models.Asset) {
	if !asset.Kit {
		return
	}
	asset.SupplierOrgID = nil
	asset.PurchaseDate = nil
	asset.PurchasePrice = nil
	asset.PurchaseCurrency = ""
}

func mergeUpdate(asset *models.Asset, req models.AssetUpdateRequest) error {
	if req.Number != nil {
		asset.Number = strings.TrimSpace(*req.Number)
	}
	if req.Type != nil {
		assetType, err := metadata.NewAssetType(*req.Type)
		if err != nil {
			return custom_error.NewValidation("type", err.Error())
		}
		asset.Type = assetType
	}
	if req.ItemID != nil {
		asset.ItemID = req.ItemID
	}
	if req.Kit != nil {
		asset.Kit = *req.Kit
	}
	if req.OrganisationID != nil {
		asset.OrganisationID = *req.OrganisationID
	}
	if req.SerialNumber != nil {
		asset.SerialNumber = *req.SerialNumber
	}
	if req.SupplierOrgID != nil {
		asset.SupplierOrgID = req.SupplierOrgID
	}
	if req.PurchaseDate != nil {
		asset.PurchaseDate = req.PurchaseDate
	}
	if req.PurchasePrice != nil {
		asset.PurchasePrice = req.PurchasePrice
	}
	if req.PurchaseCurrency != nil {
		asset.PurchaseCurrency = strings.ToUpper(*req.PurchaseCurrency)
	}
	if req.Comments != nil {
		asset.Comments = *req.Comments
	}
	return nil
}

func checkPrice(price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return custom_error.NewValidation("purchase_price", "must not be negative")
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return custom_error.NewValidation(fe.Field(), fmt.Sprintf("failed on the '%s' rule", fe.Tag()))
	}
	return custom_error.NewValidation("", err.Error())
}
