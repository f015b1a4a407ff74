package assets

import (
	"context"
	"net/http"

	"assetledger/internal/core/response"
	"assetledger/pkg/models"
	"assetledger/pkg/roles"
	"assetledger/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type assetManager interface {
	RegisterAsset(ctx context.Context, req models.AssetRequest, actor *int) (*models.Asset, error)
	UpdateAsset(ctx context.Context, id int, req models.AssetUpdateRequest, actor *int) (*models.Asset, error)
	GetAsset(ctx context.Context, id int) (*models.Asset, error)
	ListAssets(ctx context.Context, query models.RetrieveAssetListQuery) ([]models.Asset, error)
	ListLocationAssets(ctx context.Context, locationID int) ([]models.Asset, error)
	AddItem(ctx context.Context, assetID int, req models.AssetItemRequest) (*models.AssetItem, error)
	ListItems(ctx context.Context, assetID int) ([]models.AssetItem, error)
	DeleteAsset(ctx context.Context, id int) error
}

type AssetHandler struct {
	service assetManager
	logger  *zap.Logger
}

func NewAssetHandler(service *AssetService, logger *zap.Logger) *AssetHandler {
	return &AssetHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/assets", security.Authorize(roles.Moderator), h.CreateAsset)
	router.GET("/assets", h.GetAssets)
	router.GET("/assets/:id", h.GetAsset)
	router.PATCH("/assets/:id", security.Authorize(roles.Moderator), h.UpdateAsset)
	router.DELETE("/assets/:id", security.Authorize(roles.Admin), h.RemoveAsset)
	router.POST("/assets/:id/items", security.Authorize(roles.Moderator), h.AddItem)
	router.GET("/assets/:id/items", h.GetItems)
	router.GET("/locations/:id/assets", h.GetLocationAssets)
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req models.AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actor, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify user", "details": err.Error()})
		return
	}

	asset, err := h.service.RegisterAsset(c.Request.Context(), req, actor)
	if err != nil {
		if asset != nil {
			// the asset exists, only its base site could not be recorded
			c.JSON(http.StatusCreated, gin.H{"asset": asset, "warning": err.Error()})
			return
		}
		response.Error(c, "Failed to create asset", err)
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func (h *AssetHandler) GetAssets(c *gin.Context) {
	var query models.RetrieveAssetListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	assets, err := h.service.ListAssets(c.Request.Context(), query)
	if err != nil {
		response.Error(c, "Unable to list assets", err)
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) GetLocationAssets(c *gin.Context) {
	locationID, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	assets, err := h.service.ListLocationAssets(c.Request.Context(), locationID)
	if err != nil {
		response.Error(c, "Could not get location assets", err)
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	asset, err := h.service.GetAsset(c.Request.Context(), id)
	if err != nil {
		response.Error(c, "Unable to get asset", err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	var req models.AssetUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actor, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify user", "details": err.Error()})
		return
	}

	asset, err := h.service.UpdateAsset(c.Request.Context(), id, req, actor)
	if err != nil {
		response.Error(c, "Failed to update asset", err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) RemoveAsset(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteAsset(c.Request.Context(), id); err != nil {
		response.Error(c, "Failed to delete asset", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}

func (h *AssetHandler) AddItem(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	var req models.AssetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	item, err := h.service.AddItem(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, "Failed to add kit item", err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *AssetHandler) GetItems(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	items, err := h.service.ListItems(c.Request.Context(), id)
	if err != nil {
		response.Error(c, "Unable to list kit items", err)
		return
	}

	c.JSON(http.StatusOK, items)
}
