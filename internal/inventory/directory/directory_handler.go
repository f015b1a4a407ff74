package directory

import (
	"context"
	"net/http"

	"assetledger/internal/core/response"
	"assetledger/pkg/models"

	"github.com/gin-gonic/gin"
)

type lookup interface {
	GetPerson(ctx context.Context, id int) (*models.Person, error)
	GetSite(ctx context.Context, id int) (*models.Site, error)
	GetOrganisation(ctx context.Context, id int) (*models.Organisation, error)
	GetLocation(ctx context.Context, id int) (*models.Location, error)
}

// DirectoryHandler exposes read-only lookups so clients can resolve the ids
// carried by assets and log entries.
type DirectoryHandler struct {
	repository lookup
}

func NewDirectoryHandler(r *DirectoryRepository) *DirectoryHandler {
	return &DirectoryHandler{repository: r}
}

func (h *DirectoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/persons/:id", h.GetPerson)
	router.GET("/sites/:id", h.GetSite)
	router.GET("/organisations/:id", h.GetOrganisation)
	router.GET("/locations/:id", h.GetLocation)
}

func (h *DirectoryHandler) GetPerson(c *gin.Context) {
	serve(c, "person", h.repository.GetPerson)
}

func (h *DirectoryHandler) GetSite(c *gin.Context) {
	serve(c, "site", h.repository.GetSite)
}

func (h *DirectoryHandler) GetOrganisation(c *gin.Context) {
	serve(c, "organisation", h.repository.GetOrganisation)
}

func (h *DirectoryHandler) GetLocation(c *gin.Context) {
	serve(c, "location", h.repository.GetLocation)
}

func serve[T any](c *gin.Context, resource string, get func(context.Context, int) (*T, error)) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	record, err := get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, "Could not get "+resource, err)
		return
	}

	c.JSON(http.StatusOK, record)
}
