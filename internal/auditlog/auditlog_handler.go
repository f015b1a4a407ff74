package auditlog

import (
	"context"
	"net/http"

	"assetledger/internal/core/response"
	"assetledger/pkg/models"
	"assetledger/pkg/roles"
	"assetledger/pkg/security"

	"github.com/gin-gonic/gin"
)

type resourceLogReader interface {
	GetResourceLog(ctx context.Context, id int, resourceType string) ([]models.AuditLog, error)
}

type AuditLogHandler struct {
	r resourceLogReader
}

func NewHandler(r *AuditLogRepository) *AuditLogHandler {
	return &AuditLogHandler{r: r}
}

func (h *AuditLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/assets/:id/audit", security.Authorize(roles.Moderator), h.GetAssetAuditLog)
}

func (h *AuditLogHandler) GetAssetAuditLog(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	logs, err := h.r.GetResourceLog(c.Request.Context(), id, models.ResourceAsset)
	if err != nil {
		response.Error(c, "Unable to get audit log", err)
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	c.JSON(http.StatusOK, logs)
}
