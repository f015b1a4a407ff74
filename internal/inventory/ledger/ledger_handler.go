package ledger

import (
	"context"
	"net/http"
	"time"

	"assetledger/internal/core/response"
	"assetledger/internal/middleware"
	custom_error "assetledger/pkg/errors"
	"assetledger/pkg/metadata"
	"assetledger/pkg/models"
	"assetledger/pkg/roles"
	"assetledger/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ledgerService interface {
	RecordEvent(ctx context.Context, req EventRequest) (int, error)
	SetBaseLocation(ctx context.Context, assetID, siteID int, actor *int) (*int, error)
	CurrentState(ctx context.Context, assetID int) (State, error)
	History(ctx context.Context, assetID int) ([]models.AssetLog, error)
	CancelEntry(ctx context.Context, entryID int) (State, error)
	Reevaluate(ctx context.Context, assetID int) (models.Custody, error)
}

// LogEntryRequest is the body of the log form.
type LogEntryRequest struct {
	Status         string     `json:"status" binding:"required"`
	Datetime       *time.Time `json:"datetime"`
	DatetimeUntil  *time.Time `json:"datetime_until"`
	AssignType     string     `json:"assign_type"`
	PersonID       *int       `json:"person_id"`
	SiteID         *int       `json:"site_id"`
	OrganisationID *int       `json:"organisation_id"`
	Cond           *int       `json:"cond"`
	Comments       string     `json:"comments"`
}

type BaseRequest struct {
	SiteID int `json:"site_id" binding:"required,gt=0"`
}

type LedgerHandler struct {
	ledger ledgerService
	now    func() time.Time
	logger *zap.Logger
}

func NewLedgerHandler(l *Ledger, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{ledger: l, now: l.now, logger: logger}
}

func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/assets/:id/log", h.RecordEntry)
	router.GET("/assets/:id/log", h.GetHistory)
	router.POST("/assets/:id/base", h.SetBase)
	router.GET("/assets/:id/state", h.GetState)
	router.GET("/assets/:id/actions", h.GetActions)
	router.POST("/assets/:id/reevaluate", security.Authorize(roles.Admin), h.Reevaluate)
	router.POST("/assets/log/:entryId/cancel", security.Authorize(roles.Moderator), h.CancelEntry)
}

func (h *LedgerHandler) RecordEntry(c *gin.Context) {
	assetID, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	var body LogEntryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actor, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify user", "details": err.Error()})
		return
	}

	req, err := h.eventRequest(assetID, body, actor)
	if err != nil {
		response.Error(c, "Invalid log entry", err)
		return
	}
	req.RequestID = c.GetString(middleware.RequestIDKey)

	entryID, err := h.ledger.RecordEvent(c.Request.Context(), req)
	if err != nil {
		if entryID != 0 {
			h.logger.Warn("Log entry recorded with errors", zap.Int("entry_id", entryID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":    "Log entry recorded but kit items were not updated",
				"details":  err.Error(),
				"entry_id": entryID,
			})
			return
		}
		response.Error(c, "Unable to record log entry", err)
		return
	}

	state, err := h.ledger.CurrentState(c.Request.Context(), assetID)
	if err != nil {
		response.Error(c, "Unable to get asset state", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry_id": entryID, "state": state})
}

func (h *LedgerHandler) GetHistory(c *gin.Context) {
	assetID, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	entries, err := h.ledger.History(c.Request.Context(), assetID)
	if err != nil {
		response.Error(c, "Unable to get asset log", err)
		return
	}
	if entries == nil {
		entries = []models.AssetLog{}
	}

	c.JSON(http.StatusOK, entries)
}

func (h *LedgerHandler) SetBase(c *gin.Context) {
	assetID, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	var body BaseRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actor, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify user", "details": err.Error()})
		return
	}

	locationID, err := h.ledger.SetBaseLocation(c.Request.Context(), assetID, body.SiteID, actor)
	if err != nil {
		response.Error(c, "Unable to set base site", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset_id": assetID, "site_id": body.SiteID, "location_id": locationID})
}

func (h *LedgerHandler) GetState(c *gin.Context) {
	assetID, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	state, err := h.ledger.CurrentState(c.Request.Context(), assetID)
	if err != nil {
		response.Error(c, "Unable to get asset state", err)
		return
	}

	c.JSON(http.StatusOK, state)
}

func (h *LedgerHandler) GetActions(c *gin.Context) {
	assetID, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	state, err := h.ledger.CurrentState(c.Request.Context(), assetID)
	if err != nil {
		response.Error(c, "Unable to get asset state", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state, "actions": AvailableActions(state)})
}

func (h *LedgerHandler) CancelEntry(c *gin.Context) {
	entryID, ok := response.ParamID(c, "entryId")
	if !ok {
		return
	}

	state, err := h.ledger.CancelEntry(c.Request.Context(), entryID)
	if err != nil {
		response.Error(c, "Unable to cancel log entry", err)
		return
	}

	c.JSON(http.StatusOK, state)
}

func (h *LedgerHandler) Reevaluate(c *gin.Context) {
	assetID, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	custody, err := h.ledger.Reevaluate(c.Request.Context(), assetID)
	if err != nil {
		response.Error(c, "Unable to reevaluate asset", err)
		return
	}

	c.JSON(http.StatusOK, custody)
}

func (h *LedgerHandler) eventRequest(assetID int, body LogEntryRequest, actor *int) (EventRequest, error) {
	status, err := metadata.NewLogStatus(body.Status)
	if err != nil {
		return EventRequest{}, custom_error.NewValidation("status", err.Error())
	}

	target, err := targetFromBody(status, body)
	if err != nil {
		return EventRequest{}, err
	}

	req := EventRequest{
		AssetID:   assetID,
		Status:    status,
		Timestamp: h.now(),
		Until:     body.DatetimeUntil,
		Target:    target,
		Condition: metadata.ConditionGood,
		Actor:     actor,
		Comments:  body.Comments,
	}
	if body.Datetime != nil {
		req.Timestamp = *body.Datetime
	}
	if body.Cond != nil {
		req.Condition = metadata.Condition(*body.Cond)
	}

	return req, nil
}

// targetFromBody reads the target ids of the form. Assignments take their
// variant from assign_type; other statuses use whichever id was sent and
// leave the fit with the status to the ledger.
func targetFromBody(status metadata.LogStatus, body LogEntryRequest) (Target, error) {
	if status == metadata.LogStatusAssign {
		return NewAssignTarget(body.AssignType, body.PersonID, body.SiteID, body.OrganisationID)
	}

	switch {
	case body.OrganisationID != nil:
		return OrganisationTarget{OrganisationID: *body.OrganisationID, SiteID: body.SiteID}, nil
	case body.PersonID != nil:
		return PersonTarget{PersonID: *body.PersonID}, nil
	case body.SiteID != nil:
		return SiteTarget{SiteID: *body.SiteID}, nil
	default:
		return NoTarget{}, nil
	}
}
