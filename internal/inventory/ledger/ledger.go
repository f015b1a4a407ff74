package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	custom_error "assetledger/pkg/errors"
	"assetledger/pkg/metadata"
	"assetledger/pkg/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NATS subjects of the events published by the ledger.
const (
	SubjectLogRecorded     = "assets.log.recorded"
	SubjectLogCancelled    = "assets.log.cancelled"
	SubjectLocationChanged = "assets.location.changed"
)

// EventRequest is one custody-changing event submitted for an asset.
type EventRequest struct {
	AssetID   int
	Status    metadata.LogStatus
	Timestamp time.Time
	Until     *time.Time
	Target    Target
	Condition metadata.Condition
	Actor     *int
	Comments  string
	RequestID string
}

// Event is published after every ledger mutation.
type Event struct {
	AssetID   int                `json:"asset_id"`
	EntryID   int                `json:"entry_id,omitempty"`
	Status    metadata.LogStatus `json:"status,omitempty"`
	Datetime  *time.Time         `json:"datetime,omitempty"`
	Current   bool               `json:"current"`
	RequestID string             `json:"request_id,omitempty"`
	models.Custody
}

// Ledger keeps an asset's derived custody consistent with its log.
type Ledger struct {
	store     Store
	directory Directory
	audit     AuditLogger
	publisher EventPublisher
	cache     StateCache
	now       func() time.Time
	logger    *zap.Logger
}

// Option configures optional collaborators of a Ledger.
type Option func(*Ledger)

// WithClock replaces time.Now as the source of SET_BASE timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithAuditLog writes an audit row for every recorded or cancelled entry.
func WithAuditLog(a AuditLogger) Option {
	return func(l *Ledger) { l.audit = a }
}

// WithPublisher publishes ledger events, see the Subject constants.
func WithPublisher(p EventPublisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// WithStateCache caches CurrentState results until the asset's log changes.
func WithStateCache(c StateCache) Option {
	return func(l *Ledger) { l.cache = c }
}

func NewLedger(store Store, directory Directory, logger *zap.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		store:     store,
		directory: directory,
		audit:     nopAudit{},
		publisher: nopPublisher{},
		cache:     nopCache{},
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type outcome struct {
	entry   models.AssetLog
	asset   models.Asset
	custody models.Custody
	current bool
}

// RecordEvent appends an entry to the asset log. When the entry is the
// asset's current entry the derived custody is updated and the new location
// is copied to kit items. A kit propagation error is returned together with
// the entry id: the entry and the asset row are already committed.
func (l *Ledger) RecordEvent(ctx context.Context, req EventRequest) (int, error) {
	out, err := l.record(ctx, req)
	if out == nil {
		return 0, err
	}
	return out.entry.ID, err
}

// SetBaseLocation logs a SET_BASE entry at the current time and returns the
// asset's derived location afterwards.
func (l *Ledger) SetBaseLocation(ctx context.Context, assetID, siteID int, actor *int) (*int, error) {
	out, err := l.record(ctx, EventRequest{
		AssetID:   assetID,
		Status:    metadata.LogStatusSetBase,
		Timestamp: l.now(),
		Target:    SiteTarget{SiteID: siteID},
		Condition: metadata.ConditionGood,
		Actor:     actor,
	})
	if out == nil {
		return nil, err
	}
	return out.custody.LocationID, err
}

// CurrentState returns the latest non-cancelled entry of the asset.
func (l *Ledger) CurrentState(ctx context.Context, assetID int) (State, error) {
	if _, err := l.store.GetAsset(ctx, assetID); err != nil {
		return State{}, err
	}

	var state State
	found, err := l.cache.GetJSON(ctx, stateKey(assetID), &state)
	if err != nil {
		l.logger.Warn("State cache read failed", zap.Int("asset_id", assetID), zap.Error(err))
	} else if found {
		return state, nil
	}

	entries, err := l.store.GetEntries(ctx, assetID)
	if err != nil {
		return State{}, fmt.Errorf("load log of asset %d: %w", assetID, err)
	}

	state = stateOf(currentEntry(entries))
	if err := l.cache.SetJSON(ctx, stateKey(assetID), state); err != nil {
		l.logger.Warn("State cache write failed", zap.Int("asset_id", assetID), zap.Error(err))
	}

	return state, nil
}

// ForgetState drops the cached state of an asset, used when the asset is
// deleted outside the ledger.
func (l *Ledger) ForgetState(ctx context.Context, assetID int) {
	l.invalidate(ctx, assetID)
}

// History returns the asset log, newest first, cancelled entries included.
func (l *Ledger) History(ctx context.Context, assetID int) ([]models.AssetLog, error) {
	if _, err := l.store.GetAsset(ctx, assetID); err != nil {
		return nil, err
	}

	entries, err := l.store.GetEntries(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("load log of asset %d: %w", assetID, err)
	}

	return newestFirst(entries), nil
}

// CancelEntry marks an entry as not having happened and recomputes the
// asset's custody from the entries that remain. Cancelling twice is a no-op.
func (l *Ledger) CancelEntry(ctx context.Context, entryID int) (State, error) {
	entry, err := l.store.GetEntry(ctx, entryID)
	if err != nil {
		return State{}, err
	}

	var (
		asset   models.Asset
		custody models.Custody
		changed bool
	)
	err = l.store.Transact(ctx, func(tx Tx) error {
		locked, err := tx.LockAsset(ctx, entry.AssetID)
		if err != nil {
			return err
		}
		asset = *locked

		changed, err = tx.CancelEntry(ctx, entryID)
		if err != nil || !changed {
			return err
		}

		entries, err := tx.GetEntries(ctx, asset.ID)
		if err != nil {
			return err
		}
		custody, err = l.replay(ctx, entries)
		if err != nil {
			return err
		}
		return tx.UpdateCustody(ctx, asset.ID, custody)
	})
	if err != nil {
		return State{}, fmt.Errorf("cancel log entry %d: %w", entryID, err)
	}

	if !changed {
		return l.CurrentState(ctx, entry.AssetID)
	}

	l.invalidate(ctx, asset.ID)
	l.logger.Info("Asset log entry cancelled",
		zap.Int("asset_id", asset.ID),
		zap.Int("entry_id", entryID),
	)
	l.audit.Log(
		"log_cancelled",
		map[string]interface{}{
			"entry_id": entryID,
			"status":   entry.Status,
			"msg":      "Asset log entry cancelled",
		},
		entry,
	)
	l.publish(ctx, SubjectLogCancelled, Event{
		AssetID:   asset.ID,
		EntryID:   entryID,
		Status:    entry.Status,
		RequestID: entry.RequestID,
		Custody:   custody,
	})

	propagateErr := l.propagate(ctx, asset, custody, Event{EntryID: entryID, RequestID: entry.RequestID})

	state, err := l.CurrentState(ctx, asset.ID)
	if err != nil {
		return State{}, err
	}
	return state, propagateErr
}

// Reevaluate recomputes the asset's custody from its whole log.
func (l *Ledger) Reevaluate(ctx context.Context, assetID int) (models.Custody, error) {
	var (
		asset   models.Asset
		custody models.Custody
	)
	err := l.store.Transact(ctx, func(tx Tx) error {
		locked, err := tx.LockAsset(ctx, assetID)
		if err != nil {
			return err
		}
		asset = *locked

		entries, err := tx.GetEntries(ctx, assetID)
		if err != nil {
			return err
		}
		custody, err = l.replay(ctx, entries)
		if err != nil {
			return err
		}
		if sameCustody(custody, asset.Custody) {
			return nil
		}
		return tx.UpdateCustody(ctx, assetID, custody)
	})
	if err != nil {
		return models.Custody{}, fmt.Errorf("reevaluate asset %d: %w", assetID, err)
	}

	l.invalidate(ctx, assetID)
	return custody, l.propagate(ctx, asset, custody, Event{})
}

// ReevaluateAll runs Reevaluate for every asset and returns how many
// succeeded. Failures are collected, not fatal.
func (l *Ledger) ReevaluateAll(ctx context.Context) (int, error) {
	ids, err := l.store.ListAssetIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list assets: %w", err)
	}

	var (
		done int
		errs []error
	)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := l.Reevaluate(ctx, id); err != nil {
			l.logger.Error("Asset reevaluation failed", zap.Int("asset_id", id), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		done++
	}

	return done, errors.Join(errs...)
}

func (l *Ledger) record(ctx context.Context, req EventRequest) (*outcome, error) {
	entry, err := buildEntry(req)
	if err != nil {
		return nil, err
	}

	p, err := l.resolve(ctx, req.Target)
	if err != nil {
		return nil, err
	}

	var out outcome
	err = l.store.Transact(ctx, func(tx Tx) error {
		asset, err := tx.LockAsset(ctx, req.AssetID)
		if err != nil {
			return err
		}
		out.asset = *asset
		out.custody = asset.Custody

		entries, err := tx.GetEntries(ctx, asset.ID)
		if err != nil {
			return err
		}
		current := currentEntry(entries)

		entry.ID, err = tx.InsertEntry(ctx, &entry)
		if err != nil {
			return err
		}

		if current != nil && !isLater(entry, *current) {
			return nil
		}

		out.current = true
		out.custody = apply(asset.Custody, entry, p)
		return tx.UpdateCustody(ctx, asset.ID, out.custody)
	})
	if err != nil {
		return nil, fmt.Errorf("record %s entry for asset %d: %w", req.Status, req.AssetID, err)
	}
	out.entry = entry

	l.invalidate(ctx, req.AssetID)
	l.logger.Info("Asset log entry recorded",
		zap.Int("asset_id", req.AssetID),
		zap.Int("entry_id", entry.ID),
		zap.String("status", entry.Status.String()),
		zap.Bool("current", out.current),
	)
	l.audit.Log(
		"log_recorded",
		map[string]interface{}{
			"entry_id": entry.ID,
			"status":   entry.Status,
			"datetime": entry.Datetime,
			"current":  out.current,
			"msg":      "Asset log entry recorded",
		},
		&entry,
	)

	ts := entry.Datetime
	l.publish(ctx, SubjectLogRecorded, Event{
		AssetID:   req.AssetID,
		EntryID:   entry.ID,
		Status:    entry.Status,
		Datetime:  &ts,
		Current:   out.current,
		RequestID: entry.RequestID,
		Custody:   out.custody,
	})

	if !out.current {
		return &out, nil
	}
	return &out, l.propagate(ctx, out.asset, out.custody, Event{EntryID: entry.ID, RequestID: entry.RequestID})
}

func buildEntry(req EventRequest) (models.AssetLog, error) {
	if !req.Status.IsValid() {
		return models.AssetLog{}, custom_error.NewValidation("status", "unknown status "+req.Status.String())
	}
	if req.Timestamp.IsZero() {
		return models.AssetLog{}, custom_error.NewValidation("datetime", "timestamp is required")
	}
	if req.Until != nil && req.Until.Before(req.Timestamp) {
		return models.AssetLog{}, custom_error.NewValidation("datetime_until", "must not precede datetime")
	}
	if !req.Condition.IsValid() {
		return models.AssetLog{}, custom_error.NewValidation("cond", "unknown condition "+strconv.Itoa(int(req.Condition)))
	}
	if err := validateTarget(req.Status, req.Target); err != nil {
		return models.AssetLog{}, err
	}

	entry := models.AssetLog{
		AssetID:    req.AssetID,
		Status:     req.Status,
		StatusCode: req.Status.Code(),
		Datetime:   req.Timestamp.UTC(),
		Condition:  int(req.Condition),
		ByPersonID: req.Actor,
		RequestID:  req.RequestID,
	}
	if req.Until != nil {
		until := req.Until.UTC()
		entry.DatetimeUntil = &until
	}
	if req.Comments != "" {
		comments := req.Comments
		entry.Comments = &comments
	}
	if entry.RequestID == "" {
		entry.RequestID = uuid.NewString()
	}
	setTarget(&entry, req.Target)

	return entry, nil
}

// resolve checks that the target exists and looks up its locations.
func (l *Ledger) resolve(ctx context.Context, target Target) (placement, error) {
	var p placement

	switch t := target.(type) {
	case PersonTarget:
		person, err := l.directory.GetPerson(ctx, t.PersonID)
		if err != nil {
			return p, err
		}
		p.personLocation = person.LocationID

	case SiteTarget:
		site, err := l.directory.GetSite(ctx, t.SiteID)
		if err != nil {
			return p, err
		}
		p.siteLocation = site.LocationID

	case OrganisationTarget:
		if _, err := l.directory.GetOrganisation(ctx, t.OrganisationID); err != nil {
			return p, err
		}
		if t.SiteID == nil {
			return p, nil
		}
		site, err := l.directory.GetSite(ctx, *t.SiteID)
		if err != nil {
			return p, err
		}
		if site.OrganisationID == nil || *site.OrganisationID != t.OrganisationID {
			return p, custom_error.NewValidation("site_id", fmt.Sprintf("site %d does not belong to organisation %d", site.ID, t.OrganisationID))
		}
		p.siteLocation = site.LocationID
	}

	return p, nil
}

// replay rebuilds custody the way RecordEvent built it: non-cancelled
// entries are taken in insertion order and applied only when they become
// the current entry, so backdated entries never move the asset.
// Targets that no longer exist contribute no location.
func (l *Ledger) replay(ctx context.Context, entries []models.AssetLog) (models.Custody, error) {
	var (
		custody models.Custody
		current *models.AssetLog
	)

	for _, entry := range activeInOrder(entries) {
		if current != nil && !isLater(entry, *current) {
			continue
		}
		current = &entry

		var p placement
		switch entry.Status {
		case metadata.LogStatusSetBase, metadata.LogStatusAssign, metadata.LogStatusReturn:
			var err error
			p, err = l.resolve(ctx, targetOf(entry))
			if err != nil {
				if !custom_error.IsNotFound(err) && !custom_error.IsValidation(err) {
					return custody, err
				}
				l.logger.Warn("Log entry target unresolved during replay",
					zap.Int("entry_id", entry.ID),
					zap.Error(err),
				)
				p = placement{}
			}
		}
		custody = apply(custody, entry, p)
	}

	return custody, nil
}

// propagate announces a location change and copies the location to kit
// items. cause carries the ids of the entry behind the change, if any.
func (l *Ledger) propagate(ctx context.Context, asset models.Asset, custody models.Custody, cause Event) error {
	if !sameRef(asset.LocationID, custody.LocationID) {
		event := cause
		event.AssetID = asset.ID
		event.Current = true
		event.Custody = custody
		l.publish(ctx, SubjectLocationChanged, event)
	}

	if !asset.Kit {
		return nil
	}

	if err := l.store.UpdateItemsLocation(ctx, asset.ID, custody.LocationID); err != nil {
		l.logger.Error("Kit item location update failed", zap.Int("asset_id", asset.ID), zap.Error(err))
		return fmt.Errorf("propagate location to kit items of asset %d: %w", asset.ID, err)
	}
	return nil
}

func (l *Ledger) publish(ctx context.Context, subject string, event Event) {
	if err := l.publisher.Publish(ctx, subject, event); err != nil {
		l.logger.Warn("Ledger event publish failed", zap.String("subject", subject), zap.Error(err))
	}
}

func (l *Ledger) invalidate(ctx context.Context, assetID int) {
	if err := l.cache.Delete(ctx, stateKey(assetID)); err != nil {
		l.logger.Warn("State cache invalidation failed", zap.Int("asset_id", assetID), zap.Error(err))
	}
}

func stateKey(assetID int) string {
	return "asset:state:" + strconv.Itoa(assetID)
}
