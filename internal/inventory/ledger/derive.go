package ledger

import (
	"sort"

	"assetledger/pkg/metadata"
	"assetledger/pkg/models"
)

// placement holds the gis locations behind an entry's site and person.
type placement struct {
	siteLocation   *int
	personLocation *int
}

// isLater orders entries by datetime; on equal datetimes the later insert wins.
func isLater(a, b models.AssetLog) bool {
	if a.Datetime.Equal(b.Datetime) {
		return a.ID > b.ID
	}
	return a.Datetime.After(b.Datetime)
}

// currentEntry returns the latest non-cancelled entry, or nil.
func currentEntry(entries []models.AssetLog) *models.AssetLog {
	var current *models.AssetLog
	for i := range entries {
		entry := &entries[i]
		if entry.Cancelled {
			continue
		}
		if current == nil || isLater(*entry, *current) {
			current = entry
		}
	}
	return current
}

// activeInOrder returns the non-cancelled entries in insertion order.
func activeInOrder(entries []models.AssetLog) []models.AssetLog {
	active := make([]models.AssetLog, 0, len(entries))
	for _, entry := range entries {
		if !entry.Cancelled {
			active = append(active, entry)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].ID < active[j].ID
	})
	return active
}

// apply moves the asset's custody forward by one current entry.
func apply(prev models.Custody, entry models.AssetLog, p placement) models.Custody {
	next := prev

	switch entry.Status {
	case metadata.LogStatusSetBase:
		next.BaseSiteID = entry.SiteID
		next.LocationID = p.siteLocation
		next.AssignedToID = nil
		next.AssignedOrgID = nil

	case metadata.LogStatusAssign:
		switch t := targetOf(entry).(type) {
		case PersonTarget:
			if p.personLocation != nil {
				next.LocationID = p.personLocation
			}
			next.AssignedToID = intPtr(t.PersonID)
			next.AssignedOrgID = nil
		case SiteTarget:
			next.LocationID = p.siteLocation
			next.AssignedToID = nil
			next.AssignedOrgID = nil
		case OrganisationTarget:
			if t.SiteID != nil {
				next.LocationID = p.siteLocation
			} else {
				next.LocationID = nil
			}
			next.AssignedToID = nil
			next.AssignedOrgID = intPtr(t.OrganisationID)
		}

	case metadata.LogStatusReturn:
		next.LocationID = p.siteLocation
		next.AssignedToID = nil
		next.AssignedOrgID = nil
	}

	return next
}

func sameRef(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// newestFirst returns a copy of entries with the latest first.
func newestFirst(entries []models.AssetLog) []models.AssetLog {
	ordered := make([]models.AssetLog, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return isLater(ordered[i], ordered[j])
	})
	return ordered
}

func sameCustody(a, b models.Custody) bool {
	return sameRef(a.BaseSiteID, b.BaseSiteID) &&
		sameRef(a.LocationID, b.LocationID) &&
		sameRef(a.AssignedToID, b.AssignedToID) &&
		sameRef(a.AssignedOrgID, b.AssignedOrgID)
}
