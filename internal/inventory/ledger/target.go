package ledger

import (
	"assetledger/pkg/metadata"
	"assetledger/pkg/models"

	custom_error "assetledger/pkg/errors"
)

// Target is who or where a log entry points at. It is one of PersonTarget,
// SiteTarget, OrganisationTarget or NoTarget.
type Target interface {
	targetKind() string
}

type PersonTarget struct {
	PersonID int
}

type SiteTarget struct {
	SiteID int
}

// OrganisationTarget may name one of the organisation's sites; without a
// site the asset location can no longer be tracked.
type OrganisationTarget struct {
	OrganisationID int
	SiteID         *int
}

type NoTarget struct{}

func (PersonTarget) targetKind() string       { return "person" }
func (SiteTarget) targetKind() string         { return "site" }
func (OrganisationTarget) targetKind() string { return "organisation" }
func (NoTarget) targetKind() string           { return "none" }

// NewAssignTarget builds the target of an assignment from the assignment
// type sent by the form.
func NewAssignTarget(assignType string, personID, siteID, organisationID *int) (Target, error) {
	switch assignType {
	case "person":
		if personID == nil {
			return nil, custom_error.NewInvalidTransition(string(metadata.LogStatusAssign), "person_id required for person assignment")
		}
		return PersonTarget{PersonID: *personID}, nil
	case "site":
		if siteID == nil {
			return nil, custom_error.NewInvalidTransition(string(metadata.LogStatusAssign), "site_id required for site assignment")
		}
		return SiteTarget{SiteID: *siteID}, nil
	case "organisation":
		if organisationID == nil {
			return nil, custom_error.NewInvalidTransition(string(metadata.LogStatusAssign), "organisation_id required for organisation assignment")
		}
		return OrganisationTarget{OrganisationID: *organisationID, SiteID: siteID}, nil
	default:
		return nil, custom_error.NewValidation("assign_type", "must be one of person, site, organisation")
	}
}

func validateTarget(status metadata.LogStatus, target Target) error {
	if target == nil {
		target = NoTarget{}
	}

	switch status {
	case metadata.LogStatusSetBase, metadata.LogStatusReturn:
		if _, ok := target.(SiteTarget); !ok {
			return custom_error.NewInvalidTransition(status.String(), "site target required, got "+target.targetKind())
		}
	case metadata.LogStatusAssign:
		switch target.(type) {
		case PersonTarget, SiteTarget, OrganisationTarget:
		default:
			return custom_error.NewInvalidTransition(status.String(), "person, site or organisation target required")
		}
	case metadata.LogStatusCheck, metadata.LogStatusRepair:
		switch target.(type) {
		case NoTarget, PersonTarget:
		default:
			return custom_error.NewInvalidTransition(status.String(), "only the updating person may be given, got "+target.targetKind())
		}
	default:
		if !status.IsDisposal() {
			return custom_error.NewValidation("status", "unknown status "+status.String())
		}
		if _, ok := target.(NoTarget); !ok {
			return custom_error.NewInvalidTransition(status.String(), "disposal takes no target, got "+target.targetKind())
		}
	}

	return nil
}

// setTarget copies the target ids into the entry columns.
func setTarget(entry *models.AssetLog, target Target) {
	switch t := target.(type) {
	case PersonTarget:
		entry.PersonID = intPtr(t.PersonID)
	case SiteTarget:
		entry.SiteID = intPtr(t.SiteID)
	case OrganisationTarget:
		entry.OrganisationID = intPtr(t.OrganisationID)
		entry.SiteID = t.SiteID
	}
}

// targetOf reads a target back from a stored entry.
func targetOf(entry models.AssetLog) Target {
	switch {
	case entry.OrganisationID != nil:
		return OrganisationTarget{OrganisationID: *entry.OrganisationID, SiteID: entry.SiteID}
	case entry.PersonID != nil:
		return PersonTarget{PersonID: *entry.PersonID}
	case entry.SiteID != nil:
		return SiteTarget{SiteID: *entry.SiteID}
	default:
		return NoTarget{}
	}
}

func intPtr(v int) *int {
	return &v
}
