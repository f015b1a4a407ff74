package ledger

import (
	"time"

	"assetledger/pkg/metadata"
	"assetledger/pkg/models"
)

// State is the asset's current log entry. A zero State means no entry exists.
type State struct {
	EntryID        int                `json:"entry_id,omitempty"`
	Status         metadata.LogStatus `json:"status"`
	Timestamp      *time.Time         `json:"datetime,omitempty"`
	PersonID       *int               `json:"person_id,omitempty"`
	SiteID         *int               `json:"site_id,omitempty"`
	OrganisationID *int               `json:"organisation_id,omitempty"`
	Condition      metadata.Condition `json:"cond,omitempty"`
}

func (s State) IsUnset() bool {
	return s.Status == ""
}

func stateOf(entry *models.AssetLog) State {
	if entry == nil {
		return State{}
	}

	ts := entry.Datetime
	return State{
		EntryID:        entry.ID,
		Status:         entry.Status,
		Timestamp:      &ts,
		PersonID:       entry.PersonID,
		SiteID:         entry.SiteID,
		OrganisationID: entry.OrganisationID,
		Condition:      metadata.Condition(entry.Condition),
	}
}

type Action string

const (
	ActionSetBase            Action = "set_base"
	ActionAssignPerson       Action = "assign_person"
	ActionAssignSite         Action = "assign_site"
	ActionAssignOrganisation Action = "assign_organisation"
	ActionUpdateStatus       Action = "update_status"
)

// AvailableActions lists what can be logged next. Assignment is withdrawn
// once the asset has been disposed of.
func AvailableActions(state State) []Action {
	actions := []Action{ActionSetBase}
	if !state.Status.IsDisposal() {
		actions = append(actions, ActionAssignPerson, ActionAssignSite, ActionAssignOrganisation)
	}
	return append(actions, ActionUpdateStatus)
}
