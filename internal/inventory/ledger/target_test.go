package ledger

import (
	"testing"

	custom_error "assetledger/pkg/errors"
	"assetledger/pkg/metadata"
	"assetledger/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestNewAssignTarget(t *testing.T) {
	target, err := NewAssignTarget("person", intPtr(10), nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, PersonTarget{PersonID: 10}, target)

	target, err = NewAssignTarget("site", nil, intPtr(20), nil)
	assert.NoError(t, err)
	assert.Equal(t, SiteTarget{SiteID: 20}, target)

	target, err = NewAssignTarget("organisation", nil, intPtr(21), intPtr(1))
	assert.NoError(t, err)
	assert.Equal(t, OrganisationTarget{OrganisationID: 1, SiteID: intPtr(21)}, target)

	_, err = NewAssignTarget("person", nil, intPtr(20), nil)
	assert.True(t, custom_error.IsInvalidTransition(err))

	_, err = NewAssignTarget("organisation", nil, intPtr(20), nil)
	assert.True(t, custom_error.IsInvalidTransition(err))

	_, err = NewAssignTarget("team", intPtr(10), nil, nil)
	assert.True(t, custom_error.IsValidation(err))
}

func TestValidateTarget_Disposal(t *testing.T) {
	for _, status := range []metadata.LogStatus{
		metadata.LogStatusDonated,
		metadata.LogStatusLost,
		metadata.LogStatusStolen,
		metadata.LogStatusDestroy,
	} {
		assert.NoError(t, validateTarget(status, nil), status)
		assert.True(t, custom_error.IsInvalidTransition(validateTarget(status, SiteTarget{SiteID: 1})), status)
	}
}

func TestTargetRoundTrip(t *testing.T) {
	targets := []Target{
		PersonTarget{PersonID: 10},
		SiteTarget{SiteID: 20},
		OrganisationTarget{OrganisationID: 1},
		OrganisationTarget{OrganisationID: 1, SiteID: intPtr(21)},
		NoTarget{},
	}

	for _, target := range targets {
		var entry models.AssetLog
		setTarget(&entry, target)
		assert.Equal(t, target, targetOf(entry))
	}
}
