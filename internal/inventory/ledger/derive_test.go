package ledger

import (
	"testing"

	"assetledger/pkg/metadata"
	"assetledger/pkg/models"

	"github.com/stretchr/testify/assert"
)

func entry(id int, hours int, status metadata.LogStatus) models.AssetLog {
	return models.AssetLog{ID: id, AssetID: 1, Status: status, Datetime: at(hours)}
}

func TestCurrentEntry(t *testing.T) {
	assert.Nil(t, currentEntry(nil))

	entries := []models.AssetLog{
		entry(1, 5, metadata.LogStatusSetBase),
		entry(2, 1, metadata.LogStatusCheck),
		entry(3, 5, metadata.LogStatusRepair),
	}
	assert.Equal(t, 3, currentEntry(entries).ID)

	entries[2].Cancelled = true
	assert.Equal(t, 1, currentEntry(entries).ID)

	entries[0].Cancelled = true
	entries[1].Cancelled = true
	assert.Nil(t, currentEntry(entries))
}

func TestActiveInOrder(t *testing.T) {
	entries := []models.AssetLog{
		entry(1, 3, metadata.LogStatusAssign),
		entry(2, 1, metadata.LogStatusSetBase),
		entry(3, 3, metadata.LogStatusCheck),
		entry(4, 2, metadata.LogStatusRepair),
	}
	entries[3].Cancelled = true

	var ids []int
	for _, e := range activeInOrder(entries) {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int{1, 2, 3}, ids)

	var newest []int
	for _, e := range newestFirst(entries) {
		newest = append(newest, e.ID)
	}
	assert.Equal(t, []int{3, 1, 4, 2}, newest)
}

func TestApply(t *testing.T) {
	start := models.Custody{
		BaseSiteID:    intPtr(20),
		LocationID:    intPtr(200),
		AssignedToID:  intPtr(10),
		AssignedOrgID: nil,
	}

	tests := []struct {
		name  string
		entry models.AssetLog
		p     placement
		want  models.Custody
	}{
		{
			name:  "set base",
			entry: models.AssetLog{Status: metadata.LogStatusSetBase, SiteID: intPtr(21)},
			p:     placement{siteLocation: intPtr(210)},
			want:  models.Custody{BaseSiteID: intPtr(21), LocationID: intPtr(210)},
		},
		{
			name:  "assign person with location",
			entry: models.AssetLog{Status: metadata.LogStatusAssign, PersonID: intPtr(11)},
			p:     placement{personLocation: intPtr(110)},
			want:  models.Custody{BaseSiteID: intPtr(20), LocationID: intPtr(110), AssignedToID: intPtr(11)},
		},
		{
			name:  "assign person without location",
			entry: models.AssetLog{Status: metadata.LogStatusAssign, PersonID: intPtr(11)},
			want:  models.Custody{BaseSiteID: intPtr(20), LocationID: intPtr(200), AssignedToID: intPtr(11)},
		},
		{
			name:  "assign site",
			entry: models.AssetLog{Status: metadata.LogStatusAssign, SiteID: intPtr(21)},
			p:     placement{siteLocation: intPtr(210)},
			want:  models.Custody{BaseSiteID: intPtr(20), LocationID: intPtr(210)},
		},
		{
			name:  "assign organisation with site",
			entry: models.AssetLog{Status: metadata.LogStatusAssign, OrganisationID: intPtr(2), SiteID: intPtr(22)},
			p:     placement{siteLocation: intPtr(220)},
			want:  models.Custody{BaseSiteID: intPtr(20), LocationID: intPtr(220), AssignedOrgID: intPtr(2)},
		},
		{
			name:  "assign organisation without site",
			entry: models.AssetLog{Status: metadata.LogStatusAssign, OrganisationID: intPtr(2)},
			want:  models.Custody{BaseSiteID: intPtr(20), AssignedOrgID: intPtr(2)},
		},
		{
			name:  "return",
			entry: models.AssetLog{Status: metadata.LogStatusReturn, SiteID: intPtr(20)},
			p:     placement{siteLocation: intPtr(200)},
			want:  models.Custody{BaseSiteID: intPtr(20), LocationID: intPtr(200)},
		},
		{
			name:  "check keeps custody",
			entry: models.AssetLog{Status: metadata.LogStatusCheck},
			want:  start,
		},
		{
			name:  "lost keeps custody",
			entry: models.AssetLog{Status: metadata.LogStatusLost},
			want:  start,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apply(start, tt.entry, tt.p)
			assert.True(t, sameCustody(tt.want, got), "want %+v, got %+v", tt.want, got)
		})
	}
}

func TestSameRef(t *testing.T) {
	assert.True(t, sameRef(nil, nil))
	assert.True(t, sameRef(intPtr(3), intPtr(3)))
	assert.False(t, sameRef(intPtr(3), nil))
	assert.False(t, sameRef(intPtr(3), intPtr(4)))
}
