package ledger

import (
	"context"
	"encoding/json"
	"sort"

	custom_error "assetledger/pkg/errors"
	"assetledger/pkg/models"
)

// memStore is an in-memory Store used by the ledger tests. A failed
// Transact restores the state it started from.
type memStore struct {
	assets   map[int]models.Asset
	entries  []models.AssetLog
	items    map[int][]models.AssetItem
	nextID   int
	itemsErr error
}

func newMemStore() *memStore {
	return &memStore{
		assets: map[int]models.Asset{},
		items:  map[int][]models.AssetItem{},
		nextID: 1,
	}
}

func (s *memStore) addAsset(asset models.Asset) {
	s.assets[asset.ID] = asset
}

func (s *memStore) addItems(assetID int, n int) {
	for i := 0; i < n; i++ {
		s.items[assetID] = append(s.items[assetID], models.AssetItem{ID: i + 1, AssetID: assetID, Quantity: 1})
	}
}

func (s *memStore) asset(id int) models.Asset {
	return s.assets[id]
}

func (s *memStore) Transact(_ context.Context, fn func(tx Tx) error) error {
	assets := make(map[int]models.Asset, len(s.assets))
	for k, v := range s.assets {
		assets[k] = v
	}
	entries := append([]models.AssetLog(nil), s.entries...)
	nextID := s.nextID

	if err := fn(s); err != nil {
		s.assets = assets
		s.entries = entries
		s.nextID = nextID
		return err
	}
	return nil
}

func (s *memStore) GetAsset(_ context.Context, assetID int) (*models.Asset, error) {
	asset, ok := s.assets[assetID]
	if !ok || asset.Deleted {
		return nil, custom_error.NewNotFound("asset", assetID)
	}
	return &asset, nil
}

func (s *memStore) LockAsset(ctx context.Context, assetID int) (*models.Asset, error) {
	return s.GetAsset(ctx, assetID)
}

func (s *memStore) GetEntry(_ context.Context, entryID int) (*models.AssetLog, error) {
	for _, entry := range s.entries {
		if entry.ID == entryID {
			e := entry
			return &e, nil
		}
	}
	return nil, custom_error.NewNotFound("asset log entry", entryID)
}

func (s *memStore) GetEntries(_ context.Context, assetID int) ([]models.AssetLog, error) {
	var entries []models.AssetLog
	for _, entry := range s.entries {
		if entry.AssetID == assetID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (s *memStore) ListAssetIDs(context.Context) ([]int, error) {
	var ids []int
	for id, asset := range s.assets {
		if !asset.Deleted {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (s *memStore) InsertEntry(_ context.Context, entry *models.AssetLog) (int, error) {
	stored := *entry
	stored.ID = s.nextID
	s.nextID++
	s.entries = append(s.entries, stored)
	return stored.ID, nil
}

func (s *memStore) CancelEntry(_ context.Context, entryID int) (bool, error) {
	for i := range s.entries {
		if s.entries[i].ID == entryID {
			if s.entries[i].Cancelled {
				return false, nil
			}
			s.entries[i].Cancelled = true
			return true, nil
		}
	}
	return false, custom_error.NewNotFound("asset log entry", entryID)
}

func (s *memStore) UpdateCustody(_ context.Context, assetID int, custody models.Custody) error {
	asset, ok := s.assets[assetID]
	if !ok {
		return custom_error.NewNotFound("asset", assetID)
	}
	asset.Custody = custody
	s.assets[assetID] = asset
	return nil
}

func (s *memStore) UpdateItemsLocation(_ context.Context, assetID int, locationID *int) error {
	if s.itemsErr != nil {
		return s.itemsErr
	}
	for i := range s.items[assetID] {
		s.items[assetID][i].LocationID = locationID
	}
	return nil
}

type fakeDirectory struct {
	persons       map[int]models.Person
	sites         map[int]models.Site
	organisations map[int]models.Organisation
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		persons: map[int]models.Person{
			10: {ID: 10, Name: "Field officer", LocationID: intPtr(100)},
			11: {ID: 11, Name: "Driver"},
		},
		sites: map[int]models.Site{
			20: {ID: 20, Name: "Main warehouse", OrganisationID: intPtr(1), LocationID: intPtr(200)},
			21: {ID: 21, Name: "Field office", OrganisationID: intPtr(1), LocationID: intPtr(210)},
			22: {ID: 22, Name: "Partner depot", OrganisationID: intPtr(2), LocationID: intPtr(220)},
		},
		organisations: map[int]models.Organisation{
			1: {ID: 1, Name: "Red Cross"},
			2: {ID: 2, Name: "Partner NGO"},
		},
	}
}

func (d *fakeDirectory) GetPerson(_ context.Context, id int) (*models.Person, error) {
	p, ok := d.persons[id]
	if !ok {
		return nil, custom_error.NewNotFound("person", id)
	}
	return &p, nil
}

func (d *fakeDirectory) GetSite(_ context.Context, id int) (*models.Site, error) {
	s, ok := d.sites[id]
	if !ok {
		return nil, custom_error.NewNotFound("site", id)
	}
	return &s, nil
}

func (d *fakeDirectory) GetOrganisation(_ context.Context, id int) (*models.Organisation, error) {
	o, ok := d.organisations[id]
	if !ok {
		return nil, custom_error.NewNotFound("organisation", id)
	}
	return &o, nil
}

// mapCache is a StateCache kept in a map, storing JSON like the redis cache.
type mapCache struct {
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}}
}

func (c *mapCache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) SetJSON(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}
