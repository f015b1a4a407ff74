package directory

import (
	"context"
	"fmt"

	"assetledger/internal/repository"
	custom_error "assetledger/pkg/errors"
	"assetledger/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

const (
	personsTable       = "persons"
	sitesTable         = "sites"
	organisationsTable = "organisations"
	locationsTable     = "locations"
)

// DirectoryRepository reads the person, site and organisation registries
// owned by other modules. It never writes to them.
type DirectoryRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *DirectoryRepository {
	return &DirectoryRepository{repository: r}
}

func (r *DirectoryRepository) GetPerson(ctx context.Context, id int) (*models.Person, error) {
	var person models.Person
	if err := r.fetch(ctx, personsTable, "person", id, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *DirectoryRepository) GetSite(ctx context.Context, id int) (*models.Site, error) {
	var site models.Site
	if err := r.fetch(ctx, sitesTable, "site", id, &site); err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *DirectoryRepository) GetOrganisation(ctx context.Context, id int) (*models.Organisation, error) {
	var organisation models.Organisation
	if err := r.fetch(ctx, organisationsTable, "organisation", id, &organisation); err != nil {
		return nil, err
	}
	return &organisation, nil
}

func (r *DirectoryRepository) GetLocation(ctx context.Context, id int) (*models.Location, error) {
	var location models.Location
	if err := r.fetch(ctx, locationsTable, "location", id, &location); err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *DirectoryRepository) fetch(ctx context.Context, table, resource string, id int, dest interface{}) error {
	found, err := byIDQuery(r.repository.GoquDBWrapper, table, id).
		Executor().
		ScanStructContext(ctx, dest)
	if err != nil {
		return fmt.Errorf("unable to select %s from database: %w", resource, err)
	}
	if !found {
		return custom_error.NewNotFound(resource, id)
	}

	return nil
}

func byIDQuery(ex repository.Executor, table string, id int) *goqu.SelectDataset {
	return ex.From(table).Where(goqu.Ex{"id": id})
}
