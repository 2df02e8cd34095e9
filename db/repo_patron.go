package db

import (
	"context"

	"Gin_postgres_library_api/models"
)

var patronColumns = []string{"Name", "ContactInformation"}

func (r *Repo) ListPatrons(ctx context.Context) ([]models.Patron, error) {
	patrons := []models.Patron{}
	err := r.DB.WithContext(ctx).Order("id").Find(&patrons).Error
	return patrons, err
}

func (r *Repo) FindPatronByID(ctx context.Context, id uint) (*models.Patron, error) {
	return findByID[models.Patron](ctx, r.DB, id, ErrPatronNotFound)
}

func (r *Repo) CreatePatron(ctx context.Context, p *models.Patron) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *Repo) UpdatePatron(ctx context.Context, p *models.Patron) error {
	return updateByID(ctx, r.DB, p, p.ID, patronColumns, ErrPatronNotFound)
}

func (r *Repo) DeletePatron(ctx context.Context, id uint) error {
	return deleteByID[models.Patron](ctx, r.DB, id, "patron_id", ErrPatronNotFound)
}
