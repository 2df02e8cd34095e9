package db

import (
	"context"

	"Gin_postgres_library_api/models"
)

var bookColumns = []string{"Title", "Author", "PublicationYear", "ISBN"}

func (r *Repo) ListBooks(ctx context.Context) ([]models.Book, error) {
	books := []models.Book{}
	err := r.DB.WithContext(ctx).Order("id").Find(&books).Error
	return books, err
}

func (r *Repo) FindBookByID(ctx context.Context, id uint) (*models.Book, error) {
	return findByID[models.Book](ctx, r.DB, id, ErrBookNotFound)
}

func (r *Repo) CreateBook(ctx context.Context, b *models.Book) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

// UpdateBook replaces every column of an existing book.
func (r *Repo) UpdateBook(ctx context.Context, b *models.Book) error {
	return updateByID(ctx, r.DB, b, b.ID, bookColumns, ErrBookNotFound)
}

func (r *Repo) DeleteBook(ctx context.Context, id uint) error {
	return deleteByID[models.Book](ctx, r.DB, id, "book_id", ErrBookNotFound)
}
