package db

import (
	"context"
	"errors"
	"fmt"

	"Gin_postgres_library_api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrPatronNotFound  = errors.New("patron not found")
	ErrRecordNotFound  = errors.New("borrowing record not found")
	ErrAlreadyBorrowed = errors.New("book already borrowed by this patron")
	ErrLoanNotFound    = errors.New("no borrowing record found for this book and patron")
	ErrAlreadyReturned = errors.New("borrowing record already returned")
	ErrInUse           = errors.New("referenced by borrowing records")
	ErrUpdateConflict  = errors.New("concurrent update conflict")
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

func findByID[T any](ctx context.Context, db *gorm.DB, id uint, notFound error) (*T, error) {
	var v T
	if err := db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	return &v, nil
}

// updateByID replaces the listed columns of the row identified by v's primary key.
// A zero row count means the row is gone, or something else changed under us.
func updateByID[T any](ctx context.Context, db *gorm.DB, v *T, id uint, columns []string, notFound error) error {
	res := db.WithContext(ctx).Model(v).Select(columns).Updates(v)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return fmt.Errorf("update id %d: %w", id, ErrUpdateConflict)
}

// deleteByID removes the row unless a borrowing record still points at it through fk.
func deleteByID[T any](ctx context.Context, db *gorm.DB, id uint, fk string, notFound error) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v T
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound
			}
			return err
		}
		var n int64
		if err := tx.Model(&models.BorrowingRecord{}).Where(fk+" = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrInUse
		}
		return tx.Delete(&v).Error
	})
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrInUse
	}
	return err
}
