package db

import (
	"context"
	"errors"
	"time"

	"Gin_postgres_library_api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Borrow opens a loan: lock the book, check both parties, refuse a second
// outstanding loan for the same pair, insert. All or nothing.
func (r *Repo) Borrow(ctx context.Context, bookID, patronID uint) (*models.BorrowingRecord, error) {
	var rec *models.BorrowingRecord
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) book first, locked so concurrent borrows of it queue up here
		var book models.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&book, "id = ?", bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}
		// 2) patron
		var patron models.Patron
		if err := tx.First(&patron, "id = ?", patronID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPatronNotFound
			}
			return err
		}
		// 3) one outstanding loan per pair
		var n int64
		if err := tx.Model(&models.BorrowingRecord{}).
			Where("book_id = ? AND patron_id = ? AND return_date IS NULL", bookID, patronID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyBorrowed
		}
		// 4) insert
		l := &models.BorrowingRecord{
			BookID:     book.ID,
			PatronID:   patron.ID,
			BorrowDate: time.Now().UTC(),
		}
		if err := tx.Create(l).Error; err != nil {
			return err
		}
		rec = l
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost the race against the partial unique index
		return nil, ErrAlreadyBorrowed
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Return closes the outstanding loan for the pair. The update is conditional on
// return_date still being NULL, so it needs no explicit transaction.
func (r *Repo) Return(ctx context.Context, bookID, patronID uint) (*models.BorrowingRecord, error) {
	db := r.DB.WithContext(ctx)

	var rec models.BorrowingRecord
	err := db.Where("book_id = ? AND patron_id = ? AND return_date IS NULL", bookID, patronID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, r.noOutstandingLoan(ctx, bookID, patronID)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res := db.Model(&models.BorrowingRecord{}).
		Where("id = ? AND return_date IS NULL", rec.ID).
		Update("return_date", now)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyReturned
	}
	rec.ReturnDate = &now
	return &rec, nil
}

// noOutstandingLoan tells "never borrowed" apart from "already returned".
func (r *Repo) noOutstandingLoan(ctx context.Context, bookID, patronID uint) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.BorrowingRecord{}).
		Where("book_id = ? AND patron_id = ?", bookID, patronID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrAlreadyReturned
	}
	return ErrLoanNotFound
}

const (
	StatusOpen     = "open"
	StatusReturned = "returned"
)

type RecordFilter struct {
	BookID   uint
	PatronID uint
	Status   string // "", "open", "returned"
}

func (r *Repo) ListBorrowingRecords(ctx context.Context, f RecordFilter) ([]models.BorrowingRecord, error) {
	q := r.DB.WithContext(ctx).Model(&models.BorrowingRecord{}).Order("borrow_date DESC, id DESC")
	if f.BookID != 0 {
		q = q.Where("book_id = ?", f.BookID)
	}
	if f.PatronID != 0 {
		q = q.Where("patron_id = ?", f.PatronID)
	}
	switch f.Status {
	case StatusOpen:
		q = q.Where("return_date IS NULL")
	case StatusReturned:
		q = q.Where("return_date IS NOT NULL")
	}
	recs := []models.BorrowingRecord{}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// FindBorrowingRecordByID loads a record with its book and patron joined in.
func (r *Repo) FindBorrowingRecordByID(ctx context.Context, id uint) (*models.BorrowingRecord, error) {
	var rec models.BorrowingRecord
	err := r.DB.WithContext(ctx).
		Joins("Book").
		Joins("Patron").
		First(&rec, models.BorrowingRecordTable+".id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
