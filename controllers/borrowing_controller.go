// controllers/borrowing_controller.go
package controllers

import (
	"errors"
	"net/http"

	"Gin_postgres_library_api/app"
	"Gin_postgres_library_api/db"

	"github.com/gin-gonic/gin"
)

type BorrowingController struct{ *Srv }

func NewBorrowingController(s *Srv) *BorrowingController { return &BorrowingController{Srv: s} }

// 借出
func (bc *BorrowingController) Borrow(c *gin.Context) {
	bookID, ok := parseID(c, "bookId")
	if !ok {
		return
	}
	patronID, ok := parseID(c, "patronId")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	log := bc.Log.With("book_id", bookID, "patron_id", patronID)

	rec, err := bc.Repo.Borrow(ctx, bookID, patronID)
	switch {
	case errors.Is(err, db.ErrBookNotFound):
		log.WarnContext(ctx, "borrow: book not found")
		app.Fail(c, http.StatusNotFound, "Book not found")
		return
	case errors.Is(err, db.ErrPatronNotFound):
		log.WarnContext(ctx, "borrow: patron not found")
		app.Fail(c, http.StatusNotFound, "Patron not found")
		return
	case errors.Is(err, db.ErrAlreadyBorrowed):
		log.WarnContext(ctx, "borrow: already outstanding")
		app.Fail(c, http.StatusConflict, "Book already borrowed by this patron")
		return
	case err != nil:
		_ = c.Error(err)
		return
	}
	log.InfoContext(ctx, "book borrowed", "record_id", rec.ID)
	c.JSON(http.StatusOK, rec)
}

// 归还
func (bc *BorrowingController) Return(c *gin.Context) {
	bookID, ok := parseID(c, "bookId")
	if !ok {
		return
	}
	patronID, ok := parseID(c, "patronId")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	log := bc.Log.With("book_id", bookID, "patron_id", patronID)

	rec, err := bc.Repo.Return(ctx, bookID, patronID)
	switch {
	case errors.Is(err, db.ErrLoanNotFound):
		log.WarnContext(ctx, "return: no borrowing record")
		app.Fail(c, http.StatusNotFound, "No borrowing record found")
		return
	case errors.Is(err, db.ErrAlreadyReturned):
		log.WarnContext(ctx, "return: already returned")
		app.Fail(c, http.StatusNotFound, "Borrowing record already returned")
		return
	case err != nil:
		_ = c.Error(err)
		return
	}
	log.InfoContext(ctx, "book returned", "record_id", rec.ID)
	c.JSON(http.StatusOK, rec)
}

// ListRecords 借还记录 ?bookId=&patronId=&status=open|returned
func (bc *BorrowingController) ListRecords(c *gin.Context) {
	var f db.RecordFilter
	filters := []struct {
		name string
		dst  *uint
	}{{"bookId", &f.BookID}, {"patronId", &f.PatronID}}
	for _, q := range filters {
		v := c.Query(q.name)
		if v == "" {
			continue
		}
		id, ok := positiveID(v)
		if !ok {
			app.Fail(c, http.StatusBadRequest, "invalid "+q.name)
			return
		}
		*q.dst = id
	}
	switch f.Status = c.Query("status"); f.Status {
	case "", db.StatusOpen, db.StatusReturned:
	default:
		app.Fail(c, http.StatusBadRequest, "status must be open or returned")
		return
	}

	recs, err := bc.Repo.ListBorrowingRecords(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (bc *BorrowingController) GetRecord(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rec, err := bc.Repo.FindBorrowingRecordByID(c.Request.Context(), id)
	if errors.Is(err, db.ErrRecordNotFound) {
		app.Fail(c, http.StatusNotFound, "Borrowing record not found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
