// controllers/book_controller.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"Gin_postgres_library_api/app"
	"Gin_postgres_library_api/db"
	"Gin_postgres_library_api/models"

	"github.com/gin-gonic/gin"
)

const booksCacheKey = "books"

type BookController struct{ *Srv }

func NewBookController(s *Srv) *BookController { return &BookController{Srv: s} }

func (bc *BookController) ListBooks(c *gin.Context) {
	bc.Log.InfoContext(c.Request.Context(), "listing books")
	listCached(c, bc.Srv, booksCacheKey, bc.Repo.ListBooks)
}

func (bc *BookController) GetBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	b, err := bc.Repo.FindBookByID(c.Request.Context(), id)
	if errors.Is(err, db.ErrBookNotFound) {
		bc.Log.WarnContext(c.Request.Context(), "book not found", "id", id)
		app.Fail(c, http.StatusNotFound, "Book not found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (bc *BookController) CreateBook(c *gin.Context) {
	var in models.Book
	if !bindBody(c, &in) {
		return
	}
	in.ID = 0 // 主键由数据库分配

	ctx := c.Request.Context()
	if err := bc.Repo.CreateBook(ctx, &in); err != nil {
		_ = c.Error(err)
		return
	}
	bc.invalidate(ctx, booksCacheKey)
	bc.Log.InfoContext(ctx, "book created", "id", in.ID)

	c.Header("Location", fmt.Sprintf("/api/books/%d", in.ID))
	c.JSON(http.StatusCreated, in)
}

// UpdateBook replaces every field of the book named by the path.
func (bc *BookController) UpdateBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in models.Book
	if !bindBody(c, &in) {
		return
	}
	if in.ID != id {
		app.Fail(c, http.StatusBadRequest, "id in path and body differ")
		return
	}

	ctx := c.Request.Context()
	err := bc.Repo.UpdateBook(ctx, &in)
	if errors.Is(err, db.ErrBookNotFound) {
		bc.Log.WarnContext(ctx, "book not found", "id", id)
		app.Fail(c, http.StatusNotFound, "Book not found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	bc.invalidate(ctx, booksCacheKey)
	c.Status(http.StatusNoContent)
}

func (bc *BookController) DeleteBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	err := bc.Repo.DeleteBook(ctx, id)
	switch {
	case errors.Is(err, db.ErrBookNotFound):
		bc.Log.WarnContext(ctx, "book not found", "id", id)
		app.Fail(c, http.StatusNotFound, "Book not found")
		return
	case errors.Is(err, db.ErrInUse):
		app.Fail(c, http.StatusConflict, "Book has borrowing records")
		return
	case err != nil:
		_ = c.Error(err)
		return
	}
	bc.invalidate(ctx, booksCacheKey)
	c.Status(http.StatusNoContent)
}
