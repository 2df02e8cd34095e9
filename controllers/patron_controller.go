// controllers/patron_controller.go
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

const patronsCacheKey = "patrons"

type PatronController struct{ *Srv }

func NewPatronController(s *Srv) *PatronController { return &PatronController{Srv: s} }

func (pc *PatronController) ListPatrons(c *gin.Context) {
	pc.Log.InfoContext(c.Request.Context(), "listing patrons")
	listCached(c, pc.Srv, patronsCacheKey, pc.Repo.ListPatrons)
}

func (pc *PatronController) GetPatron(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := pc.Repo.FindPatronByID(c.Request.Context(), id)
	if errors.Is(err, db.ErrPatronNotFound) {
		pc.Log.WarnContext(c.Request.Context(), "patron not found", "id", id)
		app.Fail(c, http.StatusNotFound, "Patron not found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (pc *PatronController) CreatePatron(c *gin.Context) {
	var in models.Patron
	if !bindBody(c, &in) {
		return
	}
	in.ID = 0 // 主键由数据库分配

	ctx := c.Request.Context()
	if err := pc.Repo.CreatePatron(ctx, &in); err != nil {
		_ = c.Error(err)
		return
	}
	pc.invalidate(ctx, patronsCacheKey)
	pc.Log.InfoContext(ctx, "patron created", "id", in.ID)

	c.Header("Location", fmt.Sprintf("/api/patrons/%d", in.ID))
	c.JSON(http.StatusCreated, in)
}

// UpdatePatron replaces every field of the patron named by the path.
func (pc *PatronController) UpdatePatron(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in models.Patron
	if !bindBody(c, &in) {
		return
	}
	if in.ID != id {
		app.Fail(c, http.StatusBadRequest, "id in path and body differ")
		return
	}

	ctx := c.Request.Context()
	err := pc.Repo.UpdatePatron(ctx, &in)
	if errors.Is(err, db.ErrPatronNotFound) {
		pc.Log.WarnContext(ctx, "patron not found", "id", id)
		app.Fail(c, http.StatusNotFound, "Patron not found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	pc.invalidate(ctx, patronsCacheKey)
	c.Status(http.StatusNoContent)
}

func (pc *PatronController) DeletePatron(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	err := pc.Repo.DeletePatron(ctx, id)
	switch {
	case errors.Is(err, db.ErrPatronNotFound):
		pc.Log.WarnContext(ctx, "patron not found", "id", id)
		app.Fail(c, http.StatusNotFound, "Patron not found")
		return
	case errors.Is(err, db.ErrInUse):
		app.Fail(c, http.StatusConflict, "Patron has borrowing records")
		return
	case err != nil:
		_ = c.Error(err)
		return
	}
	pc.invalidate(ctx, patronsCacheKey)
	c.Status(http.StatusNoContent)
}
