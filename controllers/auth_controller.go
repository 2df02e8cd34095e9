// controllers/auth_controller.go
package controllers

import (
	"errors"
	"net/http"

	"Gin_postgres_library_api/app"
	"Gin_postgres_library_api/session"

	"github.com/gin-gonic/gin"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges the configured credentials for a bearer token.
func (ac *AuthController) Login(c *gin.Context) {
	var in LoginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		app.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx := c.Request.Context()

	id, err := ac.Accounts.Authenticate(ctx, in.Username, in.Password)
	if errors.Is(err, session.ErrInvalidCredentials) {
		ac.Log.WarnContext(ctx, "login rejected", "username", in.Username)
		app.Fail(c, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	token, claims, err := ac.Tokens.Issue(id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ac.Log.InfoContext(ctx, "token issued", "sub", claims.Subject, "jti", claims.ID)
	c.JSON(http.StatusOK, app.H{"token": token})
}

// Logout revokes the presented token until it would have expired anyway.
func (ac *AuthController) Logout(c *gin.Context) {
	claims, ok := app.ClaimsFrom(c)
	if !ok {
		app.Fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := ac.Denylist.Revoke(c.Request.Context(), claims); err != nil {
		_ = c.Error(err)
		return
	}
	ac.Log.InfoContext(c.Request.Context(), "token revoked", "sub", claims.Subject, "jti", claims.ID)
	c.Status(http.StatusNoContent)
}

func (ac *AuthController) Me(c *gin.Context) {
	claims, ok := app.ClaimsFrom(c)
	if !ok {
		app.Fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	c.JSON(http.StatusOK, app.H{
		"username":  claims.Subject,
		"email":     claims.Email,
		"expiresAt": claims.ExpiresAt.Time,
	})
}
