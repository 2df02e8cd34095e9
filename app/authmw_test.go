package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Gin_postgres_library_api/cache"
	"Gin_postgres_library_api/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newAuthRouter(tokens *session.Issuer, deny *session.Denylist) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(FaultBoundary(discardLogger()))
	r.GET("/secret", AuthRequired(tokens, deny), func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, H{"sub": claims.Subject, "userID": c.GetString("userID")})
	})
	return r
}

func get(r http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	tokens := session.NewIssuer(testKey, "library", 30*time.Minute)
	deny := session.NewDenylist(cache.NewMemory())
	r := newAuthRouter(tokens, deny)

	raw, claims, err := tokens.Issue(session.Identity{Username: "test", Email: "test@example.com"})
	require.NoError(t, err)

	w := get(r, "Bearer "+raw)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sub":"test","userID":"test"}`, w.Body.String())

	w = get(r, "bearer "+raw)
	assert.Equal(t, http.StatusOK, w.Code, "scheme is case-insensitive")

	for name, header := range map[string]string{
		"missing":   "",
		"no scheme": raw,
		"basic":     "Basic dGVzdDpwYXNzd29yZA==",
		"empty":     "Bearer ",
		"garbage":   "Bearer abc.def.ghi",
	} {
		t.Run(name, func(t *testing.T) {
			w := get(r, header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
		})
	}

	require.NoError(t, deny.Revoke(context.Background(), claims))
	w = get(r, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"statusCode":401,"message":"token revoked"}`, w.Body.String())
}

func TestAuthRequiredRejectsForeignIssuer(t *testing.T) {
	tokens := session.NewIssuer(testKey, "library", 30*time.Minute)
	r := newAuthRouter(tokens, session.NewDenylist(cache.NewMemory()))

	foreign := session.NewIssuer(testKey, "elsewhere", 30*time.Minute)
	raw, _, err := foreign.Issue(session.Identity{Username: "test"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+raw).Code)
}
