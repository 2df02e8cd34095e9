package app

import (
	"net/http"
	"strings"

	"Gin_postgres_library_api/session"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// AuthRequired rejects the request unless it carries a valid, unrevoked bearer token.
func AuthRequired(tokens *session.Issuer, deny *session.Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, "missing bearer token")
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			unauthorized(c, "invalid token")
			return
		}
		revoked, err := deny.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if revoked {
			unauthorized(c, "token revoked")
			return
		}

		// 把 userID 放进上下文，后续 handler 可用
		c.Set(claimsKey, claims)
		c.Set("userID", claims.Subject)
		c.Next()
	}
}

// ClaimsFrom returns the claims AuthRequired verified.
func ClaimsFrom(c *gin.Context) (*session.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*session.Claims)
	return claims, ok
}

func bearerToken(h string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer error="invalid_token"`)
	Fail(c, http.StatusUnauthorized, msg)
}
