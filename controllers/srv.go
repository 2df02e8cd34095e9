// controllers/srv.go
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"Gin_postgres_library_api/app"
	"Gin_postgres_library_api/cache"
	"Gin_postgres_library_api/db"
	"Gin_postgres_library_api/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type Srv struct {
	Repo     *db.Repo
	Lists    cache.Store
	CacheTTL time.Duration
	Tokens   *session.Issuer
	Denylist *session.Denylist
	Accounts session.Authenticator
	Log      *slog.Logger
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:     db.NewRepo(a.DB),
		Lists:    a.Lists,
		CacheTTL: a.Config.CacheTTL,
		Tokens:   a.Tokens,
		Denylist: a.Denylist,
		Accounts: a.Accounts,
		Log:      a.Log,
	}
}

func init() {
	// field errors use the JSON names clients send
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// --- helpers ---

// ValidationProblem lists every violated field.
type ValidationProblem struct {
	StatusCode int                 `json:"statusCode"`
	Message    string              `json:"message"`
	Errors     map[string][]string `json:"errors"`
}

// bindBody decodes and validates the JSON body, answering 400 itself on failure.
func bindBody(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		p := ValidationProblem{
			StatusCode: http.StatusBadRequest,
			Message:    "One or more validation errors occurred.",
			Errors:     make(map[string][]string, len(ves)),
		}
		for _, fe := range ves {
			p.Errors[fe.Field()] = append(p.Errors[fe.Field()], fieldMessage(fe))
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, p)
		return false
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, ValidationProblem{
			StatusCode: http.StatusBadRequest,
			Message:    "One or more validation errors occurred.",
			Errors: map[string][]string{
				ute.Field: {fmt.Sprintf("%s must be of type %s", ute.Field, ute.Type)},
			},
		})
		return false
	}
	app.Fail(c, http.StatusBadRequest, "invalid request body")
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// parseID reads a positive integer path parameter, answering 400 when it is not one.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, ok := positiveID(c.Param(name))
	if !ok {
		app.Fail(c, http.StatusBadRequest, "invalid "+name)
	}
	return id, ok
}

// positiveID accepts 1..MaxInt64, the range of a bigint key.
func positiveID(s string) (uint, bool) {
	n, err := strconv.ParseUint(s, 10, 63)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// listCached serves a whole collection through the list cache. Cache faults
// are logged and fall through to the database.
func listCached[T any](c *gin.Context, s *Srv, key string, load func(context.Context) ([]T, error)) {
	ctx := c.Request.Context()
	log := s.Log.With("key", key)

	var items []T
	hit, err := cache.GetJSON(ctx, s.Lists, key, &items)
	if err != nil {
		log.WarnContext(ctx, "cache read failed", "err", err)
	}
	if hit {
		log.InfoContext(ctx, "cache hit")
		c.JSON(http.StatusOK, items)
		return
	}

	log.InfoContext(ctx, "cache miss, loading from database")
	items, err = load(ctx)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := cache.SetJSON(ctx, s.Lists, key, items, s.CacheTTL); err != nil {
		log.WarnContext(ctx, "cache write failed", "err", err)
	}
	c.JSON(http.StatusOK, items)
}

// invalidate drops a collection after a local write.
func (s *Srv) invalidate(ctx context.Context, key string) {
	if err := s.Lists.Delete(ctx, key); err != nil {
		s.Log.WarnContext(ctx, "cache invalidate failed", "key", key, "err", err)
	}
}
