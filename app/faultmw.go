package app

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

const InternalErrorMessage = "Internal Server Error from the custom middleware."

// ErrorDetails is the body of every error response.
type ErrorDetails struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Fail aborts the request with a classified error.
func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorDetails{StatusCode: status, Message: msg})
}

// FaultBoundary turns panics and errors handlers attached with c.Error into
// the uniform 500 body. Internal detail goes to the log only.
func FaultBoundary(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			log.ErrorContext(c.Request.Context(), "panic recovered",
				"request_id", GetRequestID(c), "panic", rec, "stack", string(debug.Stack()))
			internalError(c)
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		log.ErrorContext(c.Request.Context(), "unhandled error",
			"request_id", GetRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"err", c.Errors.String())
		internalError(c)
	}
}

func internalError(c *gin.Context) {
	// headers are gone once the body started; nothing left to do but log
	if c.Writer.Written() {
		c.Abort()
		return
	}
	Fail(c, http.StatusInternalServerError, InternalErrorMessage)
}
