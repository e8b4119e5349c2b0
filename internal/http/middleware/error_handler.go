package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"novi.com/app/internal/http/headerutil"
	"novi.com/app/internal/shared/apperr"
	"novi.com/app/pkg/view"
)

// CtxKeyEntity names the entity a handler works on; failure alerts carry it.
const CtxKeyEntity = "entity"

func WantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler renders the last error attached to the context, as JSON for
// API clients and as an HTML page otherwise.
func ErrorHandler(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.HTTPStatus(err)
		publicMsg := apperr.PublicMessage(err)
		rid := GetRequestID(c)

		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		l.LogAttrs(c.Request.Context(), level, "request_failed",
			slog.String("request_id", rid),
			slog.Int("status", status),
			slog.Any("err", err),
		)

		if entity := c.GetString(CtxKeyEntity); entity != "" {
			headerutil.Failure(c.Writer.Header(), entity, apperr.ErrorKey(err))
		}

		if WantsJSON(c) {
			payload := gin.H{
				"status":     status,
				"title":      http.StatusText(status),
				"message":    "error." + apperr.ErrorKey(err),
				"detail":     publicMsg,
				"request_id": rid,
			}
			if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
				payload["fields"] = ae.Fields
			}
			c.AbortWithStatusJSON(status, payload)
			return
		}

		c.Abort()
		c.HTML(status, "error", view.ErrorPage{
			Flash:     GetFlash(c),
			Status:    status,
			Title:     http.StatusText(status),
			Message:   publicMsg,
			RequestID: rid,
		})
	}
}
