package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"novi.com/app/internal/shared/apperr"
	"novi.com/app/internal/shared/auth"
)

const (
	CtxKeySubject = "auth_subject"
	TokenCookie   = "jwt"
)

// RequireRole rejects requests without a valid token carrying role. The
// token is read from the Authorization header, the jwt cookie, or the token
// query parameter (websocket clients cannot set headers). A validator
// without a secret lets every request through.
func RequireRole(v *auth.Validator, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !v.Enabled() {
			c.Next()
			return
		}

		claims, err := v.Validate(tokenFrom(c))
		if err != nil {
			msg := "Authentication required."
			if !errors.Is(err, auth.ErrMissingToken) {
				msg = "Invalid or expired token."
			}
			Fail(c, &apperr.AppError{Kind: apperr.Unauthorized, PublicMsg: msg, Key: "unauthorized", Err: err})
			return
		}
		if !claims.HasRole(role) {
			Fail(c, apperr.ForbiddenErr("Access denied.").WithKey("forbidden"))
			return
		}

		c.Set(CtxKeySubject, claims.Subject)
		c.Next()
	}
}

func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if v, err := c.Cookie(TokenCookie); err == nil && v != "" {
		return v
	}
	return strings.TrimSpace(c.Query("token"))
}
