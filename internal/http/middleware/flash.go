package middleware

import (
	"github.com/gin-gonic/gin"

	"novi.com/app/internal/http/flash"
	"novi.com/app/pkg/view"
)

const CtxKeyFlash = "flash"

// FlashMiddleware moves the flash cookie into the context. The cookie is
// cleared even when it fails to verify.
func FlashMiddleware(codec *flash.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !codec.Has(c.Request) {
			c.Next()
			return
		}
		if f := codec.Read(c.Request); f != nil {
			c.Set(CtxKeyFlash, f)
		}
		codec.Clear(c.Writer)
		c.Next()
	}
}

func GetFlash(c *gin.Context) *view.Flash {
	if f, ok := c.Value(CtxKeyFlash).(*view.Flash); ok {
		return f
	}
	return nil
}
