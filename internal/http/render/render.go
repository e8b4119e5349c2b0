// Package render writes admin pages and post-redirect-get responses.
package render

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"novi.com/app/internal/http/flash"
	"novi.com/app/pkg/view"
)

// Page renders the named template from the engine's HTML set.
func Page(c *gin.Context, status int, name string, data any) {
	c.HTML(status, name, data)
}

// RedirectWithFlash answers with 303 so the browser follows with a GET.
func RedirectWithFlash(c *gin.Context, codec *flash.Codec, location string, f view.Flash) {
	_ = codec.Write(c.Writer, f)
	c.Redirect(http.StatusSeeOther, location)
}
