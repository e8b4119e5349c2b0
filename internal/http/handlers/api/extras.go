package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"novi.com/app/internal/http/handlers"
	"novi.com/app/internal/http/headerutil"
	"novi.com/app/internal/http/middleware"
	"novi.com/app/internal/modules/articles"
	"novi.com/app/internal/modules/crud"
	"novi.com/app/internal/modules/onlineorderitems"
	"novi.com/app/internal/modules/onlineorders"
	"novi.com/app/internal/shared/apperr"
	"novi.com/app/internal/storage"
)

const maxImageSize = 5 << 20

type ImageAttacher interface {
	AttachImage(ctx context.Context, id int64, r io.Reader, in storage.PutInput) (articles.Article, error)
}

// ArticleImage handles POST /api/articles/:id/image with a multipart "file".
func ArticleImage(svc ImageAttacher) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxKeyEntity, articles.EntityName)
		id, ok := PathID(c)
		if !ok {
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize+1<<10)
		fh, err := c.FormFile("file")
		if err != nil {
			middleware.Fail(c, apperr.InvalidErr("A file field named \"file\" is required.", nil).WithKey("filemissing"))
			return
		}
		if fh.Size > maxImageSize {
			middleware.Fail(c, apperr.InvalidErr("The image is too large.", nil).WithKey("filetoolarge"))
			return
		}
		f, err := fh.Open()
		if err != nil {
			middleware.Fail(c, apperr.Wrap(err))
			return
		}
		defer f.Close()

		contentType := fh.Header.Get("Content-Type")
		if i := strings.IndexByte(contentType, ';'); i >= 0 {
			contentType = contentType[:i]
		}
		out, err := svc.AttachImage(c.Request.Context(), id, f, storage.PutInput{
			Filename:    fh.Filename,
			ContentType: strings.TrimSpace(contentType),
			Size:        fh.Size,
		})
		if err != nil {
			if errors.Is(err, articles.ErrImagesDisabled) {
				middleware.Fail(c, apperr.InvalidErr("Image uploads are disabled.", nil).WithKey("imagesdisabled"))
				return
			}
			middleware.Fail(c, handlers.DomainError(articles.EntityName, err))
			return
		}
		headerutil.EntityUpdate(c.Writer.Header(), articles.EntityName, c.Param("id"))
		c.JSON(http.StatusOK, out)
	}
}

type OrderFinder interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type ItemsByRef interface {
	FindByRef(ctx context.Context, column string, id int64) ([]onlineorderitems.OnlineOrderItem, error)
}

// OrderItems handles GET /api/online-orders/:id/items.
func OrderItems(orders OrderFinder, items ItemsByRef) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxKeyEntity, onlineorders.EntityName)
		id, ok := PathID(c)
		if !ok {
			return
		}
		found, err := orders.Exists(c.Request.Context(), id)
		if err != nil {
			middleware.Fail(c, apperr.Wrap(err))
			return
		}
		if !found {
			middleware.Fail(c, handlers.DomainError(onlineorders.EntityName, crud.ErrNotFound))
			return
		}
		out, err := items.FindByRef(c.Request.Context(), onlineorderitems.ColOnlineOrder, id)
		if err != nil {
			middleware.Fail(c, apperr.Wrap(err))
			return
		}
		if out == nil {
			out = []onlineorderitems.OnlineOrderItem{}
		}
		c.JSON(http.StatusOK, out)
	}
}
