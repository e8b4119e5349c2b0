// Package api exposes each entity as a REST resource under /api.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"novi.com/app/internal/http/handlers"
	"novi.com/app/internal/http/headerutil"
	"novi.com/app/internal/http/middleware"
	"novi.com/app/internal/modules/crud"
	"novi.com/app/internal/shared/apperr"
)

// Service is the part of crud.Service a resource needs.
type Service[T crud.Entity] interface {
	Create(ctx context.Context, e T) (T, error)
	Update(ctx context.Context, e T) (T, error)
	Get(ctx context.Context, id int64) (T, error)
	List(ctx context.Context, in crud.ListParams) (crud.Page[T], error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string, limit int) ([]T, error)
}

const maxBody = 1 << 20

// Resource serves /api/<Path> for one entity.
type Resource[T crud.Entity] struct {
	Entity string // e.g. "onlineOrder"
	Path   string // e.g. "online-orders"
	Svc    Service[T]
}

func NewResource[T crud.Entity](entity, path string, svc Service[T]) *Resource[T] {
	return &Resource[T]{Entity: entity, Path: path, Svc: svc}
}

func (r *Resource[T]) Register(api *gin.RouterGroup) {
	g := api.Group("/"+r.Path, r.tag)
	g.POST("", r.create)
	g.PUT("", r.update)
	g.GET("", r.list)
	g.GET("/:id", r.get)
	g.DELETE("/:id", r.delete)

	api.GET("/_search/"+r.Path, r.tag, r.search)
}

func (r *Resource[T]) tag(c *gin.Context) {
	c.Set(middleware.CtxKeyEntity, r.Entity)
	c.Next()
}

func (r *Resource[T]) fail(c *gin.Context, err error) {
	middleware.Fail(c, handlers.DomainError(r.Entity, err))
}

func (r *Resource[T]) location(id int64) string {
	return "/api/" + r.Path + "/" + strconv.FormatInt(id, 10)
}

func (r *Resource[T]) create(c *gin.Context) {
	var in T
	if err := decodeBody(c, &in); err != nil {
		middleware.Fail(c, err)
		return
	}
	out, err := r.Svc.Create(c.Request.Context(), in)
	if err != nil {
		r.fail(c, err)
		return
	}
	id := strconv.FormatInt(out.EntityID(), 10)
	headerutil.EntityCreation(c.Writer.Header(), r.Entity, id)
	c.Header("Location", r.location(out.EntityID()))
	c.JSON(http.StatusCreated, out)
}

func (r *Resource[T]) update(c *gin.Context) {
	var in T
	if err := decodeBody(c, &in); err != nil {
		middleware.Fail(c, err)
		return
	}
	out, err := r.Svc.Update(c.Request.Context(), in)
	if err != nil {
		r.fail(c, err)
		return
	}
	headerutil.EntityUpdate(c.Writer.Header(), r.Entity, strconv.FormatInt(out.EntityID(), 10))
	c.JSON(http.StatusOK, out)
}

func (r *Resource[T]) list(c *gin.Context) {
	params := crud.ListParams{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "size", crud.DefaultPageSize),
	}.Normalize()

	page, err := r.Svc.List(c.Request.Context(), params)
	if err != nil {
		r.fail(c, err)
		return
	}
	setPaginationHeaders(c, "/api/"+r.Path, page)
	items := page.Items
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

func (r *Resource[T]) get(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	out, err := r.Svc.Get(c.Request.Context(), id)
	if err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (r *Resource[T]) delete(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	if err := r.Svc.Delete(c.Request.Context(), id); err != nil {
		r.fail(c, err)
		return
	}
	headerutil.EntityDeletion(c.Writer.Header(), r.Entity, strconv.FormatInt(id, 10))
	c.Status(http.StatusOK)
}

func (r *Resource[T]) search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("query"))
	if q == "" {
		middleware.Fail(c, apperr.InvalidErr("The query parameter is required.", nil).WithKey("querymissing"))
		return
	}
	limit := queryInt(c, "size", crud.DefaultPageSize)
	if limit > crud.MaxPageSize {
		limit = crud.MaxPageSize
	}
	out, err := r.Svc.Search(c.Request.Context(), q, limit)
	if err != nil {
		r.fail(c, err)
		return
	}
	if out == nil {
		out = []T{}
	}
	c.JSON(http.StatusOK, out)
}

// PathID parses the :id parameter. On failure the request is aborted with a
// 400 and ok is false.
func PathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.Fail(c, handlers.BadID())
		return 0, false
	}
	return id, true
}

func decodeBody(c *gin.Context, dst any) error {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody))
	if err != nil {
		return apperr.InvalidErr("Could not read the request body.", nil).WithKey("badrequest")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		ae := apperr.InvalidErr("The request body is not valid JSON for this resource.", nil).WithKey("badrequest")
		ae.Err = fmt.Errorf("decode body: %w", err)
		return ae
	}
	return nil
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// setPaginationHeaders writes X-Total-Count and an RFC 5988 Link header.
func setPaginationHeaders[T any](c *gin.Context, base string, p crud.Page[T]) {
	c.Header("X-Total-Count", strconv.FormatInt(p.Total, 10))

	link := func(page int, rel string) string {
		return fmt.Sprintf(`<%s?page=%d&size=%d>; rel="%s"`, base, page, p.PageSize, rel)
	}
	last := p.TotalPages()
	links := make([]string, 0, 4)
	if p.Page < last {
		links = append(links, link(p.Page+1, "next"))
	}
	if p.Page > 1 {
		links = append(links, link(p.Page-1, "prev"))
	}
	links = append(links, link(last, "last"), link(1, "first"))
	c.Header("Link", strings.Join(links, ","))
}
