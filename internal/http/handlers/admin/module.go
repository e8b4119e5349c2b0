// Package admin serves the server-rendered back-office screens. Every entity
// gets the same feature module: list, detail, create/edit form and a delete
// confirmation dialog.
package admin

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"novi.com/app/internal/http/flash"
	"novi.com/app/internal/http/handlers"
	"novi.com/app/internal/http/middleware"
	"novi.com/app/internal/http/render"
	"novi.com/app/internal/modules/crud"
	"novi.com/app/internal/realtime"
	"novi.com/app/internal/shared/apperr"
	"novi.com/app/pkg/view"
)

const pageSize = 20

type Service[T crud.Entity] interface {
	Create(ctx context.Context, e T) (T, error)
	Update(ctx context.Context, e T) (T, error)
	Get(ctx context.Context, id int64) (T, error)
	List(ctx context.Context, in crud.ListParams) (crud.Page[T], error)
	Delete(ctx context.Context, id int64) error
}

// Descriptor tells a Module how to show and edit one entity.
type Descriptor[T crud.Entity] struct {
	Entity  string // event and message name, e.g. "onlineOrder"
	Label   string // singular, e.g. "Online Order"
	Title   string // plural heading
	Path    string // URL segment under /admin
	Columns []string
	Row     func(T) []string
	Detail  func(T) []view.DetailItem
	Fields  func(T) []view.Field
	// Parse reads the submitted form over base, which is the zero value on
	// create and the stored row on edit.
	Parse func(form url.Values, base T) (T, map[string]string)
	// Related optionally renders a sub-table on the detail page.
	Related func(ctx context.Context, id int64) (*view.ListPage, error)
}

type Module[T crud.Entity] struct {
	d      Descriptor[T]
	svc    Service[T]
	dialog *DeleteDialog
	flash  *flash.Codec
}

func NewModule[T crud.Entity](d Descriptor[T], svc Service[T], events realtime.Broadcaster, codec *flash.Codec) *Module[T] {
	return &Module[T]{
		d:      d,
		svc:    svc,
		dialog: NewDeleteDialog(d.Entity, svc, events),
		flash:  codec,
	}
}

// Register mounts the module's routes on the /admin group.
func (m *Module[T]) Register(g *gin.RouterGroup) {
	r := g.Group("/"+m.d.Path, func(c *gin.Context) {
		c.Set(middleware.CtxKeyEntity, m.d.Entity)
		c.Next()
	})
	r.GET("", m.list)
	r.GET("/new", m.newForm)
	r.POST("/new", m.create)
	r.GET("/:id", m.detail)
	r.GET("/:id/edit", m.editForm)
	r.POST("/:id/edit", m.update)
	r.GET("/:id/delete", m.deletePopup)
	r.POST("/:id/delete", m.confirmDelete)
}

func (m *Module[T]) base() string { return "/admin/" + m.d.Path }

func (m *Module[T]) itemURL(id int64) string {
	return m.base() + "/" + strconv.FormatInt(id, 10)
}

func (m *Module[T]) fail(c *gin.Context, err error) {
	middleware.Fail(c, handlers.DomainError(m.d.Entity, err))
}

func (m *Module[T]) id(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.Fail(c, handlers.BadID())
		return 0, false
	}
	return id, true
}

func (m *Module[T]) list(c *gin.Context) {
	page := 1
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		page = n
	}

	res, err := m.svc.List(c.Request.Context(), crud.ListParams{Page: page, PageSize: pageSize})
	if err != nil {
		m.fail(c, err)
		return
	}

	vm := view.ListPage{
		Flash:      middleware.GetFlash(c),
		Title:      m.d.Title,
		Entity:     m.d.Entity,
		Path:       m.base(),
		Columns:    m.d.Columns,
		Total:      res.Total,
		Page:       res.Page,
		TotalPages: res.TotalPages(),
	}
	for _, e := range res.Items {
		vm.Rows = append(vm.Rows, view.Row{ID: e.EntityID(), Cells: m.d.Row(e)})
	}
	render.Page(c, http.StatusOK, "list", vm)
}

func (m *Module[T]) detail(c *gin.Context) {
	id, ok := m.id(c)
	if !ok {
		return
	}
	e, err := m.svc.Get(c.Request.Context(), id)
	if err != nil {
		m.fail(c, err)
		return
	}

	vm := view.DetailPage{
		Flash:  middleware.GetFlash(c),
		Title:  m.d.Label,
		Entity: m.d.Entity,
		Path:   m.base(),
		ID:     id,
		Items:  m.d.Detail(e),
	}
	if m.d.Related != nil {
		if vm.Related, err = m.d.Related(c.Request.Context(), id); err != nil {
			m.fail(c, err)
			return
		}
	}
	render.Page(c, http.StatusOK, "detail", vm)
}

func (m *Module[T]) formPage(c *gin.Context, status int, id int64, e T, fieldErrs map[string]string, formErr string) {
	fields := m.d.Fields(e)
	for i := range fields {
		fields[i].Error = fieldErrs[fields[i].Name]
	}
	title, action := "Create a new "+m.d.Label, m.base()+"/new"
	if id != 0 {
		title, action = "Edit "+m.d.Label, m.itemURL(id)+"/edit"
	}
	render.Page(c, status, "form", view.FormPage{
		Flash:     middleware.GetFlash(c),
		Title:     title,
		Path:      m.base(),
		Action:    action,
		ID:        id,
		Fields:    fields,
		FormError: formErr,
	})
}

func (m *Module[T]) newForm(c *gin.Context) {
	var zero T
	m.formPage(c, http.StatusOK, 0, zero, nil, "")
}

func (m *Module[T]) create(c *gin.Context) {
	form, ok := postForm(c)
	if !ok {
		return
	}
	var zero T
	e, errs := m.d.Parse(form, zero)
	if errs != nil {
		m.formPage(c, http.StatusBadRequest, 0, e, errs, "")
		return
	}
	out, err := m.svc.Create(c.Request.Context(), e)
	if err != nil {
		if m.formError(c, 0, e, err) {
			return
		}
		m.fail(c, err)
		return
	}
	render.RedirectWithFlash(c, m.flash, m.itemURL(out.EntityID()),
		view.Success("A new "+m.d.Label+" is created with identifier "+strconv.FormatInt(out.EntityID(), 10)))
}

func (m *Module[T]) editForm(c *gin.Context) {
	id, ok := m.id(c)
	if !ok {
		return
	}
	e, err := m.svc.Get(c.Request.Context(), id)
	if err != nil {
		m.fail(c, err)
		return
	}
	m.formPage(c, http.StatusOK, id, e, nil, "")
}

func (m *Module[T]) update(c *gin.Context) {
	id, ok := m.id(c)
	if !ok {
		return
	}
	cur, err := m.svc.Get(c.Request.Context(), id)
	if err != nil {
		m.fail(c, err)
		return
	}
	form, ok := postForm(c)
	if !ok {
		return
	}
	e, errs := m.d.Parse(form, cur)
	if errs != nil {
		m.formPage(c, http.StatusBadRequest, id, e, errs, "")
		return
	}
	if _, err := m.svc.Update(c.Request.Context(), e); err != nil {
		if m.formError(c, id, e, err) {
			return
		}
		m.fail(c, err)
		return
	}
	render.RedirectWithFlash(c, m.flash, m.itemURL(id),
		view.Success("A "+m.d.Label+" is updated with identifier "+strconv.FormatInt(id, 10)))
}

// formError re-renders the form for errors the user can fix.
func (m *Module[T]) formError(c *gin.Context, id int64, e T, err error) bool {
	var (
		verr *crud.ValidationError
		rerr *crud.ReferenceError
	)
	switch {
	case errors.As(err, &verr):
		m.formPage(c, http.StatusBadRequest, id, e, verr.Fields, "")
	case errors.As(err, &rerr):
		m.formPage(c, http.StatusBadRequest, id, e,
			map[string]string{rerr.Field: "No such record."}, "")
	case errors.Is(err, crud.ErrConflict):
		m.formPage(c, http.StatusConflict, id, e, nil,
			"This "+m.d.Label+" conflicts with an existing one.")
	default:
		return false
	}
	return true
}

func postForm(c *gin.Context) (url.Values, bool) {
	if err := c.Request.ParseForm(); err != nil {
		middleware.Fail(c, apperr.InvalidErr("The submitted form could not be read.", nil).WithKey("badrequest"))
		return nil, false
	}
	return c.Request.PostForm, true
}

func (m *Module[T]) deletePopup(c *gin.Context) {
	id, ok := m.id(c)
	if !ok {
		return
	}
	if _, err := m.svc.Get(c.Request.Context(), id); err != nil {
		m.fail(c, err)
		return
	}
	render.Page(c, http.StatusOK, "delete", view.DeletePage{
		Title:    "Confirm delete operation",
		Path:     m.base(),
		ID:       id,
		Question: "Are you sure you want to delete " + m.d.Label + " " + strconv.FormatInt(id, 10) + "?",
	})
}

// confirmDelete handles the dialog's submit. Cancelling dismisses it back to
// the detail page; confirming deletes and returns to the list.
func (m *Module[T]) confirmDelete(c *gin.Context) {
	id, ok := m.id(c)
	if !ok {
		return
	}
	if c.PostForm("confirm") != "1" {
		c.Redirect(http.StatusSeeOther, m.itemURL(id))
		return
	}
	if err := m.dialog.ConfirmDelete(c.Request.Context(), id); err != nil {
		if errors.Is(err, crud.ErrConflict) {
			render.RedirectWithFlash(c, m.flash, m.itemURL(id),
				view.Failure("This "+m.d.Label+" is still referenced and cannot be deleted."))
			return
		}
		m.fail(c, err)
		return
	}
	render.RedirectWithFlash(c, m.flash, m.base(),
		view.Success("A "+m.d.Label+" is deleted with identifier "+strconv.FormatInt(id, 10)))
}
