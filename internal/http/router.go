package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"novi.com/app/internal/app"
	"novi.com/app/internal/http/flash"
	"novi.com/app/internal/http/handlers"
	"novi.com/app/internal/http/handlers/admin"
	"novi.com/app/internal/http/handlers/api"
	"novi.com/app/internal/http/middleware"
	"novi.com/app/internal/modules/articles"
	"novi.com/app/internal/modules/deliveryorderitems"
	"novi.com/app/internal/modules/onlineorderitems"
	"novi.com/app/internal/modules/onlineorders"
	"novi.com/app/internal/shared/apperr"
	"novi.com/app/internal/shared/auth"
	"novi.com/app/internal/tracing"
	"novi.com/app/templates"
)

type RouterDeps struct {
	Logger      *slog.Logger
	App         *app.App
	Flash       *flash.Codec
	Auth        *auth.Validator
	Role        string
	ServiceName string

	// UploadDir is served under UploadURL when images are stored locally.
	UploadDir string
	UploadURL string
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(templates.Must())

	r.Use(
		tracing.Middleware(d.ServiceName),
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.Metrics(d.App.Metrics),
		middleware.FlashMiddleware(d.Flash),
		middleware.ErrorHandler(d.Logger),
		middleware.Recovery(d.Logger),
	)

	r.StaticFS("/static", http.FS(templates.Static()))
	if d.UploadDir != "" && d.UploadURL != "" {
		r.Static(d.UploadURL, d.UploadDir)
	}

	r.NoRoute(func(c *gin.Context) {
		middleware.Fail(c, apperr.NotFoundErr("Page not found."))
	})

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/admin/articles")
	})

	guard := middleware.RequireRole(d.Auth, d.Role)
	a := d.App

	apiGroup := r.Group("/api", guard)
	api.NewResource(articles.EntityName, "articles", api.Service[articles.Article](a.Articles)).Register(apiGroup)
	api.NewResource(onlineorders.EntityName, "online-orders", api.Service[onlineorders.OnlineOrder](a.OnlineOrders)).Register(apiGroup)
	api.NewResource(onlineorderitems.EntityName, "online-order-items", api.Service[onlineorderitems.OnlineOrderItem](a.OnlineOrderItems)).Register(apiGroup)
	api.NewResource(deliveryorderitems.EntityName, "delivery-order-items", api.Service[deliveryorderitems.DeliveryOrderItem](a.DeliveryOrderItems)).Register(apiGroup)
	apiGroup.POST("/articles/:id/image", api.ArticleImage(a.Articles))
	apiGroup.GET("/online-orders/:id/items", api.OrderItems(a.OnlineOrders, a.OnlineOrderItems))

	adminGroup := r.Group("/admin", guard)
	admin.NewModule(admin.ArticleDescriptor(), admin.Service[articles.Article](a.Articles), a.Hub, d.Flash).Register(adminGroup)
	admin.NewModule(admin.OnlineOrderDescriptor(a.OnlineOrderItems), admin.Service[onlineorders.OnlineOrder](a.OnlineOrders), a.Hub, d.Flash).Register(adminGroup)
	admin.NewModule(admin.OnlineOrderItemDescriptor(), admin.Service[onlineorderitems.OnlineOrderItem](a.OnlineOrderItems), a.Hub, d.Flash).Register(adminGroup)
	admin.NewModule(admin.DeliveryOrderItemDescriptor(), admin.Service[deliveryorderitems.DeliveryOrderItem](a.DeliveryOrderItems), a.Hub, d.Flash).Register(adminGroup)

	r.GET("/ws/events", guard, handlers.NewEventsHandler(a.Hub, d.Logger).Serve)

	return r
}
