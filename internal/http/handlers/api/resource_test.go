package api

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"novi.com/app/internal/cache"
	"novi.com/app/internal/http/middleware"
	"novi.com/app/internal/modules/articles"
	"novi.com/app/internal/modules/crud"
	"novi.com/app/internal/modules/onlineorderitems"
	"novi.com/app/internal/modules/onlineorders"
	"novi.com/app/internal/search"
	"novi.com/app/internal/storage"
)

var onePrice = decimal.NewNullDecimal(decimal.NewFromInt(1))

type fixture struct {
	r        *gin.Engine
	articles *articles.Service
	orders   *onlineorders.Service
	items    *onlineorderitems.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	idx, err := search.NewMemIndex("article")
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })

	f := &fixture{}
	f.articles = articles.NewService(crud.Options[articles.Article]{
		Repo:   crud.NewMemRepo[articles.Article](),
		Cache:  cache.New[int64, articles.Article](10, time.Minute),
		Index:  idx,
		Logger: log,
	}, storage.NewLocal(t.TempDir(), "/uploads"))
	f.orders = onlineorders.NewService(crud.Options[onlineorders.OnlineOrder]{Repo: crud.NewMemRepo[onlineorders.OnlineOrder](), Logger: log})
	f.items = onlineorderitems.NewService(crud.Options[onlineorderitems.OnlineOrderItem]{Repo: crud.NewMemRepo[onlineorderitems.OnlineOrderItem](), Logger: log},
		f.articles, f.orders)
	f.articles.GuardDelete(crud.Unreferenced[onlineorderitems.OnlineOrderItem](f.items, onlineorderitems.ColArticle))
	f.orders.GuardDelete(crud.Unreferenced[onlineorderitems.OnlineOrderItem](f.items, onlineorderitems.ColOnlineOrder))

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler(log))
	g := r.Group("/api")
	NewResource[articles.Article](articles.EntityName, "articles", f.articles).Register(g)
	NewResource[onlineorders.OnlineOrder](onlineorders.EntityName, "online-orders", f.orders).Register(g)
	g.POST("/articles/:id/image", ArticleImage(f.articles))
	g.GET("/online-orders/:id/items", OrderItems(f.orders, f.items))
	f.r = r
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.r.ServeHTTP(rec, req)
	return rec
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/articles", `{"id":5,"code":"P1","name":"Pen"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := rec.Header().Get("X-noviApp-error"); got != "error.idexists" {
		t.Fatalf("error header = %q", got)
	}
	if got := rec.Header().Get("X-noviApp-params"); got != "article" {
		t.Fatalf("params header = %q", got)
	}

	rec = f.do(http.MethodPost, "/api/articles", `{"code":"P1","name":"Pen","price":"2.50"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var a articles.Article
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.ID == 0 || a.Price.Decimal.StringFixed(2) != "2.50" {
		t.Fatalf("created = %+v", a)
	}
	if got := rec.Header().Get("Location"); got != "/api/articles/1" {
		t.Fatalf("Location = %q", got)
	}
	if got := rec.Header().Get("X-noviApp-alert"); got != "noviApp.article.created" {
		t.Fatalf("alert = %q", got)
	}
}

func TestCreateValidationAndBadJSON(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/articles", `{"name":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "error.validation" || body.Fields["code"] == "" || body.Fields["name"] == "" {
		t.Fatalf("body = %+v", body)
	}

	rec = f.do(http.MethodPost, "/api/articles", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json status = %d", rec.Code)
	}
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	a, _ := f.articles.Create(context.Background(), articles.Article{Code: "P1", Name: "Pen", Price: onePrice})

	rec := f.do(http.MethodPut, "/api/articles", `{"code":"P1","name":"Pen"}`)
	if rec.Code != http.StatusBadRequest || rec.Header().Get("X-noviApp-error") != "error.idnull" {
		t.Fatalf("idnull: %d %v", rec.Code, rec.Header())
	}

	rec = f.do(http.MethodPut, "/api/articles", `{"id":99,"code":"P1","name":"Pen","price":"1.00"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id status = %d", rec.Code)
	}

	rec = f.do(http.MethodPut, "/api/articles", `{"id":1,"code":"P1","name":"Blue pen","price":"1.00"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-noviApp-params"); got != "1" {
		t.Fatalf("params = %q", got)
	}
	got, _ := f.articles.Get(context.Background(), a.ID)
	if got.Name != "Blue pen" {
		t.Fatalf("name = %q", got.Name)
	}
}

func TestListGetDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, code := range []string{"A", "B", "C"} {
		if _, err := f.articles.Create(ctx, articles.Article{Code: code, Name: "n" + code, Price: onePrice}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rec := f.do(http.MethodGet, "/api/articles?page=2&size=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if got := rec.Header().Get("X-Total-Count"); got != "3" {
		t.Fatalf("X-Total-Count = %q", got)
	}
	if link := rec.Header().Get("Link"); !strings.Contains(link, `rel="prev"`) || strings.Contains(link, `rel="next"`) {
		t.Fatalf("Link = %q", link)
	}
	var list []articles.Article
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 1 || list[0].Code != "C" {
		t.Fatalf("page 2 = %+v", list)
	}

	if rec := f.do(http.MethodGet, "/api/articles/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id status = %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/api/articles/42", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing id status = %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/api/articles/2", ""); rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = f.do(http.MethodDelete, "/api/articles/2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if got := rec.Header().Get("X-noviApp-alert"); got != "noviApp.article.deleted" {
		t.Fatalf("alert = %q", got)
	}
	if rec := f.do(http.MethodDelete, "/api/articles/2", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", rec.Code)
	}
}

func TestDeleteReferencedConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	art, err := f.articles.Create(ctx, articles.Article{Code: "P1", Name: "Pen", Price: onePrice})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}
	order, err := f.orders.Create(ctx, onlineorders.OnlineOrder{OrderNumber: "O-1", OrderDate: time.Now(), ClientName: "Ada"})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := f.items.Create(ctx, onlineorderitems.OnlineOrderItem{
		Quantity: 1, Price: decimal.NewFromInt(1), ArticleID: art.ID, OnlineOrderID: order.ID,
	}); err != nil {
		t.Fatalf("create item: %v", err)
	}

	for _, target := range []string{"/api/articles/1", "/api/online-orders/1"} {
		rec := f.do(http.MethodDelete, target, "")
		if rec.Code != http.StatusConflict {
			t.Fatalf("%s: status = %d, want 409", target, rec.Code)
		}
		if got := rec.Header().Get("X-noviApp-error"); got != "error.inuse" {
			t.Fatalf("%s: error header = %q", target, got)
		}
		if got := rec.Header().Get("X-noviApp-alert"); got != "" {
			t.Fatalf("%s: unexpected alert %q", target, got)
		}
	}
	if ok, _ := f.articles.Exists(ctx, art.ID); !ok {
		t.Fatal("article removed")
	}
	if ok, _ := f.orders.Exists(ctx, order.ID); !ok {
		t.Fatal("order removed")
	}
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.articles.Create(ctx, articles.Article{Code: "P1", Name: "Fountain pen", Price: onePrice})
	_, _ = f.articles.Create(ctx, articles.Article{Code: "N1", Name: "Notebook", Price: onePrice})

	if rec := f.do(http.MethodGet, "/api/_search/articles?query=", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty query status = %d", rec.Code)
	}

	rec := f.do(http.MethodGet, "/api/_search/articles?query=notebook", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var hits []articles.Article
	_ = json.Unmarshal(rec.Body.Bytes(), &hits)
	if len(hits) != 1 || hits[0].Code != "N1" {
		t.Fatalf("hits = %+v", hits)
	}
}

func TestOrderItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, _ := f.articles.Create(ctx, articles.Article{Code: "P1", Name: "Pen", Price: onePrice})
	o, err := f.orders.Create(ctx, onlineorders.OnlineOrder{OrderNumber: "ON-1", OrderDate: time.Now(), ClientName: "Ada"})
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if _, err := f.items.Create(ctx, onlineorderitems.OnlineOrderItem{Quantity: 2, ArticleID: a.ID, OnlineOrderID: o.ID}); err != nil {
		t.Fatalf("item: %v", err)
	}

	rec := f.do(http.MethodGet, "/api/online-orders/1/items", "")
	var items []onlineorderitems.OnlineOrderItem
	_ = json.Unmarshal(rec.Body.Bytes(), &items)
	if rec.Code != http.StatusOK || len(items) != 1 {
		t.Fatalf("items = %d %+v", rec.Code, items)
	}
	if rec := f.do(http.MethodGet, "/api/online-orders/9/items", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown order status = %d", rec.Code)
	}
}

func TestArticleImageUpload(t *testing.T) {
	f := newFixture(t)
	_, _ = f.articles.Create(context.Background(), articles.Article{Code: "P1", Name: "Pen", Price: onePrice})

	upload := func(contentType string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="file"; filename="pen.png"`)
		h.Set("Content-Type", contentType)
		part, _ := mw.CreatePart(h)
		_, _ = part.Write([]byte("\x89PNG"))
		_ = mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/articles/1/image", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		f.r.ServeHTTP(rec, req)
		return rec
	}

	rec := upload("image/png")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var a articles.Article
	_ = json.Unmarshal(rec.Body.Bytes(), &a)
	if !strings.HasPrefix(a.ImageURL, "/uploads/") {
		t.Fatalf("imageUrl = %q", a.ImageURL)
	}

	rec = upload("text/plain")
	if rec.Code != http.StatusBadRequest || rec.Header().Get("X-noviApp-error") != "error.unsupportedtype" {
		t.Fatalf("text upload: %d %v", rec.Code, rec.Header())
	}
}
