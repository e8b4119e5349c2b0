package admin

import (
	"context"
	"net/url"
	"strconv"

	"novi.com/app/internal/modules/articles"
	"novi.com/app/internal/modules/deliveryorderitems"
	"novi.com/app/internal/modules/onlineorderitems"
	"novi.com/app/internal/modules/onlineorders"
	"novi.com/app/pkg/view"
	"novi.com/app/templates/shared"
)

func idLink(path string, id int64) string {
	if id == 0 {
		return ""
	}
	return "/admin/" + path + "/" + strconv.FormatInt(id, 10)
}

func ArticleDescriptor() Descriptor[articles.Article] {
	return Descriptor[articles.Article]{
		Entity:  articles.EntityName,
		Label:   "Article",
		Title:   "Articles",
		Path:    "articles",
		Columns: []string{"Code", "Name", "Price", "Image"},
		Row: func(a articles.Article) []string {
			return []string{a.Code, a.Name, fmtNullMoney(a.Price), a.ImageURL}
		},
		Detail: func(a articles.Article) []view.DetailItem {
			return []view.DetailItem{
				{Label: "Code", Value: a.Code},
				{Label: "Name", Value: a.Name},
				{Label: "Description", Value: a.Description},
				{Label: "Price", Value: fmtNullMoney(a.Price)},
				{Label: "Image", Value: a.ImageURL, Link: a.ImageURL},
			}
		},
		Fields: func(a articles.Article) []view.Field {
			return []view.Field{
				{Name: "code", Label: "Code", Type: "text", Value: a.Code, Required: true},
				{Name: "name", Label: "Name", Type: "text", Value: a.Name, Required: true},
				{Name: "description", Label: "Description", Type: "textarea", Value: a.Description},
				{Name: "price", Label: "Price", Type: "number", Step: "0.01", Value: fmtNullDecimal(a.Price), Required: true},
			}
		},
		Parse: func(form url.Values, a articles.Article) (articles.Article, map[string]string) {
			r := newFormReader(form)
			a.Code = r.str("code")
			a.Name = r.str("name")
			a.Description = r.str("description")
			a.Price = r.nullDecimalVal("price")
			return a, r.errors()
		},
	}
}

// ItemLister lists the items of an order.
type ItemLister interface {
	FindByRef(ctx context.Context, column string, id int64) ([]onlineorderitems.OnlineOrderItem, error)
}

func OnlineOrderDescriptor(items ItemLister) Descriptor[onlineorders.OnlineOrder] {
	statuses := make([]string, len(onlineorders.Statuses))
	for i, s := range onlineorders.Statuses {
		statuses[i] = string(s)
	}
	itemsDesc := OnlineOrderItemDescriptor()

	d := Descriptor[onlineorders.OnlineOrder]{
		Entity:  onlineorders.EntityName,
		Label:   "Online Order",
		Title:   "Online Orders",
		Path:    "online-orders",
		Columns: []string{"Order Number", "Order Date", "Status", "Client", "Total"},
		Row: func(o onlineorders.OnlineOrder) []string {
			return []string{o.OrderNumber, fmtTime(o.OrderDate), string(o.Status), o.ClientName, shared.FormatMoney("", o.TotalAmount)}
		},
		Detail: func(o onlineorders.OnlineOrder) []view.DetailItem {
			return []view.DetailItem{
				{Label: "Order Number", Value: o.OrderNumber},
				{Label: "Order Date", Value: fmtTime(o.OrderDate)},
				{Label: "Status", Value: string(o.Status)},
				{Label: "Client Name", Value: o.ClientName},
				{Label: "Client Email", Value: o.ClientEmail},
				{Label: "Shipping Address", Value: o.ShippingAddress},
				{Label: "Total Amount", Value: shared.FormatMoney("", o.TotalAmount)},
			}
		},
		Fields: func(o onlineorders.OnlineOrder) []view.Field {
			status := string(o.Status)
			if status == "" {
				status = string(onlineorders.StatusNew)
			}
			return []view.Field{
				{Name: "orderNumber", Label: "Order Number", Type: "text", Value: o.OrderNumber, Required: true},
				{Name: "orderDate", Label: "Order Date", Type: "datetime-local", Value: fmtTime(o.OrderDate), Required: true},
				{Name: "status", Label: "Status", Type: "select", Value: status, Options: statuses},
				{Name: "clientName", Label: "Client Name", Type: "text", Value: o.ClientName, Required: true},
				{Name: "clientEmail", Label: "Client Email", Type: "email", Value: o.ClientEmail},
				{Name: "shippingAddress", Label: "Shipping Address", Type: "textarea", Value: o.ShippingAddress},
				{Name: "totalAmount", Label: "Total Amount", Type: "number", Step: "0.01", Value: o.TotalAmount.StringFixed(2)},
			}
		},
		Parse: func(form url.Values, o onlineorders.OnlineOrder) (onlineorders.OnlineOrder, map[string]string) {
			r := newFormReader(form)
			o.OrderNumber = r.str("orderNumber")
			o.OrderDate = r.timeVal("orderDate")
			o.Status = onlineorders.Status(r.str("status"))
			o.ClientName = r.str("clientName")
			o.ClientEmail = r.str("clientEmail")
			o.ShippingAddress = r.str("shippingAddress")
			o.TotalAmount = r.decimalVal("totalAmount")
			return o, r.errors()
		},
	}
	if items != nil {
		d.Related = func(ctx context.Context, id int64) (*view.ListPage, error) {
			rows, err := items.FindByRef(ctx, onlineorderitems.ColOnlineOrder, id)
			if err != nil {
				return nil, err
			}
			page := &view.ListPage{
				Title:   "Items",
				Entity:  itemsDesc.Entity,
				Path:    "/admin/" + itemsDesc.Path,
				Columns: itemsDesc.Columns,
				Total:   int64(len(rows)),
			}
			for _, it := range rows {
				page.Rows = append(page.Rows, view.Row{ID: it.ID, Cells: itemsDesc.Row(it)})
			}
			return page, nil
		}
	}
	return d
}

func OnlineOrderItemDescriptor() Descriptor[onlineorderitems.OnlineOrderItem] {
	return Descriptor[onlineorderitems.OnlineOrderItem]{
		Entity:  onlineorderitems.EntityName,
		Label:   "Online Order Item",
		Title:   "Online Order Items",
		Path:    "online-order-items",
		Columns: []string{"Quantity", "Price", "Line Total", "Article", "Online Order"},
		Row: func(i onlineorderitems.OnlineOrderItem) []string {
			return []string{fmtInt(i.Quantity), shared.FormatMoney("", i.Price), shared.FormatMoney("", i.LineTotal()),
				fmtInt64(i.ArticleID), fmtInt64(i.OnlineOrderID)}
		},
		Detail: func(i onlineorderitems.OnlineOrderItem) []view.DetailItem {
			return []view.DetailItem{
				{Label: "Quantity", Value: fmtInt(i.Quantity)},
				{Label: "Price", Value: shared.FormatMoney("", i.Price)},
				{Label: "Line Total", Value: shared.FormatMoney("", i.LineTotal())},
				{Label: "Article", Value: fmtInt64(i.ArticleID), Link: idLink("articles", i.ArticleID)},
				{Label: "Online Order", Value: fmtInt64(i.OnlineOrderID), Link: idLink("online-orders", i.OnlineOrderID)},
			}
		},
		Fields: func(i onlineorderitems.OnlineOrderItem) []view.Field {
			return []view.Field{
				{Name: "quantity", Label: "Quantity", Type: "number", Value: fmtInt(i.Quantity), Required: true},
				{Name: "price", Label: "Price", Type: "number", Step: "0.01", Value: i.Price.StringFixed(2)},
				{Name: "articleId", Label: "Article", Type: "number", Value: fmtInt64(i.ArticleID), Required: true},
				{Name: "onlineOrderId", Label: "Online Order", Type: "number", Value: fmtInt64(i.OnlineOrderID), Required: true},
			}
		},
		Parse: func(form url.Values, i onlineorderitems.OnlineOrderItem) (onlineorderitems.OnlineOrderItem, map[string]string) {
			r := newFormReader(form)
			i.Quantity = r.intVal("quantity")
			i.Price = r.decimalVal("price")
			i.ArticleID = r.int64Val("articleId")
			i.OnlineOrderID = r.int64Val("onlineOrderId")
			return i, r.errors()
		},
	}
}

func DeliveryOrderItemDescriptor() Descriptor[deliveryorderitems.DeliveryOrderItem] {
	return Descriptor[deliveryorderitems.DeliveryOrderItem]{
		Entity:  deliveryorderitems.EntityName,
		Label:   "Delivery Order Item",
		Title:   "Delivery Order Items",
		Path:    "delivery-order-items",
		Columns: []string{"Quantity", "Article", "Delivery Order", "Note"},
		Row: func(i deliveryorderitems.DeliveryOrderItem) []string {
			return []string{fmtInt(i.Quantity), fmtInt64(i.ArticleID), fmtInt64(i.DeliveryOrderID), i.Note}
		},
		Detail: func(i deliveryorderitems.DeliveryOrderItem) []view.DetailItem {
			return []view.DetailItem{
				{Label: "Quantity", Value: fmtInt(i.Quantity)},
				{Label: "Article", Value: fmtInt64(i.ArticleID), Link: idLink("articles", i.ArticleID)},
				{Label: "Delivery Order", Value: fmtInt64(i.DeliveryOrderID)},
				{Label: "Note", Value: i.Note},
			}
		},
		Fields: func(i deliveryorderitems.DeliveryOrderItem) []view.Field {
			return []view.Field{
				{Name: "quantity", Label: "Quantity", Type: "number", Value: fmtInt(i.Quantity), Required: true},
				{Name: "articleId", Label: "Article", Type: "number", Value: fmtInt64(i.ArticleID), Required: true},
				{Name: "deliveryOrderId", Label: "Delivery Order", Type: "number", Value: fmtInt64(i.DeliveryOrderID), Required: true},
				{Name: "note", Label: "Note", Type: "textarea", Value: i.Note},
			}
		},
		Parse: func(form url.Values, i deliveryorderitems.DeliveryOrderItem) (deliveryorderitems.DeliveryOrderItem, map[string]string) {
			r := newFormReader(form)
			i.Quantity = r.intVal("quantity")
			i.ArticleID = r.int64Val("articleId")
			i.DeliveryOrderID = r.int64Val("deliveryOrderId")
			i.Note = r.str("note")
			return i, r.errors()
		},
	}
}
