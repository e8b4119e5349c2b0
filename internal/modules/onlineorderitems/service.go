package onlineorderitems

import (
	"context"

	"novi.com/app/internal/modules/crud"
)

type Service = crud.Service[OnlineOrderItem]

// NewService wires the item service. articles and orders are used to reject
// items pointing at rows that do not exist.
func NewService(o crud.Options[OnlineOrderItem], articles, orders crud.Existence) *Service {
	o.Name = EntityName
	o.BeforeSave = func(ctx context.Context, i OnlineOrderItem) (OnlineOrderItem, error) {
		if err := crud.CheckRef(ctx, articles, "articleId", i.ArticleID); err != nil {
			return i, err
		}
		return i, crud.CheckRef(ctx, orders, "onlineOrderId", i.OnlineOrderID)
	}
	return crud.NewService(o)
}
