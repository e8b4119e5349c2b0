package deliveryorderitems

import (
	"context"
	"strings"

	"novi.com/app/internal/modules/crud"
)

type Service = crud.Service[DeliveryOrderItem]

func NewService(o crud.Options[DeliveryOrderItem], articles crud.Existence) *Service {
	o.Name = EntityName
	o.BeforeSave = func(ctx context.Context, i DeliveryOrderItem) (DeliveryOrderItem, error) {
		i.Note = strings.TrimSpace(i.Note)
		return i, crud.CheckRef(ctx, articles, "articleId", i.ArticleID)
	}
	return crud.NewService(o)
}
