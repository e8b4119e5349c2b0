package onlineorders

import (
	"context"
	"strings"

	"novi.com/app/internal/modules/crud"
)

type Service = crud.Service[OnlineOrder]

func NewService(o crud.Options[OnlineOrder]) *Service {
	o.Name = EntityName
	o.BeforeSave = normalize
	return crud.NewService(o)
}

func normalize(_ context.Context, o OnlineOrder) (OnlineOrder, error) {
	o.Status = Status(strings.ToUpper(strings.TrimSpace(string(o.Status))))
	if o.Status == "" {
		o.Status = StatusNew
	}
	o.ClientEmail = strings.TrimSpace(o.ClientEmail)
	if !o.OrderDate.IsZero() {
		o.OrderDate = o.OrderDate.UTC()
	}
	return o, nil
}
