package onlineorderitems

import (
	"github.com/shopspring/decimal"

	"novi.com/app/internal/modules/articles"
	"novi.com/app/internal/modules/onlineorders"
	"novi.com/app/internal/shared/validate"
)

const EntityName = "onlineOrderItem"

// Reference columns usable with FindByRef.
const (
	ColArticle     = "article_id"
	ColOnlineOrder = "online_order_id"
)

type OnlineOrderItem struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Quantity      int             `gorm:"not null" json:"quantity" binding:"required,min=1"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	ArticleID     int64           `gorm:"not null;index" json:"articleId" binding:"required,gt=0"`
	OnlineOrderID int64           `gorm:"not null;index" json:"onlineOrderId" binding:"required,gt=0"`

	// Associations exist so migrations emit the foreign keys; never loaded.
	Article     *articles.Article         `gorm:"foreignKey:ArticleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-" binding:"-"`
	OnlineOrder *onlineorders.OnlineOrder `gorm:"foreignKey:OnlineOrderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-" binding:"-"`
}

func (OnlineOrderItem) TableName() string { return "online_order_item" }

func (i OnlineOrderItem) EntityID() int64 { return i.ID }

func (i OnlineOrderItem) WithID(id int64) OnlineOrderItem { i.ID = id; return i }

func (i OnlineOrderItem) RefID(column string) int64 {
	switch column {
	case ColArticle:
		return i.ArticleID
	case ColOnlineOrder:
		return i.OnlineOrderID
	}
	return 0
}

// LineTotal is quantity times unit price.
func (i OnlineOrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i OnlineOrderItem) Validate() map[string]string {
	fields := validate.Struct(i)
	if i.Price.IsNegative() {
		if fields == nil {
			fields = map[string]string{}
		}
		fields["price"] = "Must be at least 0."
	}
	return fields
}

func (i OnlineOrderItem) SearchDocument() map[string]any {
	return map[string]any{
		"quantity":      i.Quantity,
		"price":         i.Price.StringFixed(2),
		"articleId":     i.ArticleID,
		"onlineOrderId": i.OnlineOrderID,
	}
}
