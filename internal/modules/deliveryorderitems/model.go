package deliveryorderitems

import (
	"novi.com/app/internal/modules/articles"
	"novi.com/app/internal/shared/validate"
)

const EntityName = "deliveryOrderItem"

const ColArticle = "article_id"

// DeliveryOrderItem is a line of a delivery order kept by an external
// system; DeliveryOrderID is not checked locally.
type DeliveryOrderItem struct {
	ID              int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Quantity        int    `gorm:"not null" json:"quantity" binding:"required,min=1"`
	ArticleID       int64  `gorm:"not null;index" json:"articleId" binding:"required,gt=0"`
	DeliveryOrderID int64  `gorm:"not null;index" json:"deliveryOrderId" binding:"required,gt=0"`
	Note            string `gorm:"type:varchar(512)" json:"note" binding:"max=512"`

	Article *articles.Article `gorm:"foreignKey:ArticleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-" binding:"-"`
}

func (DeliveryOrderItem) TableName() string { return "delivery_order_item" }

func (i DeliveryOrderItem) EntityID() int64 { return i.ID }

func (i DeliveryOrderItem) WithID(id int64) DeliveryOrderItem { i.ID = id; return i }

func (i DeliveryOrderItem) RefID(column string) int64 {
	if column == ColArticle {
		return i.ArticleID
	}
	return 0
}

func (i DeliveryOrderItem) Validate() map[string]string { return validate.Struct(i) }

func (i DeliveryOrderItem) SearchDocument() map[string]any {
	return map[string]any{
		"quantity":        i.Quantity,
		"articleId":       i.ArticleID,
		"deliveryOrderId": i.DeliveryOrderID,
		"note":            i.Note,
	}
}
