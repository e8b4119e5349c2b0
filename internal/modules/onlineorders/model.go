package onlineorders

import (
	"time"

	"github.com/shopspring/decimal"

	"novi.com/app/internal/shared/validate"
)

const EntityName = "onlineOrder"

type Status string

const (
	StatusNew       Status = "NEW"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

var Statuses = []Status{StatusNew, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}

type OnlineOrder struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber     string          `gorm:"type:varchar(32);not null;uniqueIndex:ux_online_order_number" json:"orderNumber" binding:"required,max=32"`
	OrderDate       time.Time       `gorm:"not null" json:"orderDate" binding:"required"`
	Status          Status          `gorm:"type:varchar(16);not null;index" json:"status" binding:"required,oneof=NEW CONFIRMED SHIPPED DELIVERED CANCELLED"`
	ClientName      string          `gorm:"type:varchar(128);not null" json:"clientName" binding:"required,max=128"`
	ClientEmail     string          `gorm:"type:varchar(255)" json:"clientEmail" binding:"omitempty,email,max=255"`
	ShippingAddress string          `gorm:"type:varchar(512)" json:"shippingAddress" binding:"max=512"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
}

func (OnlineOrder) TableName() string { return "online_order" }

func (o OnlineOrder) EntityID() int64 { return o.ID }

func (o OnlineOrder) WithID(id int64) OnlineOrder { o.ID = id; return o }

func (o OnlineOrder) RefID(string) int64 { return 0 }

func (o OnlineOrder) Validate() map[string]string {
	fields := validate.Struct(o)
	if o.TotalAmount.IsNegative() {
		if fields == nil {
			fields = map[string]string{}
		}
		fields["totalAmount"] = "Must be at least 0."
	}
	return fields
}

func (o OnlineOrder) SearchDocument() map[string]any {
	return map[string]any{
		"orderNumber":     o.OrderNumber,
		"status":          string(o.Status),
		"clientName":      o.ClientName,
		"clientEmail":     o.ClientEmail,
		"shippingAddress": o.ShippingAddress,
		"orderDate":       o.OrderDate.Format("2006-01-02"),
	}
}
