package articles

import (
	"github.com/shopspring/decimal"

	"novi.com/app/internal/shared/validate"
)

const EntityName = "article"

type Article struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string          `gorm:"type:varchar(32);not null;uniqueIndex:ux_article_code" json:"code" binding:"required,max=32"`
	Name        string          `gorm:"type:varchar(128);not null" json:"name" binding:"required,max=128"`
	Description string          `gorm:"type:varchar(1024)" json:"description" binding:"max=1024"`
	Price       decimal.NullDecimal `gorm:"type:decimal(12,2);not null" json:"price"`
	ImageURL    string          `gorm:"type:varchar(512)" json:"imageUrl"`
	ImageKey    string          `gorm:"type:varchar(255)" json:"-"`
}

func (Article) TableName() string { return "article" }

func (a Article) EntityID() int64 { return a.ID }

func (a Article) WithID(id int64) Article { a.ID = id; return a }

func (a Article) RefID(string) int64 { return 0 }

func (a Article) Validate() map[string]string {
	fields := validate.Struct(a)
	switch {
	case !a.Price.Valid:
		fields = withField(fields, "price", validate.Message("required", ""))
	case a.Price.Decimal.IsNegative():
		fields = withField(fields, "price", "Must be at least 0.")
	}
	return fields
}

func withField(fields map[string]string, name, msg string) map[string]string {
	if fields == nil {
		fields = map[string]string{}
	}
	fields[name] = msg
	return fields
}

func (a Article) SearchDocument() map[string]any {
	doc := map[string]any{
		"code":        a.Code,
		"name":        a.Name,
		"description": a.Description,
	}
	if a.Price.Valid {
		doc["price"] = a.Price.Decimal.StringFixed(2)
	}
	return doc
}
