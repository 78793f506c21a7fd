package tables

import (
	"frietkot_server/structs"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	Name          string `bun:"name,notnull,unique" json:"name"`
}

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`
	ID            int64                  `bun:"id,pk,autoincrement" json:"id"`
	Name          string                 `bun:"name,notnull" json:"name"`
	Price         decimal.Decimal        `bun:"price,type:numeric(10,2),notnull" json:"price"`
	Description   *string                `bun:"description" json:"description"`
	CategoryID    int64                  `bun:"category_id,notnull" json:"category_id"`
	ImageURL      *string                `bun:"image_url" json:"image_url"`
	Options       structs.ProductOptions `bun:"options,type:jsonb" json:"options"`
	Category      *Category              `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
}

// CategoryName is the name of the joined category, empty when the relation was not loaded.
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

func (p *Product) HasImage() bool {
	return p.ImageURL != nil && *p.ImageURL != ""
}
