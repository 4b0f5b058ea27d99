package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/atelier-backend/pkg/enums"
)

// Product is a print or original artwork listed in the catalog.
type Product struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Title         string                `gorm:"column:title;not null"`
	Description   *string               `gorm:"column:description"`
	Price         decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	Category      enums.ProductCategory `gorm:"column:category;type:text;not null"`
	ImageURL      *string               `gorm:"column:image_url"`
	StockQuantity int                   `gorm:"column:stock_quantity;not null;default:0"`
	IsActive      bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
