package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant is the sellable unit: stock and price are tracked at this level.
// Catalog management creates variants; the inventory ledger is the only writer
// of StockQuantity after that.
type ProductVariant struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Barcode       string          `gorm:"index"`
	Name          string          `gorm:"not null;index"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockQuantity int             `gorm:"not null;default:0"`
	MinStock      int             `gorm:"not null;default:5"`
	Active        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}

func (ProductVariant) TableName() string { return "product_variants" }
