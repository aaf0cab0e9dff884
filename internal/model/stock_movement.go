package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement types. VENTA/anulación produce SALE/VOID; manual adjustments
// map from their reason (see service.MovementTypeFor).
const (
	StockMovementSale       = "SALE"
	StockMovementVoid       = "VOID"
	StockMovementAdjustment = "ADJUSTMENT"
	StockMovementBuy        = "BUY"
	StockMovementLoss       = "LOSS"
)

// StockMovement registra cada cambio de stock de una variante.
// Append-only: rows are never updated or deleted. Cancellations create
// compensating entries. BalanceSnapshot is the stock value AFTER this movement.
type StockMovement struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VariantID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Type            string    `gorm:"type:varchar(20);not null"`
	Quantity        int       `gorm:"not null"` // signed delta: positive = entrada, negative = salida
	Reason          string
	BalanceSnapshot int        `gorm:"not null"`
	ReferenceID     *uuid.UUID `gorm:"type:uuid"` // sale id when originated by a sale/void
	CreatedAt       time.Time

	Variant *ProductVariant `gorm:"foreignKey:VariantID"`
}

func (StockMovement) TableName() string { return "stock_movements" }
