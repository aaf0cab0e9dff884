package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PromotionPercentage    = "PERCENTAGE"
	PromotionFixed         = "FIXED"
	PromotionMultibuy      = "MULTIBUY"
	PromotionPaymentMethod = "PAYMENT_METHOD"
)

// Promotion is read-only input to the promotion engine; the sale flow never
// mutates it. A promotion is active when Active is true and the date window
// (either bound optional) contains now.
type Promotion struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name    string    `gorm:"not null"`
	Type    string    `gorm:"type:varchar(20);not null"`
	// Value: percentage for PERCENTAGE/PAYMENT_METHOD, per-unit amount for FIXED.
	Value       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	BuyQuantity *int            // MULTIBUY: lleva N
	PayQuantity *int            // MULTIBUY: paga M
	// PaymentMethod restricts PAYMENT_METHOD promotions to one sale payment method.
	PaymentMethod *string `gorm:"type:varchar(20)"`
	AllProducts   bool    `gorm:"not null;default:false"`
	StartDate     *time.Time
	EndDate       *time.Time
	Active        bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []PromotionItem `gorm:"foreignKey:PromotionID"`
}

func (Promotion) TableName() string { return "promotions" }

// PromotionItem scopes a promotion to a variant or a whole category.
// Ignored when the promotion has AllProducts set.
type PromotionItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PromotionID uuid.UUID  `gorm:"type:uuid;not null;index"`
	VariantID   *uuid.UUID `gorm:"type:uuid;index"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index"`
}

func (PromotionItem) TableName() string { return "promotion_items" }
