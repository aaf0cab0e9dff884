package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at the register.
const (
	PaymentCash          = "CASH"
	PaymentDebit         = "DEBIT"
	PaymentCreditCard    = "CREDIT_CARD"
	PaymentTransfer      = "TRANSFER"
	PaymentCreditAccount = "CREDIT_ACCOUNT" // cuenta corriente
)

// Sale is the persisted record of one completed ticket.
// TotalAmount = Subtotal - DiscountAmount, never negative.
// Voiding a sale hard-deletes the row (items cascade); the compensating
// stock and account movements keep the ledgers auditable.
type Sale struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null"`
	PaymentMethod  string          `gorm:"type:varchar(20);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time       `gorm:"index"`

	Items    []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Customer *Customer  `gorm:"foreignKey:CustomerID"`
}

func (Sale) TableName() string { return "sales" }

// SaleItem snapshots name and price at sale time, immune to later catalog edits.
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (SaleItem) TableName() string { return "sale_items" }
