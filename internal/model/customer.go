package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AccountMovementPurchase = "PURCHASE"
	AccountMovementPayment  = "PAYMENT"
	AccountMovementVoid     = "VOID"
)

// Customer holds a cuenta corriente: CurrentBalance is the running debt,
// a materialized view of the signed sum of its AccountMovements.
// CreditLimit is informative; callers wanting a hard limit must check it
// before charging; the ledger itself never rejects on limit.
type Customer struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"not null"`
	Phone          *string
	CreditLimit    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Active         bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Movements []AccountMovement `gorm:"foreignKey:CustomerID"`
}

func (Customer) TableName() string { return "customers" }

// AccountMovement is an immutable entry in a customer's credit ledger.
// Purchases are positive, payments and voids negative.
type AccountMovement struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	MovementType string          `gorm:"type:varchar(10);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null"` // signed
	Description  string          `gorm:"not null"`
	CreatedAt    time.Time
}

func (AccountMovement) TableName() string { return "account_movements" }
