package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CashSessionOpen   = "OPEN"
	CashSessionClosed = "CLOSED"
)

const (
	CashMovementIn  = "IN"
	CashMovementOut = "OUT"
)

// CashSession represents one drawer-open-to-drawer-close period.
// Estado transitions OPEN → CLOSED exactly once; no reopening.
// At most one OPEN session per store (enforced at open time).
type CashSession struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null"`
	Status      string          `gorm:"type:varchar(10);not null;default:'OPEN'"`
	InitialCash decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// FinalCashSystem starts at InitialCash and is incremented by every
	// committed cash-method sale; recomputed once more on close.
	FinalCashSystem decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	FinalCashReal   *decimal.Decimal `gorm:"type:decimal(12,2)"` // declared count, stored verbatim
	StartTime       time.Time
	EndTime         *time.Time

	Movements []CashMovement `gorm:"foreignKey:CashSessionID"`
}

func (CashSession) TableName() string { return "cash_sessions" }

// CashMovement is an immutable manual entry (ingreso/egreso) in the drawer ledger.
// Amount is always positive; Type carries the direction.
type CashMovement struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CashSessionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type          string          `gorm:"type:varchar(5);not null"` // IN | OUT
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description   string          `gorm:"not null"`
	CreatedAt     time.Time
}

func (CashMovement) TableName() string { return "cash_movements" }
