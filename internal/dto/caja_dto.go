package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenSessionRequest struct {
	InitialCash decimal.Decimal `json:"initial_cash" validate:"min=0"`
}

type CloseSessionRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	// FinalCashReal is the declared drawer count, stored verbatim. The
	// discrepancy against the system total is reporting-only.
	FinalCashReal decimal.Decimal `json:"final_cash_real" validate:"min=0"`
}

type CashMovementRequest struct {
	Type        string          `json:"type"        validate:"required,oneof=IN OUT"`
	Amount      decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	Description string          `json:"description" validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// SessionTotals is computed on read, not stored.
// ExpectedCash = InitialCash + CashSales + TotalIn − TotalOut.
type SessionTotals struct {
	CashSales    decimal.Decimal `json:"cash_sales"`
	TotalIn      decimal.Decimal `json:"total_in"`
	TotalOut     decimal.Decimal `json:"total_out"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
}

type CashSessionResponse struct {
	ID              string           `json:"id"`
	Status          string           `json:"status"`
	InitialCash     decimal.Decimal  `json:"initial_cash"`
	FinalCashSystem decimal.Decimal  `json:"final_cash_system"`
	FinalCashReal   *decimal.Decimal `json:"final_cash_real,omitempty"`
	Totals          *SessionTotals   `json:"totals,omitempty"`
	StartTime       string           `json:"start_time"`
	EndTime         *string          `json:"end_time,omitempty"`
}

type CashMovementResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"created_at"`
}
