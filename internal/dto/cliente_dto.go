package dto

import "github.com/shopspring/decimal"

type RegisterPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"         validate:"required,gt=0"`
	Description   string          `json:"description"    validate:"required,min=3"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=CASH DEBIT CREDIT_CARD TRANSFER"`
}

type CustomerResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Active         bool            `json:"active"`
}

type AccountMovementResponse struct {
	ID           string          `json:"id"`
	MovementType string          `json:"movement_type"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	CreatedAt    string          `json:"created_at"`
}

// BalanceReconcileResponse reports drift between the cached balance and the
// signed sum of the account ledger. Drift zero means the invariant holds.
type BalanceReconcileResponse struct {
	CustomerID     string          `json:"customer_id"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	LedgerSum      decimal.Decimal `json:"ledger_sum"`
	Drift          decimal.Decimal `json:"drift"`
	Consistent     bool            `json:"consistent"`
}
