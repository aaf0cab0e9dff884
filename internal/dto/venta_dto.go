package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	VariantID string `json:"variant_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type ProcessSaleRequest struct {
	Items         []SaleItemRequest `json:"items"          validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=CASH DEBIT CREDIT_CARD TRANSFER CREDIT_ACCOUNT"`
	CustomerID    *string           `json:"customer_id"    validate:"omitempty,uuid"`
	// DiscountPercentage is pre-computed by the caller, normally from a
	// promotion evaluation dry run. 0–100.
	DiscountPercentage decimal.Decimal `json:"discount_percentage" validate:"min=0,max=100"`
	// AmountPaid: optional for CASH sales; when present the response carries
	// the change to hand back.
	AmountPaid *decimal.Decimal `json:"amount_paid"`
}

// SaleFilter is bound from query string of GET /v1/ventas.
type SaleFilter struct {
	Date          string `form:"fecha"` // YYYY-MM-DD; empty = today
	PaymentMethod string `form:"metodo_pago"`
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	VariantID   string          `json:"variant_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID             string             `json:"id"`
	PaymentMethod  string             `json:"payment_method"`
	CustomerID     *string            `json:"customer_id,omitempty"`
	Items          []SaleItemResponse `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	Change         *decimal.Decimal   `json:"change,omitempty"`
	CreatedAt      string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
