package dto

import "github.com/shopspring/decimal"

// EvaluatePromotionsRequest is the promotion dry run the POS calls while the
// cart is being built. Quantities and payment method mirror ProcessSaleRequest;
// prices and categories are resolved server-side from the catalog.
type EvaluatePromotionsRequest struct {
	Items         []SaleItemRequest `json:"items"          validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=CASH DEBIT CREDIT_CARD TRANSFER CREDIT_ACCOUNT"`
}

type CartLineDiscount struct {
	VariantID  string          `json:"variant_id"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Promotions []string        `json:"promotions"` // names applied to this line
}

type EvaluatePromotionsResponse struct {
	Subtotal          decimal.Decimal    `json:"subtotal"`
	TotalDiscount     decimal.Decimal    `json:"total_discount"`
	TotalPayable      decimal.Decimal    `json:"total_payable"` // max(0, subtotal - total_discount)
	AppliedPromotions []string           `json:"applied_promotions"`
	Lines             []CartLineDiscount `json:"lines"`
}

type PromotionResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Value         decimal.Decimal `json:"value"`
	BuyQuantity   *int            `json:"buy_quantity,omitempty"`
	PayQuantity   *int            `json:"pay_quantity,omitempty"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	AllProducts   bool            `json:"all_products"`
	StartDate     *string         `json:"start_date,omitempty"`
	EndDate       *string         `json:"end_date,omitempty"`
}
