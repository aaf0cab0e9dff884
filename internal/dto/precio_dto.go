package dto

import "github.com/shopspring/decimal"

// PriceCheckResponse is served by the unauthenticated price check endpoint,
// cached in redis per store+barcode.
type PriceCheckResponse struct {
	VariantID string          `json:"variant_id"`
	Name      string          `json:"name"`
	Barcode   string          `json:"barcode"`
	SalePrice decimal.Decimal `json:"sale_price"`
}
