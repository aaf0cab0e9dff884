package dto

// AdjustStockRequest carries a signed delta and a reason. The reason maps to
// the movement type recorded in the ledger: COMPRA ⇒ BUY on entries,
// MERMA/ROBO/VENCIMIENTO ⇒ LOSS on exits, VENTA ⇒ SALE on exits, else ADJUSTMENT.
type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required,ne=0"`
	Reason string `json:"reason" validate:"required,min=3"`
}

type StockMovementResponse struct {
	ID              string `json:"id"`
	VariantID       string `json:"variant_id"`
	Type            string `json:"type"`
	Quantity        int    `json:"quantity"`
	Reason          string `json:"reason"`
	BalanceSnapshot int    `json:"balance_snapshot"`
	CreatedAt       string `json:"created_at"`
}

type AdjustStockResponse struct {
	VariantID     string                `json:"variant_id"`
	StockQuantity int                   `json:"stock_quantity"`
	Movement      StockMovementResponse `json:"movement"`
}

type StockMovementListResponse struct {
	Data  []StockMovementResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}

// StockReconcileResponse reports drift between the cached stock quantity and
// the sum of the movement ledger for one variant.
type StockReconcileResponse struct {
	VariantID     string `json:"variant_id"`
	StockQuantity int    `json:"stock_quantity"`
	LedgerSum     int    `json:"ledger_sum"`
	Drift         int    `json:"drift"`
	Consistent    bool   `json:"consistent"`
}
