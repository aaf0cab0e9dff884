package service

import (
	"context"
	"fmt"
	"time"

	"negociopos/internal/dto"
	"negociopos/internal/ledger"
	"negociopos/internal/model"
	"negociopos/internal/repository"
	"negociopos/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleService orchestrates one sale end to end: stock validation, discount
// application, inventory decrement, payment routing into the cash or credit
// ledger, and persistence, all inside one transaction. Any failure rolls
// back every write; a partial sale is never observable.
type SaleService interface {
	ProcessSale(ctx context.Context, storeID, userID uuid.UUID, req dto.ProcessSaleRequest) (*dto.SaleResponse, error)
	VoidSale(ctx context.Context, storeID, saleID uuid.UUID) error
	ListSales(ctx context.Context, storeID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	// EvaluateCart runs the promotion engine over a cart without side effects.
	EvaluateCart(ctx context.Context, storeID uuid.UUID, req dto.EvaluatePromotionsRequest) (*dto.EvaluatePromotionsResponse, error)
}

type saleService struct {
	repo       repository.SaleRepository
	variants   repository.VariantRepository
	promos     repository.PromotionRepository
	cashRepo   repository.CashRepository
	inventory  InventoryService
	cash       CashService
	customers  CustomerService
	dispatcher *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	variants repository.VariantRepository,
	promos repository.PromotionRepository,
	cashRepo repository.CashRepository,
	inventory InventoryService,
	cash CashService,
	customers CustomerService,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:       repo,
		variants:   variants,
		promos:     promos,
		cashRepo:   cashRepo,
		inventory:  inventory,
		cash:       cash,
		customers:  customers,
		dispatcher: dispatcher,
	}
}

// ─── ProcessSale ─────────────────────────────────────────────────────────────

func (s *saleService) ProcessSale(ctx context.Context, storeID, userID uuid.UUID, req dto.ProcessSaleRequest) (*dto.SaleResponse, error) {
	if len(req.Items) == 0 {
		return nil, ledger.Validation("la venta debe tener al menos un item")
	}
	if req.DiscountPercentage.IsNegative() || req.DiscountPercentage.GreaterThan(oneHundred) {
		return nil, ledger.Validation("el porcentaje de descuento debe estar entre 0 y 100")
	}

	var customerID *uuid.UUID
	if req.PaymentMethod == model.PaymentCreditAccount {
		if req.CustomerID == nil {
			return nil, ledger.Validation("una venta a cuenta corriente requiere un cliente")
		}
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, ledger.Validation("customer_id inválido: %v", err)
		}
		customerID = &cid
	}

	var (
		sale     model.Sale
		lowStock []*model.ProductVariant
		change   *decimal.Decimal
	)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Resolve variants inside the transaction; missing or cross-tenant
		// ids fail the whole sale.
		type resolvedItem struct {
			variant  *model.ProductVariant
			quantity int
			subtotal decimal.Decimal
		}
		resolved := make([]resolvedItem, 0, len(req.Items))
		subtotal := decimal.Zero

		for _, item := range req.Items {
			vid, err := uuid.Parse(item.VariantID)
			if err != nil {
				return ledger.Validation("variant_id inválido: %v", err)
			}
			v, err := s.variants.FindByIDTx(tx, storeID, vid)
			if err != nil {
				return ledger.NotFound(fmt.Sprintf("Producto %s", item.VariantID))
			}
			if !v.Active {
				return ledger.Validation("el producto %q está inactivo y no puede venderse", v.Name)
			}
			if v.StockQuantity < item.Quantity {
				return &ledger.InsufficientStockError{
					Product:   v.Name,
					Available: v.StockQuantity,
					Requested: item.Quantity,
				}
			}
			lineTotal := v.SalePrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			subtotal = subtotal.Add(lineTotal)
			resolved = append(resolved, resolvedItem{variant: v, quantity: item.Quantity, subtotal: lineTotal})
		}

		discountAmount := subtotal.Mul(req.DiscountPercentage).Div(oneHundred).Round(2)
		total := subtotal.Sub(discountAmount)

		sale = model.Sale{
			ID:             uuid.New(),
			StoreID:        storeID,
			CustomerID:     customerID,
			UserID:         userID,
			PaymentMethod:  req.PaymentMethod,
			Subtotal:       subtotal,
			DiscountAmount: discountAmount,
			TotalAmount:    total,
		}
		for _, r := range resolved {
			sale.Items = append(sale.Items, model.SaleItem{
				ID:          uuid.New(),
				SaleID:      sale.ID,
				VariantID:   r.variant.ID,
				ProductName: r.variant.Name,
				Quantity:    r.quantity,
				UnitPrice:   r.variant.SalePrice,
				Subtotal:    r.subtotal,
			})
		}
		if err := s.repo.CreateTx(tx, &sale); err != nil {
			return err
		}

		// Decrement stock: one SALE movement per item whose BalanceSnapshot
		// is the post-decrement stock.
		for _, r := range resolved {
			if _, err := s.inventory.DecrementStockTx(tx, r.variant, r.quantity, ReasonSale, &sale.ID); err != nil {
				return err
			}
			if r.variant.StockQuantity <= r.variant.MinStock {
				lowStock = append(lowStock, r.variant)
			}
		}

		// Route payment.
		switch req.PaymentMethod {
		case model.PaymentCash:
			session, err := s.cash.RequireOpenTx(tx, storeID)
			if err != nil {
				return err
			}
			if err := s.cashRepo.IncrementFinalSystemTx(tx, session.ID, total); err != nil {
				return err
			}
			if req.AmountPaid != nil {
				if req.AmountPaid.LessThan(total) {
					return ledger.Validation("el monto entregado es insuficiente")
				}
				c := req.AmountPaid.Sub(total)
				change = &c
			}
		case model.PaymentCreditAccount:
			desc := fmt.Sprintf("Compra Venta #%s", sale.ID)
			if _, err := s.customers.ChargeTx(tx, storeID, *customerID, total, desc); err != nil {
				return err
			}
		}
		// Other payment methods leave no ledger side effect beyond the sale.

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Low-stock alerts go out after commit, best-effort.
	if s.dispatcher != nil {
		for _, v := range lowStock {
			_ = s.dispatcher.EnqueueStockAlert(ctx, worker.StockAlertPayload{
				StoreID:   storeID.String(),
				VariantID: v.ID.String(),
				Name:      v.Name,
				Stock:     v.StockQuantity,
				MinStock:  v.MinStock,
			})
		}
	}

	resp := saleToResponse(&sale)
	resp.Change = change
	return resp, nil
}

// ─── VoidSale ────────────────────────────────────────────────────────────────

// VoidSale reverses a committed sale: stock restored via compensating VOID
// movements, the customer balance impact reversed when applicable, and the
// sale row hard-deleted. One atomic unit; any failure aborts the whole void.
// The sale row is locked for the duration so two voids of the same sale
// serialize, and the delete is guarded: zero rows deleted means another void
// already compensated this sale and this one must not compensate it again.
func (s *saleService) VoidSale(ctx context.Context, storeID, saleID uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale, err := s.repo.FindByIDForUpdateTx(tx, storeID, saleID)
		if err != nil {
			return ledger.NotFound("Venta")
		}

		for _, item := range sale.Items {
			v, err := s.variants.FindByIDTx(tx, storeID, item.VariantID)
			if err != nil {
				return ledger.NotFound(fmt.Sprintf("Producto %s", item.VariantID))
			}
			if _, err := s.inventory.IncrementStockTx(tx, v, item.Quantity, ReasonVoid, &sale.ID); err != nil {
				return err
			}
		}

		if sale.PaymentMethod == model.PaymentCreditAccount && sale.CustomerID != nil {
			desc := fmt.Sprintf("Anulación Venta #%s", sale.ID)
			if _, err := s.customers.ReverseChargeTx(tx, storeID, *sale.CustomerID, sale.TotalAmount, desc); err != nil {
				return err
			}
		}

		rows, err := s.repo.DeleteTx(tx, sale.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ledger.Conflict("la venta ya fue anulada por otra operación")
		}
		return nil
	})
}

// ─── EvaluateCart ────────────────────────────────────────────────────────────

func (s *saleService) EvaluateCart(ctx context.Context, storeID uuid.UUID, req dto.EvaluatePromotionsRequest) (*dto.EvaluatePromotionsResponse, error) {
	if len(req.Items) == 0 {
		return nil, ledger.Validation("el carrito debe tener al menos un item")
	}

	cart := make([]CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		vid, err := uuid.Parse(item.VariantID)
		if err != nil {
			return nil, ledger.Validation("variant_id inválido: %v", err)
		}
		v, err := s.variants.FindByID(ctx, storeID, vid)
		if err != nil {
			return nil, ledger.NotFound(fmt.Sprintf("Producto %s", item.VariantID))
		}
		cart = append(cart, CartLine{
			VariantID:  v.ID,
			CategoryID: v.CategoryID,
			Quantity:   item.Quantity,
			UnitPrice:  v.SalePrice,
		})
	}

	promos, err := s.promos.ListActive(ctx, storeID, time.Now())
	if err != nil {
		return nil, err
	}

	result := EvaluatePromotions(cart, promos, req.PaymentMethod)

	payable := result.Subtotal.Sub(result.TotalDiscount)
	if payable.IsNegative() {
		payable = decimal.Zero
	}

	lines := make([]dto.CartLineDiscount, 0, len(result.Lines))
	for _, l := range result.Lines {
		lines = append(lines, dto.CartLineDiscount{
			VariantID:  l.VariantID.String(),
			Subtotal:   l.Subtotal,
			Discount:   l.Discount,
			Promotions: l.Promotions,
		})
	}

	return &dto.EvaluatePromotionsResponse{
		Subtotal:          result.Subtotal,
		TotalDiscount:     result.TotalDiscount,
		TotalPayable:      payable,
		AppliedPromotions: result.AppliedPromotions,
		Lines:             lines,
	}, nil
}

// ─── ListSales ───────────────────────────────────────────────────────────────

func (s *saleService) ListSales(ctx context.Context, storeID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, dto.SaleItemResponse{
			VariantID:   item.VariantID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	var customerID *string
	if s.CustomerID != nil {
		cid := s.CustomerID.String()
		customerID = &cid
	}
	return &dto.SaleResponse{
		ID:             s.ID.String(),
		PaymentMethod:  s.PaymentMethod,
		CustomerID:     customerID,
		Items:          items,
		Subtotal:       s.Subtotal,
		DiscountAmount: s.DiscountAmount,
		TotalAmount:    s.TotalAmount,
		CreatedAt:      s.CreatedAt.UTC().Format(time.RFC3339),
	}
}
