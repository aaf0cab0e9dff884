package service

import (
	"context"
	"time"

	"negociopos/internal/dto"
	"negociopos/internal/ledger"
	"negociopos/internal/model"
	"negociopos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Adjustment reasons recognized by the movement-type mapping. Free-form
// reasons are accepted and fall back to ADJUSTMENT.
const (
	ReasonBuy        = "COMPRA"
	ReasonSale       = "VENTA"
	ReasonVoid       = "VOID"
	ReasonShrinkage  = "MERMA"
	ReasonTheft      = "ROBO"
	ReasonExpiration = "VENCIMIENTO"
)

// InventoryService owns every mutation of variant stock. Each write pairs the
// variant update with exactly one StockMovement whose BalanceSnapshot equals
// the resulting stock, inside the caller's (or its own) transaction.
type InventoryService interface {
	// DecrementStockTx and IncrementStockTx run inside an enclosing sale/void
	// transaction; they mutate v.StockQuantity in place on success.
	DecrementStockTx(tx *gorm.DB, v *model.ProductVariant, quantity int, reason string, refID *uuid.UUID) (*model.StockMovement, error)
	IncrementStockTx(tx *gorm.DB, v *model.ProductVariant, quantity int, reason string, refID *uuid.UUID) (*model.StockMovement, error)

	// AdjustStock applies a signed manual delta in its own transaction.
	AdjustStock(ctx context.Context, storeID, variantID uuid.UUID, delta int, reason string) (*dto.AdjustStockResponse, error)

	ListMovements(ctx context.Context, storeID, variantID uuid.UUID, page, limit int) (*dto.StockMovementListResponse, error)

	// ReconcileStock recomputes the ledger sum for a variant and reports the
	// drift against the cached stock quantity.
	ReconcileStock(ctx context.Context, storeID, variantID uuid.UUID) (*dto.StockReconcileResponse, error)
}

type inventoryService struct {
	variants  repository.VariantRepository
	movements repository.StockMovementRepository
}

func NewInventoryService(variants repository.VariantRepository, movements repository.StockMovementRepository) InventoryService {
	return &inventoryService{variants: variants, movements: movements}
}

// movementTypeFor maps a signed delta plus reason onto a ledger movement type.
func movementTypeFor(delta int, reason string) string {
	switch {
	case delta > 0 && reason == ReasonBuy:
		return model.StockMovementBuy
	case delta > 0 && reason == ReasonVoid:
		return model.StockMovementVoid
	case delta < 0 && (reason == ReasonShrinkage || reason == ReasonTheft || reason == ReasonExpiration):
		return model.StockMovementLoss
	case delta < 0 && reason == ReasonSale:
		return model.StockMovementSale
	default:
		return model.StockMovementAdjustment
	}
}

func (s *inventoryService) DecrementStockTx(tx *gorm.DB, v *model.ProductVariant, quantity int, reason string, refID *uuid.UUID) (*model.StockMovement, error) {
	if quantity <= 0 {
		return nil, ledger.Validation("la cantidad a descontar debe ser positiva")
	}
	if v.StockQuantity < quantity {
		return nil, &ledger.InsufficientStockError{
			Product:   v.Name,
			Available: v.StockQuantity,
			Requested: quantity,
		}
	}
	return s.applyDelta(tx, v, -quantity, reason, refID)
}

func (s *inventoryService) IncrementStockTx(tx *gorm.DB, v *model.ProductVariant, quantity int, reason string, refID *uuid.UUID) (*model.StockMovement, error) {
	if quantity <= 0 {
		return nil, ledger.Validation("la cantidad a ingresar debe ser positiva")
	}
	return s.applyDelta(tx, v, quantity, reason, refID)
}

// applyDelta performs the guarded read-modify-write. The guard on the prior
// stock value turns a lost-update race into a ConcurrencyError, aborting the
// enclosing transaction instead of silently overselling.
func (s *inventoryService) applyDelta(tx *gorm.DB, v *model.ProductVariant, delta int, reason string, refID *uuid.UUID) (*model.StockMovement, error) {
	next := v.StockQuantity + delta

	rows, err := s.variants.UpdateStockGuarded(tx, v.ID, v.StockQuantity, next)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ledger.Conflict("el stock de %q fue modificado por otra operación", v.Name)
	}

	mov := &model.StockMovement{
		ID:              uuid.New(),
		VariantID:       v.ID,
		Type:            movementTypeFor(delta, reason),
		Quantity:        delta,
		Reason:          reason,
		BalanceSnapshot: next,
		ReferenceID:     refID,
	}
	if err := s.movements.CreateTx(tx, mov); err != nil {
		return nil, err
	}

	v.StockQuantity = next
	return mov, nil
}

func (s *inventoryService) AdjustStock(ctx context.Context, storeID, variantID uuid.UUID, delta int, reason string) (*dto.AdjustStockResponse, error) {
	if delta == 0 {
		return nil, ledger.Validation("el ajuste de stock no puede ser cero")
	}

	var (
		variant *model.ProductVariant
		mov     *model.StockMovement
	)
	txErr := runTx(ctx, s.variants.DB(), func(tx *gorm.DB) error {
		v, err := s.variants.FindByIDTx(tx, storeID, variantID)
		if err != nil {
			return ledger.NotFound("Producto")
		}
		variant = v

		if delta < 0 {
			mov, err = s.DecrementStockTx(tx, v, -delta, reason, nil)
		} else {
			mov, err = s.IncrementStockTx(tx, v, delta, reason, nil)
		}
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.AdjustStockResponse{
		VariantID:     variant.ID.String(),
		StockQuantity: variant.StockQuantity,
		Movement:      stockMovementToResponse(mov),
	}, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, storeID, variantID uuid.UUID, page, limit int) (*dto.StockMovementListResponse, error) {
	// Scope check: the variant must belong to the store.
	if _, err := s.variants.FindByID(ctx, storeID, variantID); err != nil {
		return nil, ledger.NotFound("Producto")
	}

	movs, total, err := s.movements.List(ctx, repository.StockMovementFilter{
		VariantID: &variantID,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.StockMovementResponse, 0, len(movs))
	for i := range movs {
		items = append(items, stockMovementToResponse(&movs[i]))
	}
	return &dto.StockMovementListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *inventoryService) ReconcileStock(ctx context.Context, storeID, variantID uuid.UUID) (*dto.StockReconcileResponse, error) {
	v, err := s.variants.FindByID(ctx, storeID, variantID)
	if err != nil {
		return nil, ledger.NotFound("Producto")
	}
	sum, err := s.movements.SumQuantity(ctx, variantID)
	if err != nil {
		return nil, err
	}
	return &dto.StockReconcileResponse{
		VariantID:     v.ID.String(),
		StockQuantity: v.StockQuantity,
		LedgerSum:     sum,
		Drift:         v.StockQuantity - sum,
		Consistent:    v.StockQuantity == sum,
	}, nil
}

func stockMovementToResponse(m *model.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:              m.ID.String(),
		VariantID:       m.VariantID.String(),
		Type:            m.Type,
		Quantity:        m.Quantity,
		Reason:          m.Reason,
		BalanceSnapshot: m.BalanceSnapshot,
		CreatedAt:       m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
