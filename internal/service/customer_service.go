package service

import (
	"context"
	"time"

	"negociopos/internal/dto"
	"negociopos/internal/ledger"
	"negociopos/internal/model"
	"negociopos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerService owns the cuenta corriente ledger: the cached balance and
// its append-only movement history move in lock-step inside every operation.
type CustomerService interface {
	// ChargeTx increases the customer's debt inside an enclosing sale
	// transaction. The credit limit is NOT enforced here; callers wanting a
	// hard limit must check balance+amount <= limit before calling.
	ChargeTx(tx *gorm.DB, storeID, customerID uuid.UUID, amount decimal.Decimal, description string) (*model.AccountMovement, error)

	// ReverseChargeTx compensates a prior charge on void.
	ReverseChargeTx(tx *gorm.DB, storeID, customerID uuid.UUID, amount decimal.Decimal, description string) (*model.AccountMovement, error)

	// RegisterPayment decreases the debt. CASH payments additionally require
	// an open drawer and write a CashMovement(IN) in the same transaction;
	// without an open session the whole payment fails.
	RegisterPayment(ctx context.Context, storeID, customerID uuid.UUID, req dto.RegisterPaymentRequest) (*dto.CustomerResponse, error)

	Movements(ctx context.Context, storeID, customerID uuid.UUID, page, limit int) ([]dto.AccountMovementResponse, int64, error)

	// ReconcileBalance recomputes the ledger sum and reports drift against
	// the cached balance.
	ReconcileBalance(ctx context.Context, storeID, customerID uuid.UUID) (*dto.BalanceReconcileResponse, error)
}

type customerService struct {
	repo     repository.CustomerRepository
	cashRepo repository.CashRepository
}

func NewCustomerService(repo repository.CustomerRepository, cashRepo repository.CashRepository) CustomerService {
	return &customerService{repo: repo, cashRepo: cashRepo}
}

func (s *customerService) ChargeTx(tx *gorm.DB, storeID, customerID uuid.UUID, amount decimal.Decimal, description string) (*model.AccountMovement, error) {
	if !amount.IsPositive() {
		return nil, ledger.Validation("el monto del cargo debe ser positivo")
	}
	customer, err := s.repo.FindByIDTx(tx, storeID, customerID)
	if err != nil {
		return nil, ledger.NotFound("Cliente")
	}

	newBalance := customer.CurrentBalance.Add(amount)
	if err := s.repo.UpdateBalanceTx(tx, customer.ID, newBalance); err != nil {
		return nil, err
	}

	mov := &model.AccountMovement{
		ID:           uuid.New(),
		CustomerID:   customer.ID,
		MovementType: model.AccountMovementPurchase,
		Amount:       amount,
		Description:  description,
	}
	if err := s.repo.CreateMovementTx(tx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func (s *customerService) ReverseChargeTx(tx *gorm.DB, storeID, customerID uuid.UUID, amount decimal.Decimal, description string) (*model.AccountMovement, error) {
	if !amount.IsPositive() {
		return nil, ledger.Validation("el monto a revertir debe ser positivo")
	}
	customer, err := s.repo.FindByIDTx(tx, storeID, customerID)
	if err != nil {
		return nil, ledger.NotFound("Cliente")
	}

	newBalance := customer.CurrentBalance.Sub(amount)
	if err := s.repo.UpdateBalanceTx(tx, customer.ID, newBalance); err != nil {
		return nil, err
	}

	mov := &model.AccountMovement{
		ID:           uuid.New(),
		CustomerID:   customer.ID,
		MovementType: model.AccountMovementVoid,
		Amount:       amount.Neg(),
		Description:  description,
	}
	if err := s.repo.CreateMovementTx(tx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func (s *customerService) RegisterPayment(ctx context.Context, storeID, customerID uuid.UUID, req dto.RegisterPaymentRequest) (*dto.CustomerResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ledger.Validation("el monto del pago debe ser positivo")
	}

	var customer *model.Customer
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindByIDTx(tx, storeID, customerID)
		if err != nil {
			return ledger.NotFound("Cliente")
		}
		customer = c

		newBalance := c.CurrentBalance.Sub(req.Amount)
		if err := s.repo.UpdateBalanceTx(tx, c.ID, newBalance); err != nil {
			return err
		}

		mov := &model.AccountMovement{
			ID:           uuid.New(),
			CustomerID:   c.ID,
			MovementType: model.AccountMovementPayment,
			Amount:       req.Amount.Neg(),
			Description:  req.Description,
		}
		if err := s.repo.CreateMovementTx(tx, mov); err != nil {
			return err
		}

		// Cash payments go into the open drawer; a closed drawer aborts the
		// whole payment. Other methods never touch the cash ledger.
		if req.PaymentMethod == model.PaymentCash {
			session, err := s.cashRepo.FindOpenByStoreTx(tx, storeID)
			if err != nil {
				return ledger.State("No se puede recibir un pago en efectivo sin una caja abierta")
			}
			cashMov := &model.CashMovement{
				ID:            uuid.New(),
				CashSessionID: session.ID,
				Type:          model.CashMovementIn,
				Amount:        req.Amount,
				Description:   req.Description,
			}
			if err := s.cashRepo.CreateMovementTx(tx, cashMov); err != nil {
				return err
			}
		}

		customer.CurrentBalance = newBalance
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return customerToResponse(customer), nil
}

func (s *customerService) Movements(ctx context.Context, storeID, customerID uuid.UUID, page, limit int) ([]dto.AccountMovementResponse, int64, error) {
	if _, err := s.repo.FindByID(ctx, storeID, customerID); err != nil {
		return nil, 0, ledger.NotFound("Cliente")
	}
	movs, total, err := s.repo.ListMovements(ctx, customerID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.AccountMovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.AccountMovementResponse{
			ID:           m.ID.String(),
			MovementType: m.MovementType,
			Amount:       m.Amount,
			Description:  m.Description,
			CreatedAt:    m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out, total, nil
}

func (s *customerService) ReconcileBalance(ctx context.Context, storeID, customerID uuid.UUID) (*dto.BalanceReconcileResponse, error) {
	customer, err := s.repo.FindByID(ctx, storeID, customerID)
	if err != nil {
		return nil, ledger.NotFound("Cliente")
	}
	sum, err := s.repo.SumMovements(ctx, customerID)
	if err != nil {
		return nil, err
	}
	drift := customer.CurrentBalance.Sub(sum)
	return &dto.BalanceReconcileResponse{
		CustomerID:     customer.ID.String(),
		CurrentBalance: customer.CurrentBalance,
		LedgerSum:      sum,
		Drift:          drift,
		Consistent:     drift.IsZero(),
	}, nil
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:             c.ID.String(),
		Name:           c.Name,
		CreditLimit:    c.CreditLimit,
		CurrentBalance: c.CurrentBalance,
		Active:         c.Active,
	}
}
