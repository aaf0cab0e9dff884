package tests

import (
	"context"
	"testing"

	"negociopos/internal/dto"
	"negociopos/internal/ledger"
	"negociopos/internal/model"
	"negociopos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customerEnv struct {
	storeID uuid.UUID
	repo    *memCustomerRepo
	cash    *memCashRepo
	svc     service.CustomerService
}

func newCustomerEnv() *customerEnv {
	repo := newMemCustomerRepo()
	cash := newMemCashRepo()
	return &customerEnv{
		storeID: uuid.New(),
		repo:    repo,
		cash:    cash,
		svc:     service.NewCustomerService(repo, cash),
	}
}

func (e *customerEnv) addCustomer(balance int64) *model.Customer {
	return e.repo.add(&model.Customer{
		StoreID:        e.storeID,
		Name:           "Cliente Demo",
		CreditLimit:    decimal.NewFromInt(50000),
		CurrentBalance: decimal.NewFromInt(balance),
		Active:         true,
	})
}

func TestChargeAndPaymentRoundTrip(t *testing.T) {
	env := newCustomerEnv()
	c := env.addCustomer(0)

	_, err := env.svc.ChargeTx(nil, env.storeID, c.ID, d(5000), "Compra Venta #1")
	require.NoError(t, err)
	assert.True(t, c.CurrentBalance.Equal(d(5000)))

	resp, err := env.svc.RegisterPayment(context.Background(), env.storeID, c.ID, dto.RegisterPaymentRequest{
		Amount: d(5000), Description: "Pago total", PaymentMethod: model.PaymentTransfer,
	})
	require.NoError(t, err)

	assert.True(t, resp.CurrentBalance.IsZero())
	// TRANSFER never touches the drawer
	assert.Empty(t, env.cash.movements)

	require.Len(t, env.repo.movements, 2)
	assert.Equal(t, model.AccountMovementPurchase, env.repo.movements[0].MovementType)
	assert.True(t, env.repo.movements[0].Amount.Equal(d(5000)))
	assert.Equal(t, model.AccountMovementPayment, env.repo.movements[1].MovementType)
	assert.True(t, env.repo.movements[1].Amount.Equal(d(-5000)))
}

func TestRegisterPayment_CashRequiresOpenSession(t *testing.T) {
	env := newCustomerEnv()
	c := env.addCustomer(3000)

	_, err := env.svc.RegisterPayment(context.Background(), env.storeID, c.ID, dto.RegisterPaymentRequest{
		Amount: d(1000), Description: "Pago en mostrador", PaymentMethod: model.PaymentCash,
	})

	var stateErr *ledger.StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestRegisterPayment_CashWritesDrawerMovement(t *testing.T) {
	env := newCustomerEnv()
	c := env.addCustomer(3000)
	session := &model.CashSession{
		ID: uuid.New(), StoreID: env.storeID, UserID: uuid.New(),
		Status: model.CashSessionOpen, InitialCash: d(1000), FinalCashSystem: d(1000),
	}
	env.cash.sessions[session.ID] = session

	resp, err := env.svc.RegisterPayment(context.Background(), env.storeID, c.ID, dto.RegisterPaymentRequest{
		Amount: d(1000), Description: "Pago en mostrador", PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	assert.True(t, resp.CurrentBalance.Equal(d(2000)))
	require.Len(t, env.cash.movements, 1)
	assert.Equal(t, model.CashMovementIn, env.cash.movements[0].Type)
	assert.True(t, env.cash.movements[0].Amount.Equal(d(1000)))
	assert.Equal(t, session.ID, env.cash.movements[0].CashSessionID)
}

func TestRegisterPayment_NonPositiveAmount(t *testing.T) {
	env := newCustomerEnv()
	c := env.addCustomer(1000)

	_, err := env.svc.RegisterPayment(context.Background(), env.storeID, c.ID, dto.RegisterPaymentRequest{
		Amount: d(0), Description: "Nada", PaymentMethod: model.PaymentTransfer,
	})
	var vErr *ledger.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestRegisterPayment_UnknownCustomer(t *testing.T) {
	env := newCustomerEnv()
	_, err := env.svc.RegisterPayment(context.Background(), env.storeID, uuid.New(), dto.RegisterPaymentRequest{
		Amount: d(1000), Description: "Pago", PaymentMethod: model.PaymentTransfer,
	})
	var nfErr *ledger.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

// Overpaying drives the balance negative: the store owes the customer.
func TestRegisterPayment_BalanceMayGoNegative(t *testing.T) {
	env := newCustomerEnv()
	c := env.addCustomer(1000)

	resp, err := env.svc.RegisterPayment(context.Background(), env.storeID, c.ID, dto.RegisterPaymentRequest{
		Amount: d(1500), Description: "Pago adelantado", PaymentMethod: model.PaymentTransfer,
	})
	require.NoError(t, err)
	assert.True(t, resp.CurrentBalance.Equal(d(-500)))
}

func TestReconcileBalance(t *testing.T) {
	env := newCustomerEnv()
	c := env.addCustomer(0)

	_, err := env.svc.ChargeTx(nil, env.storeID, c.ID, d(8000), "Compra")
	require.NoError(t, err)
	_, err = env.svc.ReverseChargeTx(nil, env.storeID, c.ID, d(3000), "Anulación parcial")
	require.NoError(t, err)

	resp, err := env.svc.ReconcileBalance(context.Background(), env.storeID, c.ID)
	require.NoError(t, err)

	assert.True(t, resp.Consistent)
	assert.True(t, resp.CurrentBalance.Equal(d(5000)))
	assert.True(t, resp.LedgerSum.Equal(d(5000)))
	assert.True(t, resp.Drift.IsZero())
}

func TestReconcileBalance_DetectsDrift(t *testing.T) {
	env := newCustomerEnv()
	c := env.addCustomer(0)

	_, err := env.svc.ChargeTx(nil, env.storeID, c.ID, d(8000), "Compra")
	require.NoError(t, err)

	// Corrupt the cached balance out-of-band
	c.CurrentBalance = d(9999)

	resp, err := env.svc.ReconcileBalance(context.Background(), env.storeID, c.ID)
	require.NoError(t, err)

	assert.False(t, resp.Consistent)
	assert.True(t, resp.Drift.Equal(d(1999)))
}

func TestChargeTx_CrossTenantInvisible(t *testing.T) {
	env := newCustomerEnv()
	c := env.addCustomer(0)

	_, err := env.svc.ChargeTx(nil, uuid.New(), c.ID, d(100), "Compra")
	var nfErr *ledger.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.True(t, c.CurrentBalance.IsZero())
}
