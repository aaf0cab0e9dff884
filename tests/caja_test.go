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
	"gorm.io/gorm"
)

type cashEnv struct {
	storeID uuid.UUID
	userID  uuid.UUID
	repo    *memCashRepo
	svc     service.CashService
}

func newCashEnv() *cashEnv {
	repo := newMemCashRepo()
	return &cashEnv{
		storeID: uuid.New(),
		userID:  uuid.New(),
		repo:    repo,
		svc:     service.NewCashService(repo),
	}
}

func TestOpenSession(t *testing.T) {
	env := newCashEnv()

	resp, err := env.svc.Open(context.Background(), env.storeID, env.userID, d(1000))
	require.NoError(t, err)

	assert.Equal(t, model.CashSessionOpen, resp.Status)
	assert.True(t, resp.InitialCash.Equal(d(1000)))
	// FinalCashSystem starts at the initial float
	assert.True(t, resp.FinalCashSystem.Equal(d(1000)))
}

func TestOpenSession_SecondOpenRejected(t *testing.T) {
	env := newCashEnv()

	_, err := env.svc.Open(context.Background(), env.storeID, env.userID, d(1000))
	require.NoError(t, err)

	_, err = env.svc.Open(context.Background(), env.storeID, env.userID, d(500))
	var stateErr *ledger.StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestOpenSession_OtherStoreUnaffected(t *testing.T) {
	env := newCashEnv()

	_, err := env.svc.Open(context.Background(), env.storeID, env.userID, d(1000))
	require.NoError(t, err)

	// A different store can open its own drawer
	_, err = env.svc.Open(context.Background(), uuid.New(), env.userID, d(200))
	assert.NoError(t, err)
}

func TestOpenSession_NegativeInitial(t *testing.T) {
	env := newCashEnv()
	_, err := env.svc.Open(context.Background(), env.storeID, env.userID, d(-1))

	var vErr *ledger.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestRegisterMovement_RequiresOpenSession(t *testing.T) {
	env := newCashEnv()

	_, err := env.svc.RegisterMovement(context.Background(), env.storeID, dto.CashMovementRequest{
		Type: model.CashMovementIn, Amount: d(500), Description: "Cambio de turno",
	})
	var stateErr *ledger.StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestActive_ExpectedCashComputedOnRead(t *testing.T) {
	env := newCashEnv()
	_, err := env.svc.Open(context.Background(), env.storeID, env.userID, d(1000))
	require.NoError(t, err)

	_, err = env.svc.RegisterMovement(context.Background(), env.storeID, dto.CashMovementRequest{
		Type: model.CashMovementIn, Amount: d(500), Description: "Ingreso manual",
	})
	require.NoError(t, err)
	_, err = env.svc.RegisterMovement(context.Background(), env.storeID, dto.CashMovementRequest{
		Type: model.CashMovementOut, Amount: d(200), Description: "Pago proveedor",
	})
	require.NoError(t, err)

	env.repo.cashSales = d(3000)

	resp, err := env.svc.Active(context.Background(), env.storeID)
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.NotNil(t, resp.Totals)

	// 1000 + 3000 + 500 - 200
	assert.True(t, resp.Totals.ExpectedCash.Equal(d(4300)), "got %s", resp.Totals.ExpectedCash)
	assert.True(t, resp.Totals.TotalIn.Equal(d(500)))
	assert.True(t, resp.Totals.TotalOut.Equal(d(200)))
}

func TestActive_NoSessionReturnsNil(t *testing.T) {
	env := newCashEnv()
	resp, err := env.svc.Active(context.Background(), env.storeID)
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestCloseSession_RecomputesSystemTotal(t *testing.T) {
	env := newCashEnv()
	opened, err := env.svc.Open(context.Background(), env.storeID, env.userID, d(1000))
	require.NoError(t, err)

	// Manual movements do not feed the close computation; only cash sales do.
	_, err = env.svc.RegisterMovement(context.Background(), env.storeID, dto.CashMovementRequest{
		Type: model.CashMovementIn, Amount: d(999), Description: "Ingreso manual",
	})
	require.NoError(t, err)
	env.repo.cashSales = d(2500)

	declared := decimal.NewFromInt(3400)
	resp, err := env.svc.Close(context.Background(), env.storeID, dto.CloseSessionRequest{
		SessionID: opened.ID, FinalCashReal: declared,
	})
	require.NoError(t, err)

	assert.Equal(t, model.CashSessionClosed, resp.Status)
	assert.True(t, resp.FinalCashSystem.Equal(d(3500)), "got %s", resp.FinalCashSystem)
	require.NotNil(t, resp.FinalCashReal)
	// Declared count stored verbatim even though it does not match
	assert.True(t, resp.FinalCashReal.Equal(declared))
	require.NotNil(t, resp.EndTime)
}

// lateSaleCashRepo injects a cash sale at the moment the close locks the
// session row, standing in for a sale committing while the close starts.
type lateSaleCashRepo struct {
	*memCashRepo
	lateSale decimal.Decimal
}

func (r *lateSaleCashRepo) FindByIDForUpdateTx(tx *gorm.DB, storeID, id uuid.UUID) (*model.CashSession, error) {
	r.cashSales = r.cashSales.Add(r.lateSale)
	r.lateSale = decimal.Zero
	return r.memCashRepo.FindByIDForUpdateTx(tx, storeID, id)
}

func TestCloseSession_CountsSaleCommittedAtClose(t *testing.T) {
	base := newMemCashRepo()
	repo := &lateSaleCashRepo{memCashRepo: base, lateSale: d(700)}
	svc := service.NewCashService(repo)
	storeID, userID := uuid.New(), uuid.New()

	opened, err := svc.Open(context.Background(), storeID, userID, d(1000))
	require.NoError(t, err)
	base.cashSales = d(300)

	resp, err := svc.Close(context.Background(), storeID, dto.CloseSessionRequest{
		SessionID: opened.ID, FinalCashReal: d(2000),
	})
	require.NoError(t, err)

	// 1000 + 300 + 700: the ledger sum runs after the session row is locked,
	// so the sale landing at close time is part of the system total.
	assert.True(t, resp.FinalCashSystem.Equal(d(2000)), "got %s", resp.FinalCashSystem)
}

func TestCloseSession_AlreadyClosed(t *testing.T) {
	env := newCashEnv()
	opened, err := env.svc.Open(context.Background(), env.storeID, env.userID, d(1000))
	require.NoError(t, err)

	req := dto.CloseSessionRequest{SessionID: opened.ID, FinalCashReal: d(1000)}
	_, err = env.svc.Close(context.Background(), env.storeID, req)
	require.NoError(t, err)

	_, err = env.svc.Close(context.Background(), env.storeID, req)
	var stateErr *ledger.StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestCloseSession_UnknownID(t *testing.T) {
	env := newCashEnv()
	_, err := env.svc.Close(context.Background(), env.storeID, dto.CloseSessionRequest{
		SessionID: uuid.NewString(), FinalCashReal: d(0),
	})
	var nfErr *ledger.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}
