package tests

// In-memory repository stubs shared by the service unit tests. Services open
// transactions through runTx, which calls the body with a nil *gorm.DB when
// the repository reports no database; every stub here returns nil from DB().

import (
	"context"
	"time"

	"negociopos/internal/dto"
	"negociopos/internal/model"
	"negociopos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── VariantRepository ────────────────────────────────────────────────────────

type memVariantRepo struct {
	variants map[uuid.UUID]*model.ProductVariant
}

func newMemVariantRepo() *memVariantRepo {
	return &memVariantRepo{variants: make(map[uuid.UUID]*model.ProductVariant)}
}

func (r *memVariantRepo) add(v *model.ProductVariant) *model.ProductVariant {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.variants[v.ID] = v
	return v
}

func (r *memVariantRepo) find(storeID, id uuid.UUID) (*model.ProductVariant, error) {
	v, ok := r.variants[id]
	if !ok || v.StoreID != storeID {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *memVariantRepo) FindByID(_ context.Context, storeID, id uuid.UUID) (*model.ProductVariant, error) {
	return r.find(storeID, id)
}

func (r *memVariantRepo) FindByIDTx(_ *gorm.DB, storeID, id uuid.UUID) (*model.ProductVariant, error) {
	return r.find(storeID, id)
}

func (r *memVariantRepo) FindByBarcode(_ context.Context, storeID uuid.UUID, barcode string) (*model.ProductVariant, error) {
	for _, v := range r.variants {
		if v.StoreID == storeID && v.Barcode == barcode && v.Active {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memVariantRepo) UpdateStockGuarded(_ *gorm.DB, id uuid.UUID, prior, next int) (int64, error) {
	v, ok := r.variants[id]
	if !ok || v.StockQuantity != prior {
		return 0, nil
	}
	v.StockQuantity = next
	return 1, nil
}

func (r *memVariantRepo) DB() *gorm.DB { return nil }

// ── StockMovementRepository ──────────────────────────────────────────────────

type memStockMovementRepo struct {
	movements []model.StockMovement
}

func (r *memStockMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *memStockMovementRepo) List(_ context.Context, filter repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if filter.VariantID != nil && m.VariantID != *filter.VariantID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *memStockMovementRepo) SumQuantity(_ context.Context, variantID uuid.UUID) (int, error) {
	sum := 0
	for _, m := range r.movements {
		if m.VariantID == variantID {
			sum += m.Quantity
		}
	}
	return sum, nil
}

func (r *memStockMovementRepo) byVariant(variantID uuid.UUID) []model.StockMovement {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.VariantID == variantID {
			out = append(out, m)
		}
	}
	return out
}

// ── SaleRepository ───────────────────────────────────────────────────────────

type memSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *memSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	s.CreatedAt = time.Now()
	cp := *s
	r.sales[s.ID] = &cp
	return nil
}

func (r *memSaleRepo) FindByID(_ context.Context, storeID, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok || s.StoreID != storeID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memSaleRepo) FindByIDForUpdateTx(_ *gorm.DB, storeID, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok || s.StoreID != storeID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memSaleRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) (int64, error) {
	if _, ok := r.sales[id]; !ok {
		return 0, nil
	}
	delete(r.sales, id)
	return 1, nil
}

func (r *memSaleRepo) List(_ context.Context, storeID uuid.UUID, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.StoreID == storeID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memSaleRepo) DB() *gorm.DB { return nil }

// ── CashRepository ───────────────────────────────────────────────────────────

type memCashRepo struct {
	sessions  map[uuid.UUID]*model.CashSession
	movements []model.CashMovement
	// cashSales stands in for the SUM over sale rows the real repo computes.
	cashSales decimal.Decimal
}

func newMemCashRepo() *memCashRepo {
	return &memCashRepo{
		sessions:  make(map[uuid.UUID]*model.CashSession),
		cashSales: decimal.Zero,
	}
}

func (r *memCashRepo) CreateSession(_ context.Context, s *model.CashSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *memCashRepo) findOpen(storeID uuid.UUID) (*model.CashSession, error) {
	for _, s := range r.sessions {
		if s.StoreID == storeID && s.Status == model.CashSessionOpen {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCashRepo) FindOpenByStore(_ context.Context, storeID uuid.UUID) (*model.CashSession, error) {
	return r.findOpen(storeID)
}

func (r *memCashRepo) FindOpenByStoreTx(_ *gorm.DB, storeID uuid.UUID) (*model.CashSession, error) {
	return r.findOpen(storeID)
}

func (r *memCashRepo) FindByIDForUpdateTx(_ *gorm.DB, storeID, id uuid.UUID) (*model.CashSession, error) {
	s, ok := r.sessions[id]
	if !ok || s.StoreID != storeID {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *memCashRepo) CloseGuarded(_ *gorm.DB, s *model.CashSession) (int64, error) {
	current, ok := r.sessions[s.ID]
	if !ok || current.Status != model.CashSessionOpen {
		return 0, nil
	}
	current.Status = model.CashSessionClosed
	current.FinalCashSystem = s.FinalCashSystem
	current.FinalCashReal = s.FinalCashReal
	current.EndTime = s.EndTime
	return 1, nil
}

func (r *memCashRepo) IncrementFinalSystemTx(_ *gorm.DB, sessionID uuid.UUID, amount decimal.Decimal) error {
	s, ok := r.sessions[sessionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.FinalCashSystem = s.FinalCashSystem.Add(amount)
	return nil
}

func (r *memCashRepo) CreateMovement(_ context.Context, m *model.CashMovement) error {
	return r.CreateMovementTx(nil, m)
}

func (r *memCashRepo) CreateMovementTx(_ *gorm.DB, m *model.CashMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *memCashRepo) ListMovements(_ context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var out []model.CashMovement
	for _, m := range r.movements {
		if m.CashSessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memCashRepo) SumMovements(_ context.Context, sessionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	in, out := decimal.Zero, decimal.Zero
	for _, m := range r.movements {
		if m.CashSessionID != sessionID {
			continue
		}
		switch m.Type {
		case model.CashMovementIn:
			in = in.Add(m.Amount)
		case model.CashMovementOut:
			out = out.Add(m.Amount)
		}
	}
	return in, out, nil
}

func (r *memCashRepo) SumCashSalesSince(_ context.Context, _ uuid.UUID, _ time.Time) (decimal.Decimal, error) {
	return r.cashSales, nil
}

func (r *memCashRepo) SumCashSalesSinceTx(_ *gorm.DB, _ uuid.UUID, _ time.Time) (decimal.Decimal, error) {
	return r.cashSales, nil
}

func (r *memCashRepo) ListClosed(_ context.Context, storeID uuid.UUID, _, _ int) ([]model.CashSession, int64, error) {
	var out []model.CashSession
	for _, s := range r.sessions {
		if s.StoreID == storeID && s.Status == model.CashSessionClosed {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memCashRepo) DB() *gorm.DB { return nil }

// ── CustomerRepository ───────────────────────────────────────────────────────

type memCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
	movements []model.AccountMovement
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *memCustomerRepo) add(c *model.Customer) *model.Customer {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return c
}

func (r *memCustomerRepo) find(storeID, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok || c.StoreID != storeID {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *memCustomerRepo) FindByID(_ context.Context, storeID, id uuid.UUID) (*model.Customer, error) {
	return r.find(storeID, id)
}

func (r *memCustomerRepo) FindByIDTx(_ *gorm.DB, storeID, id uuid.UUID) (*model.Customer, error) {
	return r.find(storeID, id)
}

func (r *memCustomerRepo) UpdateBalanceTx(_ *gorm.DB, id uuid.UUID, balance decimal.Decimal) error {
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.CurrentBalance = balance
	return nil
}

func (r *memCustomerRepo) CreateMovementTx(_ *gorm.DB, m *model.AccountMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *memCustomerRepo) ListMovements(_ context.Context, customerID uuid.UUID, _, _ int) ([]model.AccountMovement, int64, error) {
	var out []model.AccountMovement
	for _, m := range r.movements {
		if m.CustomerID == customerID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memCustomerRepo) SumMovements(_ context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.movements {
		if m.CustomerID == customerID {
			sum = sum.Add(m.Amount)
		}
	}
	return sum, nil
}

func (r *memCustomerRepo) DB() *gorm.DB { return nil }

// ── PromotionRepository ──────────────────────────────────────────────────────

type memPromotionRepo struct {
	promos []model.Promotion
}

func (r *memPromotionRepo) ListActive(_ context.Context, storeID uuid.UUID, _ time.Time) ([]model.Promotion, error) {
	var out []model.Promotion
	for _, p := range r.promos {
		if p.StoreID == storeID && p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}
