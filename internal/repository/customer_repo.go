package repository

import (
	"context"

	"negociopos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Customer, error)
	// FindByIDTx locks the customer row so concurrent balance updates serialize.
	FindByIDTx(tx *gorm.DB, storeID, id uuid.UUID) (*model.Customer, error)
	UpdateBalanceTx(tx *gorm.DB, id uuid.UUID, balance decimal.Decimal) error
	CreateMovementTx(tx *gorm.DB, m *model.AccountMovement) error
	ListMovements(ctx context.Context, customerID uuid.UUID, page, limit int) ([]model.AccountMovement, int64, error)
	// SumMovements returns the signed sum of a customer's account ledger,
	// used by the balance reconciliation check.
	SumMovements(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
	DB() *gorm.DB
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) DB() *gorm.DB { return r.db }

func (r *customerRepo) FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", id, storeID).First(&c).Error
	return &c, err
}

func (r *customerRepo) FindByIDTx(tx *gorm.DB, storeID, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := tx.Clauses(forUpdate()).
		Where("id = ? AND store_id = ?", id, storeID).First(&c).Error
	return &c, err
}

func (r *customerRepo) UpdateBalanceTx(tx *gorm.DB, id uuid.UUID, balance decimal.Decimal) error {
	return tx.Model(&model.Customer{}).Where("id = ?", id).
		Update("current_balance", balance).Error
}

func (r *customerRepo) CreateMovementTx(tx *gorm.DB, m *model.AccountMovement) error {
	return tx.Create(m).Error
}

func (r *customerRepo) ListMovements(ctx context.Context, customerID uuid.UUID, page, limit int) ([]model.AccountMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AccountMovement{}).
		Where("customer_id = ?", customerID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movs []model.AccountMovement
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&movs).Error
	return movs, total, err
}

func (r *customerRepo) SumMovements(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.AccountMovement{}).
		Select("SUM(amount)").
		Where("customer_id = ?", customerID).
		Scan(&sum).Error
	if err != nil || !sum.Valid {
		return decimal.Zero, err
	}
	return sum.Decimal, nil
}
