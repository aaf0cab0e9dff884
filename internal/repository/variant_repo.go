package repository

import (
	"context"

	"negociopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VariantRepository is the data access contract for product variants.
// All lookups are store-scoped: a variant belonging to another store behaves
// as missing. Services depend on this interface, not on GORM, so unit tests
// can swap in-memory implementations.
type VariantRepository interface {
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.ProductVariant, error)
	FindByIDTx(tx *gorm.DB, storeID, id uuid.UUID) (*model.ProductVariant, error)
	FindByBarcode(ctx context.Context, storeID uuid.UUID, barcode string) (*model.ProductVariant, error)

	// UpdateStockGuarded sets stock_quantity to next only when the row still
	// holds prior. Zero rows affected means a concurrent writer got there
	// first; the caller must abort with a concurrency error so the whole
	// unit of work rolls back (lost-update protection for stock).
	UpdateStockGuarded(tx *gorm.DB, id uuid.UUID, prior, next int) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type variantRepo struct{ db *gorm.DB }

func NewVariantRepository(db *gorm.DB) VariantRepository { return &variantRepo{db: db} }

func (r *variantRepo) DB() *gorm.DB { return r.db }

func (r *variantRepo) FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.ProductVariant, error) {
	var v model.ProductVariant
	err := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", id, storeID).First(&v).Error
	return &v, err
}

func (r *variantRepo) FindByIDTx(tx *gorm.DB, storeID, id uuid.UUID) (*model.ProductVariant, error) {
	var v model.ProductVariant
	err := tx.Where("id = ? AND store_id = ?", id, storeID).First(&v).Error
	return &v, err
}

func (r *variantRepo) FindByBarcode(ctx context.Context, storeID uuid.UUID, barcode string) (*model.ProductVariant, error) {
	var v model.ProductVariant
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND barcode = ? AND active = true", storeID, barcode).First(&v).Error
	return &v, err
}

func (r *variantRepo) UpdateStockGuarded(tx *gorm.DB, id uuid.UUID, prior, next int) (int64, error) {
	res := tx.Model(&model.ProductVariant{}).
		Where("id = ? AND stock_quantity = ?", id, prior).
		Update("stock_quantity", next)
	return res.RowsAffected, res.Error
}
