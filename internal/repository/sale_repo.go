package repository

import (
	"context"

	"negociopos/internal/dto"
	"negociopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Sale, error)
	// FindByIDForUpdateTx locks the sale row (FOR UPDATE) so two concurrent
	// voids of the same sale serialize on it.
	FindByIDForUpdateTx(tx *gorm.DB, storeID, id uuid.UUID) (*model.Sale, error)
	// DeleteTx hard-deletes the sale; items cascade. Zero rows affected means
	// another void already removed it. The compensating stock and account
	// movements written in the same transaction keep the void auditable even
	// though the sale row disappears.
	DeleteTx(tx *gorm.DB, id uuid.UUID) (int64, error)
	List(ctx context.Context, storeID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error)
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").
		Where("id = ? AND store_id = ?", id, storeID).First(&s).Error
	return &s, err
}

func (r *saleRepo) FindByIDForUpdateTx(tx *gorm.DB, storeID, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := tx.Preload("Items").Clauses(forUpdate()).
		Where("id = ? AND store_id = ?", id, storeID).First(&s).Error
	return &s, err
}

func (r *saleRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	if err := tx.Where("sale_id = ?", id).Delete(&model.SaleItem{}).Error; err != nil {
		return 0, err
	}
	res := tx.Delete(&model.Sale{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *saleRepo) List(ctx context.Context, storeID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Sale{}).Where("store_id = ?", storeID)

	if filter.PaymentMethod != "" {
		q = q.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	} else {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error

	return sales, total, err
}
