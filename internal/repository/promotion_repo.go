package repository

import (
	"context"
	"time"

	"negociopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PromotionRepository interface {
	// ListActive returns promotions with the active flag set whose date
	// window (either bound optional) contains now, scope items preloaded.
	ListActive(ctx context.Context, storeID uuid.UUID, now time.Time) ([]model.Promotion, error)
}

type promotionRepo struct{ db *gorm.DB }

func NewPromotionRepository(db *gorm.DB) PromotionRepository { return &promotionRepo{db: db} }

func (r *promotionRepo) ListActive(ctx context.Context, storeID uuid.UUID, now time.Time) ([]model.Promotion, error) {
	var promos []model.Promotion
	err := r.db.WithContext(ctx).Preload("Items").
		Where("store_id = ? AND active = true", storeID).
		Where("start_date IS NULL OR start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Order("created_at ASC").
		Find(&promos).Error
	return promos, err
}
