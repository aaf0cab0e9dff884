package service

import (
	"context"
	"time"

	"negociopos/internal/dto"
	"negociopos/internal/repository"

	"github.com/google/uuid"
)

// PromotionService exposes the active promotion catalog to the POS front end.
type PromotionService interface {
	ListActive(ctx context.Context, storeID uuid.UUID) ([]dto.PromotionResponse, error)
}

type promotionService struct {
	repo repository.PromotionRepository
}

func NewPromotionService(repo repository.PromotionRepository) PromotionService {
	return &promotionService{repo: repo}
}

func (s *promotionService) ListActive(ctx context.Context, storeID uuid.UUID) ([]dto.PromotionResponse, error) {
	promos, err := s.repo.ListActive(ctx, storeID, time.Now())
	if err != nil {
		return nil, err
	}

	out := make([]dto.PromotionResponse, 0, len(promos))
	for _, p := range promos {
		resp := dto.PromotionResponse{
			ID:            p.ID.String(),
			Name:          p.Name,
			Type:          p.Type,
			Value:         p.Value,
			BuyQuantity:   p.BuyQuantity,
			PayQuantity:   p.PayQuantity,
			PaymentMethod: p.PaymentMethod,
			AllProducts:   p.AllProducts,
		}
		if p.StartDate != nil {
			v := p.StartDate.UTC().Format(time.RFC3339)
			resp.StartDate = &v
		}
		if p.EndDate != nil {
			v := p.EndDate.UTC().Format(time.RFC3339)
			resp.EndDate = &v
		}
		out = append(out, resp)
	}
	return out, nil
}
