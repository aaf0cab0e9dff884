package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"negociopos/internal/dto"
	"negociopos/internal/ledger"
	"negociopos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PriceService answers barcode price checks for the in-store verifier kiosk.
// Lookups are cached in redis per store+barcode; the cache is read-through
// and degrades to the DB when redis is unavailable.
type PriceService interface {
	CheckPrice(ctx context.Context, storeID uuid.UUID, barcode string) (*dto.PriceCheckResponse, error)
}

type priceService struct {
	variants repository.VariantRepository
	rdb      *redis.Client
	ttl      time.Duration
}

func NewPriceService(variants repository.VariantRepository, rdb *redis.Client, ttl time.Duration) PriceService {
	return &priceService{variants: variants, rdb: rdb, ttl: ttl}
}

func priceCacheKey(storeID uuid.UUID, barcode string) string {
	return fmt.Sprintf("price:%s:%s", storeID, barcode)
}

func (s *priceService) CheckPrice(ctx context.Context, storeID uuid.UUID, barcode string) (*dto.PriceCheckResponse, error) {
	key := priceCacheKey(storeID, barcode)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp dto.PriceCheckResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	v, err := s.variants.FindByBarcode(ctx, storeID, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.NotFound("Producto")
		}
		return nil, err
	}

	resp := &dto.PriceCheckResponse{
		VariantID: v.ID.String(),
		Name:      v.Name,
		Barcode:   v.Barcode,
		SalePrice: v.SalePrice,
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("price cache write failed")
			}
		}
	}
	return resp, nil
}
