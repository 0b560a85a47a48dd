package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/daniillazarev2301/belbird-checkout-service/internal/entities"
)

type PromoRepo interface {
	GetPromoByCode(ctx context.Context, code string) (entities.PromoCode, error)
	ActivePromos(ctx context.Context, count int) ([]entities.PromoCode, error)
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

type promoService struct {
	logger *slog.Logger
	repo   PromoRepo
	cache  Cache
}

func NewPromoService(logger *slog.Logger, repo PromoRepo, cache Cache) *promoService {
	return &promoService{
		logger: logger.With(slog.String("service", "promo")),
		repo:   repo,
		cache:  cache,
	}
}

// Validate проверяет промокод против суммы заказа. Чистая проверка:
// счётчик использований не трогается, сколько бы раз покупатель ни
// редактировал корзину.
func (s *promoService) Validate(ctx context.Context, code string, subtotal int, now time.Time) (entities.PromoDiscount, error) {
	normalized := entities.NormalizePromoCode(code)

	promo, err := s.lookup(ctx, normalized)
	if errors.Is(err, entities.ErrPromoNotFound) {
		return entities.PromoDiscount{}, &entities.PromoRejection{Reason: entities.PromoCodeNotFound}
	}
	if err != nil {
		return entities.PromoDiscount{}, err
	}

	discount, rejection := entities.CheckPromo(promo, subtotal, now)
	if rejection != nil {
		return entities.PromoDiscount{}, rejection
	}
	return discount, nil
}

// Invalidate выбрасывает код из кэша. Вызывается после списания
// использования, чтобы не отдавать устаревший used_count.
func (s *promoService) Invalidate(code string) {
	s.cache.Delete(entities.NormalizePromoCode(code))
}

// WarmUpCache прогревает кэш активными промокодами при старте.
func (s *promoService) WarmUpCache(ctx context.Context, count int) error {
	promos, err := s.repo.ActivePromos(ctx, count)
	if err != nil {
		return fmt.Errorf("failed to load active promos: %w", err)
	}

	for _, promo := range promos {
		data, err := promo.Marshal()
		if err != nil {
			s.logger.Error("failed to marshal promo", slog.String("code", promo.Code), slog.Any("error", err))
			continue
		}
		s.cache.Set(promo.Code, data)
	}

	s.logger.Info("promo cache warmed up", slog.Int("count", len(promos)))
	return nil
}

func (s *promoService) lookup(ctx context.Context, code string) (entities.PromoCode, error) {
	if data, ok := s.cache.Get(code); ok {
		var promo entities.PromoCode
		if err := promo.Unmarshal(data); err == nil {
			return promo, nil
		}
		s.logger.Error("failed to unmarshal cached promo", slog.String("code", code))
		s.cache.Delete(code)
	}

	promo, err := s.repo.GetPromoByCode(ctx, code)
	if err != nil {
		return entities.PromoCode{}, err
	}

	if data, err := promo.Marshal(); err == nil {
		s.cache.Set(code, data)
	}
	return promo, nil
}
