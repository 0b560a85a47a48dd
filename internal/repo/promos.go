package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/daniillazarev2301/belbird-checkout-service/internal/entities"

	sq "github.com/Masterminds/squirrel"
)

// GetPromoByCode ищет активный промокод. Код должен быть уже
// нормализован (entities.NormalizePromoCode).
func (r *postgresRepo) GetPromoByCode(ctx context.Context, code string) (entities.PromoCode, error) {
	query, args := r.qb.Select(
		"id", "code", "discount_percent", "discount_amount", "min_order_amount",
		"max_uses", "used_count", "valid_from", "valid_until", "is_active",
	).
		From("promo_codes").
		Where(sq.Eq{"code": code, "is_active": true}).
		MustSql()

	var promo PromoCode
	err := r.getContext(ctx, &promo, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.PromoCode{}, entities.ErrPromoNotFound
	}
	if err != nil {
		return entities.PromoCode{}, fmt.Errorf("failed to get promo code: %w", err)
	}

	return PromoToEntity(promo), nil
}

// ActivePromos — активные промокоды, используется для прогрева кэша.
func (r *postgresRepo) ActivePromos(ctx context.Context, count int) ([]entities.PromoCode, error) {
	query, args := r.qb.Select(
		"id", "code", "discount_percent", "discount_amount", "min_order_amount",
		"max_uses", "used_count", "valid_from", "valid_until", "is_active",
	).
		From("promo_codes").
		Where(sq.Eq{"is_active": true}).
		OrderBy("used_count DESC").
		Limit(uint64(count)).
		MustSql()

	var promos []PromoCode
	if err := r.selectContext(ctx, &promos, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select promo codes: %w", err)
	}

	result := make([]entities.PromoCode, 0, len(promos))
	for _, p := range promos {
		result = append(result, PromoToEntity(p))
	}
	return result, nil
}

// ConsumePromoUsage списывает одно использование промокода. Инкремент
// условный: used_count < max_uses проверяется самим UPDATE, гонка за
// последнее использование решается базой, а не предварительным чтением.
func (r *postgresRepo) ConsumePromoUsage(ctx context.Context, promoID string) error {
	query, args := r.qb.Update("promo_codes").
		Set("used_count", sq.Expr("used_count + 1")).
		Where(sq.Eq{"id": promoID}).
		Where("max_uses IS NULL OR used_count < max_uses").
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to consume promo usage: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entities.ErrPromoExhausted
	}
	return nil
}
