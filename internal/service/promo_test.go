package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/daniillazarev2301/belbird-checkout-service/internal/entities"
	"github.com/daniillazarev2301/belbird-checkout-service/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPromoRepo struct {
	getFunc    func(ctx context.Context, code string) (entities.PromoCode, error)
	activeFunc func(ctx context.Context, count int) ([]entities.PromoCode, error)
	getCalls   int
}

func (m *mockPromoRepo) GetPromoByCode(ctx context.Context, code string) (entities.PromoCode, error) {
	m.getCalls++
	return m.getFunc(ctx, code)
}

func (m *mockPromoRepo) ActivePromos(ctx context.Context, count int) ([]entities.PromoCode, error) {
	return m.activeFunc(ctx, count)
}

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *fakeCache) Set(key string, value []byte) {
	c.data[key] = value
}

func (c *fakeCache) Delete(key string) {
	delete(c.data, key)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPromoService_Validate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	save10 := entities.PromoCode{ID: "p1", Code: "SAVE10", DiscountPercent: 10, MinOrderAmount: 1500}

	testCases := []struct {
		name         string
		code         string
		subtotal     int
		getFunc      func(ctx context.Context, code string) (entities.PromoCode, error)
		wantDiscount int
		wantReason   entities.PromoRejectionReason
		wantMinimum  int
		wantErr      bool
	}{
		{
			name:     "valid code, normalized lookup",
			code:     "  save10 ",
			subtotal: 2000,
			getFunc: func(_ context.Context, code string) (entities.PromoCode, error) {
				assert.Equal(t, "SAVE10", code)
				return save10, nil
			},
			wantDiscount: 200,
		},
		{
			name:     "unknown code",
			code:     "NOPE",
			subtotal: 2000,
			getFunc: func(_ context.Context, _ string) (entities.PromoCode, error) {
				return entities.PromoCode{}, entities.ErrPromoNotFound
			},
			wantReason: entities.PromoCodeNotFound,
		},
		{
			name:     "below minimum carries the minimum",
			code:     "SAVE10",
			subtotal: 1000,
			getFunc: func(_ context.Context, _ string) (entities.PromoCode, error) {
				return save10, nil
			},
			wantReason:  entities.PromoBelowMinimum,
			wantMinimum: 1500,
		},
		{
			name:     "repo failure",
			code:     "SAVE10",
			subtotal: 2000,
			getFunc: func(_ context.Context, _ string) (entities.PromoCode, error) {
				return entities.PromoCode{}, errors.New("db error")
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockPromoRepo{getFunc: tc.getFunc}
			svc := service.NewPromoService(discardLogger(), repo, newFakeCache())

			discount, err := svc.Validate(context.Background(), tc.code, tc.subtotal, now)

			if tc.wantReason != "" {
				var rejection *entities.PromoRejection
				require.ErrorAs(t, err, &rejection)
				assert.Equal(t, tc.wantReason, rejection.Reason)
				assert.Equal(t, tc.wantMinimum, rejection.MinOrderAmount)
				return
			}
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantDiscount, discount.Discount)
		})
	}
}

func TestPromoService_ValidateUsesCache(t *testing.T) {
	now := time.Now()
	repo := &mockPromoRepo{
		getFunc: func(_ context.Context, _ string) (entities.PromoCode, error) {
			return entities.PromoCode{ID: "p1", Code: "SAVE10", DiscountPercent: 10}, nil
		},
	}
	cache := newFakeCache()
	svc := service.NewPromoService(discardLogger(), repo, cache)

	first, err := svc.Validate(context.Background(), "SAVE10", 1000, now)
	require.NoError(t, err)

	second, err := svc.Validate(context.Background(), "SAVE10", 1000, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.getCalls, "second call must be served from cache")

	svc.Invalidate("save10")
	_, err = svc.Validate(context.Background(), "SAVE10", 1000, now)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.getCalls, "invalidation must force a fresh lookup")
}

func TestPromoService_WarmUpCache(t *testing.T) {
	repo := &mockPromoRepo{
		activeFunc: func(_ context.Context, count int) ([]entities.PromoCode, error) {
			assert.Equal(t, 10, count)
			return []entities.PromoCode{
				{ID: "p1", Code: "SAVE10", DiscountPercent: 10},
				{ID: "p2", Code: "MINUS500", DiscountAmount: 500},
			}, nil
		},
	}
	cache := newFakeCache()
	svc := service.NewPromoService(discardLogger(), repo, cache)

	require.NoError(t, svc.WarmUpCache(context.Background(), 10))
	assert.Len(t, cache.data, 2)

	// прогретые коды не ходят в репозиторий
	_, err := svc.Validate(context.Background(), "MINUS500", 1000, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, repo.getCalls)
}
