package entities_test

import (
	"testing"
	"time"

	"github.com/daniillazarev2301/belbird-checkout-service/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePromoCode(t *testing.T) {
	assert.Equal(t, "SAVE10", entities.NormalizePromoCode("  save10 "))
	assert.Equal(t, "SAVE10", entities.NormalizePromoCode("SAVE10"))
}

func TestCheckPromo(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name         string
		promo        entities.PromoCode
		subtotal     int
		wantDiscount int
		wantReason   entities.PromoRejectionReason
		wantMinimum  int
	}{
		{
			name:         "percent discount floored",
			promo:        entities.PromoCode{Code: "SAVE10", DiscountPercent: 10},
			subtotal:     1005,
			wantDiscount: 100,
		},
		{
			name:         "fixed amount discount",
			promo:        entities.PromoCode{Code: "MINUS500", DiscountAmount: 500},
			subtotal:     2000,
			wantDiscount: 500,
		},
		{
			name:         "percent takes precedence over amount",
			promo:        entities.PromoCode{Code: "BOTH", DiscountPercent: 10, DiscountAmount: 500},
			subtotal:     1000,
			wantDiscount: 100,
		},
		{
			name:         "no discount fields",
			promo:        entities.PromoCode{Code: "NOOP"},
			subtotal:     1000,
			wantDiscount: 0,
		},
		{
			name:       "not yet active",
			promo:      entities.PromoCode{Code: "SOON", DiscountPercent: 10, ValidFrom: now.Add(time.Hour)},
			subtotal:   1000,
			wantReason: entities.PromoNotYetActive,
		},
		{
			name:       "expired",
			promo:      entities.PromoCode{Code: "OLD", DiscountPercent: 10, ValidUntil: now.Add(-time.Hour)},
			subtotal:   1000,
			wantReason: entities.PromoExpired,
		},
		{
			name:        "below minimum carries the minimum",
			promo:       entities.PromoCode{Code: "SAVE10", DiscountPercent: 10, MinOrderAmount: 1500},
			subtotal:    1000,
			wantReason:  entities.PromoBelowMinimum,
			wantMinimum: 1500,
		},
		{
			name:       "usage exhausted",
			promo:      entities.PromoCode{Code: "LIMITED", DiscountPercent: 10, MaxUses: 5, UsedCount: 5},
			subtotal:   10000,
			wantReason: entities.PromoUsageExceeded,
		},
		{
			name:         "last use still allowed",
			promo:        entities.PromoCode{Code: "LIMITED", DiscountPercent: 10, MaxUses: 5, UsedCount: 4},
			subtotal:     1000,
			wantDiscount: 100,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			discount, rejection := entities.CheckPromo(tc.promo, tc.subtotal, now)
			if tc.wantReason != "" {
				require.NotNil(t, rejection)
				assert.Equal(t, tc.wantReason, rejection.Reason)
				assert.Equal(t, tc.wantMinimum, rejection.MinOrderAmount)
				return
			}
			require.Nil(t, rejection)
			assert.Equal(t, tc.wantDiscount, discount.Discount)
		})
	}

	t.Run("repeated checks give identical results", func(t *testing.T) {
		promo := entities.PromoCode{Code: "SAVE10", DiscountPercent: 10, MaxUses: 5, UsedCount: 2}
		first, rej1 := entities.CheckPromo(promo, 1000, now)
		second, rej2 := entities.CheckPromo(promo, 1000, now)
		require.Nil(t, rej1)
		require.Nil(t, rej2)
		assert.Equal(t, first, second)
	})
}
