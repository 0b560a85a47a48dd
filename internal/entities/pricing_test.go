package entities_test

import (
	"testing"

	"github.com/daniillazarev2301/belbird-checkout-service/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBreakdown(t *testing.T) {
	testCases := []struct {
		name           string
		subtotal       int
		deliveryCost   int
		promoDiscount  int
		pointsDiscount int
		wantTotal      int
		wantErr        error
	}{
		{
			name:         "no discounts",
			subtotal:     5000,
			deliveryCost: 300,
			wantTotal:    5300,
		},
		{
			name:           "both discounts",
			subtotal:       5000,
			deliveryCost:   300,
			promoDiscount:  500,
			pointsDiscount: 200,
			wantTotal:      4600,
		},
		{
			name:           "points only",
			subtotal:       5000,
			deliveryCost:   300,
			pointsDiscount: 200,
			wantTotal:      5100,
		},
		{
			name:      "zero order",
			subtotal:  0,
			wantTotal: 0,
		},
		{
			name:          "discounts exceed total",
			subtotal:      1000,
			deliveryCost:  500,
			promoDiscount: 2000,
			wantErr:       entities.ErrNegativeTotal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := entities.NewBreakdown(tc.subtotal, tc.deliveryCost, tc.promoDiscount, tc.pointsDiscount)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantTotal, b.Total)
			assert.Equal(t, b.Subtotal+b.DeliveryCost-b.PromoDiscount-b.PointsDiscount, b.Total)
		})
	}
}

func TestSubtotal(t *testing.T) {
	items := []entities.CartItem{
		{Name: "Кофе", UnitPrice: 4500, Quantity: 2},
		{Name: "Кружка", UnitPrice: 1200, Quantity: 1},
	}
	assert.Equal(t, 10200, entities.Subtotal(items))
	assert.Equal(t, 0, entities.Subtotal(nil))
}
