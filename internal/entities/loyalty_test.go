package entities_test

import (
	"testing"

	"github.com/daniillazarev2301/belbird-checkout-service/internal/entities"

	"github.com/stretchr/testify/assert"
)

func TestMaxRedeemable(t *testing.T) {
	testCases := []struct {
		name     string
		balance  int
		subtotal int
		want     int
	}{
		{name: "balance below cap", balance: 200, subtotal: 5000, want: 200},
		{name: "balance above cap", balance: 10000, subtotal: 5000, want: 2500},
		{name: "odd subtotal rounds down", balance: 10000, subtotal: 101, want: 50},
		{name: "zero balance", balance: 0, subtotal: 5000, want: 0},
		{name: "zero subtotal", balance: 200, subtotal: 0, want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, entities.MaxRedeemable(tc.balance, tc.subtotal))
		})
	}
}

func TestClampRedemption(t *testing.T) {
	testCases := []struct {
		name      string
		requested int
		balance   int
		subtotal  int
		want      int
	}{
		{name: "over balance clamps to balance", requested: 10000, balance: 200, subtotal: 5000, want: 200},
		{name: "over cap clamps to half subtotal", requested: 10000, balance: 10000, subtotal: 5000, want: 2500},
		{name: "within bounds unchanged", requested: 100, balance: 200, subtotal: 5000, want: 100},
		{name: "negative request clamps to zero", requested: -5, balance: 200, subtotal: 5000, want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := entities.ClampRedemption(tc.requested, tc.balance, tc.subtotal)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, entities.MaxRedeemable(tc.balance, tc.subtotal))
		})
	}
}

func TestEarnedPoints(t *testing.T) {
	testCases := []struct {
		name  string
		total int
		want  int
	}{
		{name: "three percent floored", total: 970, want: 29},
		{name: "round amount", total: 1000, want: 30},
		{name: "small amount floors to zero", total: 33, want: 0},
		{name: "zero total", total: 0, want: 0},
		{name: "negative total gives nothing", total: -100, want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, entities.EarnedPoints(tc.total))
		})
	}

	t.Run("monotonic non-decreasing", func(t *testing.T) {
		prev := 0
		for total := 0; total <= 2000; total++ {
			got := entities.EarnedPoints(total)
			assert.GreaterOrEqual(t, got, prev)
			prev = got
		}
	})
}
