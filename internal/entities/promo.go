package entities

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"strings"
	"time"
)

type PromoCode struct {
	ID              string
	Code            string
	DiscountPercent int
	DiscountAmount  int
	MinOrderAmount  int
	MaxUses         int
	UsedCount       int
	ValidFrom       time.Time
	ValidUntil      time.Time
	Active          bool
}

// PromoDiscount — результат успешной проверки промокода.
type PromoDiscount struct {
	Code     string
	Discount int
	Percent  int
	Amount   int
}

type PromoRejectionReason string

const (
	PromoCodeNotFound  PromoRejectionReason = "code_not_found"
	PromoNotYetActive  PromoRejectionReason = "not_yet_active"
	PromoExpired       PromoRejectionReason = "expired"
	PromoBelowMinimum  PromoRejectionReason = "below_minimum"
	PromoUsageExceeded PromoRejectionReason = "usage_exhausted"
)

// PromoRejection — отказ в применении промокода. Для below_minimum
// содержит минимальную сумму заказа, чтобы её можно было показать.
type PromoRejection struct {
	Reason         PromoRejectionReason
	MinOrderAmount int
}

func (r *PromoRejection) Error() string {
	if r.Reason == PromoBelowMinimum {
		return fmt.Sprintf("promo code rejected: %s (min order %d)", r.Reason, r.MinOrderAmount)
	}
	return fmt.Sprintf("promo code rejected: %s", r.Reason)
}

// NormalizePromoCode приводит код к каноничному виду: коды
// регистронезависимы и хранятся в верхнем регистре.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CheckPromo применяет правила промокода к сумме заказа. Чистая функция:
// счётчик использований здесь не расходуется, повторные проверки дают
// одинаковый результат.
func CheckPromo(p PromoCode, subtotal int, now time.Time) (PromoDiscount, *PromoRejection) {
	if !p.ValidFrom.IsZero() && now.Before(p.ValidFrom) {
		return PromoDiscount{}, &PromoRejection{Reason: PromoNotYetActive}
	}
	if !p.ValidUntil.IsZero() && now.After(p.ValidUntil) {
		return PromoDiscount{}, &PromoRejection{Reason: PromoExpired}
	}
	if p.MinOrderAmount > 0 && subtotal < p.MinOrderAmount {
		return PromoDiscount{}, &PromoRejection{Reason: PromoBelowMinimum, MinOrderAmount: p.MinOrderAmount}
	}
	if p.MaxUses > 0 && p.UsedCount >= p.MaxUses {
		return PromoDiscount{}, &PromoRejection{Reason: PromoUsageExceeded}
	}

	d := PromoDiscount{Code: p.Code, Percent: p.DiscountPercent, Amount: p.DiscountAmount}
	switch {
	case p.DiscountPercent > 0:
		d.Discount = subtotal * p.DiscountPercent / 100
	case p.DiscountAmount > 0:
		d.Discount = p.DiscountAmount
	}
	return d, nil
}

func (p *PromoCode) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *PromoCode) Unmarshal(data []byte) error {
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	return dec.Decode(p)
}

func init() {
	gob.Register(PromoCode{})
}
