package entities

import "errors"

// ErrNegativeTotal возвращается, когда скидки превышают сумму заказа
// с доставкой. Такой заказ отклоняется до каких-либо записей в базу.
var ErrNegativeTotal = errors.New("discounts exceed order total")

// Breakdown — раскладка стоимости заказа. Не сохраняется, считается
// заново при каждом оформлении.
type Breakdown struct {
	Subtotal       int
	DeliveryCost   int
	PromoDiscount  int
	PointsDiscount int
	Total          int
}

// NewBreakdown собирает итог по инварианту
// total = subtotal + delivery − promo − points.
func NewBreakdown(subtotal, deliveryCost, promoDiscount, pointsDiscount int) (Breakdown, error) {
	b := Breakdown{
		Subtotal:       subtotal,
		DeliveryCost:   deliveryCost,
		PromoDiscount:  promoDiscount,
		PointsDiscount: pointsDiscount,
		Total:          subtotal + deliveryCost - promoDiscount - pointsDiscount,
	}
	if b.Total < 0 {
		return Breakdown{}, ErrNegativeTotal
	}
	return b, nil
}
