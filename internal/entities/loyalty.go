package entities

import "time"

// 1 балл = 1 минимальная денежная единица.
const (
	// Баллами можно оплатить не больше половины суммы товаров.
	redemptionCapPercent = 50
	// Начисляется 3% от фактически оплаченной суммы.
	earnRatePercent = 3
)

type LedgerEntryType string

const (
	LedgerSpend LedgerEntryType = "spend"
	LedgerEarn  LedgerEntryType = "earn"
)

// LedgerEntry — неизменяемая запись об изменении баллов. Списание
// хранится с отрицательным знаком, начисление — с положительным.
type LedgerEntry struct {
	ID          int64
	CustomerID  string
	OrderID     string
	Points      int
	Type        LedgerEntryType
	Description string
	CreatedAt   time.Time
}

// MaxRedeemable — сколько баллов можно списать при данном балансе
// и сумме товаров.
func MaxRedeemable(balance, subtotal int) int {
	cap := subtotal * redemptionCapPercent / 100
	if balance < cap {
		return balance
	}
	return cap
}

// ClampRedemption приводит запрошенное списание в допустимый диапазон.
// Выход за границы не ошибка: значение просто обрезается.
func ClampRedemption(requested, balance, subtotal int) int {
	if requested < 0 {
		return 0
	}
	if max := MaxRedeemable(balance, subtotal); requested > max {
		return max
	}
	return requested
}

// EarnedPoints — баллы за заказ, от итоговой суммы после всех скидок.
func EarnedPoints(finalTotal int) int {
	if finalTotal < 0 {
		return 0
	}
	return finalTotal * earnRatePercent / 100
}
