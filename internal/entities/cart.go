package entities

// CartItem — позиция корзины на момент оформления. После начала
// оформления не изменяется.
type CartItem struct {
	ProductID string
	Name      string
	UnitPrice int
	Quantity  int
	ImageRef  string
	Slug      string
}

// Subtotal считает сумму позиций до применения скидок.
func Subtotal(items []CartItem) int {
	var sum int
	for _, it := range items {
		sum += it.UnitPrice * it.Quantity
	}
	return sum
}
