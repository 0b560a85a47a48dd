package entities

import (
	"errors"
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodOnline PaymentMethod = "online"
)

// RequiresOnlinePayment — нужно ли уводить покупателя на страницу
// платёжного провайдера.
func (m PaymentMethod) RequiresOnlinePayment() bool {
	return m == PaymentMethodOnline
}

// ShippingAddress — снимок адреса на момент заказа. Данные пункта
// выдачи копируются целиком, а не хранятся ссылкой.
type ShippingAddress struct {
	Name     string
	Phone    string
	Email    string
	City     string
	Street   string
	ZIP      string
	Provider string

	PickupPointID      string
	PickupPointName    string
	PickupPointAddress string
}

type OrderItem struct {
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    int
	Price       int
}

type Order struct {
	ID              string
	SubmissionToken string
	CustomerID      string
	Status          OrderStatus
	TotalAmount     int
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	Shipping        ShippingAddress
	Notes           string
	CreatedAt       time.Time

	Items []OrderItem
}

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrPromoNotFound    = errors.New("promo code not found")
	ErrPromoExhausted   = errors.New("promo code usage exhausted")
	ErrEmptyOrder       = errors.New("order must contain at least one item")
	// ErrDuplicateSubmission — повторная отправка с тем же токеном.
	// Не ошибка для покупателя: ему возвращается уже созданный заказ.
	ErrDuplicateSubmission = errors.New("duplicate submission token")
)
