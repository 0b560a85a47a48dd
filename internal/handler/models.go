package handler

import (
	"time"

	"github.com/daniillazarev2301/belbird-checkout-service/internal/entities"
)

// CartItem — позиция корзины в запросе на оформление
type CartItem struct {
	ProductID string `json:"product_id,omitempty"`
	Name      string `json:"name" validate:"required"`
	UnitPrice int    `json:"unit_price" validate:"gte=0"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
	ImageRef  string `json:"image,omitempty"`
	Slug      string `json:"slug,omitempty"`
}

// ShippingInfo — контакты и адрес. Либо улица, либо пункт выдачи.
type ShippingInfo struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	City     string `json:"city" validate:"required"`
	Street   string `json:"street,omitempty" validate:"required_without=PickupPointID"`
	ZIP      string `json:"zip,omitempty"`
	Provider string `json:"provider" validate:"required"`

	PickupPointID      string `json:"pickup_point_id,omitempty"`
	PickupPointName    string `json:"pickup_point_name,omitempty"`
	PickupPointAddress string `json:"pickup_point_address,omitempty"`
}

// CheckoutRequest — запрос на оформление заказа
type CheckoutRequest struct {
	SubmissionToken string       `json:"submission_token" validate:"required"`
	Items           []CartItem   `json:"items" validate:"required,min=1,dive"`
	Shipping        ShippingInfo `json:"shipping" validate:"required"`
	DeliveryCost    int          `json:"delivery_cost" validate:"gte=0"`
	PaymentMethod   string       `json:"payment_method" validate:"required,oneof=cash online"`
	Notes           string       `json:"notes,omitempty"`
	PromoCode       string       `json:"promo_code,omitempty"`
	PointsToRedeem  int          `json:"points_to_redeem,omitempty" validate:"gte=0"`
}

// CheckoutResponse — результат оформления
type CheckoutResponse struct {
	OrderID      string `json:"order_id"`
	TotalAmount  int    `json:"total_amount"`
	PointsEarned int    `json:"points_earned"`

	PaymentURL     string `json:"payment_url,omitempty"`
	PaymentWarning string `json:"payment_warning,omitempty"`
}

// ValidatePromoRequest — проверка промокода для живой подсказки в корзине
type ValidatePromoRequest struct {
	Code     string `json:"code" validate:"required"`
	Subtotal int    `json:"subtotal" validate:"gte=0"`
}

// PromoDiscountResponse — применимый промокод
type PromoDiscountResponse struct {
	Code     string `json:"code"`
	Discount int    `json:"discount"`
	Percent  int    `json:"percent,omitempty"`
	Amount   int    `json:"amount,omitempty"`
}

// PromoRejectionResponse — отказ с машиночитаемой причиной
type PromoRejectionResponse struct {
	Reason         string `json:"reason"`
	MinOrderAmount int    `json:"min_order_amount,omitempty"`
}

// OrderItem — позиция заказа
type OrderItem struct {
	ProductID   string `json:"product_id,omitempty"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       int    `json:"price"`
}

// Order — заказ с позициями
type Order struct {
	ID            string       `json:"id"`
	CustomerID    string       `json:"customer_id,omitempty"`
	Status        string       `json:"status"`
	TotalAmount   int          `json:"total_amount"`
	PaymentMethod string       `json:"payment_method"`
	PaymentStatus string       `json:"payment_status"`
	Shipping      ShippingInfo `json:"shipping"`
	Notes         string       `json:"notes,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	Items         []OrderItem  `json:"items"`
}

// DeliveryQuoteResponse — стоимость и срок доставки
type DeliveryQuoteResponse struct {
	Cost    int `json:"cost"`
	ETADays int `json:"eta_days"`
}

func ShippingJSONToEntity(s ShippingInfo) entities.ShippingAddress {
	return entities.ShippingAddress{
		Name:     s.Name,
		Phone:    s.Phone,
		Email:    s.Email,
		City:     s.City,
		Street:   s.Street,
		ZIP:      s.ZIP,
		Provider: s.Provider,

		PickupPointID:      s.PickupPointID,
		PickupPointName:    s.PickupPointName,
		PickupPointAddress: s.PickupPointAddress,
	}
}

func ShippingEntityToJSON(s entities.ShippingAddress) ShippingInfo {
	return ShippingInfo{
		Name:     s.Name,
		Phone:    s.Phone,
		Email:    s.Email,
		City:     s.City,
		Street:   s.Street,
		ZIP:      s.ZIP,
		Provider: s.Provider,

		PickupPointID:      s.PickupPointID,
		PickupPointName:    s.PickupPointName,
		PickupPointAddress: s.PickupPointAddress,
	}
}

func CartItemJSONToEntity(i CartItem) entities.CartItem {
	return entities.CartItem{
		ProductID: i.ProductID,
		Name:      i.Name,
		UnitPrice: i.UnitPrice,
		Quantity:  i.Quantity,
		ImageRef:  i.ImageRef,
		Slug:      i.Slug,
	}
}

func OrderEntityToJSON(o entities.Order) Order {
	items := make([]OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
		})
	}

	return Order{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		Status:        string(o.Status),
		TotalAmount:   o.TotalAmount,
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		Shipping:      ShippingEntityToJSON(o.Shipping),
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		Items:         items,
	}
}
