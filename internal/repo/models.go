package repo

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/daniillazarev2301/belbird-checkout-service/internal/entities"
)

type Order struct {
	ID              string         `db:"id"`
	SubmissionToken string         `db:"submission_token"`
	CustomerID      sql.NullString `db:"customer_id"`
	Status          string         `db:"status"`
	TotalAmount     int            `db:"total_amount"`
	PaymentMethod   string         `db:"payment_method"`
	PaymentStatus   string         `db:"payment_status"`
	Shipping        []byte         `db:"shipping"`
	Notes           sql.NullString `db:"notes"`
	CreatedAt       time.Time      `db:"created_at"`
}

type OrderItem struct {
	OrderID     string         `db:"order_id"`
	ProductID   sql.NullString `db:"product_id"`
	ProductName string         `db:"product_name"`
	Quantity    int            `db:"quantity"`
	Price       int            `db:"price"`
}

type PromoCode struct {
	ID              string        `db:"id"`
	Code            string        `db:"code"`
	DiscountPercent sql.NullInt32 `db:"discount_percent"`
	DiscountAmount  sql.NullInt32 `db:"discount_amount"`
	MinOrderAmount  sql.NullInt32 `db:"min_order_amount"`
	MaxUses         sql.NullInt32 `db:"max_uses"`
	UsedCount       int           `db:"used_count"`
	ValidFrom       sql.NullTime  `db:"valid_from"`
	ValidUntil      sql.NullTime  `db:"valid_until"`
	Active          bool          `db:"is_active"`
}

type LedgerEntry struct {
	ID          int64          `db:"id"`
	CustomerID  string         `db:"customer_id"`
	OrderID     string         `db:"order_id"`
	Points      int            `db:"points"`
	EntryType   string         `db:"entry_type"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
}

// shippingJSON — снимок адреса в колонке shipping (jsonb).
type shippingJSON struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	City     string `json:"city,omitempty"`
	Street   string `json:"street,omitempty"`
	ZIP      string `json:"zip,omitempty"`
	Provider string `json:"provider,omitempty"`

	PickupPointID      string `json:"pickup_point_id,omitempty"`
	PickupPointName    string `json:"pickup_point_name,omitempty"`
	PickupPointAddress string `json:"pickup_point_address,omitempty"`
}

func marshalShipping(s entities.ShippingAddress) ([]byte, error) {
	return json.Marshal(shippingJSON{
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
	})
}

func unmarshalShipping(data []byte) (entities.ShippingAddress, error) {
	var s shippingJSON
	if err := json.Unmarshal(data, &s); err != nil {
		return entities.ShippingAddress{}, err
	}
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
	}, nil
}

func OrderToEntity(o Order, items []OrderItem) (entities.Order, error) {
	shipping, err := unmarshalShipping(o.Shipping)
	if err != nil {
		return entities.Order{}, err
	}

	order := entities.Order{
		ID:              o.ID,
		SubmissionToken: o.SubmissionToken,
		CustomerID:      nullStringToString(o.CustomerID),
		Status:          entities.OrderStatus(o.Status),
		TotalAmount:     o.TotalAmount,
		PaymentMethod:   entities.PaymentMethod(o.PaymentMethod),
		PaymentStatus:   entities.PaymentStatus(o.PaymentStatus),
		Shipping:        shipping,
		Notes:           nullStringToString(o.Notes),
		CreatedAt:       o.CreatedAt,
	}

	if len(items) > 0 {
		order.Items = make([]entities.OrderItem, 0, len(items))
		for _, it := range items {
			order.Items = append(order.Items, ItemToEntity(it))
		}
	}

	return order, nil
}

func ItemToEntity(i OrderItem) entities.OrderItem {
	return entities.OrderItem{
		OrderID:     i.OrderID,
		ProductID:   nullStringToString(i.ProductID),
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		Price:       i.Price,
	}
}

func PromoToEntity(p PromoCode) entities.PromoCode {
	return entities.PromoCode{
		ID:              p.ID,
		Code:            p.Code,
		DiscountPercent: nullInt32ToInt(p.DiscountPercent),
		DiscountAmount:  nullInt32ToInt(p.DiscountAmount),
		MinOrderAmount:  nullInt32ToInt(p.MinOrderAmount),
		MaxUses:         nullInt32ToInt(p.MaxUses),
		UsedCount:       p.UsedCount,
		ValidFrom:       nullTimeToTime(p.ValidFrom),
		ValidUntil:      nullTimeToTime(p.ValidUntil),
		Active:          p.Active,
	}
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullInt32ToInt(ni sql.NullInt32) int {
	if ni.Valid {
		return int(ni.Int32)
	}
	return 0
}

func nullTimeToTime(nt sql.NullTime) time.Time {
	if nt.Valid {
		return nt.Time
	}
	return time.Time{}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
