package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/daniillazarev2301/belbird-checkout-service/internal/delivery"
	"github.com/daniillazarev2301/belbird-checkout-service/internal/entities"
	"github.com/daniillazarev2301/belbird-checkout-service/internal/service"
	"github.com/daniillazarev2301/belbird-checkout-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Покупатель приходит через gateway, который кладёт id авторизованного
// пользователя в этот заголовок. Пустой заголовок — гостевой заказ.
const customerIDHeader = "X-Customer-ID"

type CheckoutService interface {
	SubmitOrder(ctx context.Context, in service.SubmitOrderInput) (service.SubmitOrderResult, error)
}

type PromoValidator interface {
	Validate(ctx context.Context, code string, subtotal int, now time.Time) (entities.PromoDiscount, error)
}

type OrderGetter interface {
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	LatestOrders(ctx context.Context, count int) ([]entities.Order, error)
}

type DeliveryQuoter interface {
	Quote(ctx context.Context, city, provider string, cartTotal int) (delivery.Quote, error)
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	checkout CheckoutService
	promos   PromoValidator
	orders   OrderGetter
	quotes   DeliveryQuoter
}

func NewHTTPHandler(logger *slog.Logger, checkout CheckoutService, promos PromoValidator, orders OrderGetter, quotes DeliveryQuoter) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: validator.New(),
		checkout: checkout,
		promos:   promos,
		orders:   orders,
		quotes:   quotes,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Post("/checkout", h.Checkout)
	r.Post("/promo/validate", h.ValidatePromo)
	r.Get("/order/{order_id}", h.GetOrderByID)
	r.Get("/orders", h.LatestOrders)
	r.Get("/delivery/quote", h.DeliveryQuote)
}

// Checkout оформляет заказ.
// @Summary      Оформить заказ
// @Description  Создаёт заказ из корзины: применяет промокод и баллы, сохраняет заказ и при онлайн-оплате возвращает ссылку на страницу провайдера
// @Tags         checkout
// @Accept       json
// @Param        request  body  CheckoutRequest  true  "Данные оформления"
// @Success      201  {object}  CheckoutResponse
// @Failure      400  {object}  utils.ValidationErrorResponse "Ошибка валидации"
// @Failure      422  {object}  PromoRejectionResponse "Промокод отклонён"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /checkout [post]
func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req CheckoutRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		checkoutsTotal.WithLabelValues("rejected").Inc()
		utils.WriteValidationError(w, err)
		return
	}

	items := make([]entities.CartItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, CartItemJSONToEntity(it))
	}

	result, err := h.checkout.SubmitOrder(ctx, service.SubmitOrderInput{
		SubmissionToken: req.SubmissionToken,
		CustomerID:      r.Header.Get(customerIDHeader),
		Items:           items,
		Shipping:        ShippingJSONToEntity(req.Shipping),
		DeliveryCost:    req.DeliveryCost,
		PaymentMethod:   entities.PaymentMethod(req.PaymentMethod),
		Notes:           req.Notes,
		PromoCode:       req.PromoCode,
		PointsToRedeem:  req.PointsToRedeem,
	})

	var rejection *entities.PromoRejection
	switch {
	case errors.As(err, &rejection):
		checkoutsTotal.WithLabelValues("rejected").Inc()
		utils.WriteJSON(w, PromoRejectionResponse{
			Reason:         string(rejection.Reason),
			MinOrderAmount: rejection.MinOrderAmount,
		}, http.StatusUnprocessableEntity)
		return
	case errors.Is(err, entities.ErrEmptyOrder),
		errors.Is(err, entities.ErrNegativeTotal),
		errors.Is(err, entities.ErrCustomerNotFound):
		checkoutsTotal.WithLabelValues("rejected").Inc()
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		checkoutsTotal.WithLabelValues("error").Inc()
		h.logger.ErrorContext(ctx, "failed to submit order", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := CheckoutResponse{
		OrderID:      result.OrderID,
		TotalAmount:  result.TotalAmount,
		PointsEarned: result.PointsEarned,
		PaymentURL:   result.PaymentURL,
	}
	if result.PaymentWarning {
		resp.PaymentWarning = "заказ сохранён, но оплату начать не удалось — оплатите позже из истории заказов"
		paymentSessionsTotal.WithLabelValues("failed").Inc()
	} else if result.PaymentURL != "" {
		paymentSessionsTotal.WithLabelValues("created").Inc()
	}

	checkoutsTotal.WithLabelValues("created").Inc()
	checkoutDuration.Observe(time.Since(start).Seconds())
	utils.WriteJSON(w, resp, http.StatusCreated)
}

// ValidatePromo проверяет промокод.
// @Summary      Проверить промокод
// @Description  Считает скидку по промокоду для текущей суммы корзины, не расходуя использования
// @Tags         promo
// @Accept       json
// @Param        request  body  ValidatePromoRequest  true  "Код и сумма корзины"
// @Success      200  {object}  PromoDiscountResponse
// @Failure      400  {object}  utils.ValidationErrorResponse "Ошибка валидации"
// @Failure      422  {object}  PromoRejectionResponse "Промокод отклонён"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /promo/validate [post]
func (h *HTTPHandler) ValidatePromo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ValidatePromoRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	discount, err := h.promos.Validate(ctx, req.Code, req.Subtotal, time.Now())

	var rejection *entities.PromoRejection
	if errors.As(err, &rejection) {
		promoValidationsTotal.WithLabelValues(string(rejection.Reason)).Inc()
		utils.WriteJSON(w, PromoRejectionResponse{
			Reason:         string(rejection.Reason),
			MinOrderAmount: rejection.MinOrderAmount,
		}, http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to validate promo", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	promoValidationsTotal.WithLabelValues("ok").Inc()
	utils.WriteJSON(w, PromoDiscountResponse{
		Code:     discount.Code,
		Discount: discount.Discount,
		Percent:  discount.Percent,
		Amount:   discount.Amount,
	}, http.StatusOK)
}

// GetOrderByID возвращает заказ по ID.
// @Summary      Получить заказ
// @Tags         orders
// @Param        order_id   path      string  true  "Идентификатор заказа"
// @Success      200  {object}  Order
// @Failure      404  {object}  utils.ErrorResponse "Заказ не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /order/{order_id} [get]
func (h *HTTPHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	if err := h.validate.Var(orderID, "required,uuid"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.GetOrderByID(ctx, orderID)

	if errors.Is(err, entities.ErrOrderNotFound) {
		utils.WriteError(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get order", slog.Any("error", err), slog.String("order_id", orderID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// LatestOrders возвращает последние заказы.
// @Summary      Последние заказы
// @Tags         orders
// @Param        limit   query      int  false  "Сколько заказов вернуть (по умолчанию 20, максимум 100)"
// @Success      200  {array}  Order
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /orders [get]
func (h *HTTPHandler) LatestOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.WriteError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(parsed, 100)
	}

	orders, err := h.orders.LatestOrders(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get latest orders", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	result := make([]Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, OrderEntityToJSON(o))
	}
	utils.WriteJSON(w, result, http.StatusOK)
}

// DeliveryQuote возвращает стоимость доставки.
// @Summary      Рассчитать доставку
// @Tags         delivery
// @Param        city      query  string  true  "Город"
// @Param        provider  query  string  true  "Служба доставки"
// @Param        total     query  int     true  "Сумма корзины"
// @Success      200  {object}  DeliveryQuoteResponse
// @Failure      400  {object}  utils.ErrorResponse "Ошибка валидации"
// @Failure      502  {object}  utils.ErrorResponse "Служба доставки недоступна"
// @Router       /delivery/quote [get]
func (h *HTTPHandler) DeliveryQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	city := r.URL.Query().Get("city")
	provider := r.URL.Query().Get("provider")
	total, err := strconv.Atoi(r.URL.Query().Get("total"))
	if city == "" || provider == "" || err != nil || total < 0 {
		utils.WriteError(w, "city, provider and total are required", http.StatusBadRequest)
		return
	}

	quote, err := h.quotes.Quote(ctx, city, provider, total)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get delivery quote", slog.Any("error", err))
		utils.WriteError(w, "delivery provider unavailable", http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, DeliveryQuoteResponse{Cost: quote.Cost, ETADays: quote.ETADays}, http.StatusOK)
}
