package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/daniillazarev2301/belbird-checkout-service/internal/entities"
	"github.com/daniillazarev2301/belbird-checkout-service/pkg/trm"
	"github.com/daniillazarev2301/belbird-checkout-service/pkg/utils"

	"github.com/google/uuid"
)

type CheckoutRepo interface {
	SaveOrder(ctx context.Context, o entities.Order) error
	SaveItems(ctx context.Context, orderID string, items []entities.OrderItem) error
	GetOrderByToken(ctx context.Context, token string) (entities.Order, error)

	GetPromoByCode(ctx context.Context, code string) (entities.PromoCode, error)
	ConsumePromoUsage(ctx context.Context, promoID string) error

	SaveLedgerEntry(ctx context.Context, e entities.LedgerEntry) error
	GetBalance(ctx context.Context, customerID string) (int, error)
	ApplyBalanceDelta(ctx context.Context, customerID string, delta int) error
}

// PaymentProvider создаёт платёжную сессию у внешнего провайдера и
// возвращает URL его hosted-страницы.
type PaymentProvider interface {
	CreateSession(ctx context.Context, orderID string, amount int, description string) (string, error)
}

type Publisher interface {
	OrderCreated(ctx context.Context, order entities.Order, pointsEarned int) error
}

type PromoInvalidator interface {
	Invalidate(code string)
}

type SubmitOrderInput struct {
	SubmissionToken string
	CustomerID      string
	Items           []entities.CartItem
	Shipping        entities.ShippingAddress
	DeliveryCost    int
	PaymentMethod   entities.PaymentMethod
	Notes           string
	PromoCode       string
	PointsToRedeem  int
}

type SubmitOrderResult struct {
	OrderID      string
	TotalAmount  int
	PointsEarned int

	// PaymentURL пустой, если оплата офлайн или провайдер недоступен.
	// Во втором случае PaymentWarning=true: заказ сохранён, оплатить
	// можно позже.
	PaymentURL     string
	PaymentWarning bool
}

type checkoutService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      CheckoutRepo
	payments  PaymentProvider
	publisher Publisher
	promos    PromoInvalidator
	now       func() time.Time
}

func NewCheckoutService(
	logger *slog.Logger,
	txManager trm.Manager,
	repo CheckoutRepo,
	payments PaymentProvider,
	publisher Publisher,
	promos PromoInvalidator,
) *checkoutService {
	return &checkoutService{
		logger:    logger.With(slog.String("service", "checkout")),
		txManager: txManager,
		repo:      repo,
		payments:  payments,
		publisher: publisher,
		promos:    promos,
		now:       time.Now,
	}
}

// SubmitOrder превращает корзину в заказ ровно один раз. Заказ, позиции,
// списание промокода и движение баллов пишутся в одной транзакции:
// частично созданных заказов не бывает. Платёжная сессия и событие —
// вне транзакции, их сбой заказ не отменяет.
func (s *checkoutService) SubmitOrder(ctx context.Context, in SubmitOrderInput) (SubmitOrderResult, error) {
	if len(in.Items) == 0 {
		return SubmitOrderResult{}, entities.ErrEmptyOrder
	}

	// Быстрый путь для повторной отправки. Настоящая защита — уникальный
	// индекс по submission_token, проверяемый при вставке.
	if existing, err := s.repo.GetOrderByToken(ctx, in.SubmissionToken); err == nil {
		return s.duplicateResult(existing), nil
	}

	subtotal := entities.Subtotal(in.Items)
	now := s.now()

	var promo entities.PromoCode
	var promoDiscount entities.PromoDiscount
	if in.PromoCode != "" {
		var err error
		promo, err = s.repo.GetPromoByCode(ctx, entities.NormalizePromoCode(in.PromoCode))
		if errors.Is(err, entities.ErrPromoNotFound) {
			return SubmitOrderResult{}, &entities.PromoRejection{Reason: entities.PromoCodeNotFound}
		}
		if err != nil {
			return SubmitOrderResult{}, fmt.Errorf("failed to load promo: %w", err)
		}

		var rejection *entities.PromoRejection
		promoDiscount, rejection = entities.CheckPromo(promo, subtotal, now)
		if rejection != nil {
			return SubmitOrderResult{}, rejection
		}
	}

	var pointsToSpend int
	if in.CustomerID != "" && in.PointsToRedeem > 0 {
		balance, err := s.repo.GetBalance(ctx, in.CustomerID)
		if err != nil {
			return SubmitOrderResult{}, fmt.Errorf("failed to load balance: %w", err)
		}
		pointsToSpend = entities.ClampRedemption(in.PointsToRedeem, balance, subtotal)
	}

	breakdown, err := entities.NewBreakdown(subtotal, in.DeliveryCost, promoDiscount.Discount, pointsToSpend)
	if err != nil {
		return SubmitOrderResult{}, err
	}

	var pointsEarned int
	if in.CustomerID != "" {
		pointsEarned = entities.EarnedPoints(breakdown.Total)
	}

	order := entities.Order{
		ID:              uuid.NewString(),
		SubmissionToken: in.SubmissionToken,
		CustomerID:      in.CustomerID,
		Status:          entities.StatusPending,
		TotalAmount:     breakdown.Total,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   entities.PaymentPending,
		Shipping:        in.Shipping,
		Notes:           in.Notes,
		CreatedAt:       now,
	}
	items := make([]entities.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entities.OrderItem{
			OrderID:     order.ID,
			ProductID:   it.ProductID,
			ProductName: it.Name,
			Quantity:    it.Quantity,
			Price:       it.UnitPrice,
		})
	}

	fn := func() error {
		return s.txManager.Do(ctx, func(ctx context.Context) error {
			if err := s.repo.SaveOrder(ctx, order); err != nil {
				return fmt.Errorf("failed to save order: %w", err)
			}
			if err := s.repo.SaveItems(ctx, order.ID, items); err != nil {
				return fmt.Errorf("failed to save order items: %w", err)
			}

			if promo.ID != "" {
				if err := s.repo.ConsumePromoUsage(ctx, promo.ID); err != nil {
					return err
				}
			}

			if in.CustomerID == "" {
				return nil
			}

			if pointsToSpend > 0 {
				entry := entities.LedgerEntry{
					CustomerID:  in.CustomerID,
					OrderID:     order.ID,
					Points:      -pointsToSpend,
					Type:        entities.LedgerSpend,
					Description: fmt.Sprintf("Оплата баллами заказа %s", order.ID),
				}
				if err := s.repo.SaveLedgerEntry(ctx, entry); err != nil {
					return fmt.Errorf("failed to save spend entry: %w", err)
				}
			}

			if pointsEarned > 0 {
				entry := entities.LedgerEntry{
					CustomerID:  in.CustomerID,
					OrderID:     order.ID,
					Points:      pointsEarned,
					Type:        entities.LedgerEarn,
					Description: fmt.Sprintf("Начисление за заказ %s", order.ID),
				}
				if err := s.repo.SaveLedgerEntry(ctx, entry); err != nil {
					return fmt.Errorf("failed to save earn entry: %w", err)
				}
			}

			if delta := pointsEarned - pointsToSpend; delta != 0 {
				if err := s.repo.ApplyBalanceDelta(ctx, in.CustomerID, delta); err != nil {
					return fmt.Errorf("failed to apply balance delta: %w", err)
				}
			}

			return nil
		})
	}

	cfg := utils.RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxAttempts:  3,
		Multiplier:   2,
	}
	err = utils.Retry(cfg, fn,
		entities.ErrDuplicateSubmission,
		entities.ErrPromoExhausted,
		entities.ErrCustomerNotFound,
	)

	if errors.Is(err, entities.ErrDuplicateSubmission) {
		// Параллельная отправка с тем же токеном успела раньше.
		existing, lookupErr := s.repo.GetOrderByToken(ctx, in.SubmissionToken)
		if lookupErr != nil {
			return SubmitOrderResult{}, fmt.Errorf("failed to load duplicate order: %w", lookupErr)
		}
		return s.duplicateResult(existing), nil
	}
	if errors.Is(err, entities.ErrPromoExhausted) {
		return SubmitOrderResult{}, &entities.PromoRejection{Reason: entities.PromoUsageExceeded}
	}
	if err != nil {
		return SubmitOrderResult{}, err
	}

	if promo.ID != "" {
		s.promos.Invalidate(promo.Code)
	}

	s.logger.Info("order created",
		slog.String("order_id", order.ID),
		slog.Int("total", breakdown.Total),
		slog.Int("points_spent", pointsToSpend),
		slog.Int("points_earned", pointsEarned),
	)

	result := SubmitOrderResult{
		OrderID:      order.ID,
		TotalAmount:  breakdown.Total,
		PointsEarned: pointsEarned,
	}

	if in.PaymentMethod.RequiresOnlinePayment() {
		description := fmt.Sprintf("Оплата заказа %s", order.ID)
		url, err := s.payments.CreateSession(ctx, order.ID, breakdown.Total, description)
		if err != nil {
			// Заказ уже сохранён, оплатить можно позже. Таймаут не
			// означает, что провайдер не списал деньги: сверка идёт
			// асинхронно через его колбэк.
			s.logger.Error("failed to create payment session",
				slog.String("order_id", order.ID), slog.Any("error", err))
			result.PaymentWarning = true
		} else {
			result.PaymentURL = url
		}
	}

	if err := s.publisher.OrderCreated(ctx, order, pointsEarned); err != nil {
		s.logger.Error("failed to publish order created event",
			slog.String("order_id", order.ID), slog.Any("error", err))
	}

	return result, nil
}

func (s *checkoutService) duplicateResult(order entities.Order) SubmitOrderResult {
	var pointsEarned int
	if order.CustomerID != "" {
		pointsEarned = entities.EarnedPoints(order.TotalAmount)
	}
	s.logger.Info("duplicate submission, returning existing order",
		slog.String("order_id", order.ID))
	return SubmitOrderResult{
		OrderID:      order.ID,
		TotalAmount:  order.TotalAmount,
		PointsEarned: pointsEarned,
	}
}
