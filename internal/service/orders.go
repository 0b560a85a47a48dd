package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/daniillazarev2301/belbird-checkout-service/internal/entities"
	"github.com/daniillazarev2301/belbird-checkout-service/pkg/utils"
)

type OrderRepo interface {
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	LatestOrders(ctx context.Context, count int) ([]entities.Order, error)
}

type ordersService struct {
	logger *slog.Logger
	repo   OrderRepo
}

func NewOrdersService(logger *slog.Logger, repo OrderRepo) *ordersService {
	return &ordersService{
		logger: logger.With(slog.String("service", "orders")),
		repo:   repo,
	}
}

func (s *ordersService) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	var order entities.Order
	fn := func() error {
		var err error
		order, err = s.repo.GetOrderByID(ctx, orderID)
		return err
	}
	cfg := utils.RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxAttempts:  3,
		Multiplier:   2,
	}
	if err := utils.Retry(cfg, fn, entities.ErrOrderNotFound); err != nil {
		return entities.Order{}, err
	}
	return order, nil
}

func (s *ordersService) LatestOrders(ctx context.Context, count int) ([]entities.Order, error) {
	return s.repo.LatestOrders(ctx, count)
}
