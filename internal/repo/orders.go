package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/daniillazarev2301/belbird-checkout-service/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

const uniqueViolation = "23505"

var orderColumns = []string{
	"id", "submission_token", "customer_id", "status", "total_amount",
	"payment_method", "payment_status", "shipping", "notes", "created_at",
}

var itemColumns = []string{"order_id", "product_id", "product_name", "quantity", "price"}

func (r *postgresRepo) SaveOrder(ctx context.Context, o entities.Order) error {
	shipping, err := marshalShipping(o.Shipping)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping: %w", err)
	}

	query, args := r.qb.Insert("orders").
		Columns(orderColumns...).
		Values(
			o.ID, o.SubmissionToken, nullString(o.CustomerID), o.Status, o.TotalAmount,
			o.PaymentMethod, o.PaymentStatus, shipping, nullString(o.Notes), o.CreatedAt,
		).
		MustSql()

	_, err = r.execContext(ctx, query, args...)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return entities.ErrDuplicateSubmission
	}
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (r *postgresRepo) SaveItems(ctx context.Context, orderID string, items []entities.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	q := r.qb.Insert("order_items").Columns(itemColumns...)
	for _, it := range items {
		q = q.Values(orderID, nullString(it.ProductID), it.ProductName, it.Quantity, it.Price)
	}

	query, args := q.MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save order items: %w", err)
	}
	return nil
}

// GetOrderByID читает заказ и его позиции. Путь чтения не
// транзакционный: оба запроса идут параллельно мимо trm.
func (r *postgresRepo) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	orderQuery, orderArgs := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": orderID}).
		MustSql()

	itemsQuery, itemsArgs := r.qb.Select(itemColumns...).
		From("order_items").
		Where(sq.Eq{"order_id": orderID}).
		MustSql()

	var (
		order Order
		items []OrderItem
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		err := r.db.GetContext(egCtx, &order, orderQuery, orderArgs...)
		if errors.Is(err, sql.ErrNoRows) {
			return entities.ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		if err := r.db.SelectContext(egCtx, &items, itemsQuery, itemsArgs...); err != nil {
			return fmt.Errorf("failed to get order items: %w", err)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return entities.Order{}, err
	}

	return OrderToEntity(order, items)
}

// GetOrderByToken находит заказ по токену отправки. Используется для
// идемпотентного ответа на повторную отправку, работает и внутри
// транзакции.
func (r *postgresRepo) GetOrderByToken(ctx context.Context, token string) (entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"submission_token": token}).
		MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order by token: %w", err)
	}

	query, args = r.qb.Select(itemColumns...).
		From("order_items").
		Where(sq.Eq{"order_id": order.ID}).
		MustSql()

	var items []OrderItem
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order items: %w", err)
	}

	return OrderToEntity(order, items)
}

// LatestOrders — последние count заказов для бэк-офиса.
func (r *postgresRepo) LatestOrders(ctx context.Context, count int) ([]entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC").
		Limit(uint64(count)).
		MustSql()

	var orders []Order
	if err := r.selectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}

	if len(orders) == 0 {
		return []entities.Order{}, nil
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	query, args = r.qb.Select(itemColumns...).
		From("order_items").
		Where(sq.Eq{"order_id": ids}).
		MustSql()

	var items []OrderItem
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select order items: %w", err)
	}

	itemsMap := make(map[string][]OrderItem, len(ids))
	for _, it := range items {
		itemsMap[it.OrderID] = append(itemsMap[it.OrderID], it)
	}

	result := make([]entities.Order, 0, len(orders))
	for _, o := range orders {
		order, err := OrderToEntity(o, itemsMap[o.ID])
		if err != nil {
			return nil, err
		}
		result = append(result, order)
	}

	return result, nil
}
