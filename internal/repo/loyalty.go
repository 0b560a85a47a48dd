package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/daniillazarev2301/belbird-checkout-service/internal/entities"

	sq "github.com/Masterminds/squirrel"
)

func (r *postgresRepo) SaveLedgerEntry(ctx context.Context, e entities.LedgerEntry) error {
	query, args := r.qb.Insert("loyalty_ledger").
		Columns("customer_id", "order_id", "points", "entry_type", "description").
		Values(e.CustomerID, e.OrderID, e.Points, e.Type, nullString(e.Description)).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save ledger entry: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetBalance(ctx context.Context, customerID string) (int, error) {
	query, args := r.qb.Select("loyalty_points").
		From("customers").
		Where(sq.Eq{"id": customerID}).
		MustSql()

	var balance int
	err := r.getContext(ctx, &balance, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, entities.ErrCustomerNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// ApplyBalanceDelta меняет кэшированный баланс на дельту из леджера.
// Никогда не read-then-write: конкурентные заказы одного покупателя
// не теряют обновления.
func (r *postgresRepo) ApplyBalanceDelta(ctx context.Context, customerID string, delta int) error {
	query, args := r.qb.Update("customers").
		Set("loyalty_points", sq.Expr("loyalty_points + ?", delta)).
		Where(sq.Eq{"id": customerID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to apply balance delta: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entities.ErrCustomerNotFound
	}
	return nil
}
