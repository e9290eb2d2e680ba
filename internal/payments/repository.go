package payments

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository appends and lists recorded orders.
type Repository interface {
	Append(ctx context.Context, o Order) (Order, error)
	List(ctx context.Context) ([]Order, error)
	Clear(ctx context.Context) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed order repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Append(ctx context.Context, o Order) (Order, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO orders (payment_id, order_id, status, amount, currency, raw_payload)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
		o.PaymentID, o.OrderID, o.Status, o.Amount, o.Currency, o.RawPayload,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *repository) List(ctx context.Context) ([]Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, payment_id, order_id, status, amount, currency, raw_payload, created_at FROM orders ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.PaymentID, &o.OrderID, &o.Status, &o.Amount, &o.Currency, &o.RawPayload, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *repository) Clear(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM orders`)
	return err
}
