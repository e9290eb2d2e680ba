package payments

import "time"

// Order is one recorded payment event. Rows are append-only: one row
// per received webhook delivery, replays included, never mutated, and
// only removed by the admin clear-history action. The raw payload is
// retained verbatim for audit.
type Order struct {
	ID         int64     `json:"id"`
	PaymentID  string    `json:"payment_id"`
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	RawPayload []byte    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// Summary aggregates order history for the admin dashboard.
type Summary struct {
	TotalOrders       int     `json:"total_orders"`
	TotalRevenue      float64 `json:"total_revenue"`
	LastPaymentAmount float64 `json:"last_payment_amount"`
}
