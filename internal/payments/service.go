package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/vastra-shop/vastra/internal/catalog"
	"github.com/vastra-shop/vastra/internal/notify"
	"github.com/vastra-shop/vastra/internal/platform/httpx"
	"github.com/vastra-shop/vastra/internal/shared"
)

// ProductResolver is the lookup surface checkout needs from the catalog.
type ProductResolver interface {
	Resolve(ctx context.Context, key string) (catalog.Product, error)
}

// Notifier delivers best-effort alerts. Implementations never fail the
// caller; delivery problems stay on the side channel.
type Notifier interface {
	Send(ctx context.Context, text string)
}

// Service owns checkout order creation and webhook recording.
type Service struct {
	repo          Repository
	gateway       Gateway
	resolver      ProductResolver
	notifier      Notifier
	keyID         string
	webhookSecret string
	logger        *slog.Logger
}

// NewService constructs a Service. keyID is the public gateway key the
// checkout widget initializes with.
func NewService(repo Repository, gateway Gateway, resolver ProductResolver, notifier Notifier, keyID, webhookSecret string, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		gateway:       gateway,
		resolver:      resolver,
		notifier:      notifier,
		keyID:         keyID,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// Checkout is what the storefront widget needs to open the payment
// dialog for a freshly created gateway order.
type Checkout struct {
	OrderID     string  `json:"order_id"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	Key         string  `json:"key"`
	ProductName string  `json:"product_name"`
	Description string  `json:"description"`
	Price       float64 `json:"-"`
}

// CreateOrder resolves the product behind key and creates a gateway
// order for its price. The major-unit price converts to paise by
// rounding half away from zero; a non-positive price is a validation
// failure, and gateway errors surface as structured failures.
func (s *Service) CreateOrder(ctx context.Context, key string) (Checkout, error) {
	product, err := s.resolver.Resolve(ctx, key)
	if err != nil {
		if err == shared.ErrNotFound {
			return Checkout{}, httpx.ErrNotFound
		}
		return Checkout{}, fmt.Errorf("payments: resolve %q: %w", key, err)
	}

	if product.Price <= 0 {
		return Checkout{}, fmt.Errorf("%w: product price must be greater than 0", httpx.ErrValidation)
	}
	amountPaise := int64(math.Round(product.Price * 100))

	description := strings.TrimSpace(product.Description)
	if description == "" {
		description = product.Name
	}
	description = Truncate(description, noteLimit)

	orderID, err := s.gateway.CreateOrder(amountPaise, "INR", "order_"+key, description)
	if err != nil {
		return Checkout{}, fmt.Errorf("%w: %v", httpx.ErrGateway, err)
	}

	s.notifier.Send(ctx, notify.OrderCreatedMessage(product.Name, orderID, product.Price))

	return Checkout{
		OrderID:     orderID,
		Amount:      amountPaise,
		Currency:    "INR",
		Key:         s.keyID,
		ProductName: product.Name,
		Description: description,
		Price:       product.Price,
	}, nil
}

type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID          string `json:"id"`
				OrderID     string `json:"order_id"`
				Status      string `json:"status"`
				Amount      int64  `json:"amount"`
				Currency    string `json:"currency"`
				Description string `json:"description"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// WebhookResult reports what happened to an inbound delivery.
type WebhookResult struct {
	Verified bool
	Order    Order
}

// RecordWebhook verifies the signature and records the delivered event.
// The row is inserted whether or not verification succeeded — the
// verification outcome is only reported back, matching the reference
// behavior (see DESIGN.md for the hardening note). Replayed deliveries
// create duplicate rows; there is no idempotency key.
func (s *Service) RecordWebhook(ctx context.Context, body []byte, signature string) (WebhookResult, error) {
	verified := VerifyWebhookSignature(body, signature, s.webhookSecret)

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return WebhookResult{Verified: verified}, fmt.Errorf("%w: invalid webhook body", httpx.ErrValidation)
	}

	entity := payload.Payload.Payment.Entity
	amount := float64(entity.Amount) / 100.0
	currency := entity.Currency
	if currency == "" {
		currency = "INR"
	}
	status := entity.Status
	if status == "" {
		status = "unknown"
	}

	order, err := s.repo.Append(ctx, Order{
		PaymentID:  entity.ID,
		OrderID:    entity.OrderID,
		Status:     status,
		Amount:     amount,
		Currency:   currency,
		RawPayload: body,
	})
	if err != nil {
		return WebhookResult{Verified: verified}, fmt.Errorf("payments: record webhook: %w", err)
	}

	s.notifier.Send(ctx, notify.PaymentReceivedMessage(payload.Event, entity.ID, entity.OrderID, status, amount, verified))

	return WebhookResult{Verified: verified, Order: order}, nil
}

// History lists all recorded orders, newest first.
func (s *Service) History(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// Dashboard aggregates order history for the admin console.
func (s *Service) Dashboard(ctx context.Context) (Summary, []Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return Summary{}, nil, err
	}
	sum := Summary{TotalOrders: len(orders)}
	for _, o := range orders {
		sum.TotalRevenue += o.Amount
	}
	if len(orders) > 0 {
		sum.LastPaymentAmount = orders[0].Amount
	}
	return sum, orders, nil
}

// ClearHistory wipes order history.
func (s *Service) ClearHistory(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
