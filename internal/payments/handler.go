package payments

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vastra-shop/vastra/internal/platform/httpx"
)

// SignatureHeader carries the gateway's webhook HMAC.
const SignatureHeader = "X-Razorpay-Signature"

// maxWebhookBody caps inbound webhook payloads at 1 MiB.
const maxWebhookBody = 1 << 20

// Handler exposes checkout, webhook and admin payment endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a payments Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountStorefront attaches the public payment routes.
func (h *Handler) MountStorefront(r chi.Router) {
	r.Post("/create_order/{key}", h.CreateOrder)
	r.Post("/razorpay_webhook", h.Webhook)
}

// MountAdmin attaches the admin payment routes.
func (h *Handler) MountAdmin(r chi.Router) {
	r.Get("/payments", h.ListPayments)
	r.Delete("/payments", h.ClearPayments)
	r.Get("/dashboard", h.Dashboard)
}

// CreateOrder handles POST /create_order/{key}.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	checkout, err := h.service.CreateOrder(r.Context(), key)
	if err != nil {
		h.logger.Warn("create order failed", "key", key, "error", err)
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("order created", "key", key, "order_id", checkout.OrderID, "amount", checkout.Amount)
	httpx.JSON(w, http.StatusOK, checkout)
}

// Webhook handles POST /razorpay_webhook. The body is recorded whether
// or not the signature verifies; the response reports the outcome.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	signature := r.Header.Get(SignatureHeader)
	if signature == "" {
		httpx.Problem(w, http.StatusBadRequest, "Missing Signature", "missing "+SignatureHeader+" header")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Unreadable Body", "could not read request body")
		return
	}

	result, err := h.service.RecordWebhook(r.Context(), body, signature)
	if err != nil {
		h.logger.Error("webhook recording failed", "error", err)
		httpx.RespondError(w, err)
		return
	}

	if !result.Verified {
		h.logger.Warn("webhook signature verification failed", "payment_id", result.Order.PaymentID)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": result.Verified})
}

// ListPayments handles GET /admin/payments.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.History(r.Context())
	if err != nil {
		h.logger.Error("list payments failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"payments": orders})
}

// ClearPayments handles DELETE /admin/payments.
func (h *Handler) ClearPayments(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearHistory(r.Context()); err != nil {
		h.logger.Error("clear payments failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"cleared": true})
}

// Dashboard handles GET /admin/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, orders, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("dashboard failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"summary":  summary,
		"payments": orders,
	})
}
