package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const sendTimeout = 5 * time.Second

// Telegram posts order and payment alerts to a chat via the Bot API.
// When the token or chat is unset it degrades to a silent no-op, so
// callers never need to check whether notifications are configured.
type Telegram struct {
	botToken   string
	chatID     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTelegram constructs a Telegram notifier. An empty token or chat
// disables delivery.
func NewTelegram(botToken, chatID string, logger *slog.Logger) *Telegram {
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  "https://api.telegram.org",
		httpClient: &http.Client{
			Timeout: sendTimeout,
		},
		logger: logger,
	}
}

// Enabled reports whether delivery is configured.
func (t *Telegram) Enabled() bool {
	return t.botToken != "" && t.chatID != ""
}

// Send delivers text to the configured chat. Failures are logged and
// swallowed; notifications never block or fail the calling operation.
func (t *Telegram) Send(ctx context.Context, text string) {
	if !t.Enabled() {
		return
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		t.logger.Warn("telegram payload encoding failed", "error", err)
		return
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.logger.Warn("telegram request build failed", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Warn("telegram send failed", "error", err)
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		t.logger.Warn("telegram send rejected", "status", resp.StatusCode)
	}
}

var inr = message.NewPrinter(language.English)

// FormatAmount renders an INR amount with digit grouping, e.g. ₹1,250.00.
func FormatAmount(amount float64) string {
	return inr.Sprintf("₹%.2f", amount)
}

// OrderCreatedMessage builds the alert sent when a checkout order is created.
func OrderCreatedMessage(product, orderID string, amount float64) string {
	return fmt.Sprintf("🛒 *New Order Created*\nProduct: %s\nAmount: %s\nOrder ID: `%s`", product, FormatAmount(amount), orderID)
}

// PaymentReceivedMessage builds the alert sent when a payment webhook lands.
func PaymentReceivedMessage(event, paymentID, orderID, status string, amount float64, verified bool) string {
	check := "✅ verified"
	if !verified {
		check = "⚠️ unverified"
	}
	return fmt.Sprintf("💰 *Payment Update* (%s)\nEvent: %s\nPayment ID: `%s`\nOrder ID: `%s`\nStatus: %s\nAmount: %s", check, event, paymentID, orderID, status, FormatAmount(amount))
}
