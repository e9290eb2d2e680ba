package payments

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Gateway constraints documented by Razorpay: notes are capped at 255
// characters, receipts at 40.
const (
	noteLimit    = 255
	receiptLimit = 40
)

// Gateway creates orders on the remote payment gateway.
type Gateway interface {
	CreateOrder(amountMinor int64, currency, receipt, description string) (string, error)
}

// RazorpayGateway adapts the Razorpay SDK. Amounts are minor units
// (paise); the caller converts.
type RazorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway constructs the gateway adapter.
func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

// CreateOrder requests an order from Razorpay and returns its id.
// Gateway failures propagate with the gateway's message attached.
func (g *RazorpayGateway) CreateOrder(amountMinor int64, currency, receipt, description string) (string, error) {
	data := map[string]interface{}{
		"amount":          amountMinor,
		"currency":        currency,
		"receipt":         Truncate(receipt, receiptLimit),
		"payment_capture": 1,
		"notes": map[string]interface{}{
			"description": Truncate(description, noteLimit),
		},
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("payments: razorpay order create: %w", err)
	}
	id, ok := body["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("payments: razorpay order create: response missing order id")
	}
	return id, nil
}

// Truncate clips s to at most limit runes, never splitting a
// multi-byte character.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
