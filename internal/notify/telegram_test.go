package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendPostsToBotAPI(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tg := NewTelegram("bot-token", "chat-42", discardLogger())
	tg.baseURL = srv.URL

	tg.Send(context.Background(), "hello")

	assert.Equal(t, "/botbot-token/sendMessage", gotPath)
	assert.Equal(t, "chat-42", gotBody["chat_id"])
	assert.Equal(t, "hello", gotBody["text"])
	assert.Equal(t, "Markdown", gotBody["parse_mode"])
}

func TestSendDisabledWithoutCredentials(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	tg := NewTelegram("", "", discardLogger())
	tg.baseURL = srv.URL

	assert.False(t, tg.Enabled())
	tg.Send(context.Background(), "hello")
	assert.False(t, called)
}

func TestSendSwallowsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	tg := NewTelegram("bot-token", "chat-42", discardLogger())
	tg.baseURL = srv.URL

	// Must not panic or propagate anything.
	tg.Send(context.Background(), "hello")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "₹1,250.00", FormatAmount(1250))
	assert.Equal(t, "₹99.90", FormatAmount(99.9))
	assert.Equal(t, "₹100,000.00", FormatAmount(100000))
}

func TestMessages(t *testing.T) {
	msg := OrderCreatedMessage("Cotton Kurta", "order_9", 1299)
	assert.Contains(t, msg, "Cotton Kurta")
	assert.Contains(t, msg, "order_9")
	assert.Contains(t, msg, "₹1,299.00")

	msg = PaymentReceivedMessage("payment.captured", "pay_1", "order_9", "captured", 1299, false)
	assert.Contains(t, msg, "unverified")
	assert.Contains(t, msg, "pay_1")
}
