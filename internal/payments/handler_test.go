package payments

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vastra-shop/vastra/internal/catalog"
)

func newTestHandler(svc *Service) http.Handler {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	h.MountStorefront(r)
	h.MountAdmin(r)
	return r
}

func TestWebhookMissingSignature(t *testing.T) {
	svc := newTestService(&memoryOrderRepo{}, &stubGateway{}, &stubResolver{}, &recordingNotifier{}, "whsecret")
	srv := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/razorpay_webhook", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookReportsVerification(t *testing.T) {
	repo := &memoryOrderRepo{}
	svc := newTestService(repo, &stubGateway{}, &stubResolver{}, &recordingNotifier{}, "whsecret")
	srv := newTestHandler(svc)

	body := webhookBody("pay_1", "order_1", "captured", 5000)

	req := httptest.NewRequest(http.MethodPost, "/razorpay_webhook", strings.NewReader(string(body)))
	req.Header.Set(SignatureHeader, sign(body, "whsecret"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp["ok"])

	// Wrong signature: still 200, still recorded, ok=false.
	req = httptest.NewRequest(http.MethodPost, "/razorpay_webhook", strings.NewReader(string(body)))
	req.Header.Set(SignatureHeader, "deadbeef")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp["ok"])
	assert.Len(t, repo.orders, 2)
}

func TestCreateOrderEndpoint(t *testing.T) {
	gateway := &stubGateway{orderID: "order_XYZ"}
	resolver := &stubResolver{products: map[string]catalog.Product{
		"cotton-kurta": {Name: "Cotton Kurta", Price: 1299},
	}}
	svc := newTestService(&memoryOrderRepo{}, gateway, resolver, &recordingNotifier{}, "whsecret")
	srv := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/create_order/cotton-kurta", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var checkout Checkout
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &checkout))
	assert.Equal(t, "order_XYZ", checkout.OrderID)
	assert.Equal(t, int64(129900), checkout.Amount)
	assert.Equal(t, "rzp_test_key", checkout.Key)

	// Unknown product key.
	req = httptest.NewRequest(http.MethodPost, "/create_order/nope", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminPaymentsEndpoints(t *testing.T) {
	repo := &memoryOrderRepo{}
	_, err := repo.Append(context.Background(), Order{PaymentID: "pay_1", Amount: 100})
	require.NoError(t, err)

	svc := newTestService(repo, &stubGateway{}, &stubResolver{}, &recordingNotifier{}, "whsecret")
	srv := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/payments", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pay_1")

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_orders":1`)

	req = httptest.NewRequest(http.MethodDelete, "/payments", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, repo.orders)
}
