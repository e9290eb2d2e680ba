package sheets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vastra-shop/vastra/internal/catalog"
)

func mountTestHandler(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/admin/sheets", h.MountRoutes)
	return r
}

// ============================================================================
// SYNC
// ============================================================================

func TestSyncEnqueues(t *testing.T) {
	svc := newTestService(&memoryConfigRepo{}, &fakeRemote{}, &memoryCatalogRepo{})
	enqueued := 0
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, svc, func(r *http.Request) error {
		enqueued++
		return nil
	})
	srv := mountTestHandler(h)

	req := httptest.NewRequest(http.MethodPost, "/admin/sheets/sync", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, enqueued)
}

func TestSyncFallsBackInlineOnEnqueueFailure(t *testing.T) {
	repo := &memoryConfigRepo{}
	require.NoError(t, repo.Insert(context.Background(), "sheet-1", "Summer", true))
	remote := &fakeRemote{records: map[string][]catalog.Record{
		"Summer": {{"Product Type": "Cotton Kurta", "Price": "1299", "Product Size": "M"}},
	}}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	svc := NewService(repo, NewCache(remote, time.Minute), remote, &memoryCatalogRepo{}, logger)
	h := NewHandler(logger, svc, func(r *http.Request) error {
		return errors.New("queue unavailable")
	})
	srv := mountTestHandler(h)

	req := httptest.NewRequest(http.MethodPost, "/admin/sheets/sync", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"inserted":1`)
	assert.Contains(t, logs.String(), "queue unavailable", "warn carries the enqueue error")
}
