package sheets

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vastra-shop/vastra/internal/platform/httpx"
)

// Handler wires the admin sheet management endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	enqueue  func(r *http.Request) error
	hasQueue bool
}

// NewHandler constructs a Handler. enqueue may be nil.
func NewHandler(logger *slog.Logger, service *Service, enqueue func(r *http.Request) error) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		enqueue:  enqueue,
		hasQueue: enqueue != nil,
	}
}

// MountRoutes registers the admin sheet routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.SelectTabs)
	r.Get("/tabs", h.Tabs)
	r.Post("/sync", h.Sync)
}

type listResponse struct {
	Sheets    []Config            `json:"sheets"`
	ActiveMap map[string][]string `json:"active_map"`
}

// List shows every registered tab plus a sheet-id keyed map of the
// active ones, which is what the admin picker preselects from.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	configs, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list sheet config", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	activeMap := make(map[string][]string)
	for _, c := range configs {
		if c.Active {
			activeMap[c.SheetID] = append(activeMap[c.SheetID], c.TabName)
		}
	}
	if configs == nil {
		configs = []Config{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Sheets: configs, ActiveMap: activeMap})
}

type selectTabsRequest struct {
	SheetID string   `json:"sheet_id"`
	Tabs    []string `json:"tabs"`
}

// SelectTabs applies the admin's tab selection for one sheet.
func (h *Handler) SelectTabs(w http.ResponseWriter, r *http.Request) {
	var req selectTabsRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid form")
			return
		}
		req.SheetID = r.PostFormValue("sheet_id")
		req.Tabs = r.PostForm["tabs"]
	}

	if strings.TrimSpace(req.SheetID) == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "sheet_id is required")
		return
	}
	if err := h.service.SelectTabs(r.Context(), req.SheetID, req.Tabs); err != nil {
		h.logger.Error("select tabs", slog.String("sheet_id", req.SheetID), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"saved": true})
}

type tabsResponse struct {
	Tabs   []string `json:"tabs"`
	Active []string `json:"active"`
}

// Tabs lists the worksheet titles of a sheet for the admin picker.
func (h *Handler) Tabs(w http.ResponseWriter, r *http.Request) {
	sheetID := strings.TrimSpace(r.URL.Query().Get("sheet_id"))
	if sheetID == "" {
		httpx.JSON(w, http.StatusOK, tabsResponse{Tabs: []string{}, Active: []string{}})
		return
	}
	tabs, active, err := h.service.Tabs(r.Context(), sheetID)
	if err != nil {
		h.logger.Error("fetch tabs", slog.String("sheet_id", sheetID), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if tabs == nil {
		tabs = []string{}
	}
	if active == nil {
		active = []string{}
	}
	httpx.JSON(w, http.StatusOK, tabsResponse{Tabs: tabs, Active: active})
}

// Sync refreshes the persisted sheet-origin products. When a background
// queue is available the work is enqueued; otherwise it runs inline.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	if h.hasQueue {
		err := h.enqueue(r)
		if err == nil {
			httpx.JSON(w, http.StatusAccepted, map[string]any{"enqueued": true})
			return
		}
		h.logger.Warn("enqueue sheet sync failed, running inline", slog.Any("error", err))
	}
	inserted, err := h.service.SyncToCatalog(r.Context())
	if err != nil {
		h.logger.Error("sheet sync", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "sheet sync failed")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"inserted": inserted})
}
