package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/vastra-shop/vastra/internal/platform/httpx"
	"github.com/vastra-shop/vastra/internal/shared"
)

// Handler wires storefront and admin catalog endpoints.
type Handler struct {
	logger        *slog.Logger
	service       *Service
	resolver      *Resolver
	razorpayKeyID string
	decoder       *schema.Decoder
}

// NewHandler constructs a Handler. The Razorpay key id rides along on
// the storefront payload so the checkout widget can initialize.
func NewHandler(logger *slog.Logger, service *Service, resolver *Resolver, razorpayKeyID string) *Handler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &Handler{
		logger:        logger,
		service:       service,
		resolver:      resolver,
		razorpayKeyID: razorpayKeyID,
		decoder:       decoder,
	}
}

// MountStorefront registers the public catalog routes.
func (h *Handler) MountStorefront(r chi.Router) {
	r.Get("/store", h.Store)
	r.Get("/product/{key}", h.ProductDetail)
}

// MountAdmin registers the admin catalog routes.
func (h *Handler) MountAdmin(r chi.Router) {
	r.Get("/", h.AdminList)
	r.Post("/", h.Create)
	r.Delete("/", h.DeleteAll)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/csv", h.UploadCSV)
	r.Post("/normalize", h.NormalizePrices)
}

type storefrontResponse struct {
	DBProducts  []Product            `json:"db_products"`
	SheetsData  map[string][]Product `json:"sheets_data"`
	RazorpayKey string               `json:"razorpay_key"`
}

// Store serves the storefront listing: persisted products plus one
// aggregated list per active sheet tab.
func (h *Handler) Store(w http.ResponseWriter, r *http.Request) {
	persisted, byTab, err := h.resolver.Listing(r.Context())
	if err != nil {
		h.logger.Error("storefront listing", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to load store")
		return
	}
	httpx.JSON(w, http.StatusOK, storefrontResponse{
		DBProducts:  persisted,
		SheetsData:  byTab,
		RazorpayKey: h.razorpayKeyID,
	})
}

// ProductDetail resolves a single product by key (slug or db_<id>).
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	product, err := h.resolver.Resolve(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "product not found")
			return
		}
		h.logger.Error("resolve product", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

type adminListResponse struct {
	Products []Product `json:"products"`
}

// AdminList shows the combined catalog the way the admin console needs
// it: database rows plus live sheet products, each tagged with origin.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	persisted, byTab, err := h.resolver.Listing(r.Context())
	if err != nil {
		h.logger.Error("admin product list", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to load products")
		return
	}
	combined := persisted
	for _, products := range byTab {
		combined = append(combined, products...)
	}
	httpx.JSON(w, http.StatusOK, adminListResponse{Products: combined})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid product id")
		return
	}
	row, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "product not found")
			return
		}
		h.logger.Error("get product", slog.Any("error", err), slog.Int64("id", id))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, row.Normalize())
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := h.decodeInput(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.respondServiceError(w, "create product", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created.Normalize())
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid product id")
		return
	}
	in, err := h.decodeInput(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.Update(r.Context(), id, in); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "product not found")
			return
		}
		h.respondServiceError(w, "update product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"updated": true})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid product id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "product not found")
			return
		}
		h.logger.Error("delete product", slog.Any("error", err), slog.Int64("id", id))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAll(r.Context()); err != nil {
		h.logger.Error("delete all products", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// UploadCSV bulk-imports products from an uploaded CSV file.
func (h *Handler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "no file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "only CSV files are allowed")
		return
	}

	inserted, err := h.service.ImportCSV(r.Context(), file)
	if err != nil {
		h.logger.Error("csv import", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "csv import failed")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"inserted": inserted})
}

// NormalizePrices runs the minor-unit correction pass on demand.
func (h *Handler) NormalizePrices(w http.ResponseWriter, r *http.Request) {
	converted, err := h.service.NormalizePrices(r.Context())
	if err != nil {
		h.logger.Error("normalize prices", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"converted": converted})
}

func (h *Handler) decodeInput(r *http.Request) (ProductInput, error) {
	var in ProductInput
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		if err := httpx.DecodeJSON(r, &in); err != nil {
			return in, err
		}
		return in, nil
	}
	if err := r.ParseForm(); err != nil {
		return in, err
	}
	if err := h.decoder.Decode(&in, r.PostForm); err != nil {
		return in, err
	}
	return in, nil
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, err error) {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", verr.Error())
		return
	}
	h.logger.Error(op, slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
