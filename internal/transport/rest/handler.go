// Package rest provides the HTTP surface consumed by the presentation layer.
// It returns raw numeric and string data only; currency formatting and
// escaping stay client-side.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	carterrors "github.com/eshop/storefront/internal/cart/errors"
	"github.com/eshop/storefront/internal/cart/service"
	"github.com/eshop/storefront/internal/catalog"
	"github.com/eshop/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	catalog  *catalog.Catalog
	cart     service.CartService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the storefront API with the provided collaborators.
func NewHandler(cat *catalog.Catalog, cart service.CartService, logger *slog.Logger) *Handler {
	return &Handler{
		catalog:  cat,
		cart:     cart,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the storefront service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", h.QueryProducts)
		r.Get("/products/{id}", h.FindProductByID)
		r.Get("/categories", h.Categories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddItem)

			r.Route("/items/{id}", func(r chi.Router) {
				r.Put("/", h.SetQuantity)
				r.Delete("/", h.RemoveItem)
			})
		})

		r.Post("/checkout", h.Checkout)
	})

	r.Get("/healthz", h.HealthCheck)
}

// Quantity is a lenient wire quantity: numbers pass through, numeric strings
// are parsed, anything else coerces to 0. Decoding is total so malformed
// quantities normalize to a removal instead of failing the request.
type Quantity int64

func (q *Quantity) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*q = Quantity(n)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*q = Quantity(int64(f))
		return nil
	}
	*q = 0
	return nil
}

// addItemRequest is the payload for adding a product to the cart. Quantity
// is optional; values below 1 count as a single unit.
type addItemRequest struct {
	ProductID string   `json:"product_id" validate:"required,max=64"`
	Quantity  Quantity `json:"quantity"`
}

// setQuantityRequest is the payload for setting a line's quantity exactly.
type setQuantityRequest struct {
	Quantity Quantity `json:"quantity"`
}

// QueryProducts returns the catalog entries matching the q/category/sort
// query parameters.
func (h *Handler) QueryProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	q := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	if category == "" {
		category = catalog.CategoryAll
	}
	mode := catalog.ParseSortMode(r.URL.Query().Get("sort"))

	list := h.catalog.Query(q, category, mode)
	mLogger.DebugContext(r.Context(), "Catalog query served", "q", q, "category", category, "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindProductByID returns a single catalog entry.
func (h *Handler) FindProductByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	product, found := h.catalog.FindByID(id)
	if !found {
		mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, product)
}

// Categories returns the distinct product categories in catalog order.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	web.RespondJSON(w, mLogger, http.StatusOK, h.catalog.Categories())
}

// GetCart returns the current cart with totals and item count.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	cart, err := h.cart.Cart(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error loading cart", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, cart)
}

// AddItem adds a product to the cart.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, req) {
		return
	}

	cart, err := h.cart.AddItem(r.Context(), req.ProductID, int64(req.Quantity))
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error adding item to cart", "product_id", req.ProductID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}
	mLogger.InfoContext(r.Context(), "Item added to cart", "product_id", req.ProductID, "item_count", cart.ItemCount)
	web.RespondJSON(w, mLogger, http.StatusOK, cart)
}

// SetQuantity sets a cart line's quantity exactly; 0 removes the line.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	cart, err := h.cart.SetQuantity(r.Context(), id, int64(req.Quantity))
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error updating quantity", "product_id", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to update quantity")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, cart)
}

// RemoveItem deletes a cart line.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	cart, err := h.cart.RemoveItem(r.Context(), id)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error removing item", "product_id", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to remove item")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, cart)
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	cart, err := h.cart.Clear(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error clearing cart", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to clear cart")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, cart)
}

// Checkout clears the cart and returns the receipt. An empty cart is a
// reported condition, mapped to 409.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	receipt, err := h.cart.Checkout(r.Context())
	if err != nil {
		if errors.Is(err, carterrors.ErrEmptyCart) {
			mLogger.WarnContext(r.Context(), "Checkout attempted with empty cart")
			web.RespondError(w, mLogger, http.StatusConflict, "Cannot complete checkout: your cart is empty")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error completing checkout", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to complete checkout")
		return
	}
	mLogger.InfoContext(r.Context(), "Checkout completed", "item_count", receipt.ItemCount, "total", receipt.Totals.Total)
	web.RespondJSON(w, mLogger, http.StatusOK, receipt)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// validateStruct runs the validator over a decoded DTO, writing field errors
// to the response. Returns false if the request was rejected.
func (h *Handler) validateStruct(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, dto any) bool {
	err := h.validate.Struct(dto)
	if err == nil {
		return true
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		errorResponse := make(map[string]string)
		for _, fieldErr := range validationErrors {
			// fieldErr.Tag() returns "required", "max", etc.
			errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
		}
		mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
		web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
		return false
	}
	mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
	web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
	return false
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
