package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	carterrors "github.com/eshop/storefront/internal/cart/errors"
	"github.com/eshop/storefront/internal/cart/service"
	"github.com/eshop/storefront/internal/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCartService is a mock implementation of the CartService interface. It
// records the arguments of the last call.
type mockCartService struct {
	cart    *service.CartDto
	receipt *service.ReceiptDto
	error   error

	lastProductID string
	lastQuantity  int64
}

func (m *mockCartService) Cart(_ context.Context) (*service.CartDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.cart, nil
}

func (m *mockCartService) AddItem(_ context.Context, productID string, quantity int64) (*service.CartDto, error) {
	m.lastProductID = productID
	m.lastQuantity = quantity
	if m.error != nil {
		return nil, m.error
	}
	return m.cart, nil
}

func (m *mockCartService) RemoveItem(_ context.Context, productID string) (*service.CartDto, error) {
	m.lastProductID = productID
	if m.error != nil {
		return nil, m.error
	}
	return m.cart, nil
}

func (m *mockCartService) SetQuantity(_ context.Context, productID string, quantity int64) (*service.CartDto, error) {
	m.lastProductID = productID
	m.lastQuantity = quantity
	if m.error != nil {
		return nil, m.error
	}
	return m.cart, nil
}

func (m *mockCartService) Clear(_ context.Context) (*service.CartDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.cart, nil
}

func (m *mockCartService) Totals(_ context.Context) (*service.TotalsDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return &m.cart.Totals, nil
}

func (m *mockCartService) ItemCount(_ context.Context) (int64, error) {
	if m.error != nil {
		return 0, m.error
	}
	return m.cart.ItemCount, nil
}

func (m *mockCartService) Checkout(_ context.Context) (*service.ReceiptDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.receipt, nil
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func emptyCartDto() *service.CartDto {
	return &service.CartDto{
		Items:  []service.LineItemDto{},
		Totals: service.TotalsDto{Shipping: 100, Total: 100},
	}
}

func newTestRouter(svc service.CartService) *chi.Mux {
	logger := slog.New(slog.DiscardHandler)
	h := NewHandler(catalog.Default(), svc, logger)
	mux := chi.NewRouter()
	h.RegisterRoutes(mux)
	return mux
}

func doRequest(t *testing.T, mux *chi.Mux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func Test_Handler_QueryProducts(t *testing.T) {
	testCases := []struct {
		name        string
		target      string
		expectedIDs []string
	}{
		{
			name:        "no params returns full catalog in order",
			target:      "/api/v1/products",
			expectedIDs: []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"},
		},
		{
			name:        "search narrows to the speaker",
			target:      "/api/v1/products?q=speaker",
			expectedIDs: []string{"p4"},
		},
		{
			name:        "category filter",
			target:      "/api/v1/products?category=audio",
			expectedIDs: []string{"p1", "p4"},
		},
		{
			name:        "price ascending sort",
			target:      "/api/v1/products?category=audio&sort=price-asc",
			expectedIDs: []string{"p4", "p1"},
		},
		{
			name:        "unknown category yields empty list",
			target:      "/api/v1/products?category=garden",
			expectedIDs: []string{},
		},
		{
			name:        "unknown sort mode falls back to catalog order",
			target:      "/api/v1/products?sort=bogus&category=audio",
			expectedIDs: []string{"p1", "p4"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newTestRouter(&mockCartService{cart: emptyCartDto()})
			// when
			rec := doRequest(t, mux, http.MethodGet, tc.target, "")
			// then
			require.Equal(t, http.StatusOK, rec.Code)
			var products []catalog.Product
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
			ids := make([]string, 0, len(products))
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tc.expectedIDs, ids)
		})
	}
}

func Test_Handler_FindProductByID(t *testing.T) {
	mux := newTestRouter(&mockCartService{cart: emptyCartDto()})

	t.Run("known product", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/v1/products/p4", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var p catalog.Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		assert.Equal(t, "Bluetooth Speaker", p.Title)
	})

	t.Run("unknown product returns 404", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/v1/products/ghost", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "ghost")
	})
}

func Test_Handler_Categories(t *testing.T) {
	mux := newTestRouter(&mockCartService{cart: emptyCartDto()})

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/categories", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var categories []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	assert.Equal(t, []string{"audio", "accessories", "power", "wearable"}, categories)
}

func Test_Handler_GetCart(t *testing.T) {
	cart := &service.CartDto{
		Items: []service.LineItemDto{
			{ID: "p1", Title: "Wireless Headphones", Price: 2999, Quantity: 1},
		},
		Totals:    service.TotalsDto{Subtotal: 2999, Tax: 540, Shipping: 0, Total: 3539},
		ItemCount: 1,
	}
	mux := newTestRouter(&mockCartService{cart: cart})

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/cart", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got service.CartDto
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, *cart, got)
}

func Test_Handler_AddItem(t *testing.T) {
	testCases := []struct {
		name             string
		body             string
		expectedStatus   int
		expectedID       string
		expectedQuantity int64
	}{
		{
			name:             "valid request",
			body:             `{"product_id":"p1","quantity":2}`,
			expectedStatus:   http.StatusOK,
			expectedID:       "p1",
			expectedQuantity: 2,
		},
		{
			name:             "missing quantity defaults to zero and the ledger treats it as one",
			body:             `{"product_id":"p1"}`,
			expectedStatus:   http.StatusOK,
			expectedID:       "p1",
			expectedQuantity: 0,
		},
		{
			name:             "quantity as numeric string is parsed",
			body:             `{"product_id":"p1","quantity":"3"}`,
			expectedStatus:   http.StatusOK,
			expectedID:       "p1",
			expectedQuantity: 3,
		},
		{
			name:             "non-numeric quantity coerces to zero",
			body:             `{"product_id":"p1","quantity":"lots"}`,
			expectedStatus:   http.StatusOK,
			expectedID:       "p1",
			expectedQuantity: 0,
		},
		{
			name:           "missing product id fails validation",
			body:           `{"quantity":1}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body is rejected",
			body:           `{"product_id":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := &mockCartService{cart: emptyCartDto()}
			mux := newTestRouter(svc)
			// when
			rec := doRequest(t, mux, http.MethodPost, "/api/v1/cart/items", tc.body)
			// then
			require.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedStatus == http.StatusOK {
				assert.Equal(t, tc.expectedID, svc.lastProductID)
				assert.Equal(t, tc.expectedQuantity, svc.lastQuantity)
			}
		})
	}
}

func Test_Handler_SetQuantity(t *testing.T) {
	testCases := []struct {
		name             string
		body             string
		expectedQuantity int64
	}{
		{name: "plain number", body: `{"quantity":4}`, expectedQuantity: 4},
		{name: "numeric string", body: `{"quantity":"4"}`, expectedQuantity: 4},
		{name: "fractional input truncates", body: `{"quantity":2.7}`, expectedQuantity: 2},
		{name: "garbage coerces to zero", body: `{"quantity":"many"}`, expectedQuantity: 0},
		{name: "missing quantity coerces to zero", body: `{}`, expectedQuantity: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := &mockCartService{cart: emptyCartDto()}
			mux := newTestRouter(svc)
			// when
			rec := doRequest(t, mux, http.MethodPut, "/api/v1/cart/items/p1", tc.body)
			// then
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "p1", svc.lastProductID)
			assert.Equal(t, tc.expectedQuantity, svc.lastQuantity)
		})
	}
}

func Test_Handler_RemoveItem(t *testing.T) {
	svc := &mockCartService{cart: emptyCartDto()}
	mux := newTestRouter(svc)

	rec := doRequest(t, mux, http.MethodDelete, "/api/v1/cart/items/p5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p5", svc.lastProductID)
}

func Test_Handler_ClearCart(t *testing.T) {
	svc := &mockCartService{cart: emptyCartDto()}
	mux := newTestRouter(svc)

	rec := doRequest(t, mux, http.MethodDelete, "/api/v1/cart", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got service.CartDto
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got.Items)
}

func Test_Handler_Checkout(t *testing.T) {
	t.Run("success returns the receipt", func(t *testing.T) {
		// given
		receipt := &service.ReceiptDto{
			ItemCount: 2,
			Totals:    service.TotalsDto{Subtotal: 3298, Tax: 594, Shipping: 0, Total: 3892},
		}
		mux := newTestRouter(&mockCartService{receipt: receipt})
		// when
		rec := doRequest(t, mux, http.MethodPost, "/api/v1/checkout", "")
		// then
		require.Equal(t, http.StatusOK, rec.Code)
		var got service.ReceiptDto
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, *receipt, got)
	})

	t.Run("empty cart maps to 409", func(t *testing.T) {
		// given
		mux := newTestRouter(&mockCartService{error: carterrors.ErrEmptyCart})
		// when
		rec := doRequest(t, mux, http.MethodPost, "/api/v1/checkout", "")
		// then
		require.Equal(t, http.StatusConflict, rec.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "empty")
	})
}

func Test_Handler_HealthCheck(t *testing.T) {
	mux := newTestRouter(&mockCartService{cart: emptyCartDto()})

	rec := doRequest(t, mux, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}
