// Package service implements the cart ledger: all mutations of the persisted
// cart and the derived pricing totals.
//
// Every operation is a read-modify-write of the whole cart against the
// injected store. The ledger serializes those cycles with a mutex because the
// HTTP host runs handlers concurrently; the store itself assumes a single
// writer per cart key.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	carterrors "github.com/eshop/storefront/internal/cart/errors"
	"github.com/eshop/storefront/internal/cart/store"
	"github.com/eshop/storefront/internal/catalog"
	"github.com/eshop/storefront/pkg/messaging"
	"github.com/eshop/storefront/pkg/messaging/events"
)

// CartService defines the operations of the cart ledger. All operations are
// total: unknown product IDs and out-of-range quantities are normalized, not
// rejected.
type CartService interface {
	// Cart returns the current cart with derived totals and item count.
	Cart(ctx context.Context) (*CartDto, error)

	// AddItem adds quantity units of the product to the cart, merging into an
	// existing line if one exists. Unknown product IDs are a no-op.
	// Quantities below 1 count as 1.
	AddItem(ctx context.Context, productID string, quantity int64) (*CartDto, error)

	// RemoveItem deletes the line with the given product ID if present.
	RemoveItem(ctx context.Context, productID string) (*CartDto, error)

	// SetQuantity sets the line's quantity exactly. Negative values clamp to
	// 0 and a resulting quantity of 0 removes the line. Idempotent.
	SetQuantity(ctx context.Context, productID string, quantity int64) (*CartDto, error)

	// Clear empties the cart. Idempotent.
	Clear(ctx context.Context) (*CartDto, error)

	// Totals computes the derived pricing totals of the current cart.
	Totals(ctx context.Context) (*TotalsDto, error)

	// ItemCount returns the sum of quantities across all lines; 0 when empty.
	ItemCount(ctx context.Context) (int64, error)

	// Checkout clears the cart and returns a receipt with the captured
	// totals. Returns ErrEmptyCart if there is nothing to check out.
	Checkout(ctx context.Context) (*ReceiptDto, error)
}

// PricingRules carries the totals configuration. TaxRatePercent is a whole
// percentage; FreeShippingOver and ShippingFee are minor currency units.
// Shipping is free only when the subtotal is strictly greater than
// FreeShippingOver.
type PricingRules struct {
	TaxRatePercent   int64
	FreeShippingOver int64
	ShippingFee      int64
}

// DefaultPricing returns the reference rules: 18% tax, flat 100 shipping
// waived above a 2000 subtotal.
func DefaultPricing() PricingRules {
	return PricingRules{
		TaxRatePercent:   18,
		FreeShippingOver: 2000,
		ShippingFee:      100,
	}
}

// Service implements CartService over an injected CartStore and catalog.
type Service struct {
	mu        sync.Mutex
	cartStore store.CartStore
	catalog   *catalog.Catalog
	publisher messaging.Publisher
	cartKey   string
	pricing   PricingRules
	logger    *slog.Logger
}

// NewService creates a cart ledger bound to a single cart key. The store,
// catalog and publisher are explicit collaborators so independent ledgers
// (e.g. in tests) can coexist.
func NewService(cartStore store.CartStore, cat *catalog.Catalog, publisher messaging.Publisher, cartKey string, pricing PricingRules, logger *slog.Logger) *Service {
	return &Service{
		cartStore: cartStore,
		catalog:   cat,
		publisher: publisher,
		cartKey:   cartKey,
		pricing:   pricing,
		logger:    logger.With("component", "cart"),
	}
}

// LineItemDto represents one cart line as exposed to consumers.
type LineItemDto struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
	Quantity int64  `json:"quantity"`
}

// TotalsDto carries the derived pricing of a cart. All amounts are integers
// in minor currency units; Total == Subtotal + Tax + Shipping always holds.
type TotalsDto struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

/// CartDto is the full cart view: lines, totals and badge count.
type CartDto struct {
	Items     []LineItemDto `json:"items"`
	Totals    TotalsDto     `json:"totals"`
	ItemCount int64         `json:"item_count"`
}

// ReceiptDto summarizes a completed checkout.
type ReceiptDto struct {
	ItemCount int64     `json:"item_count"`
	Totals    TotalsDto `json:"totals"`
}

// Cart returns the current cart with derived totals.
func (s *Service) Cart(ctx context.Context) (*CartDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.cartStore.Load(ctx, s.cartKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return s.toDto(items), nil
}

// AddItem adds quantity units of the product to the cart. Quantities below 1
// count as 1; a stale or unknown product ID leaves the cart untouched.
func (s *Service) AddItem(ctx context.Context, productID string, quantity int64) (*CartDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.cartStore.Load(ctx, s.cartKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	product, ok := s.catalog.FindByID(productID)
	if !ok {
		// IDs originate from the catalog; a stale one is tolerated, not an error.
		s.logger.WarnContext(ctx, "Ignoring add of unknown product", "product_id", productID)
		return s.toDto(items), nil
	}
	if quantity < 1 {
		quantity = 1
	}

	merged := false
	for i := range items {
		if items[i].ID == productID {
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, store.LineItem{
			ID:       product.ID,
			Title:    product.Title,
			Price:    product.Price,
			Image:    product.Image,
			Quantity: quantity,
		})
	}

	if err := s.cartStore.Save(ctx, s.cartKey, items); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	s.publish(ctx, events.ItemAddedEvent{
		ProductID: product.ID,
		Title:     product.Title,
		Quantity:  quantity,
	})
	return s.toDto(items), nil
}

// RemoveItem deletes the line with the given product ID if present.
func (s *Service) RemoveItem(ctx context.Context, productID string) (*CartDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.cartStore.Load(ctx, s.cartKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	kept := items[:0]
	for _, it := range items {
		if it.ID != productID {
			kept = append(kept, it)
		}
	}

	if err := s.cartStore.Save(ctx, s.cartKey, kept); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return s.toDto(kept), nil
}

// SetQuantity sets the line's quantity exactly; 0 (or any clamped negative)
// removes the line.
func (s *Service) SetQuantity(ctx context.Context, productID string, quantity int64) (*CartDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.cartStore.Load(ctx, s.cartKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if quantity < 0 {
		quantity = 0
	}

	kept := make([]store.LineItem, 0, len(items))
	for _, it := range items {
		if it.ID == productID {
			if quantity == 0 {
				continue
			}
			it.Quantity = quantity
		}
		kept = append(kept, it)
	}

	if err := s.cartStore.Save(ctx, s.cartKey, kept); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return s.toDto(kept), nil
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context) (*CartDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cartStore.Save(ctx, s.cartKey, nil); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return s.toDto(nil), nil
}

// Totals computes the derived pricing totals of the current cart.
func (s *Service) Totals(ctx context.Context) (*TotalsDto, error) {
	cart, err := s.Cart(ctx)
	if err != nil {
		return nil, err
	}
	return &cart.Totals, nil
}

// ItemCount returns the sum of quantities across all lines.
func (s *Service) ItemCount(ctx context.Context) (int64, error) {
	cart, err := s.Cart(ctx)
	if err != nil {
		return 0, err
	}
	return cart.ItemCount, nil
}

// Checkout captures the totals, clears the cart and returns a receipt.
// Returns ErrEmptyCart for an empty cart; the condition is reported to the
// caller, never raised as a failure.
func (s *Service) Checkout(ctx context.Context) (*ReceiptDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.cartStore.Load(ctx, s.cartKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(items) == 0 {
		return nil, carterrors.ErrEmptyCart
	}

	dto := s.toDto(items)
	if err := s.cartStore.Save(ctx, s.cartKey, nil); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	s.publish(ctx, events.CheckoutCompletedEvent{
		ItemCount: dto.ItemCount,
		Subtotal:  dto.Totals.Subtotal,
		Tax:       dto.Totals.Tax,
		Shipping:  dto.Totals.Shipping,
		Total:     dto.Totals.Total,
	})
	return &ReceiptDto{ItemCount: dto.ItemCount, Totals: dto.Totals}, nil
}

// publish emits an event after a successful mutation. Delivery failures are
// logged; they never fail the mutation itself.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event", "subject", event.Subject(), "error", err)
	}
}

// toDto converts persisted line items into the consumer-facing cart view.
func (s *Service) toDto(items []store.LineItem) *CartDto {
	lines := make([]LineItemDto, len(items))
	var count int64
	for i, it := range items {
		lines[i] = LineItemDto{
			ID:       it.ID,
			Title:    it.Title,
			Price:    it.Price,
			Image:    it.Image,
			Quantity: it.Quantity,
		}
		count += it.Quantity
	}
	return &CartDto{
		Items:     lines,
		Totals:    computeTotals(items, s.pricing),
		ItemCount: count,
	}
}

// computeTotals derives the pricing summary with pure integer arithmetic.
// Tax is a fractional result of an integer subtotal; it is rounded half-up
// to the nearest minor unit here, once, so no caller ever sees an unrounded
// value.
func computeTotals(items []store.LineItem, p PricingRules) TotalsDto {
	var subtotal int64
	for _, it := range items {
		subtotal += it.Price * it.Quantity
	}
	tax := (subtotal*p.TaxRatePercent + 50) / 100
	shipping := p.ShippingFee
	if subtotal > p.FreeShippingOver {
		shipping = 0
	}
	return TotalsDto{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal + tax + shipping,
	}
}
