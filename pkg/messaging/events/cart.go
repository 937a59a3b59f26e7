// Package events holds the concrete event payloads emitted by the cart ledger.
package events

import (
	"encoding/json"

	"github.com/eshop/storefront/pkg/messaging"
)

// ItemAddedEvent is emitted after a product has been added to the cart.
type ItemAddedEvent struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Quantity  int64  `json:"quantity"`
}

func (e ItemAddedEvent) Subject() string {
	return messaging.CartItemAddedSubject
}

func (e ItemAddedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// CheckoutCompletedEvent is emitted after a successful checkout has cleared
// the cart. Amounts are integers in minor currency units.
type CheckoutCompletedEvent struct {
	ItemCount int64 `json:"item_count"`
	Subtotal  int64 `json:"subtotal"`
	Tax       int64 `json:"tax"`
	Shipping  int64 `json:"shipping"`
	Total     int64 `json:"total"`
}

func (e CheckoutCompletedEvent) Subject() string {
	return messaging.CartCheckedOutSubject
}

func (e CheckoutCompletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
