// Package messaging defines the event contract the cart ledger publishes on.
// The presentation layer (or any other collaborator) subscribes to these
// events instead of the core reaching into UI concerns directly.
package messaging

import (
	"context"
)

const (
	CartItemAddedSubject  = "cart.item_added"
	CartCheckedOutSubject = "cart.checked_out"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
