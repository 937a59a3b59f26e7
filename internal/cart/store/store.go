// Package store provides an interface for persisted cart storage.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
)

// LineItem is the persisted record format of a single cart line. Image is
// decorative and opaque to the core. Quantity is kept >= 1 by the ledger;
// the store itself only moves records.
type LineItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
	Quantity int64  `json:"quantity"`
}

// CartStore is a key-value collaborator holding the cart as a list of
// LineItem records under a single cart key.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type CartStore interface {
	// Load returns the cart stored under key. An absent key reads as an
	// empty cart; a malformed payload also reads as an empty cart, it must
	// never fail the caller.
	Load(ctx context.Context, key string) ([]LineItem, error)

	// Save replaces the cart stored under key.
	Save(ctx context.Context, key string, items []LineItem) error
}

// decodeItems turns a raw persisted payload into line items, treating any
// malformed payload as an empty cart.
func decodeItems(raw []byte, logger *slog.Logger, key string) []LineItem {
	if len(raw) == 0 {
		return nil
	}
	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Warn("Malformed cart payload, treating as empty", "key", key, "error", err)
		return nil
	}
	return items
}
