// Package errors provides custom error types for cart-related operations.
package errors

import "errors"

// ErrEmptyCart reports a checkout attempt against an empty cart. It is a
// result value for the presentation layer, not a process failure.
var ErrEmptyCart = errors.New("cart is empty")
