package orders

import "errors"

var (
	// ErrInsufficientStock is returned when a product decrement matched no row:
	// the product is unknown, inactive, or has fewer units than requested.
	ErrInsufficientStock = errors.New("product unavailable or insufficient stock")
	// ErrEventFull is returned when an event increment matched no row.
	ErrEventFull = errors.New("event unavailable or at capacity")
	// ErrUnknownItem is returned when a line item references a missing catalog row.
	ErrUnknownItem = errors.New("line item references an unknown catalog entry")
)
