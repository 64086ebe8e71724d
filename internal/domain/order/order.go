package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors returned by Repository implementations.
var (
	// ErrNotFound is returned when no order exists for the given key.
	ErrNotFound = errors.New("order not found")
	// ErrDuplicate is returned when creating an order whose key already exists.
	ErrDuplicate = errors.New("order already exists")
)

// Order is the aggregate root: a customer order and the items it owns.
// OrderID is an externally supplied opaque key, unique and immutable once
// created. CreationDate is caller-supplied and stored verbatim.
type Order struct {
	OrderID      string
	Value        decimal.Decimal
	CreationDate string
	Items        []Item
}

// Item is a single line of an order. Items have no lifecycle of their own:
// they are created and destroyed only as part of their parent order's
// create, replace, or delete.
type Item struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
}

// Repository defines persistence operations for orders. Implementations must
// make Create and Replace atomic: the parent row and the full item set commit
// together or not at all.
type Repository interface {
	// Create persists a new order with all its items.
	// Returns ErrDuplicate when the order key is already taken.
	Create(ctx context.Context, o *Order) error

	// List returns every order with its items. Unpaginated.
	List(ctx context.Context) ([]Order, error)

	// Get returns the order with its items, or ErrNotFound.
	Get(ctx context.Context, orderID string) (*Order, error)

	// Replace overwrites the order's scalar fields and swaps the entire item
	// set for o.Items. Returns ErrNotFound when the order does not exist.
	Replace(ctx context.Context, o *Order) error

	// Delete removes the order and, by ownership cascade, all its items.
	// Returns ErrNotFound when the order does not exist.
	Delete(ctx context.Context, orderID string) error
}
