package order

import (
	"context"
	"fmt"
)

// ValidationError indicates a malformed or missing field in an order payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Service encapsulates order CRUD business rules on top of a Repository.
// It performs input validation; atomicity of the multi-row writes is the
// repository's contract.
type Service struct {
	orders Repository
}

// NewService creates an order Service backed by the given repository.
func NewService(orders Repository) *Service {
	return &Service{orders: orders}
}

// validate checks the invariants shared by Create and Replace.
func validate(o *Order) error {
	if o.OrderID == "" {
		return &ValidationError{Field: "orderId", Reason: "required"}
	}
	if o.Value.IsNegative() {
		return &ValidationError{Field: "value", Reason: "must not be negative"}
	}
	for i, item := range o.Items {
		if item.Quantity <= 0 {
			return &ValidationError{
				Field:  fmt.Sprintf("items[%d].quantity", i),
				Reason: "must be greater than 0",
			}
		}
		if item.Price.IsNegative() {
			return &ValidationError{
				Field:  fmt.Sprintf("items[%d].price", i),
				Reason: "must not be negative",
			}
		}
	}
	return nil
}

// Create validates and persists a new order together with all its items as
// one atomic unit. Returns ErrDuplicate when the order key already exists;
// the existing order and its items are left untouched in that case.
func (s *Service) Create(ctx context.Context, o *Order) error {
	if err := validate(o); err != nil {
		return err
	}
	return s.orders.Create(ctx, o)
}

// List returns all orders with their full item collections. The result is
// unbounded: the service intentionally carries no pagination.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}

// Get returns a single order with its items, or ErrNotFound.
func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	if orderID == "" {
		return nil, &ValidationError{Field: "orderId", Reason: "required"}
	}
	return s.orders.Get(ctx, orderID)
}

// Replace performs a full replace, not a partial patch: scalar fields are
// overwritten and the entire item set is swapped for o.Items in the same
// atomic unit. There is no upsert; a missing order yields ErrNotFound.
func (s *Service) Replace(ctx context.Context, orderID string, o *Order) error {
	o.OrderID = orderID
	if err := validate(o); err != nil {
		return err
	}
	return s.orders.Replace(ctx, o)
}

// Delete removes the order and all its items, or returns ErrNotFound.
func (s *Service) Delete(ctx context.Context, orderID string) error {
	if orderID == "" {
		return &ValidationError{Field: "orderId", Reason: "required"}
	}
	return s.orders.Delete(ctx, orderID)
}
