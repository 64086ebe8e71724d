package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mfcarvalho/orders-api/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (order_id, value, creation_date)
	VALUES ($1, $2, $3)`

	insertItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, price)
	VALUES ($1, $2, $3, $4)`

	updateOrderSQL = `UPDATE orders SET value = $2, creation_date = $3
	WHERE order_id = $1`

	deleteItemsSQL = `DELETE FROM order_items WHERE order_id = $1`

	deleteOrderSQL = `DELETE FROM orders WHERE order_id = $1`

	selectOrderSQL = `SELECT order_id, value, creation_date FROM orders
	WHERE order_id = $1`

	selectOrdersSQL = `SELECT order_id, value, creation_date FROM orders
	ORDER BY created_at, order_id`

	selectItemsSQL = `SELECT product_id, quantity, price FROM order_items
	WHERE order_id = $1 ORDER BY id`

	selectAllItemsSQL = `SELECT order_id, product_id, quantity, price FROM order_items
	ORDER BY id`
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
// Multi-row writes run inside a single transaction so the parent row and its
// items are never visible in a partial state.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order and all its items in one transaction.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertOrderSQL, o.OrderID, o.Value, o.CreationDate); err != nil {
			return err
		}
		return insertItems(ctx, tx, o.OrderID, o.Items)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return order.ErrDuplicate
		}
		return errors.Wrapf(err, "create order %q", o.OrderID)
	}
	return nil
}

// Get returns the order with its items ordered by insertion.
func (r *OrderRepository) Get(ctx context.Context, orderID string) (*order.Order, error) {
	var o order.Order
	err := r.pool.QueryRow(ctx, selectOrderSQL, orderID).
		Scan(&o.OrderID, &o.Value, &o.CreationDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %q", orderID)
	}

	rows, err := r.pool.Query(ctx, selectItemsSQL, orderID)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %q items", orderID)
	}
	defer rows.Close()

	o.Items = []order.Item{}
	for rows.Next() {
		var item order.Item
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, errors.Wrap(err, "scan order item")
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "get order %q items", orderID)
	}

	return &o, nil
}

// List returns all orders with their items hydrated in a second query.
// The result is unbounded by design.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, selectOrdersSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	defer rows.Close()

	orders := []order.Order{}
	index := make(map[string]int)
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.OrderID, &o.Value, &o.CreationDate); err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		o.Items = []order.Item{}
		index[o.OrderID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	itemRows, err := r.pool.Query(ctx, selectAllItemsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list order items")
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			orderID string
			item    order.Item
		)
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, errors.Wrap(err, "scan order item")
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, errors.Wrap(err, "list order items")
	}

	return orders, nil
}

// Replace overwrites the order's scalar fields and swaps the entire item set
// in one transaction: delete every existing item, then insert the new set.
// Either the whole new set commits or the old set remains untouched.
func (r *OrderRepository) Replace(ctx context.Context, o *order.Order) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateOrderSQL, o.OrderID, o.Value, o.CreationDate)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return order.ErrNotFound
		}
		if _, err := tx.Exec(ctx, deleteItemsSQL, o.OrderID); err != nil {
			return err
		}
		return insertItems(ctx, tx, o.OrderID, o.Items)
	})
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return order.ErrNotFound
		}
		return errors.Wrapf(err, "replace order %q", o.OrderID)
	}
	return nil
}

// Delete removes the order row; items go with it via ON DELETE CASCADE.
func (r *OrderRepository) Delete(ctx context.Context, orderID string) error {
	tag, err := r.pool.Exec(ctx, deleteOrderSQL, orderID)
	if err != nil {
		return errors.Wrapf(err, "delete order %q", orderID)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// insertItems queues one INSERT per item in a batch on the transaction.
func insertItems(ctx context.Context, tx pgx.Tx, orderID string, items []order.Item) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(insertItemSQL, orderID, item.ProductID, item.Quantity, item.Price)
	}
	return tx.SendBatch(ctx, batch).Close()
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
