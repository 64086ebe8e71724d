package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementation ---

type mockRepo struct {
	byID      map[string]*Order
	created   *Order
	replaced  *Order
	deletedID string
	err       error
}

func newMockRepo(orders ...Order) *mockRepo {
	byID := make(map[string]*Order, len(orders))
	for i := range orders {
		byID[orders[i].OrderID] = &orders[i]
	}
	return &mockRepo{byID: byID}
}

func (m *mockRepo) Create(_ context.Context, o *Order) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byID[o.OrderID]; ok {
		return ErrDuplicate
	}
	m.created = o
	m.byID[o.OrderID] = o
	return nil
}

func (m *mockRepo) List(_ context.Context) ([]Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]Order, 0, len(m.byID))
	for _, o := range m.byID {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockRepo) Get(_ context.Context, orderID string) (*Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	o, ok := m.byID[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *mockRepo) Replace(_ context.Context, o *Order) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byID[o.OrderID]; !ok {
		return ErrNotFound
	}
	m.replaced = o
	m.byID[o.OrderID] = o
	return nil
}

func (m *mockRepo) Delete(_ context.Context, orderID string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byID[orderID]; !ok {
		return ErrNotFound
	}
	m.deletedID = orderID
	delete(m.byID, orderID)
	return nil
}

// --- Helpers ---

func newTestOrder(id string, items ...Item) Order {
	return Order{
		OrderID:      id,
		Value:        decimal.RequireFromString("30.00"),
		CreationDate: "2024-01-01",
		Items:        items,
	}
}

// --- Tests ---

func TestCreate(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	o := newTestOrder("P1", Item{ProductID: 5, Quantity: 2, Price: decimal.RequireFromString("15.00")})
	require.NoError(t, svc.Create(context.Background(), &o))

	require.NotNil(t, repo.created)
	assert.Equal(t, "P1", repo.created.OrderID)
	assert.Len(t, repo.created.Items, 1)
	assert.Equal(t, int64(5), repo.created.Items[0].ProductID)
}

func TestCreate_EmptyItems(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	o := newTestOrder("P1")
	require.NoError(t, svc.Create(context.Background(), &o))
	require.NotNil(t, repo.created)
	assert.Empty(t, repo.created.Items)
}

func TestCreate_MissingOrderID(t *testing.T) {
	svc := NewService(newMockRepo())

	o := newTestOrder("")
	err := svc.Create(context.Background(), &o)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "orderId", vErr.Field)
}

func TestCreate_NegativeValue(t *testing.T) {
	svc := NewService(newMockRepo())

	o := newTestOrder("P1")
	o.Value = decimal.RequireFromString("-1")
	err := svc.Create(context.Background(), &o)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "value", vErr.Field)
}

func TestCreate_InvalidQuantity(t *testing.T) {
	svc := NewService(newMockRepo())

	o := newTestOrder("P1", Item{ProductID: 5, Quantity: 0, Price: decimal.NewFromInt(10)})
	err := svc.Create(context.Background(), &o)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "items[0].quantity", vErr.Field)
}

func TestCreate_Duplicate(t *testing.T) {
	existing := newTestOrder("P1", Item{ProductID: 5, Quantity: 2, Price: decimal.NewFromInt(15)})
	repo := newMockRepo(existing)
	svc := NewService(repo)

	o := newTestOrder("P1", Item{ProductID: 9, Quantity: 1, Price: decimal.NewFromInt(1)})
	err := svc.Create(context.Background(), &o)
	require.ErrorIs(t, err, ErrDuplicate)

	// The existing order's items must be untouched.
	kept, lookupErr := svc.Get(context.Background(), "P1")
	require.NoError(t, lookupErr)
	require.Len(t, kept.Items, 1)
	assert.Equal(t, int64(5), kept.Items[0].ProductID)
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	repo := newMockRepo(newTestOrder("P1"), newTestOrder("P2"))
	svc := NewService(repo)

	orders, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestReplace(t *testing.T) {
	existing := newTestOrder("P1",
		Item{ProductID: 1, Quantity: 1, Price: decimal.NewFromInt(10)},
		Item{ProductID: 2, Quantity: 2, Price: decimal.NewFromInt(10)},
	)
	repo := newMockRepo(existing)
	svc := NewService(repo)

	// Replacing with a smaller set leaves exactly that set.
	next := newTestOrder("ignored", Item{ProductID: 3, Quantity: 1, Price: decimal.NewFromInt(5)})
	require.NoError(t, svc.Replace(context.Background(), "P1", &next))

	require.NotNil(t, repo.replaced)
	assert.Equal(t, "P1", repo.replaced.OrderID, "route key wins over payload key")
	require.Len(t, repo.replaced.Items, 1)
	assert.Equal(t, int64(3), repo.replaced.Items[0].ProductID)
}

func TestReplace_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	next := newTestOrder("P1")
	err := svc.Replace(context.Background(), "P1", &next)
	require.ErrorIs(t, err, ErrNotFound, "replace must not upsert")
}

func TestDelete(t *testing.T) {
	repo := newMockRepo(newTestOrder("P1"))
	svc := NewService(repo)

	require.NoError(t, svc.Delete(context.Background(), "P1"))
	assert.Equal(t, "P1", repo.deletedID)

	_, err := svc.Get(context.Background(), "P1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	require.ErrorIs(t, svc.Delete(context.Background(), "missing"), ErrNotFound)
}
