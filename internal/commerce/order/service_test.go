package order

import (
	"context"
	"testing"
	"time"

	"github.com/moticosolutions/bms/internal/commerce/customer"
	"github.com/moticosolutions/bms/internal/domain"
	"github.com/moticosolutions/bms/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store used by the service tests
type memStore struct {
	orders    map[int64]*domain.CrmOrder
	items     map[int64][]domain.CrmOrderItem
	customers map[int64]*domain.CrmCustomer
}

func newMemStore() *memStore {
	return &memStore{
		orders:    make(map[int64]*domain.CrmOrder),
		items:     make(map[int64][]domain.CrmOrderItem),
		customers: make(map[int64]*domain.CrmCustomer),
	}
}

func (m *memStore) Atomic(ctx context.Context, fn func(Store) error) error {
	return fn(m)
}

func (m *memStore) GetOrder(ctx context.Context, id int64) (*domain.CrmOrder, error) {
	if o, ok := m.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) GetOrderByNumber(ctx context.Context, number string) (*domain.CrmOrder, error) {
	for _, o := range m.orders {
		if o.OrderNumber == number {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) Items(ctx context.Context, orderID int64) ([]domain.CrmOrderItem, error) {
	return m.items[orderID], nil
}

func (m *memStore) CreateOrder(ctx context.Context, order *domain.CrmOrder) error {
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *memStore) CreateItems(ctx context.Context, items []domain.CrmOrderItem) error {
	for _, item := range items {
		m.items[item.OrderId] = append(m.items[item.OrderId], item)
	}
	return nil
}

func (m *memStore) UpdateOrder(ctx context.Context, id int64, updates map[string]interface{}) error {
	o := m.orders[id]
	for key, value := range updates {
		switch key {
		case "status":
			o.Status = value.(string)
		case "payment_status":
			o.PaymentStatus = value.(string)
		case "shipping_cost":
			o.ShippingCost = value.(float64)
		case "discount":
			o.Discount = value.(float64)
		case "total":
			o.Total = value.(float64)
		case "paid_at":
			v := value.(time.Time)
			o.PaidAt = &v
		case "shipped_at":
			v := value.(time.Time)
			o.ShippedAt = &v
		case "delivered_at":
			v := value.(time.Time)
			o.DeliveredAt = &v
		}
	}
	return nil
}

func (m *memStore) DeleteOrder(ctx context.Context, id int64) error {
	delete(m.orders, id)
	return nil
}

func (m *memStore) DeleteItems(ctx context.Context, orderID int64) error {
	delete(m.items, orderID)
	return nil
}

func (m *memStore) GetCustomer(ctx context.Context, id int64) (*domain.CrmCustomer, error) {
	if c, ok := m.customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) ApplyStats(ctx context.Context, customerID int64, orderDelta int, spentDelta float64, lastOrderAt *time.Time) error {
	c := m.customers[customerID]
	c.TotalOrders += orderDelta
	c.TotalSpent += spentDelta
	if lastOrderAt != nil {
		c.LastOrderAt = lastOrderAt
	}
	return nil
}

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	store.customers[1] = &domain.CrmCustomer{ID: 1, Name: "Acme Industrial"}
	return NewService(store, customer.NewSynchronizer(), ""), store
}

func assertTotalInvariant(t *testing.T, o *domain.CrmOrder) {
	t.Helper()
	assert.InDelta(t, o.Subtotal+o.ShippingCost+o.Tax-o.Discount, o.Total, 1e-9)
}

func TestCreate_DerivedTotals(t *testing.T) {
	service, store := newTestService()

	ord, err := service.Create(context.Background(), CreateInput{
		CustomerId: 1,
		Items: []ItemInput{
			{ProductId: 10, Name: "Hex Bolt M8", Quantity: 2, UnitPrice: 50},
			{ProductId: 11, Name: "Washer M8", Quantity: 1, UnitPrice: 30},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 3, ord.ItemCount)
	assert.Equal(t, 130.0, ord.Subtotal)
	assert.Equal(t, 130.0, ord.Total)
	assert.Equal(t, domain.OrderStatusPending, ord.Status)
	assert.Equal(t, domain.PaymentStatusPending, ord.PaymentStatus)
	assert.Regexp(t, `^ORD-\d{4}-\d{4}$`, ord.OrderNumber)
	assertTotalInvariant(t, ord)

	assert.Len(t, store.items[ord.ID], 2)
	assert.Equal(t, 100.0, store.items[ord.ID][0].TotalPrice)
	assert.Equal(t, 30.0, store.items[ord.ID][1].TotalPrice)
}

func TestCreate_ChargesInTotal(t *testing.T) {
	service, _ := newTestService()

	ord, err := service.Create(context.Background(), CreateInput{
		CustomerId:   1,
		Items:        []ItemInput{{ProductId: 10, Name: "Grinder", Quantity: 1, UnitPrice: 200}},
		ShippingCost: 15,
		Tax:          20,
		Discount:     35,
	})

	require.NoError(t, err)
	assert.Equal(t, 200.0, ord.Subtotal)
	assert.Equal(t, 200.0, ord.Total)
	assertTotalInvariant(t, ord)
}

func TestCreate_CreditsCustomerAggregates(t *testing.T) {
	service, store := newTestService()

	ord, err := service.Create(context.Background(), CreateInput{
		CustomerId: 1,
		Items:      []ItemInput{{ProductId: 10, Name: "Grinder", Quantity: 1, UnitPrice: 200}},
	})

	require.NoError(t, err)
	cust := store.customers[1]
	assert.Equal(t, 1, cust.TotalOrders)
	assert.Equal(t, ord.Total, cust.TotalSpent)
	require.NotNil(t, cust.LastOrderAt)
}

func TestCreate_UnknownCustomer(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), CreateInput{
		CustomerId: 99,
		Items:      []ItemInput{{ProductId: 10, Name: "Grinder", Quantity: 1, UnitPrice: 200}},
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreate_EmptyItems(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), CreateInput{CustomerId: 1})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreate_BadQuantity(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), CreateInput{
		CustomerId: 1,
		Items:      []ItemInput{{ProductId: 10, Name: "Grinder", Quantity: 0, UnitPrice: 200}},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreate_AlreadyPaidCreditsOnce(t *testing.T) {
	service, store := newTestService()

	ord, err := service.Create(context.Background(), CreateInput{
		CustomerId:    1,
		Items:         []ItemInput{{ProductId: 10, Name: "Grinder", Quantity: 1, UnitPrice: 200}},
		PaymentStatus: domain.PaymentStatusPaid,
	})

	require.NoError(t, err)
	require.NotNil(t, ord.PaidAt)
	cust := store.customers[1]
	assert.Equal(t, 1, cust.TotalOrders)
	assert.Equal(t, 200.0, cust.TotalSpent)
}

func TestUpdateStatus_SetsShippedAtOnce(t *testing.T) {
	service, _ := newTestService()
	ord, err := service.Create(context.Background(), CreateInput{
		CustomerId: 1,
		Items:      []ItemInput{{ProductId: 10, Name: "Grinder", Quantity: 1, UnitPrice: 200}},
	})
	require.NoError(t, err)

	shipped, err := service.UpdateStatus(context.Background(), ord.ID, domain.OrderStatusShipped)
	require.NoError(t, err)
	require.NotNil(t, shipped.ShippedAt)
	firstShipped := *shipped.ShippedAt

	// moving away and back must not touch the timestamp
	_, err = service.UpdateStatus(context.Background(), ord.ID, domain.OrderStatusProcessing)
	require.NoError(t, err)
	again, err := service.UpdateStatus(context.Background(), ord.ID, domain.OrderStatusShipped)
	require.NoError(t, err)
	require.NotNil(t, again.ShippedAt)
	assert.Equal(t, firstShipped, *again.ShippedAt)
	assertTotalInvariant(t, again)
}

func TestUpdateStatus_PermissiveJumps(t *testing.T) {
	service, _ := newTestService()
	ord, err := service.Create(context.Background(), CreateInput{
		CustomerId: 1,
		Items:      []ItemInput{{ProductId: 10, Name: "Grinder", Quantity: 1, UnitPrice: 200}},
	})
	require.NoError(t, err)

	// pending straight to delivered is allowed
	delivered, err := service.UpdateStatus(context.Background(), ord.ID, domain.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)

	// and back to pending, without clearing delivered_at
	back, err := service.UpdateStatus(context.Background(), ord.ID, domain.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, back.Status)
	assert.NotNil(t, back.DeliveredAt)
}

func TestUpdateStatus_UnknownValue(t *testing.T) {
	service, _ := newTestService()

	_, err := service.UpdateStatus(context.Background(), 1, "archived")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	service, _ := newTestService()

	_, err := service.UpdateStatus(context.Background(), 404, domain.OrderStatusShipped)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdatePaymentStatus_FirstPaidCreditsAggregates(t *testing.T) {
	service, store := newTestService()
	ord, err := service.Create(context.Background(), CreateInput{
		CustomerId: 1,
		Items:      []ItemInput{{ProductId: 10, Name: "Grinder", Quantity: 1, UnitPrice: 200}},
	})
	require.NoError(t, err)
	// creation already credited once
	require.Equal(t, 1, store.customers[1].TotalOrders)

	paid, err := service.UpdatePaymentStatus(context.Background(), ord.ID, domain.PaymentStatusPaid)
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)
	firstPaid := *paid.PaidAt

	cust := store.customers[1]
	assert.Equal(t, 2, cust.TotalOrders)
	assert.Equal(t, 400.0, cust.TotalSpent)

	// second paid transition: no timestamp change, no re-credit
	again, err := service.UpdatePaymentStatus(context.Background(), ord.ID, domain.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, firstPaid, *again.PaidAt)
	assert.Equal(t, 2, store.customers[1].TotalOrders)
	assert.Equal(t, 400.0, store.customers[1].TotalSpent)
}

func TestUpdateCharges_PartialPatchRecomputesTotal(t *testing.T) {
	service, _ := newTestService()
	ord, err := service.Create(context.Background(), CreateInput{
		CustomerId:   1,
		Items:        []ItemInput{{ProductId: 10, Name: "Grinder", Quantity: 1, UnitPrice: 200}},
		ShippingCost: 10,
		Tax:          20,
		Discount:     5,
	})
	require.NoError(t, err)

	// only shipping supplied: discount and tax keep persisted values
	shipping := 25.0
	updated, err := service.UpdateCharges(context.Background(), ord.ID, ChargesInput{ShippingCost: &shipping})
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.ShippingCost)
	assert.Equal(t, 5.0, updated.Discount)
	assert.Equal(t, 240.0, updated.Total) // 200 + 25 + 20 - 5
	assertTotalInvariant(t, updated)

	// only discount supplied
	discount := 40.0
	updated, err = service.UpdateCharges(context.Background(), ord.ID, ChargesInput{Discount: &discount})
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.ShippingCost)
	assert.Equal(t, 205.0, updated.Total) // 200 + 25 + 20 - 40
	assertTotalInvariant(t, updated)
}

func TestDelete_OnlyPendingOrCancelled(t *testing.T) {
	service, _ := newTestService()
	ord, err := service.Create(context.Background(), CreateInput{
		CustomerId: 1,
		Items:      []ItemInput{{ProductId: 10, Name: "Grinder", Quantity: 1, UnitPrice: 200}},
	})
	require.NoError(t, err)

	_, err = service.UpdateStatus(context.Background(), ord.ID, domain.OrderStatusShipped)
	require.NoError(t, err)

	err = service.Delete(context.Background(), ord.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidOperation)

	_, err = service.UpdateStatus(context.Background(), ord.ID, domain.OrderStatusCancelled)
	require.NoError(t, err)
	require.NoError(t, service.Delete(context.Background(), ord.ID))
}

func TestDelete_PaidOrderReversesAggregates(t *testing.T) {
	service, store := newTestService()
	ord, err := service.Create(context.Background(), CreateInput{
		CustomerId:    1,
		Items:         []ItemInput{{ProductId: 10, Name: "Grinder", Quantity: 1, UnitPrice: 200}},
		PaymentStatus: domain.PaymentStatusPaid,
	})
	require.NoError(t, err)
	require.Equal(t, 1, store.customers[1].TotalOrders)

	require.NoError(t, service.Delete(context.Background(), ord.ID))

	cust := store.customers[1]
	assert.Equal(t, 0, cust.TotalOrders)
	assert.Equal(t, 0.0, cust.TotalSpent)
	assert.Empty(t, store.orders)
	assert.Empty(t, store.items)
}

func TestDelete_UnpaidOrderKeepsAggregates(t *testing.T) {
	// Deletion only reverses the aggregates of paid orders, even though
	// creation credits every order.
	service, store := newTestService()
	ord, err := service.Create(context.Background(), CreateInput{
		CustomerId: 1,
		Items:      []ItemInput{{ProductId: 10, Name: "Grinder", Quantity: 1, UnitPrice: 200}},
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), ord.ID))

	assert.Equal(t, 1, store.customers[1].TotalOrders)
	assert.Equal(t, 200.0, store.customers[1].TotalSpent)
}

func TestDelete_NotFound(t *testing.T) {
	service, _ := newTestService()

	err := service.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGet_WithItems(t *testing.T) {
	service, _ := newTestService()
	ord, err := service.Create(context.Background(), CreateInput{
		CustomerId: 1,
		Items: []ItemInput{
			{ProductId: 10, Name: "Hex Bolt M8", Quantity: 2, UnitPrice: 50},
			{ProductId: 11, Name: "Washer M8", Quantity: 1, UnitPrice: 30},
		},
	})
	require.NoError(t, err)

	got, items, err := service.Get(context.Background(), ord.ID)
	require.NoError(t, err)
	assert.Equal(t, ord.ID, got.ID)
	assert.Len(t, items, 2)
}
