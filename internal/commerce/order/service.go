package order

import (
	"context"
	"time"

	"github.com/moticosolutions/bms/internal/commerce/customer"
	"github.com/moticosolutions/bms/internal/domain"
	"github.com/moticosolutions/bms/pkg/apperr"
	"github.com/moticosolutions/bms/pkg/common"
	"go.uber.org/zap"
)

// numberAttempts bounds the retries against an order number collision
const numberAttempts = 5

// Service drives the order lifecycle: creation with derived totals, status
// and payment transitions with set-once timestamps, charge recomputation and
// guarded deletion. Customer aggregates are updated in the same transaction
// as the order write.
type Service struct {
	store        Store
	customers    *customer.Synchronizer
	numberPrefix string
}

// NewService creates a new order lifecycle service. numberPrefix defaults
// to "ORD" when empty.
func NewService(store Store, customers *customer.Synchronizer, numberPrefix string) *Service {
	if numberPrefix == "" {
		numberPrefix = "ORD"
	}
	return &Service{store: store, customers: customers, numberPrefix: numberPrefix}
}

// ItemInput is one order line on creation
type ItemInput struct {
	ProductId int64   `json:"product_id,string"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// CreateInput carries the fields accepted on order creation
type CreateInput struct {
	CustomerId    int64       `json:"customer_id,string"`
	Items         []ItemInput `json:"items"`
	ShippingCost  float64     `json:"shipping_cost"`
	Tax           float64     `json:"tax"`
	Discount      float64     `json:"discount"`
	PaymentStatus string      `json:"payment_status"`
	Remark        string      `json:"remark"`
}

// Create validates input, derives item_count/subtotal/total, generates an
// order number and persists order, items and the customer aggregate credit
// in one transaction. Orders always count toward the customer aggregates at
// creation time, whatever their payment status.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.CrmOrder, error) {
	if len(input.Items) == 0 {
		return nil, apperr.Validationf("order requires at least one item")
	}
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperr.Validationf("item %d: quantity must be positive", i)
		}
		if item.UnitPrice < 0 {
			return nil, apperr.Validationf("item %d: unit price cannot be negative", i)
		}
	}
	paymentStatus := input.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = domain.PaymentStatusPending
	}
	if !domain.ValidPaymentStatus(paymentStatus) {
		return nil, apperr.Validationf("unknown payment status %q", paymentStatus)
	}

	itemCount := 0
	subtotal := 0.0
	for _, item := range input.Items {
		itemCount += item.Quantity
		subtotal += float64(item.Quantity) * item.UnitPrice
	}

	now := time.Now()
	ord := &domain.CrmOrder{
		ID:            common.UUIDint64(),
		CustomerId:    input.CustomerId,
		Status:        domain.OrderStatusPending,
		PaymentStatus: paymentStatus,
		ItemCount:     itemCount,
		Subtotal:      subtotal,
		ShippingCost:  input.ShippingCost,
		Tax:           input.Tax,
		Discount:      input.Discount,
		Total:         domain.OrderTotal(subtotal, input.ShippingCost, input.Tax, input.Discount),
		Remark:        input.Remark,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if paymentStatus == domain.PaymentStatusPaid {
		ord.PaidAt = &now
	}

	err := s.store.Atomic(ctx, func(st Store) error {
		cust, err := st.GetCustomer(ctx, input.CustomerId)
		if err != nil {
			return err
		}
		if cust == nil {
			return apperr.NotFoundf("customer %d", input.CustomerId)
		}

		number, err := s.freeNumber(ctx, st)
		if err != nil {
			return err
		}
		ord.OrderNumber = number

		if err := st.CreateOrder(ctx, ord); err != nil {
			return err
		}

		items := make([]domain.CrmOrderItem, 0, len(input.Items))
		for _, item := range input.Items {
			items = append(items, domain.CrmOrderItem{
				ID:         common.UUIDint64(),
				OrderId:    ord.ID,
				ProductId:  item.ProductId,
				Name:       item.Name,
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPrice,
				TotalPrice: float64(item.Quantity) * item.UnitPrice,
				CreatedAt:  now,
			})
		}
		if err := st.CreateItems(ctx, items); err != nil {
			return err
		}

		return s.customers.OrderPlaced(ctx, st, input.CustomerId, ord.Total)
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("order created",
		zap.Int64("order_id", ord.ID),
		zap.String("order_number", ord.OrderNumber),
		zap.Int64("customer_id", ord.CustomerId),
		zap.Float64("total", ord.Total))
	return ord, nil
}

// freeNumber generates an order number not yet taken. The unique index on
// order_number remains the final arbiter under concurrency.
func (s *Service) freeNumber(ctx context.Context, st Store) (string, error) {
	for i := 0; i < numberAttempts; i++ {
		number := common.SequenceNumber(s.numberPrefix)
		existing, err := st.GetOrderByNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return number, nil
		}
	}
	return "", apperr.Conflictf("could not allocate a free order number after %d attempts", numberAttempts)
}

// UpdateStatus assigns a new status. Transitions are not restricted to a
// forward-only machine; the admin UI moves orders freely. Entering shipped
// or delivered for the first time stamps the matching timestamp, later
// transitions never touch it.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*domain.CrmOrder, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, apperr.Validationf("unknown order status %q", status)
	}

	var updated *domain.CrmOrder
	err := s.store.Atomic(ctx, func(st Store) error {
		ord, err := st.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if ord == nil {
			return apperr.NotFoundf("order %d", id)
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":     status,
			"updated_at": now,
		}
		if status == domain.OrderStatusShipped && ord.ShippedAt == nil {
			updates["shipped_at"] = now
		}
		if status == domain.OrderStatusDelivered && ord.DeliveredAt == nil {
			updates["delivered_at"] = now
		}

		if err := st.UpdateOrder(ctx, id, updates); err != nil {
			return err
		}
		updated, err = st.GetOrder(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("order status updated",
		zap.Int64("order_id", id),
		zap.String("status", status))
	return updated, nil
}

// UpdatePaymentStatus assigns a new payment status. The first transition to
// paid stamps paid_at and credits the customer aggregates; repeating the
// transition is a plain status write and never double-counts.
func (s *Service) UpdatePaymentStatus(ctx context.Context, id int64, status string) (*domain.CrmOrder, error) {
	if !domain.ValidPaymentStatus(status) {
		return nil, apperr.Validationf("unknown payment status %q", status)
	}

	var updated *domain.CrmOrder
	err := s.store.Atomic(ctx, func(st Store) error {
		ord, err := st.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if ord == nil {
			return apperr.NotFoundf("order %d", id)
		}

		now := time.Now()
		updates := map[string]interface{}{
			"payment_status": status,
			"updated_at":     now,
		}
		firstPaid := status == domain.PaymentStatusPaid && ord.PaidAt == nil
		if firstPaid {
			updates["paid_at"] = now
		}

		if err := st.UpdateOrder(ctx, id, updates); err != nil {
			return err
		}
		if firstPaid {
			if err := s.customers.OrderPlaced(ctx, st, ord.CustomerId, ord.Total); err != nil {
				return err
			}
		}
		updated, err = st.GetOrder(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("order payment status updated",
		zap.Int64("order_id", id),
		zap.String("payment_status", status))
	return updated, nil
}

// ChargesInput is a partial patch of the mutable charge fields
type ChargesInput struct {
	ShippingCost *float64 `json:"shipping_cost"`
	Discount     *float64 `json:"discount"`
}

// UpdateCharges patches shipping cost and/or discount and recomputes the
// total from the persisted values of whatever was not supplied.
func (s *Service) UpdateCharges(ctx context.Context, id int64, input ChargesInput) (*domain.CrmOrder, error) {
	var updated *domain.CrmOrder
	err := s.store.Atomic(ctx, func(st Store) error {
		ord, err := st.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if ord == nil {
			return apperr.NotFoundf("order %d", id)
		}

		shipping := ord.ShippingCost
		if input.ShippingCost != nil {
			shipping = *input.ShippingCost
		}
		discount := ord.Discount
		if input.Discount != nil {
			discount = *input.Discount
		}

		updates := map[string]interface{}{
			"shipping_cost": shipping,
			"discount":      discount,
			"total":         domain.OrderTotal(ord.Subtotal, shipping, ord.Tax, discount),
			"updated_at":    time.Now(),
		}
		if err := st.UpdateOrder(ctx, id, updates); err != nil {
			return err
		}
		updated, err = st.GetOrder(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an order and its items. Only pending or cancelled orders
// may go; a paid order's aggregate contribution is reversed first.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.Atomic(ctx, func(st Store) error {
		ord, err := st.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if ord == nil {
			return apperr.NotFoundf("order %d", id)
		}
		if ord.Status != domain.OrderStatusPending && ord.Status != domain.OrderStatusCancelled {
			return apperr.InvalidOperationf("order %s in status %s cannot be deleted", ord.OrderNumber, ord.Status)
		}

		if ord.PaymentStatus == domain.PaymentStatusPaid {
			if err := s.customers.OrderRemoved(ctx, st, ord.CustomerId, ord.Total); err != nil {
				return err
			}
		}

		if err := st.DeleteItems(ctx, id); err != nil {
			return err
		}
		return st.DeleteOrder(ctx, id)
	})
	if err != nil {
		return err
	}

	zap.L().Info("order deleted", zap.Int64("order_id", id))
	return nil
}

// Get returns an order with its items
func (s *Service) Get(ctx context.Context, id int64) (*domain.CrmOrder, []domain.CrmOrderItem, error) {
	ord, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if ord == nil {
		return nil, nil, apperr.NotFoundf("order %d", id)
	}
	items, err := s.store.Items(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return ord, items, nil
}
