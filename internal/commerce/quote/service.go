package quote

import (
	"context"
	"strings"
	"time"

	"github.com/moticosolutions/bms/internal/domain"
	"github.com/moticosolutions/bms/pkg/apperr"
	"github.com/moticosolutions/bms/pkg/common"
	"go.uber.org/zap"
)

const numberAttempts = 5

// Service drives the quote lifecycle: unpriced creation, pricing, the fixed
// status machine with set-once timestamps, conversion bookkeeping, guarded
// deletion and the expiry sweep.
type Service struct {
	store        Store
	numberPrefix string
	validityDays int
}

// NewService creates a new quote lifecycle service. numberPrefix defaults to
// "QT", validityDays to 30.
func NewService(store Store, numberPrefix string, validityDays int) *Service {
	if numberPrefix == "" {
		numberPrefix = "QT"
	}
	if validityDays <= 0 {
		validityDays = 30
	}
	return &Service{store: store, numberPrefix: numberPrefix, validityDays: validityDays}
}

// ItemInput is one requested quote line. Lines are created unpriced.
type ItemInput struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// CreateInput carries the fields accepted on quote creation
type CreateInput struct {
	CustomerId    *int64      `json:"customer_id,omitempty"` // nil for guest requests
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	Items         []ItemInput `json:"items"`
	Remark        string      `json:"remark"`
}

// Create persists a new unpriced quote in status pending. Subtotal and total
// do not exist until pricing is applied.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.CrmQuote, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, apperr.Validationf("customer name is required")
	}
	if strings.TrimSpace(input.CustomerEmail) == "" {
		return nil, apperr.Validationf("customer email is required")
	}
	if len(input.Items) == 0 {
		return nil, apperr.Validationf("quote requires at least one item")
	}
	for i, item := range input.Items {
		if strings.TrimSpace(item.ProductName) == "" {
			return nil, apperr.Validationf("item %d: product name is required", i)
		}
		if item.Quantity <= 0 {
			return nil, apperr.Validationf("item %d: quantity must be positive", i)
		}
	}

	now := time.Now()
	validUntil := now.AddDate(0, 0, s.validityDays)
	q := &domain.CrmQuote{
		ID:            common.UUIDint64(),
		CustomerId:    input.CustomerId,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		Status:        domain.QuoteStatusPending,
		ValidUntil:    &validUntil,
		Remark:        input.Remark,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.store.Atomic(ctx, func(st Store) error {
		number, err := s.freeNumber(ctx, st)
		if err != nil {
			return err
		}
		q.QuoteNumber = number

		if err := st.CreateQuote(ctx, q); err != nil {
			return err
		}

		items := make([]domain.CrmQuoteItem, 0, len(input.Items))
		for _, item := range input.Items {
			items = append(items, domain.CrmQuoteItem{
				ID:          common.UUIDint64(),
				QuoteId:     q.ID,
				ProductName: strings.TrimSpace(item.ProductName),
				Quantity:    item.Quantity,
				CreatedAt:   now,
			})
		}
		return st.CreateItems(ctx, items)
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("quote created",
		zap.Int64("quote_id", q.ID),
		zap.String("quote_number", q.QuoteNumber),
		zap.String("customer_email", q.CustomerEmail))
	return q, nil
}

func (s *Service) freeNumber(ctx context.Context, st Store) (string, error) {
	for i := 0; i < numberAttempts; i++ {
		number := common.SequenceNumber(s.numberPrefix)
		existing, err := st.GetQuoteByNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return number, nil
		}
	}
	return "", apperr.Conflictf("could not allocate a free quote number after %d attempts", numberAttempts)
}

// PricedItem sets the unit price of one existing quote line
type PricedItem struct {
	ItemId    int64   `json:"item_id,string"`
	UnitPrice float64 `json:"unit_price"`
}

// PricingInput carries a pricing pass over a quote
type PricingInput struct {
	Items    []PricedItem `json:"items"`
	Discount *float64     `json:"discount"`
}

// ApplyPricing prices the supplied lines and recomputes subtotal over ALL
// lines of the quote, unpriced lines contributing zero. total = subtotal -
// discount, where an omitted discount keeps the persisted value.
func (s *Service) ApplyPricing(ctx context.Context, id int64, input PricingInput) (*domain.CrmQuote, error) {
	for i, item := range input.Items {
		if item.UnitPrice < 0 {
			return nil, apperr.Validationf("item %d: unit price cannot be negative", i)
		}
	}
	if input.Discount != nil && *input.Discount < 0 {
		return nil, apperr.Validationf("discount cannot be negative")
	}

	var updated *domain.CrmQuote
	err := s.store.Atomic(ctx, func(st Store) error {
		q, err := st.GetQuote(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return apperr.NotFoundf("quote %d", id)
		}

		items, err := st.Items(ctx, id)
		if err != nil {
			return err
		}
		byID := make(map[int64]*domain.CrmQuoteItem, len(items))
		for i := range items {
			byID[items[i].ID] = &items[i]
		}

		now := time.Now()
		for _, priced := range input.Items {
			line, ok := byID[priced.ItemId]
			if !ok {
				return apperr.NotFoundf("quote %d has no item %d", id, priced.ItemId)
			}
			price := priced.UnitPrice
			total := price * float64(line.Quantity)
			line.UnitPrice = &price
			line.TotalPrice = &total
			if err := st.UpdateItem(ctx, line.ID, map[string]interface{}{
				"unit_price":  price,
				"total_price": total,
			}); err != nil {
				return err
			}
		}

		discount := q.Discount
		if input.Discount != nil {
			discount = *input.Discount
		}

		subtotal := 0.0
		for i := range items {
			if items[i].TotalPrice != nil {
				subtotal += *items[i].TotalPrice
			}
		}
		total := subtotal - discount

		if err := st.UpdateQuote(ctx, id, map[string]interface{}{
			"subtotal":   subtotal,
			"discount":   discount,
			"total":      total,
			"updated_at": now,
		}); err != nil {
			return err
		}
		updated, err = st.GetQuote(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("quote priced",
		zap.Int64("quote_id", id),
		zap.Int("priced_items", len(input.Items)))
	return updated, nil
}

// UpdateStatus moves a quote along its status machine. Disallowed moves fail
// with an invalid-operation error. Entering reviewed, sent, or a response
// state for the first time stamps the matching timestamp exactly once.
// Converted is not reachable here: it requires the order reference and goes
// through MarkConverted only.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*domain.CrmQuote, error) {
	if _, known := domain.QuoteTransitions[status]; !known {
		return nil, apperr.Validationf("unknown quote status %q", status)
	}
	if status == domain.QuoteStatusConverted {
		return nil, apperr.InvalidOperationf("quotes convert through order conversion, not a status update")
	}

	var updated *domain.CrmQuote
	err := s.store.Atomic(ctx, func(st Store) error {
		q, err := st.GetQuote(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return apperr.NotFoundf("quote %d", id)
		}
		if !domain.QuoteCanTransition(q.Status, status) {
			return apperr.InvalidOperationf("quote %s cannot move from %s to %s", q.QuoteNumber, q.Status, status)
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":     status,
			"updated_at": now,
		}
		switch status {
		case domain.QuoteStatusReviewed:
			if q.ReviewedAt == nil {
				updates["reviewed_at"] = now
			}
		case domain.QuoteStatusSent:
			if q.SentAt == nil {
				updates["sent_at"] = now
			}
		case domain.QuoteStatusAccepted, domain.QuoteStatusRejected:
			if q.RespondedAt == nil {
				updates["responded_at"] = now
			}
		}

		if err := st.UpdateQuote(ctx, id, updates); err != nil {
			return err
		}
		updated, err = st.GetQuote(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("quote status updated",
		zap.Int64("quote_id", id),
		zap.String("status", status))
	return updated, nil
}

// MarkConverted records the order created from an accepted quote. After this
// the quote is permanently undeletable.
func (s *Service) MarkConverted(ctx context.Context, id, orderID int64) (*domain.CrmQuote, error) {
	var updated *domain.CrmQuote
	err := s.store.Atomic(ctx, func(st Store) error {
		q, err := st.GetQuote(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return apperr.NotFoundf("quote %d", id)
		}
		if !domain.QuoteCanTransition(q.Status, domain.QuoteStatusConverted) {
			return apperr.InvalidOperationf("quote %s in status %s cannot be converted", q.QuoteNumber, q.Status)
		}

		if err := st.UpdateQuote(ctx, id, map[string]interface{}{
			"status":     domain.QuoteStatusConverted,
			"order_id":   orderID,
			"updated_at": time.Now(),
		}); err != nil {
			return err
		}
		updated, err = st.GetQuote(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("quote converted",
		zap.Int64("quote_id", id),
		zap.Int64("order_id", orderID))
	return updated, nil
}

// Delete removes a quote and its items. A converted quote (non-nil order_id)
// can never be deleted, whatever its status.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.Atomic(ctx, func(st Store) error {
		q, err := st.GetQuote(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return apperr.NotFoundf("quote %d", id)
		}
		if q.OrderId != nil {
			return apperr.InvalidOperationf("quote %s was converted to order %d and cannot be deleted", q.QuoteNumber, *q.OrderId)
		}

		if err := st.DeleteItems(ctx, id); err != nil {
			return err
		}
		return st.DeleteQuote(ctx, id)
	})
	if err != nil {
		return err
	}

	zap.L().Info("quote deleted", zap.Int64("quote_id", id))
	return nil
}

// ExpireStale flips open quotes past their valid_until to expired and
// returns how many were flipped. Driven by the hourly sweep job.
func (s *Service) ExpireStale(ctx context.Context) (int, error) {
	expired := 0
	err := s.store.Atomic(ctx, func(st Store) error {
		stale, err := st.StaleQuotes(ctx, time.Now())
		if err != nil {
			return err
		}
		for _, q := range stale {
			if err := st.UpdateQuote(ctx, q.ID, map[string]interface{}{
				"status":     domain.QuoteStatusExpired,
				"updated_at": time.Now(),
			}); err != nil {
				return err
			}
			expired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		zap.L().Info("stale quotes expired", zap.Int("count", expired))
	}
	return expired, nil
}

// Get returns a quote with its items
func (s *Service) Get(ctx context.Context, id int64) (*domain.CrmQuote, []domain.CrmQuoteItem, error) {
	q, err := s.store.GetQuote(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if q == nil {
		return nil, nil, apperr.NotFoundf("quote %d", id)
	}
	items, err := s.store.Items(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return q, items, nil
}
