package quote

import (
	"context"
	"time"

	"github.com/moticosolutions/bms/internal/domain"
)

// Store is the quote persistence contract. Lookups return (nil, nil) when
// the row does not exist.
type Store interface {
	// Atomic runs fn against a store bound to a single transaction
	Atomic(ctx context.Context, fn func(Store) error) error

	GetQuote(ctx context.Context, id int64) (*domain.CrmQuote, error)
	GetQuoteByNumber(ctx context.Context, number string) (*domain.CrmQuote, error)
	Items(ctx context.Context, quoteID int64) ([]domain.CrmQuoteItem, error)

	// StaleQuotes returns open quotes (pending/reviewed/sent) whose
	// valid_until lies before the given instant
	StaleQuotes(ctx context.Context, before time.Time) ([]domain.CrmQuote, error)

	CreateQuote(ctx context.Context, quote *domain.CrmQuote) error
	CreateItems(ctx context.Context, items []domain.CrmQuoteItem) error
	UpdateQuote(ctx context.Context, id int64, updates map[string]interface{}) error
	UpdateItem(ctx context.Context, id int64, updates map[string]interface{}) error
	DeleteQuote(ctx context.Context, id int64) error
	DeleteItems(ctx context.Context, quoteID int64) error
}
