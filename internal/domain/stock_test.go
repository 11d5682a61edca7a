package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStockStatus(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		threshold int
		expected  StockStatus
	}{
		{"zero quantity", 0, 10, StockStatusOut},
		{"negative quantity", -3, 10, StockStatusOut},
		{"at threshold", 10, 10, StockStatusLow},
		{"below threshold", 4, 10, StockStatusLow},
		{"just above threshold", 11, 10, StockStatusIn},
		{"well stocked", 500, 10, StockStatusIn},
		{"custom threshold", 25, 30, StockStatusLow},
		{"zero threshold falls back to default", 5, 0, StockStatusLow},
		{"negative threshold falls back to default", 11, -1, StockStatusIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveStockStatus(tt.quantity, tt.threshold))
		})
	}
}

func TestProductStockStatus(t *testing.T) {
	p := &CrmProduct{StockQty: 3, MinStockLevel: 5}
	assert.Equal(t, StockStatusLow, p.StockStatus())

	p = &CrmProduct{StockQty: 0, MinStockLevel: 5}
	assert.Equal(t, StockStatusOut, p.StockStatus())
}

func TestQuoteCanTransition(t *testing.T) {
	assert.True(t, QuoteCanTransition(QuoteStatusPending, QuoteStatusReviewed))
	assert.True(t, QuoteCanTransition(QuoteStatusReviewed, QuoteStatusSent))
	assert.True(t, QuoteCanTransition(QuoteStatusSent, QuoteStatusAccepted))
	assert.True(t, QuoteCanTransition(QuoteStatusSent, QuoteStatusRejected))
	assert.True(t, QuoteCanTransition(QuoteStatusSent, QuoteStatusExpired))
	assert.True(t, QuoteCanTransition(QuoteStatusAccepted, QuoteStatusConverted))

	assert.False(t, QuoteCanTransition(QuoteStatusPending, QuoteStatusSent))
	assert.False(t, QuoteCanTransition(QuoteStatusAccepted, QuoteStatusExpired))
	assert.False(t, QuoteCanTransition(QuoteStatusRejected, QuoteStatusAccepted))
	assert.False(t, QuoteCanTransition(QuoteStatusConverted, QuoteStatusPending))
	assert.False(t, QuoteCanTransition(QuoteStatusExpired, QuoteStatusReviewed))
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, ValidOrderStatus(s))
	}
	assert.False(t, ValidOrderStatus("archived"))
	assert.False(t, ValidOrderStatus(""))
}
