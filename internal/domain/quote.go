package domain

import "time"

// Quote status values. Unlike orders, quote transitions follow a fixed
// machine (see QuoteTransitions): pending -> reviewed -> sent -> accepted or
// rejected; pending/reviewed/sent may expire; accepted may convert.
const (
	QuoteStatusPending   = "pending"
	QuoteStatusReviewed  = "reviewed"
	QuoteStatusSent      = "sent"
	QuoteStatusAccepted  = "accepted"
	QuoteStatusRejected  = "rejected"
	QuoteStatusExpired   = "expired"
	QuoteStatusConverted = "converted"
)

// QuoteTransitions maps each quote status to the statuses reachable from it
var QuoteTransitions = map[string][]string{
	QuoteStatusPending:   {QuoteStatusReviewed, QuoteStatusExpired},
	QuoteStatusReviewed:  {QuoteStatusSent, QuoteStatusExpired},
	QuoteStatusSent:      {QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired},
	QuoteStatusAccepted:  {QuoteStatusConverted},
	QuoteStatusRejected:  {},
	QuoteStatusExpired:   {},
	QuoteStatusConverted: {},
}

// ValidQuoteStatus reports whether s is a known quote status
func ValidQuoteStatus(s string) bool {
	_, found := QuoteTransitions[s]
	return found
}

// QuoteCanTransition reports whether a quote may move from one status to another
func QuoteCanTransition(from, to string) bool {
	for _, v := range QuoteTransitions[from] {
		if v == to {
			return true
		}
	}
	return false
}

// CrmQuote represents a price quote request. Quotes start unpriced; Subtotal
// and Total stay nil until sales applies pricing. A quote with a non-nil
// OrderId has been converted and can never be deleted.
type CrmQuote struct {
	ID            int64      `json:"id,string" form:"id"`
	QuoteNumber   string     `gorm:"size:50;uniqueIndex" json:"quote_number"`
	CustomerId    *int64     `gorm:"index" json:"customer_id,omitempty" form:"customer_id"` // nil for guest requests
	CustomerName  string     `gorm:"size:200" json:"customer_name" form:"customer_name"`
	CustomerEmail string     `gorm:"size:200" json:"customer_email" form:"customer_email"`
	Status        string     `gorm:"size:20;index;default:'pending'" json:"status" form:"status"`
	Subtotal      *float64   `json:"subtotal,omitempty"`
	Discount      float64    `gorm:"default:0" json:"discount" form:"discount"`
	Total         *float64   `json:"total,omitempty"`
	OrderId       *int64     `gorm:"index" json:"order_id,omitempty"`
	ValidUntil    *time.Time `json:"valid_until,omitempty" form:"valid_until"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
	Remark        string     `json:"remark" form:"remark"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (CrmQuote) TableName() string {
	return "crm_quote"
}

// CrmQuoteItem is a quote line. UnitPrice and TotalPrice stay nil until the
// line is priced.
type CrmQuoteItem struct {
	ID          int64     `json:"id,string"`
	QuoteId     int64     `gorm:"index" json:"quote_id,string"`
	ProductName string    `gorm:"size:200" json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   *float64  `json:"unit_price,omitempty"`
	TotalPrice  *float64  `json:"total_price,omitempty"` // UnitPrice * Quantity once priced
	CreatedAt   time.Time `json:"created_at"`
}

// TableName Specify table name
func (CrmQuoteItem) TableName() string {
	return "crm_quote_item"
}
