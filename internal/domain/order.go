package domain

import "time"

// Order status values. Transitions are intentionally unconstrained: the admin
// UI drives status directly and operators do jump states (see OrderStatuses
// for the set of valid values). Timestamps are only ever set on the first
// entry into the matching state.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// Payment status values
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// OrderStatuses lists all valid order status values
var OrderStatuses = []string{
	OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
	OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
	OrderStatusRefunded,
}

// PaymentStatuses lists all valid payment status values
var PaymentStatuses = []string{
	PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed,
	PaymentStatusRefunded,
}

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status
func ValidPaymentStatus(s string) bool {
	for _, v := range PaymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// CrmOrder represents a customer order.
// Total is always derivable: Subtotal + ShippingCost + Tax - Discount.
type CrmOrder struct {
	ID            int64      `json:"id,string" form:"id"`
	OrderNumber   string     `gorm:"size:50;uniqueIndex" json:"order_number"`
	CustomerId    int64      `gorm:"index" json:"customer_id,string" form:"customer_id"`
	Status        string     `gorm:"size:20;index;default:'pending'" json:"status" form:"status"`
	PaymentStatus string     `gorm:"size:20;index;default:'pending'" json:"payment_status" form:"payment_status"`
	ItemCount     int        `json:"item_count"`
	Subtotal      float64    `json:"subtotal"`
	ShippingCost  float64    `json:"shipping_cost" form:"shipping_cost"`
	Tax           float64    `json:"tax" form:"tax"`
	Discount      float64    `json:"discount" form:"discount"`
	Total         float64    `json:"total"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	ShippedAt     *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`
	Remark        string     `json:"remark" form:"remark"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (CrmOrder) TableName() string {
	return "crm_order"
}

// OrderTotal computes the derived order total from its components
func OrderTotal(subtotal, shipping, tax, discount float64) float64 {
	return subtotal + shipping + tax - discount
}

// CrmOrderItem is an order line. Lines are immutable once the order exists.
type CrmOrderItem struct {
	ID         int64     `json:"id,string"`
	OrderId    int64     `gorm:"index" json:"order_id,string"`
	ProductId  int64     `gorm:"index" json:"product_id,string"`
	Name       string    `gorm:"size:200" json:"name"` // product name at order time
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TotalPrice float64   `json:"total_price"` // Quantity * UnitPrice
	CreatedAt  time.Time `json:"created_at"`
}

// TableName Specify table name
func (CrmOrderItem) TableName() string {
	return "crm_order_item"
}
