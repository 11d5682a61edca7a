package domain

import "time"

// CrmCustomer represents a customer/contact record.
// TotalOrders, TotalSpent and LastOrderAt are denormalized aggregates owned
// by the order lifecycle; the generic customer update path must not touch them.
type CrmCustomer struct {
	ID          int64      `json:"id,string" form:"id"`
	Name        string     `gorm:"size:200;index" json:"name" form:"name"`
	Company     string     `gorm:"size:200" json:"company" form:"company"`
	Email       string     `gorm:"size:200;index" json:"email" form:"email"`
	Mobile      string     `gorm:"size:50" json:"mobile" form:"mobile"`
	Phone       string     `gorm:"size:50" json:"phone" form:"phone"`
	Address     string     `json:"address" form:"address"`
	City        string     `gorm:"size:100" json:"city" form:"city"`
	Country     string     `gorm:"size:100" json:"country" form:"country"`
	TotalOrders int        `gorm:"default:0" json:"total_orders"`
	TotalSpent  float64    `gorm:"default:0" json:"total_spent"`
	LastOrderAt *time.Time `json:"last_order_at,omitempty"`
	Remark      string     `json:"remark" form:"remark"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (CrmCustomer) TableName() string {
	return "crm_customer"
}
