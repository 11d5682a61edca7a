package domain

import "time"

// CrmProduct represents a catalog product
type CrmProduct struct {
	ID            int64     `json:"id,string" form:"id"`
	CategoryId    *int64    `gorm:"index" json:"category_id,omitempty" form:"category_id"`
	BrandId       *int64    `gorm:"index" json:"brand_id,omitempty" form:"brand_id"`
	Name          string    `gorm:"size:200;index" json:"name" form:"name"`
	Slug          string    `gorm:"size:200;uniqueIndex" json:"slug" form:"slug"`
	Sku           string    `gorm:"size:100;index" json:"sku" form:"sku"`
	Price         float64   `json:"price" form:"price"`                 // unit price in main currency units
	StockQty      int       `gorm:"default:0" json:"stock_qty" form:"stock_qty"`
	MinStockLevel int       `gorm:"default:10" json:"min_stock_level" form:"min_stock_level"` // low-stock threshold
	Image         string    `gorm:"size:1024" json:"image" form:"image"` // URL to product image (optional)
	IsActive      bool      `gorm:"default:true" json:"is_active" form:"is_active"`
	Remark        string    `json:"remark" form:"remark"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName Specify table name
func (CrmProduct) TableName() string {
	return "crm_product"
}
