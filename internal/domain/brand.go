package domain

import "time"

// CrmBrand represents a product brand entry stored in DB
type CrmBrand struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"size:200" json:"name" form:"name"`
	Slug      string    `gorm:"size:200;uniqueIndex" json:"slug" form:"slug"`
	Website   string    `gorm:"size:500" json:"website" form:"website"`
	IsActive  bool      `gorm:"default:true" json:"is_active" form:"is_active"`
	Remark    string    `json:"remark" form:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns table name
func (CrmBrand) TableName() string {
	return "crm_brand"
}
