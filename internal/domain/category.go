package domain

import "time"

// CrmCategory is a node in the self-referential catalog category tree.
// ParentId is nil for root categories. The parent graph is kept acyclic by
// the catalog service; the column itself carries no constraint beyond the FK.
type CrmCategory struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"size:200" json:"name" form:"name"`
	Slug      string    `gorm:"size:200;uniqueIndex" json:"slug" form:"slug"`
	ParentId  *int64    `gorm:"index" json:"parent_id,omitempty" form:"parent_id"`
	SortOrder int       `gorm:"default:0" json:"sort_order" form:"sort_order"`
	IsActive  bool      `gorm:"default:true" json:"is_active" form:"is_active"`
	Remark    string    `json:"remark" form:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (CrmCategory) TableName() string {
	return "crm_category"
}

// CategoryNode is a category with its children nested, used by the tree view.
// Built per read from the flat table, never persisted.
type CategoryNode struct {
	CrmCategory
	Children []*CategoryNode `json:"children"`
}
