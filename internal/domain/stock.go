package domain

// StockStatus is the tri-state stock classification derived from quantity vs
// threshold. It is never stored; catalog reads and the low-stock scan both
// derive it on the fly.
type StockStatus string

const (
	StockStatusIn  StockStatus = "in_stock"
	StockStatusLow StockStatus = "low_stock"
	StockStatusOut StockStatus = "out_of_stock"
)

// DefaultMinStockLevel is used when a product carries no threshold of its own
const DefaultMinStockLevel = 10

// DeriveStockStatus classifies a quantity against a low-stock threshold.
// A non-positive threshold falls back to DefaultMinStockLevel.
func DeriveStockStatus(quantity, threshold int) StockStatus {
	if threshold <= 0 {
		threshold = DefaultMinStockLevel
	}
	switch {
	case quantity <= 0:
		return StockStatusOut
	case quantity <= threshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// StockStatus classifies a product using its own threshold
func (p *CrmProduct) StockStatus() StockStatus {
	return DeriveStockStatus(p.StockQty, p.MinStockLevel)
}
