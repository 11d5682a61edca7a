package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	// Catalog
	&CrmCategory{},
	&CrmBrand{},
	&CrmProduct{},
	// Commerce
	&CrmCustomer{},
	&CrmOrder{},
	&CrmOrderItem{},
	&CrmQuote{},
	&CrmQuoteItem{},
}
