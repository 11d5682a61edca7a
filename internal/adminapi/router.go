package adminapi

import (
	"github.com/moticosolutions/bms/internal/catalog"
	"github.com/moticosolutions/bms/internal/commerce/order"
	"github.com/moticosolutions/bms/internal/commerce/quote"
)

// Services bundles the business managers the handlers dispatch to
type Services struct {
	Categories *catalog.Service
	Orders     *order.Service
	Quotes     *quote.Service
}

var services *Services

// InitRouter wires the admin API routes against the given services
func InitRouter(s *Services) {
	services = s
	registerCategoryRoutes()
	registerBrandRoutes()
	registerProductRoutes()
	registerCustomerRoutes()
	registerOrderRoutes()
	registerQuoteRoutes()
}
