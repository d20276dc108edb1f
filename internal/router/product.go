package router

import (
	"net/http"

	"github.com/bazario/marketplace-api/internal/handler"
	"github.com/bazario/marketplace-api/internal/middleware"
	"github.com/labstack/echo/v4"
)

// registerProductRoutes wires the /Api/Product group. Every route
// requires a valid x-auth-token; mutating routes are also rate limited.
func registerProductRoutes(r *echo.Echo, m *middleware.Middlewares, h *handler.Handlers) {
	products := h.Product

	g := r.Group("/Api/Product", m.Auth.RequireAuth)
	limited := m.RateLimit.Limit()

	g.POST("/AddProduct",
		handler.Handle(products.Handler, products.AddProduct, http.StatusCreated), limited)
	g.PATCH("/LikeProduct",
		handler.Handle(products.Handler, products.LikeProduct, http.StatusOK), limited)
	g.PATCH("/AddProductToCart",
		handler.Handle(products.Handler, products.AddProductToCart, http.StatusOK), limited)
	g.PUT("/EditProduct",
		handler.Handle(products.Handler, products.EditProduct, http.StatusOK), limited)
	g.DELETE("/DeleteProduct",
		handler.HandleNoContent(products.Handler, products.DeleteProduct, http.StatusNoContent), limited)

	g.GET("/GetProductById",
		handler.Handle(products.Handler, products.GetProductById, http.StatusOK))
	g.GET("/GetSellingProducts",
		handler.Handle(products.Handler, products.GetSellingProducts, http.StatusOK))
	g.GET("/GetExchangeProducts",
		handler.Handle(products.Handler, products.GetExchangeProducts, http.StatusOK))
}
