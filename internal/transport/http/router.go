package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alwahda/fabricshop/internal/handlers"
	"github.com/alwahda/fabricshop/internal/handlers/cart"
	middleware "github.com/alwahda/fabricshop/internal/middleware/auth"
)

type Deps struct {
	Guard            *middleware.SessionGuard
	AuthHandler      *handlers.AuthHandler
	CatalogHandler   *handlers.CatalogHandler
	CartHandler      *cart.CartHandler
	OrdersHandler    *handlers.OrdersHandler
	CustomersHandler *handlers.CustomersHandler
	InventoryHandler *handlers.InventoryHandler
	AnalyticsHandler *handlers.AnalyticsHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", d.AuthHandler.Signup)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.GET("/me", d.AuthHandler.Me, d.Guard.RequireSession)

	api.GET("/categories", d.CatalogHandler.GetCategories)
	api.POST("/categories", d.CatalogHandler.CreateCategory, d.Guard.RequireAdmin)

	api.GET("/products", d.CatalogHandler.GetProducts)
	api.GET("/products/:id", d.CatalogHandler.GetProduct)
	api.POST("/products", d.CatalogHandler.CreateProduct, d.Guard.RequireAdmin)
	api.PUT("/products/:id", d.CatalogHandler.UpdateProduct, d.Guard.RequireAdmin)
	api.DELETE("/products/:id", d.CatalogHandler.DeleteProduct, d.Guard.RequireAdmin)
	api.GET("/products/:id/reviews", d.CatalogHandler.GetProductReviews)
	api.POST("/products/:id/reviews", d.CatalogHandler.CreateProductReview)

	cartGroup := api.Group("/cart", d.Guard.RequireSession)
	cartGroup.GET("", d.CartHandler.GetCart)
	cartGroup.POST("/add", d.CartHandler.AddToCart)
	cartGroup.PUT("/update/:itemId", d.CartHandler.UpdateCartItem)
	cartGroup.DELETE("/remove/:itemId", d.CartHandler.RemoveCartItem)
	cartGroup.DELETE("/clear", d.CartHandler.ClearCart)

	api.POST("/checkout", d.CartHandler.Checkout, d.Guard.RequireSession)

	api.GET("/orders", d.OrdersHandler.ListOrders, d.Guard.RequireAdmin)
	api.GET("/orders/:id", d.OrdersHandler.GetOrder, d.Guard.RequireAdmin)
	api.PUT("/orders/:id/status", d.OrdersHandler.UpdateStatus, d.Guard.RequireAdmin)
	api.PATCH("/orders/:id/payment-status", d.OrdersHandler.UpdatePaymentStatus, d.Guard.RequireAdmin)
	api.PATCH("/orders/:id/tracking", d.OrdersHandler.UpdateTracking, d.Guard.RequireAdmin)

	api.GET("/customers", d.CustomersHandler.ListCustomers, d.Guard.RequireAdmin)
	api.GET("/customers/:id", d.CustomersHandler.GetCustomer, d.Guard.RequireAdmin)

	inv := api.Group("/inventory", d.Guard.RequireAdmin)
	inv.GET("/logs", d.InventoryHandler.GetLogs)
	inv.GET("/low-stock", d.InventoryHandler.GetLowStock)
	inv.POST("/update-stock", d.InventoryHandler.UpdateStock)

	api.GET("/analytics/stats", d.AnalyticsHandler.GetStats, d.Guard.RequireAdmin)
}
