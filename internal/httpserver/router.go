package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	SearchHandler  *SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/featured", d.ProductHandler.GetFeatured)
	products.GET("/slug/:slug", d.ProductHandler.GetProductBySlug)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.GET("/:id/reviews", d.ProductHandler.GetReviews)
	products.POST("/:id/reviews", d.ProductHandler.AddReview)

	v1.GET("/categories", d.ProductHandler.GetCategories)
	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}

	admin := v1.Group("/admin")
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.POST("/products/:id/stock", d.ProductHandler.AdjustStock)

	cart := v1.Group("/cart")
	cart.GET("", d.CartHandler.GetCartSummary)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("/:product_id", d.CartHandler.UpdateCartItem)
	cart.DELETE("/:product_id", d.CartHandler.RemoveFromCart)
	cart.DELETE("", d.CartHandler.ClearCart)
	cart.POST("/validate", d.CartHandler.ValidateCart)

	orders := v1.Group("/orders")
	orders.POST("", d.OrderHandler.PlaceOrder)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("/payment/validate", d.OrderHandler.ValidatePayment)
}
