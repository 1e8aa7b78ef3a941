package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/furniture_shop/internal/middleware/auth"
	"github.com/Skotchmaster/furniture_shop/internal/models"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	CardHandler    *CardHTTP
	Gate           *auth.Gate
	// Ready reports whether the store answers; nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	if e.Validator == nil {
		e.Validator = NewValidator()
	}

	live := func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
	e.GET("/", live)
	e.GET("/health/live", live)
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := d.Ready(ctx); err != nil {
				loggerFor(c, "health.ready").Warn("not_ready", "error", err)
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})

	api := e.Group("/api")
	requireAuth := d.Gate.RequireAuth

	users := api.Group("/users")
	users.POST("/register", d.AuthHandler.Register)
	users.POST("/login", d.AuthHandler.Login)
	users.POST("/logout", d.AuthHandler.Logout, requireAuth)
	users.GET("/me", d.AuthHandler.Me, requireAuth)

	products := api.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)

	admin := products.Group("", requireAuth, auth.RequireRole(models.RoleAdmin))
	admin.POST("", d.CatalogHandler.CreateProduct)
	admin.PATCH("/:id", d.CatalogHandler.PatchProduct)
	admin.DELETE("/:id", d.CatalogHandler.DeleteProduct)

	cart := api.Group("/cart", requireAuth)
	cart.POST("", d.CartHandler.AddToCart)
	cart.GET("", d.CartHandler.GetCart)
	cart.DELETE("", d.CartHandler.ClearCart)
	cart.PUT("/:id", d.CartHandler.UpdateCartItem)
	cart.DELETE("/:id", d.CartHandler.RemoveCartItem)

	orders := api.Group("/orders", requireAuth)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.POST("/checkout", d.OrderHandler.Checkout)
	orders.GET("/:id", d.OrderHandler.GetOrder)

	cards := api.Group("/creditcards")
	cards.POST("/store", d.CardHandler.StoreCard)
	cards.GET("/:userId", d.CardHandler.GetCard)
}
