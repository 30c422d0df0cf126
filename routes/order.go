package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AaronTech112/Soft-Boy-Crowm/config"
	checkoutControllers "github.com/AaronTech112/Soft-Boy-Crowm/controllers/checkout"
	orderControllers "github.com/AaronTech112/Soft-Boy-Crowm/controllers/order"
	"github.com/AaronTech112/Soft-Boy-Crowm/middleware"
)

// SetupOrderRoutes registers checkout and order history. All of these
// need a full account; guests convert before paying.
func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	checkout := r.Group("/checkout")
	checkout.Use(middleware.ValidateToken, middleware.RequireUser)
	{
		checkout.GET("/preview", checkoutControllers.PreviewHandler(db, cfg.Shipping))
		checkout.POST("", checkoutControllers.CheckoutHandler(db, cfg.Shipping))
	}

	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken, middleware.RequireUser)
	{
		orders.GET("", orderControllers.GetUserOrdersHandler(db))
		orders.GET("/:txRef", orderControllers.GetOrderHandler(db))
	}

	// live feed of finalized orders
	r.GET("/ws/orders", orderControllers.OrderWebSocketHandler)
}
