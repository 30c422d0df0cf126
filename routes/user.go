package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AaronTech112/Soft-Boy-Crowm/config"
	cartControllers "github.com/AaronTech112/Soft-Boy-Crowm/controllers/cart"
	productControllers "github.com/AaronTech112/Soft-Boy-Crowm/controllers/product"
	userControllers "github.com/AaronTech112/Soft-Boy-Crowm/controllers/user"
	"github.com/AaronTech112/Soft-Boy-Crowm/middleware"
)

// SetupCatalogRoutes registers the public browse endpoints.
func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/products", productControllers.GetProducts(db))
	r.GET("/products/:id", productControllers.GetProductByID(db))
	r.GET("/categories", productControllers.GetCategories(db))
	r.GET("/categories/:id/products", productControllers.GetCategoryProducts(db))
}

// SetupUserRoutes registers the cart and profile endpoints. Cart
// routes accept guest tokens; profile routes need a full account.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.ValidateToken)
	{
		cartGroup.GET("", cartControllers.GetCartHandler(db, cfg.Shipping))
		cartGroup.POST("", cartControllers.AddItemHandler(db))
		cartGroup.GET("/count", cartControllers.CountHandler(db))
		cartGroup.PUT("/items/:itemID", cartControllers.UpdateItemHandler(db, cfg.Shipping))
		cartGroup.DELETE("/items/:itemID", cartControllers.RemoveItemHandler(db, cfg.Shipping))
	}

	meGroup := r.Group("/me")
	meGroup.Use(middleware.ValidateToken, middleware.RequireUser)
	{
		meGroup.GET("", userControllers.GetProfile(db))
		meGroup.PUT("/address", userControllers.SaveAddress(db, cfg.Shipping))
	}
}
