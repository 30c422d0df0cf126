package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	adminController "github.com/AaronTech112/Soft-Boy-Crowm/controllers/admin"
	orderControllers "github.com/AaronTech112/Soft-Boy-Crowm/controllers/order"
	productcontroller "github.com/AaronTech112/Soft-Boy-Crowm/controllers/product"
	"github.com/AaronTech112/Soft-Boy-Crowm/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints behind the API key.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(db))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(db))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(db))
			productAdmin.PUT("/:id/stock", adminController.SetStock(db))
			productAdmin.GET("/low-stock", adminController.LowStock(db))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(db))
		}

		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productcontroller.CreateCategory(db))
			categoryAdmin.PUT("/:id", productcontroller.UpdateCategory(db))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(db))
		}

		adminGroup.GET("/orders", orderControllers.GetAllOrdersHandler(db))
	}
}
